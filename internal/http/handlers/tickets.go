package handlers

import (
	"net/http"

	"buspass/internal/domain"
	"buspass/internal/domain/models"

	"github.com/gin-gonic/gin"
)

type bookTicketRequest struct {
	ApplicantID Stringish `json:"applicantId"`
	Source      Stringish `json:"source"`
	Destination Stringish `json:"destination"`
	PaymentType Stringish `json:"paymentType"`
	Amount      Stringish `json:"amount"`
}

// BookTicket handles POST /bookTicket. Client mistakes answer {success:false,msg}, server
// failures {success:false,error}.
func (h *Handler) BookTicket(c *gin.Context) {
	var req bookTicketRequest
	if !BindJSONOrError(c, &req, "msg") {
		return
	}

	svc, err := h.tickets(c)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	t, err := svc.Book(c.Request.Context(), models.TicketInput{
		ApplicantID: req.ApplicantID.String(),
		Source:      req.Source.String(),
		Destination: req.Destination.String(),
		PaymentType: req.PaymentType.String(),
		Amount:      req.Amount.String(),
	})
	if err != nil {
		if domain.IsValidation(err) || domain.IsNotFound(err) {
			respondDomainError(c, err, "msg")
			return
		}
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "ticket": t})
}

// TicketReceipt handles GET /ticket/:id/receipt.pdf.
func (h *Handler) TicketReceipt(c *gin.Context) {
	svc, err := h.passCards(c)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	body, filename, err := svc.Receipt(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	sendPDF(c, body, filename)
}
