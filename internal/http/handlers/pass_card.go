package handlers

import "github.com/gin-gonic/gin"

// PassCard handles GET /applicant/:id/pass.pdf.
func (h *Handler) PassCard(c *gin.Context) {
	svc, err := h.passCards(c)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	body, filename, err := svc.Render(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	sendPDF(c, body, filename)
}
