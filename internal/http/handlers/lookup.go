package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// VerifyPhone handles GET /verify/:phone. An unknown phone is a normal outcome: 200 with
// success=false.
func (h *Handler) VerifyPhone(c *gin.Context) {
	svc, err := h.lookups(c)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	id, found, err := svc.VerifyByPhone(c.Request.Context(), c.Param("phone"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusOK, gin.H{"success": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": id})
}

// GetApplicant handles GET /applicant/:id.
func (h *Handler) GetApplicant(c *gin.Context) {
	svc, err := h.lookups(c)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	a, found, err := svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"success": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "applicant": a})
}

// GetApplicantByPassID handles GET /getApplicant/:passId and answers with the bare record.
func (h *Handler) GetApplicantByPassID(c *gin.Context) {
	h.respondByPassID(c, c.Param("passId"))
}

func (h *Handler) respondByPassID(c *gin.Context, passID string) {
	svc, err := h.lookups(c)
	if err != nil {
		respondDomainError(c, err, "msg")
		return
	}
	a, found, err := svc.GetByPassID(c.Request.Context(), passID)
	if err != nil {
		respondDomainError(c, err, "msg")
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "msg": "Applicant not found"})
		return
	}
	c.JSON(http.StatusOK, a)
}
