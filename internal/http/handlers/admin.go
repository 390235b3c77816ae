package handlers

import (
	"net/http"
	"strconv"

	"buspass/internal/domain"

	"github.com/gin-gonic/gin"
)

// ListApplicants handles GET /api/admin/applicants?page=&pageSize=.
func (h *Handler) ListApplicants(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.DefaultQuery("pageSize", c.Query("page_size")))

	svc, err := h.lookups(c)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	items, p, err := svc.List(c.Request.Context(), domain.Pagination{Page: page, PageSize: size})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": items, "pagination": p})
}

// ListApplicantTickets handles GET /api/admin/applicants/:id/tickets.
func (h *Handler) ListApplicantTickets(c *gin.Context) {
	svc, err := h.tickets(c)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	items, err := svc.ListByApplicant(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": items})
}
