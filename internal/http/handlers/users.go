package handlers

import (
	"net/http"

	"buspass/internal/http/middleware"
	"buspass/internal/services"
	"buspass/internal/utils"

	"github.com/gin-gonic/gin"
)

type createUserRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// CreateUser handles POST /api/admin/users (admin only).
func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if !BindJSONOrError(c, &req, "error") {
		return
	}
	svc, err := h.auth(c)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	u, err := svc.CreateStaff(c.Request.Context(), services.StaffInput{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "admin", "create_user", "by", middleware.GetUserID(c), "user_id", u.ID)
	c.JSON(http.StatusCreated, gin.H{"success": true, "user": u})
}
