package handlers

import (
	"errors"
	"net/http"

	"buspass/internal/services"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login; email may also hold a username.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req, "error") {
		return
	}
	svc, err := h.auth(c)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	token, user, err := svc.Login(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		respondError(c, http.StatusUnauthorized, "error", "invalid_credentials", "Invalid email/username or password")
		return
	}
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "user": user})
}
