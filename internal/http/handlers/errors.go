package handlers

import (
	"errors"
	"net/http"

	"buspass/internal/domain"
	"buspass/internal/http/middleware"
	"buspass/internal/utils"

	"github.com/gin-gonic/gin"
)

// respondError writes the {success:false} envelope. key is "error" or "msg" depending on
// what the endpoint's clients read.
func respondError(c *gin.Context, status int, key, code, message string) {
	payload := gin.H{
		"success":    false,
		key:          message,
		"request_id": middleware.GetRequestID(c),
	}
	if code != "" {
		payload["code"] = code
	}
	c.JSON(status, payload)
}

// RespondDomainError maps domain errors to HTTP responses using the "error" key.
func RespondDomainError(c *gin.Context, err error) {
	respondDomainError(c, err, "error")
}

func respondDomainError(c *gin.Context, err error, key string) {
	status, code, msg := classify(err)
	if status >= http.StatusInternalServerError {
		utils.LogEvent(middleware.GetRequestID(c), "http", code, "path", c.Request.URL.Path, "err", err)
	}
	respondError(c, status, key, code, msg)
}

func classify(err error) (int, string, string) {
	var (
		ve domain.ValidationError
		ie domain.InternalError
	)
	switch {
	case errors.As(err, &ve):
		code := ve.Code
		if code == "" {
			code = "validation_error"
		}
		return http.StatusBadRequest, code, ve.Error()
	case domain.IsNotFound(err):
		return http.StatusNotFound, "not_found", err.Error()
	case domain.IsConflict(err):
		return http.StatusConflict, "conflict", err.Error()
	case domain.IsUnavailable(err):
		return http.StatusServiceUnavailable, "unavailable", err.Error()
	case errors.As(err, &ie):
		code := ie.Code
		if code == "" {
			code = "internal_error"
		}
		return http.StatusInternalServerError, code, ie.Error()
	default:
		return http.StatusInternalServerError, "internal_error", "internal error"
	}
}
