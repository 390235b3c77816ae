package middleware

import (
	"net/http"

	"buspass/internal/config"

	"github.com/gin-gonic/gin"
)

// RequireStore rejects requests with 503 until the database is ready.
func RequireStore(store *config.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil || !store.Ready() {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"success":    false,
				"error":      "Database not connected",
				"request_id": GetRequestID(c),
			})
			return
		}
		c.Next()
	}
}
