package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "apexfund/internal/errors"
)

// APIKey creates a Gin middleware that validates the X-API-Key header against
// the configured key. It guards hooks called by external schedulers.
func APIKey(apiKey string) gin.HandlerFunc {
	notConfigured := &apperrors.AppError{
		Code:       "HOOK_NOT_CONFIGURED",
		Message:    "Hook endpoints are not configured",
		StatusCode: http.StatusServiceUnavailable,
	}
	invalid := &apperrors.AppError{
		Code:       "INVALID_API_KEY",
		Message:    "Invalid or missing API key",
		StatusCode: http.StatusUnauthorized,
	}

	return func(c *gin.Context) {
		if apiKey == "" {
			abortWithError(c, notConfigured)
			return
		}
		key := c.GetHeader("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
			abortWithError(c, invalid)
			return
		}
		c.Next()
	}
}
