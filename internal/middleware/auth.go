package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "apexfund/internal/errors"
	"apexfund/internal/services"
)

// Context keys set by Authenticate.
const (
	EmailKey  = "email"
	ClaimsKey = "claims"
)

// TokenParser verifies session tokens.
type TokenParser interface {
	ParseToken(token string) (*services.SessionClaims, error)
}

// Authenticate verifies the bearer session token and stores its claims in the
// context. Requests without a valid token are rejected with 401.
func Authenticate(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Authorization header is required"))
			return
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			abortWithError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid authorization header format"))
			return
		}

		claims, err := parser.ParseToken(token)
		if err != nil {
			abortWithError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid or expired token"))
			return
		}

		c.Set(EmailKey, claims.Email)
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// SessionClaims returns the claims stored by Authenticate, if any.
func SessionClaims(c *gin.Context) (*services.SessionClaims, bool) {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*services.SessionClaims)
	return claims, ok
}
