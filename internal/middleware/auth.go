package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/spesasmart/pricing/internal/auth"
)

// PrincipalKey is the gin context key holding the auth.Principal.
const PrincipalKey = "principal"

// TokenVerifier validates a raw bearer token.
type TokenVerifier interface {
	Verify(token string) (auth.Principal, error)
}

// RequireAuth rejects requests without a valid "Authorization: Bearer" token
// and exposes the caller both on the gin context and on the request context.
func RequireAuth(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			AbortWithError(c, http.StatusUnauthorized, "authorization header is required", nil)
			return
		}
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			AbortWithError(c, http.StatusUnauthorized, "invalid authorization header format, use: Bearer <token>", nil)
			return
		}

		p, err := v.Verify(strings.TrimSpace(token))
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				msg = "token has expired"
			}
			AbortWithError(c, http.StatusUnauthorized, msg, nil)
			return
		}

		c.Set(PrincipalKey, p)
		c.Request = c.Request.WithContext(auth.WithPrincipal(c.Request.Context(), p))
		c.Next()
	}
}
