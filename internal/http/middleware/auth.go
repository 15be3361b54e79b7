package middleware

import (
	"net/http"
	"strings"

	"nightcity/internal/domain"

	"github.com/gin-gonic/gin"
)

const (
	identityKey = "identity"

	// TokenCookie carries the session token for browser clients.
	TokenCookie = "JwtToken"
)

type TokenVerifier interface {
	Verify(raw string) (domain.Identity, error)
}

// RequireAuth accepts a Bearer token or the session cookie and stores the
// verified identity on the context.
func RequireAuth(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := tokens.Verify(tokenFromRequest(c))
		if err != nil {
			abort(c, http.StatusUnauthorized, "unauthenticated", err.Error())
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

// IdentityFrom returns the identity stored by RequireAuth.
func IdentityFrom(c *gin.Context) (domain.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return domain.Identity{}, false
	}
	id, ok := v.(domain.Identity)
	return id, ok
}

func tokenFromRequest(c *gin.Context) string {
	if h := strings.TrimSpace(c.GetHeader("Authorization")); h != "" {
		if scheme, token, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	if v, err := c.Cookie(TokenCookie); err == nil {
		return strings.TrimSpace(v)
	}
	return ""
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":      message,
		"code":       code,
		"request_id": GetRequestID(c),
		"message":    message,
	})
}
