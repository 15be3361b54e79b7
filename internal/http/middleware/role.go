package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireSecurityLevel only lets through identities at or above min.
// RequireAuth must run first.
//
//	r.GET("/bookings", RequireAuth(tokens), RequireSecurityLevel(domain.AdminSecurityLevel), handler)
func RequireSecurityLevel(min int) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "unauthenticated", "unauthenticated")
			return
		}
		if id.SecurityLevel < min {
			abort(c, http.StatusForbidden, "forbidden", "insufficient security level")
			return
		}
		c.Next()
	}
}
