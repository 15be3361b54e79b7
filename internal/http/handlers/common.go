package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"nightcity/internal/domain"
	"nightcity/internal/http/middleware"
	"nightcity/internal/utils"

	"github.com/gin-gonic/gin"
)

// RespondError sends standard error payload with request_id included.
// Keeps backward compatibility by always providing "message".
func RespondError(c *gin.Context, status int, message string, err error) {
	payload := gin.H{
		"message":    message,
		"request_id": middleware.GetRequestID(c),
	}
	if err != nil {
		payload["error"] = err.Error()
	}
	c.JSON(status, payload)
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		respondError(c, http.StatusBadRequest, "invalid_payload", "request body is empty", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_payload", "invalid payload", err.Error())
		return false
	}
	return true
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid_id", "invalid "+name, gin.H{"field": name})
		return 0, false
	}
	return id, true
}

// parseDateField reads a YYYY-MM-DD value as a UTC date.
func parseDateField(c *gin.Context, field, value string) (time.Time, bool) {
	t, err := utils.ParseDate(value)
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", field+" must be YYYY-MM-DD", gin.H{"field": field})
		return time.Time{}, false
	}
	return t, true
}

// callerIdentity returns the identity set by RequireAuth.
func callerIdentity(c *gin.Context) (domain.Identity, bool) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		RespondDomainError(c, domain.UnauthenticatedError{})
		return domain.Identity{}, false
	}
	return id, true
}
