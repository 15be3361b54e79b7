package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /api/users/me
func (h Handler) Me(c *gin.Context) {
	h.profile(c, 0)
}

// GET /api/users/:id
func (h Handler) UserByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	h.profile(c, id)
}

func (h Handler) profile(c *gin.Context, userID int64) {
	caller, ok := callerIdentity(c)
	if !ok {
		return
	}
	p, err := h.profileService().Profile(c.Request.Context(), caller, userID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
