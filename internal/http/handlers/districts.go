package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /api/districts
func (h Handler) ListDistricts(c *gin.Context) {
	list, err := h.districtService(c).ListDistricts(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

// GET /api/districts/:id
func (h Handler) DistrictDetails(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	d, err := h.districtService(c).DistrictDetails(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}
