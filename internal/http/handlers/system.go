package handlers

import (
	"context"
	"net/http"
	"time"

	intconfig "nightcity/internal/config"
	intdb "nightcity/internal/db"

	"github.com/gin-gonic/gin"
)

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "nightcity backend is running"})
}

// DBCheck pings the database and reports missing tables.
func (h Handler) DBCheck(c *gin.Context) {
	if err := intconfig.EnsureDB(c.Request.Context(), h.DB); err != nil {
		RespondError(c, http.StatusServiceUnavailable, "database unreachable", err)
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	missing := intdb.MissingTables(ctx, h.DB)
	if len(missing) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "schema incomplete", "missing_tables": missing})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "database OK"})
}
