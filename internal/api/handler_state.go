package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dynamic-island/internal/island"
)

// GetState handles GET /api/state.
func (h *Handler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.Island.Latest())
}

// Dismiss handles POST /api/island/dismiss.
func (h *Handler) Dismiss(c *gin.Context) {
	if err := h.Island.Submit(c.Request.Context(), island.DismissSignal{}); err != nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "island is busy"})
		return
	}
	c.Status(http.StatusAccepted)
}
