package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetDashboard handles GET /api/dashboard?period=month|quarter|year.
func (h *Handler) GetDashboard(c *gin.Context) {
	period := c.DefaultQuery("period", "month")
	stats, err := h.store.Dashboard(c.Request.Context(), period)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
