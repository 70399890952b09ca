package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/attendease/attendease-api/internal/models"
	"github.com/attendease/attendease-api/internal/service"
	"github.com/attendease/attendease-api/pkg/response"
)

// DashboardHandler exposes the dashboard aggregates endpoint.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler constructs DashboardHandler.
func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Stats computes the role-specific dashboard aggregate for one user.
func (h *DashboardHandler) Stats(c *gin.Context) {
	userID := c.Query("userId")
	role := models.Role(c.Query("role"))

	stats, cached, err := h.dashboard.Stats(c.Request.Context(), userID, role)
	if err != nil {
		response.Error(c, err)
		return
	}

	var meta map[string]interface{}
	if cached {
		meta = map[string]interface{}{"cached": true}
	}
	response.JSON(c, http.StatusOK, stats, meta)
}
