package handler

import (
	"errors"
	"net/http"

	"dukani/internal/middleware"
	"dukani/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardSvc *service.DashboardService
}

func NewDashboardHandler(dashboardSvc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc}
}

// Get returns the composed engagement summary for the current user.
func (h *DashboardHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	summary, err := h.dashboardSvc.Summary(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "dashboard error"})
		return
	}
	c.JSON(http.StatusOK, summary)
}
