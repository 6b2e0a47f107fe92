package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tutorbook/tutorbook/internal/logger"
	"github.com/tutorbook/tutorbook/internal/service"
)

type DashboardHandler struct {
	service service.DashboardService
	logger  *logger.Logger
}

func NewDashboardHandler(service service.DashboardService, logger *logger.Logger) *DashboardHandler {
	return &DashboardHandler{service: service, logger: logger}
}

// @Summary Monthly statistics
// @Description Revenue, students, lessons and open invoices of the current month (UTC)
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.DashboardStatsResponse
// @Router /dashboard/stats [get]
func (h *DashboardHandler) GetStats(c *gin.Context) {
	resp, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		h.logger.Errorw("failed to compute dashboard stats", "error", err)
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
