package handler

import (
	"github.com/gin-gonic/gin"

	"w9ayt_delivery_server/internal/infrastructure/middleware"
	"w9ayt_delivery_server/internal/service"
)

// StatisticsHandler serves the dashboard aggregation endpoints.
type StatisticsHandler struct {
	statistics service.StatisticsService
}

func NewStatisticsHandler(statistics service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statistics: statistics}
}

// Company handles GET /api/company/statistics.
func (h *StatisticsHandler) Company(c *gin.Context) {
	rsp, err := h.statistics.CompanyStatistics(uint(middleware.UserID(c)))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// Performance handles GET /api/company/statistics/performance.
func (h *StatisticsHandler) Performance(c *gin.Context) {
	rsp, err := h.statistics.Performance(uint(middleware.UserID(c)))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// Admin handles GET /api/admin/statistics.
func (h *StatisticsHandler) Admin(c *gin.Context) {
	rsp, err := h.statistics.AdminStatistics()
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}
