package handler

import (
	"net/http"

	"idportal/internal/middleware"
	"idportal/internal/model"
	"idportal/internal/service"
	"idportal/pkg/response"

	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct {
	statisticsService service.StatisticsService
}

func NewStatisticsHandler(statisticsService service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService}
}

func (h *StatisticsHandler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	statsGroup := admin.Group("/statistics")
	{
		statsGroup.GET("", h.GetStatistics)
		statsGroup.POST("/recount", middleware.RequireRole(model.RoleSuperAdmin, model.RoleAdmin), h.Recount)
	}
}

// @Summary      Get Dashboard Statistics
// @Description  Employee counts per workflow status from the summary document
// @Tags         Statistics
// @Produce      json
// @Success      200 {object} response.Response{data=service.StatisticsResponse}
// @Failure      401 {object} response.Response "Unauthorized"
// @Failure      500 {object} response.Response "Internal server error"
// @Security     BearerAuth
// @Router       /admin/statistics [get]
func (h *StatisticsHandler) GetStatistics(c *gin.Context) {
	stats, err := h.statisticsService.GetStatistics(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}

func (h *StatisticsHandler) Recount(c *gin.Context) {
	stats, err := h.statisticsService.Recount(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}
