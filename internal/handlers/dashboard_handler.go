package handlers

import (
	"net/http"

	"diabits_backend/internal/middleware"
	"diabits_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	*BaseHandler
	timelineService  services.TimelineService
	glucoseService   services.GlucoseDashboardService
	dashboardService services.DashboardService
}

func NewDashboardHandler(
	base *BaseHandler,
	timelineService services.TimelineService,
	glucoseService services.GlucoseDashboardService,
	dashboardService services.DashboardService,
) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler:      base,
		timelineService:  timelineService,
		glucoseService:   glucoseService,
		dashboardService: dashboardService,
	}
}

// RegisterRoutes регистрирует маршруты дашбордов
func (h *DashboardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	dashboard := rg.Group("/dashboard")
	dashboard.Use(middleware.AuthMiddleware())
	{
		dashboard.GET("/timeline", h.GetTimeline)
		dashboard.GET("/glucose/daily", h.GetDailyGlucose)
		dashboard.GET("/overview", h.GetOverview)
	}
}

func (h *DashboardHandler) GetTimeline(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	date, err := ParseQueryDate(c, "date")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	response, err := h.timelineService.GetTimeline(userID, date)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *DashboardHandler) GetDailyGlucose(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	date, err := ParseQueryDate(c, "date")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	response, err := h.glucoseService.GetDailyGlucose(userID, date)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *DashboardHandler) GetOverview(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	date, err := ParseQueryDate(c, "date")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	response, err := h.dashboardService.GetOverview(userID, date)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
