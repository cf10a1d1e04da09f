package handlers

import (
	"net/http"

	"diabits_backend/internal/middleware"
	"diabits_backend/internal/services"
	"diabits_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type HealthDataHandler struct {
	*BaseHandler
	healthDataService services.HealthDataService
}

func NewHealthDataHandler(base *BaseHandler, healthDataService services.HealthDataService) *HealthDataHandler {
	return &HealthDataHandler{
		BaseHandler:       base,
		healthDataService: healthDataService,
	}
}

// RegisterRoutes регистрирует маршруты синхронизации и ручного ввода
func (h *HealthDataHandler) RegisterRoutes(rg *gin.RouterGroup) {
	data := rg.Group("/healthData")
	data.Use(middleware.AuthMiddleware())
	{
		data.POST("/healthConnect", h.SyncHealthConnect)
		data.GET("", h.GetForPeriod)
		data.GET("/manual", h.GetManualInputForDay)
		data.POST("/manual/batch", h.AddManualInput)
		data.PUT("/manual/batch", h.BatchUpdateManualInput)
		data.DELETE("/manual/batch", h.BatchDeleteManualInput)
	}
}

func (h *HealthDataHandler) SyncHealthConnect(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.HealthConnectRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.healthDataService.SyncHealthConnect(userID, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Sync successful"})
}

func (h *HealthDataHandler) GetForPeriod(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	from, err := ParseQueryDate(c, "from")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	to, err := ParseQueryDate(c, "to")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	response, err := h.healthDataService.GetHealthDataForPeriod(userID, from, to)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *HealthDataHandler) GetManualInputForDay(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	date, err := ParseQueryDate(c, "date")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	response, err := h.healthDataService.GetManualInputForDay(userID, date)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *HealthDataHandler) AddManualInput(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ManualInputRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.healthDataService.AddManualInput(userID, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Manual data added"})
}

func (h *HealthDataHandler) BatchUpdateManualInput(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ManualInputRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	updated, err := h.healthDataService.BatchUpdateManualInput(userID, req.Items)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Manual inputs updated", "updatedCount": updated})
}

func (h *HealthDataHandler) BatchDeleteManualInput(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.BatchDeleteManualInputRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	deleted, err := h.healthDataService.BatchDeleteManualInput(userID, req.IDs)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Manual inputs deleted", "deletedCount": deleted})
}
