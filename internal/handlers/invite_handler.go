package handlers

import (
	"net/http"

	"diabits_backend/internal/middleware"
	"diabits_backend/internal/services"
	"diabits_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type InviteHandler struct {
	*BaseHandler
	inviteService services.InviteService
}

func NewInviteHandler(base *BaseHandler, inviteService services.InviteService) *InviteHandler {
	return &InviteHandler{
		BaseHandler:   base,
		inviteService: inviteService,
	}
}

// RegisterRoutes регистрирует админские маршруты инвайтов
func (h *InviteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invites := rg.Group("/invites")
	invites.Use(middleware.AuthMiddleware())
	invites.Use(middleware.AdminMiddleware())
	{
		invites.GET("", h.GetAll)
		invites.POST("", h.Create)
	}
}

func (h *InviteHandler) GetAll(c *gin.Context) {
	response, err := h.inviteService.GetAll()
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *InviteHandler) Create(c *gin.Context) {
	var req dto.CreateInviteRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.inviteService.Create(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}
