package handlers

import (
	"net/http"

	"diabits_backend/internal/middleware"
	"diabits_backend/internal/services"
	"diabits_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	*BaseHandler
	userService services.UserService
	authService services.AuthService
}

func NewUserHandler(base *BaseHandler, userService services.UserService, authService services.AuthService) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		userService: userService,
		authService: authService,
	}
}

// RegisterRoutes регистрирует маршруты профиля пользователя
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	user := rg.Group("/user")
	user.Use(middleware.AuthMiddleware())
	{
		user.GET("/me", h.GetProfile)
		user.GET("/lastSync", h.GetLastSync)
		user.PUT("/lastSync", h.UpdateLastSync)
		user.PUT("/updateAccount", h.UpdateAccount)
	}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	response, err := h.userService.GetProfile(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetLastSync - время последней синхронизации.
// Пользователь, который еще ни разу не синкался, получает 404.
func (h *UserHandler) GetLastSync(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	response, err := h.userService.GetLastSync(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	if response.LastSyncAt == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No sync recorded"})
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *UserHandler) UpdateLastSync(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.LastSyncRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.userService.UpdateLastSync(userID, req.SyncTime); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Last sync time updated"})
}

func (h *UserHandler) UpdateAccount(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateAccountRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.authService.UpdateAccount(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
