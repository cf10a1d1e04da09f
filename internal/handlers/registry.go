package handlers

import (
	"diabits_backend/internal/services"
	"diabits_backend/internal/validator"
)

// AppHandlers - все HTTP-обработчики приложения
type AppHandlers struct {
	AuthHandler       *AuthHandler
	UserHandler       *UserHandler
	HealthDataHandler *HealthDataHandler
	DashboardHandler  *DashboardHandler
	InviteHandler     *InviteHandler
}

func NewAppHandlers(container *services.ServiceContainer, v *validator.Validator) *AppHandlers {
	base := NewBaseHandler(v)

	return &AppHandlers{
		AuthHandler:       NewAuthHandler(base, container.Auth),
		UserHandler:       NewUserHandler(base, container.User, container.Auth),
		HealthDataHandler: NewHealthDataHandler(base, container.HealthData),
		DashboardHandler:  NewDashboardHandler(base, container.Timeline, container.Glucose, container.Dashboard),
		InviteHandler:     NewInviteHandler(base, container.Invite),
	}
}
