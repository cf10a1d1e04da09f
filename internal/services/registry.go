package services

import (
	"diabits_backend/internal/repositories"

	"gorm.io/gorm"
)

// ServiceContainer - все сервисы приложения, собранные один раз на старте
type ServiceContainer struct {
	Auth       AuthService
	User       UserService
	Invite     InviteService
	HealthData HealthDataService
	Timeline   TimelineService
	Glucose    GlucoseDashboardService
	Dashboard  DashboardService
}

func NewServiceContainer(db *gorm.DB) *ServiceContainer {
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	inviteRepo := repositories.NewInviteRepository(db)
	healthRepo := repositories.NewHealthDataRepository(db)

	return &ServiceContainer{
		Auth:       NewAuthService(db, userRepo, refreshTokenRepo, inviteRepo),
		User:       NewUserService(userRepo),
		Invite:     NewInviteService(inviteRepo),
		HealthData: NewHealthDataService(healthRepo),
		Timeline:   NewTimelineService(healthRepo),
		Glucose:    NewGlucoseDashboardService(healthRepo),
		Dashboard:  NewDashboardService(healthRepo),
	}
}
