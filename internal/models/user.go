package models

import "time"

type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

type User struct {
	BaseModel
	Username     string   `gorm:"uniqueIndex;not null"`
	Email        string   `gorm:"uniqueIndex;not null"`
	PasswordHash string   `gorm:"not null"`
	Role         UserRole `gorm:"type:varchar(20);not null;default:'user'"`

	// Время последней успешной синхронизации HealthConnect.
	// Обновляется сервисом health data после успешной записи батча.
	LastSyncSuccess *time.Time

	// Инвайт, по которому пользователь зарегистрировался.
	// NULL для засеянного админа.
	InviteID *string `gorm:"type:uuid"`
	Invite   *Invite `gorm:"foreignKey:InviteID"`

	// Relations
	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID"`
}

// RefreshToken хранит только хеш токена. Сырое значение токена
// никогда не попадает в БД - клиент получает его один раз при выдаче.
type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"type:uuid;not null;index"`
	TokenHash string    `gorm:"not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
}
