package dto

import "time"

// RegisterRequest - запрос регистрации по инвайту
type RegisterRequest struct {
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required,min=8"`
	Email      string `json:"email" binding:"required,email"`
	InviteCode string `json:"inviteCode" binding:"required"`
}

// LoginRequest - запрос входа
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest - запрос обновления access-токена
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// LogoutRequest - запрос выхода
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// UpdateAccountRequest - смена имени пользователя и/или пароля.
// Текущий пароль обязателен для любой из операций.
type UpdateAccountRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewUsername     string `json:"newUsername,omitempty"`
	NewPassword     string `json:"newPassword,omitempty"`
}

// AuthResponse - ответ с парой токенов
type AuthResponse struct {
	AccessToken  string    `json:"accessToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
	RefreshToken string    `json:"refreshToken"`
}
