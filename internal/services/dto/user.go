package dto

import "time"

// UserResponse - профиль пользователя
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// LastSyncRequest - клиент сам сообщает время успешной синхронизации
type LastSyncRequest struct {
	SyncTime time.Time `json:"syncTime" binding:"required"`
}

// LastSyncResponse - время последней успешной синхронизации
type LastSyncResponse struct {
	LastSyncAt *time.Time `json:"lastSyncAt"`
}
