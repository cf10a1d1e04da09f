package dto

import "time"

// CreateInviteRequest - создание инвайта администратором
type CreateInviteRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// InviteResponse - инвайт в ответах админских ручек
type InviteResponse struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Code      string     `json:"code"`
	CreatedAt time.Time  `json:"createdAt"`
	UsedAt    *time.Time `json:"usedAt"`
	UsedBy    string     `json:"usedBy,omitempty"`
}
