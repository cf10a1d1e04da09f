package models

import (
	"errors"
	"time"
)

// ErrInviteAlreadyUsed - повторная попытка пометить инвайт использованным.
// Это нарушение контракта (ошибка логики), а не бизнес-ветка.
var ErrInviteAlreadyUsed = errors.New("invite has already been used")

// Invite - одноразовое приглашение, привязанное к email.
// Создается админом, используется ровно один раз при регистрации.
type Invite struct {
	BaseModel
	Email string `gorm:"uniqueIndex;not null"`
	Code  string `gorm:"uniqueIndex;not null"`

	// UsedAt заполняется ровно один раз через MarkUsed.
	// Менять поле напрямую нельзя.
	UsedAt   *time.Time
	UsedByID *string `gorm:"type:uuid"`
	UsedBy   *User   `gorm:"foreignKey:UsedByID"`
}

// MarkUsed переводит инвайт в состояние "использован".
// Переход разрешен ровно один раз; повторный вызов возвращает ошибку.
func (i *Invite) MarkUsed(userID string, usedAt time.Time) error {
	if i.UsedAt != nil {
		return ErrInviteAlreadyUsed
	}
	i.UsedAt = &usedAt
	i.UsedByID = &userID
	return nil
}

// IsUsed сообщает, был ли инвайт уже использован.
func (i *Invite) IsUsed() bool {
	return i.UsedAt != nil
}
