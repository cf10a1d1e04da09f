package repositories

import (
	"errors"

	"diabits_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrInviteNotFound      = errors.New("invite not found")
	ErrInviteAlreadyExists = errors.New("invite already exists")
)

type InviteRepository interface {
	Create(invite *models.Invite) error
	FindByID(id string) (*models.Invite, error)
	FindUnusedByCode(code string) (*models.Invite, error)
	ExistsByEmail(email string) (bool, error)
	UpdateTx(tx *gorm.DB, invite *models.Invite) error
	FindAll() ([]models.Invite, error)
}

type InviteRepositoryImpl struct {
	db *gorm.DB
}

func NewInviteRepository(db *gorm.DB) InviteRepository {
	return &InviteRepositoryImpl{db: db}
}

func (r *InviteRepositoryImpl) Create(invite *models.Invite) error {
	var existing models.Invite
	if err := r.db.Where("email = ?", invite.Email).First(&existing).Error; err == nil {
		return ErrInviteAlreadyExists
	}
	return r.db.Create(invite).Error
}

func (r *InviteRepositoryImpl) FindByID(id string) (*models.Invite, error) {
	var invite models.Invite
	err := r.db.First(&invite, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, err
	}
	return &invite, nil
}

// FindUnusedByCode ищет инвайт по коду среди неиспользованных.
// Использованный инвайт неотличим от несуществующего.
func (r *InviteRepositoryImpl) FindUnusedByCode(code string) (*models.Invite, error) {
	var invite models.Invite
	err := r.db.Where("code = ? AND used_at IS NULL", code).First(&invite).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, err
	}
	return &invite, nil
}

func (r *InviteRepositoryImpl) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Invite{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *InviteRepositoryImpl) UpdateTx(tx *gorm.DB, invite *models.Invite) error {
	result := tx.Model(invite).Updates(map[string]interface{}{
		"used_at":    invite.UsedAt,
		"used_by_id": invite.UsedByID,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInviteNotFound
	}
	return nil
}

func (r *InviteRepositoryImpl) FindAll() ([]models.Invite, error) {
	var invites []models.Invite
	err := r.db.Preload("UsedBy").Order("created_at DESC").Find(&invites).Error
	return invites, err
}
