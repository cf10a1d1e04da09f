package services

import (
	"diabits_backend/internal/models"
	"diabits_backend/internal/repositories"
	"diabits_backend/internal/services/dto"
	"diabits_backend/pkg/apperrors"

	"github.com/google/uuid"
)

type InviteService interface {
	Create(req *dto.CreateInviteRequest) (*dto.InviteResponse, error)
	GetAll() ([]dto.InviteResponse, error)
}

type InviteServiceImpl struct {
	inviteRepo repositories.InviteRepository
}

func NewInviteService(inviteRepo repositories.InviteRepository) InviteService {
	return &InviteServiceImpl{inviteRepo: inviteRepo}
}

// Create - выписать инвайт. На один email не больше одного инвайта.
func (s *InviteServiceImpl) Create(req *dto.CreateInviteRequest) (*dto.InviteResponse, error) {
	exists, err := s.inviteRepo.ExistsByEmail(req.Email)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if exists {
		return nil, apperrors.ErrInviteExists
	}

	invite := &models.Invite{
		Email: req.Email,
		Code:  uuid.NewString(),
	}
	if err := s.inviteRepo.Create(invite); err != nil {
		if apperrors.Is(err, repositories.ErrInviteAlreadyExists) {
			return nil, apperrors.ErrInviteExists
		}
		return nil, apperrors.InternalError(err)
	}

	resp := inviteToDTO(invite)
	return &resp, nil
}

func (s *InviteServiceImpl) GetAll() ([]dto.InviteResponse, error) {
	invites, err := s.inviteRepo.FindAll()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	result := make([]dto.InviteResponse, 0, len(invites))
	for i := range invites {
		result = append(result, inviteToDTO(&invites[i]))
	}
	return result, nil
}

func inviteToDTO(invite *models.Invite) dto.InviteResponse {
	resp := dto.InviteResponse{
		ID:        invite.ID,
		Email:     invite.Email,
		Code:      invite.Code,
		CreatedAt: invite.CreatedAt,
		UsedAt:    invite.UsedAt,
	}
	if invite.UsedBy != nil {
		resp.UsedBy = invite.UsedBy.Username
	}
	return resp
}
