package services

import (
	"time"

	"diabits_backend/internal/auth"
	"diabits_backend/internal/config"
	"diabits_backend/internal/logger"
	"diabits_backend/internal/models"
	"diabits_backend/internal/repositories"
	"diabits_backend/internal/services/dto"
	"diabits_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AuthService interface {
	Login(req *dto.LoginRequest) (*dto.AuthResponse, error)
	Register(req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Logout(refreshToken string) error
	RefreshAccessToken(refreshToken string) (*dto.AuthResponse, error)
	UpdateAccount(userID string, req *dto.UpdateAccountRequest) (*dto.AuthResponse, error)
}

type AuthServiceImpl struct {
	db               repositories.TxRunner
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	inviteRepo       repositories.InviteRepository
}

func NewAuthService(
	db repositories.TxRunner,
	userRepo repositories.UserRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	inviteRepo repositories.InviteRepository,
) AuthService {
	return &AuthServiceImpl{
		db:               db,
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		inviteRepo:       inviteRepo,
	}
}

// Login - вход по имени пользователя и паролю.
// Несуществующий пользователь и неверный пароль дают одну и ту же
// ошибку, чтобы не раскрывать занятость имени.
func (s *AuthServiceImpl) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByUsername(req.Username)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

// Register - регистрация по инвайту.
// Отсутствие инвайта и несовпадение email дают одну ошибку InvalidInvite.
func (s *AuthServiceImpl) Register(req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	invite, err := s.inviteRepo.FindUnusedByCode(req.InviteCode)
	if err != nil {
		if apperrors.Is(err, repositories.ErrInviteNotFound) {
			return nil, apperrors.ErrInvalidInvite
		}
		return nil, apperrors.InternalError(err)
	}

	// Сравнение с учетом регистра: инвайт выписан на конкретный адрес.
	if invite.Email != req.Email {
		return nil, apperrors.ErrInvalidInvite
	}

	taken, err := s.userRepo.ExistsByUsername(req.Username)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if taken {
		return nil, apperrors.ErrUsernameTaken
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         models.UserRoleUser,
		InviteID:     &invite.ID,
	}

	// Пользователь и пометка инвайта пишутся в одной транзакции.
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.CreateTx(tx, user); err != nil {
			return err
		}
		if err := invite.MarkUsed(user.ID, time.Now()); err != nil {
			return err
		}
		return s.inviteRepo.UpdateTx(tx, invite)
	})
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrUsernameTaken
		}
		return nil, apperrors.InternalError(err)
	}

	return s.issueTokens(user)
}

// Logout - удаление refresh-токена. Идемпотентен: повторный вызов
// с тем же токеном тоже успех.
func (s *AuthServiceImpl) Logout(refreshToken string) error {
	if err := s.refreshTokenRepo.DeleteByHash(auth.HashToken(refreshToken)); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// RefreshAccessToken - новый access-токен по действующему refresh-токену.
// Сам refresh-токен не ротируется и возвращается без изменений.
func (s *AuthServiceImpl) RefreshAccessToken(refreshToken string) (*dto.AuthResponse, error) {
	stored, err := s.refreshTokenRepo.FindByHash(auth.HashToken(refreshToken))
	if err != nil {
		if apperrors.Is(err, repositories.ErrRefreshTokenNotFound) {
			return nil, apperrors.ErrInvalidRefreshToken
		}
		return nil, apperrors.InternalError(err)
	}

	if time.Now().After(stored.ExpiresAt) {
		// Просроченную строку убираем сразу, не дожидаясь чистки.
		if err := s.refreshTokenRepo.DeleteByID(stored.ID); err != nil {
			logger.Error("failed to remove expired refresh token", "error", err)
		}
		return nil, apperrors.ErrInvalidRefreshToken
	}

	user, err := s.userRepo.FindByID(stored.UserID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	accessToken, expiresAt, err := auth.GenerateAccessToken(user, []string{string(user.Role)})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		ExpiresAt:    expiresAt,
		RefreshToken: refreshToken,
	}, nil
}

// UpdateAccount - смена имени и/или пароля после проверки текущего пароля
func (s *AuthServiceImpl) UpdateAccount(userID string, req *dto.UpdateAccountRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if req.NewUsername != "" && req.NewUsername != user.Username {
		taken, err := s.userRepo.ExistsByUsername(req.NewUsername)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		if taken {
			return nil, apperrors.ErrUsernameTaken
		}
		user.Username = req.NewUsername
	}

	if req.NewPassword != "" {
		if err := auth.ValidatePassword(req.NewPassword); err != nil {
			return nil, apperrors.ValidationError(err.Error())
		}
		hash, err := auth.HashPassword(req.NewPassword)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		user.PasswordHash = hash
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.issueTokens(user)
}

// issueTokens выпускает пару access+refresh и сохраняет хеш refresh-токена
func (s *AuthServiceImpl) issueTokens(user *models.User) (*dto.AuthResponse, error) {
	accessToken, expiresAt, err := auth.GenerateAccessToken(user, []string{string(user.Role)})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	refreshToken, err := auth.NewRefreshToken()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	cfg := config.GetConfig()
	stored := &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: auth.HashToken(refreshToken),
		ExpiresAt: time.Now().AddDate(0, 0, cfg.JWT.RefreshTTLDays),
	}
	if err := s.refreshTokenRepo.Create(stored); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		ExpiresAt:    expiresAt,
		RefreshToken: refreshToken,
	}, nil
}
