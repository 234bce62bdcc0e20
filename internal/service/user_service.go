package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/Kali2114/ZenithFlowAPI/internal/model"
	"github.com/Kali2114/ZenithFlowAPI/internal/repository"
)

var (
	ErrInvalidAmount  = errors.New("amount must be positive")
	ErrUserNotFound   = errors.New("user not found")
	ErrProfileMissing = errors.New("profile not found")
)

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.UserProfile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, update repository.ProfileUpdate) (*model.UserProfile, error)
	AddFunds(ctx context.Context, userID uuid.UUID, amountCents int64) (int64, error)
	RegisterDeviceToken(ctx context.Context, userID uuid.UUID, token, platform string) error
}

type userService struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
}

func NewUserService(userRepo repository.UserRepository, profileRepo repository.ProfileRepository) UserService {
	return &userService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
	}
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.UserProfile, error) {
	profile, err := s.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileMissing
		}
		return nil, err
	}
	return profile, nil
}

// UpdateProfile touches only the caller's own profile; attendance statistics
// stay read-only here and are rebuilt on session completion.
func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, update repository.ProfileUpdate) (*model.UserProfile, error) {
	if err := s.profileRepo.Update(ctx, userID, update); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, userID)
}

func (s *userService) AddFunds(ctx context.Context, userID uuid.UUID, amountCents int64) (int64, error) {
	if amountCents <= 0 {
		return 0, ErrInvalidAmount
	}

	balance, err := s.userRepo.AddFunds(ctx, userID, amountCents)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}

	return balance, nil
}

func (s *userService) RegisterDeviceToken(ctx context.Context, userID uuid.UUID, token, platform string) error {
	if platform == "" {
		platform = model.PlatformIOS
	}
	return s.userRepo.RegisterDeviceToken(ctx, userID, token, platform)
}
