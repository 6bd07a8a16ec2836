package service

import (
	"context"

	"merch-nexus/internal/apperror"
	"merch-nexus/internal/domain"
	"merch-nexus/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProfileService defines the profile operations of the calling user
type ProfileService interface {
	Get(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	Update(ctx context.Context, userID uuid.UUID, patch domain.ProfilePatch) (*domain.User, error)
}

type profileService struct {
	userRepo repository.UserRepository
	validate *validator.Validate
	logger   *zap.Logger
}

// NewProfileService creates a new instance of ProfileService
func NewProfileService(userRepo repository.UserRepository, logger *zap.Logger) ProfileService {
	return &profileService{
		userRepo: userRepo,
		validate: validator.New(),
		logger:   logger,
	}
}

// Get returns the user's profile. An unknown user yields ErrUserNotFound,
// which matches apperror.ErrNotFound.
func (s *profileService) Get(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		logFailure(s.logger, "Failed to get profile", err, zap.String("user_id", userID.String()))
		return nil, err
	}
	return user, nil
}

// Update changes the supplied profile fields
func (s *profileService) Update(ctx context.Context, userID uuid.UUID, patch domain.ProfilePatch) (*domain.User, error) {
	if patch.AvatarURL.Set && patch.AvatarURL.Value != nil {
		if err := s.validate.Var(*patch.AvatarURL.Value, "url"); err != nil {
			return nil, apperror.Validation("avatar_url must be a valid URL").
				WithDetails(map[string]string{"avatar_url": "url"})
		}
	}

	user, err := s.userRepo.UpdateProfile(ctx, userID, patch, now())
	if err != nil {
		logFailure(s.logger, "Failed to update profile", err, zap.String("user_id", userID.String()))
		return nil, err
	}

	s.logger.Info("Profile updated", zap.String("user_id", userID.String()))

	return user, nil
}
