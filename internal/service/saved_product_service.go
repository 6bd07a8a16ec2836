package service

import (
	"context"

	"merch-nexus/internal/domain"
	"merch-nexus/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SaveProductInput holds the fields of a new saved product
type SaveProductInput struct {
	ProductID    uuid.UUID
	CollectionID *uuid.UUID
	Notes        *string
	Tags         []string
}

// SavedProductService defines the ownership-scoped saved-product operations
type SavedProductService interface {
	Save(ctx context.Context, userID uuid.UUID, input SaveProductInput) (*domain.SavedProduct, error)
	List(ctx context.Context, userID uuid.UUID, collectionID *uuid.UUID) ([]*domain.SavedProduct, error)
	Update(ctx context.Context, userID, id uuid.UUID, patch domain.SavedProductPatch) (*domain.SavedProduct, error)
	Remove(ctx context.Context, userID, id uuid.UUID) error
}

type savedProductService struct {
	savedRepo      repository.SavedProductRepository
	userRepo       repository.UserRepository
	productRepo    repository.ProductRepository
	collectionRepo repository.CollectionRepository
	logger         *zap.Logger
}

// NewSavedProductService creates a new instance of SavedProductService
func NewSavedProductService(
	savedRepo repository.SavedProductRepository,
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	collectionRepo repository.CollectionRepository,
	logger *zap.Logger,
) SavedProductService {
	return &savedProductService{
		savedRepo:      savedRepo,
		userRepo:       userRepo,
		productRepo:    productRepo,
		collectionRepo: collectionRepo,
		logger:         logger,
	}
}

// Save records a product for the user. The user, the product and, when
// given, the target collection are checked in that order.
func (s *savedProductService) Save(ctx context.Context, userID uuid.UUID, input SaveProductInput) (*domain.SavedProduct, error) {
	fields := []zap.Field{
		zap.String("user_id", userID.String()),
		zap.String("product_id", input.ProductID.String()),
	}

	if err := s.checkReferences(ctx, userID, input); err != nil {
		logFailure(s.logger, "Failed to save product", err, fields...)
		return nil, err
	}

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	ts := now()
	saved := &domain.SavedProduct{
		ID:           uuid.New(),
		UserID:       userID,
		ProductID:    input.ProductID,
		CollectionID: input.CollectionID,
		Notes:        input.Notes,
		Tags:         tags,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}

	if err := s.savedRepo.Create(ctx, saved); err != nil {
		logFailure(s.logger, "Failed to save product", err, fields...)
		return nil, err
	}

	s.logger.Info("Product saved", append(fields, zap.String("saved_product_id", saved.ID.String()))...)

	return saved, nil
}

func (s *savedProductService) checkReferences(ctx context.Context, userID uuid.UUID, input SaveProductInput) error {
	userExists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !userExists {
		return repository.ErrUserNotFound
	}

	productExists, err := s.productRepo.Exists(ctx, input.ProductID)
	if err != nil {
		return err
	}
	if !productExists {
		return repository.ErrProductNotFound
	}

	if input.CollectionID != nil {
		if _, err := s.collectionRepo.FindOwned(ctx, userID, *input.CollectionID); err != nil {
			return err
		}
	}

	return nil
}

// List returns the user's saved products, optionally limited to one
// collection. A collection the user does not own yields an empty list.
func (s *savedProductService) List(ctx context.Context, userID uuid.UUID, collectionID *uuid.UUID) ([]*domain.SavedProduct, error) {
	saved, err := s.savedRepo.List(ctx, userID, collectionID)
	if err != nil {
		logFailure(s.logger, "Failed to list saved products", err, zap.String("user_id", userID.String()))
		return nil, err
	}
	return saved, nil
}

// Update changes the supplied fields of a saved product the user owns.
// Moving it into a collection requires owning that collection.
func (s *savedProductService) Update(ctx context.Context, userID, id uuid.UUID, patch domain.SavedProductPatch) (*domain.SavedProduct, error) {
	fields := []zap.Field{
		zap.String("user_id", userID.String()),
		zap.String("saved_product_id", id.String()),
	}

	if _, err := s.savedRepo.FindOwned(ctx, userID, id); err != nil {
		logFailure(s.logger, "Failed to update saved product", err, fields...)
		return nil, err
	}

	if patch.CollectionID.Set && patch.CollectionID.Value != nil {
		if _, err := s.collectionRepo.FindOwned(ctx, userID, *patch.CollectionID.Value); err != nil {
			logFailure(s.logger, "Failed to update saved product", err, fields...)
			return nil, err
		}
	}

	if patch.Tags.Set && patch.Tags.Value == nil {
		patch.Tags.Value = []string{}
	}

	saved, err := s.savedRepo.Update(ctx, userID, id, patch, now())
	if err != nil {
		logFailure(s.logger, "Failed to update saved product", err, fields...)
		return nil, err
	}

	return saved, nil
}

// Remove deletes a saved product the user owns. Removing one that is absent
// or belongs to someone else does nothing.
func (s *savedProductService) Remove(ctx context.Context, userID, id uuid.UUID) error {
	removed, err := s.savedRepo.Delete(ctx, userID, id)
	if err != nil {
		logFailure(s.logger, "Failed to remove saved product", err,
			zap.String("user_id", userID.String()),
			zap.String("saved_product_id", id.String()),
		)
		return err
	}

	if removed {
		s.logger.Info("Saved product removed",
			zap.String("user_id", userID.String()),
			zap.String("saved_product_id", id.String()),
		)
	}

	return nil
}
