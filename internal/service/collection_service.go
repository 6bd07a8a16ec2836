package service

import (
	"context"
	"strings"

	"merch-nexus/internal/apperror"
	"merch-nexus/internal/domain"
	"merch-nexus/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateCollectionInput holds the fields of a new collection
type CreateCollectionInput struct {
	Name        string
	Description *string
	Color       *string
}

// CollectionService defines the ownership-scoped collection operations
type CollectionService interface {
	Create(ctx context.Context, ownerID uuid.UUID, input CreateCollectionInput) (*domain.Collection, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]*domain.Collection, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, patch domain.CollectionPatch) (*domain.Collection, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

type collectionService struct {
	collectionRepo repository.CollectionRepository
	uow            repository.UnitOfWork
	logger         *zap.Logger
}

// NewCollectionService creates a new instance of CollectionService
func NewCollectionService(
	collectionRepo repository.CollectionRepository,
	uow repository.UnitOfWork,
	logger *zap.Logger,
) CollectionService {
	return &collectionService{
		collectionRepo: collectionRepo,
		uow:            uow,
		logger:         logger,
	}
}

var errBlankCollectionName = apperror.Validation("collection name must not be blank")

// Create adds a collection owned by ownerID
func (s *collectionService) Create(ctx context.Context, ownerID uuid.UUID, input CreateCollectionInput) (*domain.Collection, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, errBlankCollectionName
	}

	ts := now()
	collection := &domain.Collection{
		ID:          uuid.New(),
		UserID:      ownerID,
		Name:        input.Name,
		Description: input.Description,
		Color:       input.Color,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}

	if err := s.collectionRepo.Create(ctx, collection); err != nil {
		logFailure(s.logger, "Failed to create collection", err, zap.String("user_id", ownerID.String()))
		return nil, err
	}

	s.logger.Info("Collection created",
		zap.String("user_id", ownerID.String()),
		zap.String("collection_id", collection.ID.String()),
	)

	return collection, nil
}

// List returns the owner's collections in creation order
func (s *collectionService) List(ctx context.Context, ownerID uuid.UUID) ([]*domain.Collection, error) {
	collections, err := s.collectionRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		logFailure(s.logger, "Failed to list collections", err, zap.String("user_id", ownerID.String()))
		return nil, err
	}
	return collections, nil
}

// Update changes the supplied fields of a collection the caller owns
func (s *collectionService) Update(ctx context.Context, ownerID, id uuid.UUID, patch domain.CollectionPatch) (*domain.Collection, error) {
	if patch.Name.Set && strings.TrimSpace(patch.Name.Value) == "" {
		return nil, errBlankCollectionName
	}

	collection, err := s.collectionRepo.Update(ctx, ownerID, id, patch, now())
	if err != nil {
		logFailure(s.logger, "Failed to update collection", err,
			zap.String("user_id", ownerID.String()),
			zap.String("collection_id", id.String()),
		)
		return nil, err
	}

	return collection, nil
}

// Delete removes a collection the caller owns. Its saved products stay saved
// and lose their collection link; both steps commit together or not at all.
func (s *collectionService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	var detached int64
	err := s.uow.WithinTx(ctx, func(repos repository.Repositories) error {
		if _, err := repos.Collections.LockOwned(ctx, ownerID, id); err != nil {
			return err
		}

		n, err := repos.SavedProducts.DetachCollection(ctx, id, now())
		if err != nil {
			return err
		}
		detached = n

		return repos.Collections.Delete(ctx, ownerID, id)
	})
	if err != nil {
		logFailure(s.logger, "Failed to delete collection", err,
			zap.String("user_id", ownerID.String()),
			zap.String("collection_id", id.String()),
		)
		return err
	}

	s.logger.Info("Collection deleted",
		zap.String("user_id", ownerID.String()),
		zap.String("collection_id", id.String()),
		zap.Int64("detached_saved_products", detached),
	)

	return nil
}
