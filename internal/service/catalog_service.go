package service

import (
	"context"
	"math"

	"merch-nexus/internal/apperror"
	"merch-nexus/internal/domain"
	"merch-nexus/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Pagination defaults for catalog search.
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// CatalogService defines the read-only catalog operations
type CatalogService interface {
	Search(ctx context.Context, criteria domain.SearchCriteria) (*domain.SearchResult, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
}

type catalogService struct {
	productRepo repository.ProductRepository
	uow         repository.UnitOfWork
	logger      *zap.Logger
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(productRepo repository.ProductRepository, uow repository.UnitOfWork, logger *zap.Logger) CatalogService {
	return &catalogService{
		productRepo: productRepo,
		uow:         uow,
		logger:      logger,
	}
}

// NormalizePage replaces non-positive values with the defaults and caps the
// limit at MaxLimit.
func NormalizePage(page, limit int) (int, int) {
	if page <= 0 {
		page = DefaultPage
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// validateCriteria rejects numeric filters the store cannot represent and
// pages whose offset would not fit in an int. Page and Limit must already be
// normalized.
func validateCriteria(criteria domain.SearchCriteria) error {
	bounds := []struct {
		name  string
		value *float64
	}{
		{"min_price", criteria.MinPrice},
		{"max_price", criteria.MaxPrice},
		{"min_rating", criteria.MinRating},
	}
	for _, b := range bounds {
		if b.value != nil && (math.IsNaN(*b.value) || math.IsInf(*b.value, 0)) {
			return apperror.Validation(b.name + " must be a finite number")
		}
	}

	if criteria.Page > math.MaxInt/criteria.Limit {
		return apperror.Validation("page is out of range")
	}

	return nil
}

// Search returns the requested page of products matching every supplied
// filter. Total counts all matches regardless of the page; both are read from
// one snapshot. A minimum price above the maximum is not rejected and simply
// matches nothing.
func (s *catalogService) Search(ctx context.Context, criteria domain.SearchCriteria) (*domain.SearchResult, error) {
	criteria.Page, criteria.Limit = NormalizePage(criteria.Page, criteria.Limit)

	if err := validateCriteria(criteria); err != nil {
		return nil, err
	}

	var (
		products []*domain.Product
		total    int
	)
	err := s.uow.WithinSnapshot(ctx, func(repos repository.Repositories) error {
		var err error
		products, total, err = repos.Products.Search(ctx, criteria)
		return err
	})
	if err != nil {
		logFailure(s.logger, "Product search failed", err,
			zap.Int("page", criteria.Page),
			zap.Int("limit", criteria.Limit),
		)
		return nil, err
	}

	return &domain.SearchResult{
		Products: products,
		Total:    total,
		Page:     criteria.Page,
		Limit:    criteria.Limit,
	}, nil
}

// GetProduct retrieves a single catalog product
func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		logFailure(s.logger, "Failed to get product", err, zap.String("product_id", id.String()))
		return nil, err
	}
	return product, nil
}
