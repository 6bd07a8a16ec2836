package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"merch-nexus/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const productColumns = `id, asin, title, brand, category, subcategory, price, sales_rank, rating,
		review_count, image_url, keywords, estimated_monthly_sales, competition_level, created_at, updated_at`

// ProductRepository defines the interface for catalog data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Search(ctx context.Context, criteria domain.SearchCriteria) ([]*domain.Product, int, error)
}

type productRepository struct {
	db DBTX
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db DBTX) ProductRepository {
	return &productRepository{db: db}
}

type productRow struct {
	ID                    uuid.UUID           `db:"id"`
	ASIN                  string              `db:"asin"`
	Title                 string              `db:"title"`
	Brand                 *string             `db:"brand"`
	Category              string              `db:"category"`
	Subcategory           *string             `db:"subcategory"`
	Price                 decimal.Decimal     `db:"price"`
	SalesRank             *int                `db:"sales_rank"`
	Rating                decimal.NullDecimal `db:"rating"`
	ReviewCount           *int                `db:"review_count"`
	ImageURL              *string             `db:"image_url"`
	Keywords              stringList          `db:"keywords"`
	EstimatedMonthlySales *int                `db:"estimated_monthly_sales"`
	CompetitionLevel      *string             `db:"competition_level"`
	CreatedAt             time.Time           `db:"created_at"`
	UpdatedAt             time.Time           `db:"updated_at"`
}

func (r productRow) toDomain() *domain.Product {
	p := &domain.Product{
		ID:                    r.ID,
		ASIN:                  r.ASIN,
		Title:                 r.Title,
		Brand:                 r.Brand,
		Category:              r.Category,
		Subcategory:           r.Subcategory,
		Price:                 r.Price.InexactFloat64(),
		SalesRank:             r.SalesRank,
		ReviewCount:           r.ReviewCount,
		ImageURL:              r.ImageURL,
		Keywords:              r.Keywords.Strings(),
		EstimatedMonthlySales: r.EstimatedMonthlySales,
		CreatedAt:             r.CreatedAt,
		UpdatedAt:             r.UpdatedAt,
	}
	if r.Rating.Valid {
		rating := r.Rating.Decimal.InexactFloat64()
		p.Rating = &rating
	}
	if r.CompetitionLevel != nil {
		level := domain.CompetitionLevel(*r.CompetitionLevel)
		p.CompetitionLevel = &level
	}
	return p
}

// Create inserts a catalog product. The catalog is loaded by ingestion jobs
// and the seed command; the HTTP surface never writes products.
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (id, asin, title, brand, category, subcategory, price, sales_rank, rating,
			review_count, image_url, keywords, estimated_monthly_sales, competition_level, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	var rating decimal.NullDecimal
	if product.Rating != nil {
		rating = decimal.NewNullDecimal(decimal.NewFromFloat(*product.Rating))
	}
	var level *string
	if product.CompetitionLevel != nil {
		s := string(*product.CompetitionLevel)
		level = &s
	}

	_, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.ASIN,
		product.Title,
		product.Brand,
		product.Category,
		product.Subcategory,
		decimal.NewFromFloat(product.Price),
		product.SalesRank,
		rating,
		product.ReviewCount,
		product.ImageURL,
		stringList(product.Keywords),
		product.EstimatedMonthlySales,
		level,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		return translateError(err, "create product")
	}

	return nil
}

// FindByID retrieves a product by ID
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	var row productRow
	if err := sqlx.GetContext(ctx, r.db, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, translateError(err, "find product by ID")
	}

	return row.toDomain(), nil
}

// Exists reports whether a product with the given ID is in the catalog
func (r *productRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, r.db, &exists, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, id)
	if err != nil {
		return false, translateError(err, "check product existence")
	}
	return exists, nil
}

// productFilter builds the WHERE clause shared by the page and count queries,
// so the total always describes the same set the page was cut from.
func productFilter(criteria domain.SearchCriteria, args *argList) string {
	var conditions []string

	if criteria.Query != nil && strings.TrimSpace(*criteria.Query) != "" {
		conditions = append(conditions, "title ILIKE "+args.add(containsPattern(*criteria.Query)))
	}
	if criteria.Category != nil && *criteria.Category != "" {
		conditions = append(conditions, "category = "+args.add(*criteria.Category))
	}
	if criteria.MinPrice != nil {
		conditions = append(conditions, "price >= "+args.add(decimal.NewFromFloat(*criteria.MinPrice)))
	}
	if criteria.MaxPrice != nil {
		conditions = append(conditions, "price <= "+args.add(decimal.NewFromFloat(*criteria.MaxPrice)))
	}
	if criteria.MinRating != nil {
		conditions = append(conditions, "rating >= "+args.add(decimal.NewFromFloat(*criteria.MinRating)))
	}
	if criteria.CompetitionLevel != nil && *criteria.CompetitionLevel != "" {
		conditions = append(conditions, "competition_level = "+args.add(string(*criteria.CompetitionLevel)))
	}

	if len(conditions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(conditions, " AND ")
}

// Search returns one page of products matching every supplied filter, newest
// first, together with the total number of matches. Page and Limit must
// already be normalized.
func (r *productRepository) Search(ctx context.Context, criteria domain.SearchCriteria) ([]*domain.Product, int, error) {
	args := &argList{}
	whereClause := productFilter(criteria, args)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM products %s", whereClause)
	var total int
	if err := sqlx.GetContext(ctx, r.db, &total, countQuery, args.args...); err != nil {
		return nil, 0, translateError(err, "count products")
	}

	offset := (criteria.Page - 1) * criteria.Limit
	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		%s
		ORDER BY created_at DESC, seq ASC
		LIMIT %s OFFSET %s
	`, productColumns, whereClause, args.add(criteria.Limit), args.add(offset))

	var rows []productRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args.args...); err != nil {
		return nil, 0, translateError(err, "search products")
	}

	products := make([]*domain.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.toDomain())
	}

	return products, total, nil
}
