package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"merch-nexus/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const savedProductColumns = `sp.id, sp.user_id, sp.product_id, sp.collection_id, sp.notes, sp.tags, sp.created_at, sp.updated_at`

// SavedProductRepository defines the interface for saved-product data access
type SavedProductRepository interface {
	Create(ctx context.Context, saved *domain.SavedProduct) error
	List(ctx context.Context, userID uuid.UUID, collectionID *uuid.UUID) ([]*domain.SavedProduct, error)
	FindOwned(ctx context.Context, userID, id uuid.UUID) (*domain.SavedProduct, error)
	Update(ctx context.Context, userID, id uuid.UUID, patch domain.SavedProductPatch, now time.Time) (*domain.SavedProduct, error)
	DetachCollection(ctx context.Context, collectionID uuid.UUID, now time.Time) (int64, error)
	Delete(ctx context.Context, userID, id uuid.UUID) (bool, error)
}

type savedProductRepository struct {
	db DBTX
}

// NewSavedProductRepository creates a new instance of SavedProductRepository
func NewSavedProductRepository(db DBTX) SavedProductRepository {
	return &savedProductRepository{db: db}
}

type savedProductRow struct {
	ID           uuid.UUID  `db:"id"`
	UserID       uuid.UUID  `db:"user_id"`
	ProductID    uuid.UUID  `db:"product_id"`
	CollectionID *uuid.UUID `db:"collection_id"`
	Notes        *string    `db:"notes"`
	Tags         stringList `db:"tags"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

func (r savedProductRow) toDomain() *domain.SavedProduct {
	return &domain.SavedProduct{
		ID:           r.ID,
		UserID:       r.UserID,
		ProductID:    r.ProductID,
		CollectionID: r.CollectionID,
		Notes:        r.Notes,
		Tags:         r.Tags.Strings(),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// Create inserts a saved product. A nil tag list is stored as empty.
func (r *savedProductRepository) Create(ctx context.Context, saved *domain.SavedProduct) error {
	query := `
		INSERT INTO saved_products (id, user_id, product_id, collection_id, notes, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		saved.ID,
		saved.UserID,
		saved.ProductID,
		saved.CollectionID,
		saved.Notes,
		stringList(saved.Tags),
		saved.CreatedAt,
		saved.UpdatedAt,
	)
	if err != nil {
		return translateError(err, "save product")
	}

	return nil
}

// List returns the user's saved products in save order, optionally limited to
// one collection. Rows whose product is gone from the catalog are skipped.
func (r *savedProductRepository) List(ctx context.Context, userID uuid.UUID, collectionID *uuid.UUID) ([]*domain.SavedProduct, error) {
	args := &argList{}
	whereClause := "WHERE sp.user_id = " + args.add(userID)
	if collectionID != nil {
		whereClause += " AND sp.collection_id = " + args.add(*collectionID)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM saved_products sp
		INNER JOIN products p ON p.id = sp.product_id
		%s
		ORDER BY sp.seq ASC
	`, savedProductColumns, whereClause)

	var rows []savedProductRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args.args...); err != nil {
		return nil, translateError(err, "list saved products")
	}

	saved := make([]*domain.SavedProduct, 0, len(rows))
	for _, row := range rows {
		saved = append(saved, row.toDomain())
	}
	return saved, nil
}

// FindOwned retrieves a saved product only if userID saved it
func (r *savedProductRepository) FindOwned(ctx context.Context, userID, id uuid.UUID) (*domain.SavedProduct, error) {
	query := fmt.Sprintf(`SELECT %s FROM saved_products sp WHERE sp.id = $1 AND sp.user_id = $2`, savedProductColumns)

	var row savedProductRow
	if err := sqlx.GetContext(ctx, r.db, &row, query, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSavedProductNotFound
		}
		return nil, translateError(err, "find saved product")
	}
	return row.toDomain(), nil
}

// Update applies the supplied fields to a saved product the user owns. A
// supplied tag list replaces the stored one.
func (r *savedProductRepository) Update(ctx context.Context, userID, id uuid.UUID, patch domain.SavedProductPatch, now time.Time) (*domain.SavedProduct, error) {
	set := &assignments{}
	if patch.CollectionID.Set {
		set.set("collection_id", patch.CollectionID.Value)
	}
	if patch.Notes.Set {
		set.set("notes", patch.Notes.Value)
	}
	if patch.Tags.Set {
		set.set("tags", stringList(patch.Tags.Value))
	}
	set.set("updated_at", now)

	query := fmt.Sprintf(`UPDATE saved_products sp SET %s WHERE sp.id = %s AND sp.user_id = %s RETURNING %s`,
		set.clause(), set.add(id), set.add(userID), savedProductColumns)

	var row savedProductRow
	if err := sqlx.GetContext(ctx, r.db, &row, query, set.args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSavedProductNotFound
		}
		return nil, translateError(err, "update saved product")
	}

	return row.toDomain(), nil
}

// DetachCollection moves every saved product out of a collection and
// returns how many rows changed.
func (r *savedProductRepository) DetachCollection(ctx context.Context, collectionID uuid.UUID, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE saved_products SET collection_id = NULL, updated_at = $1 WHERE collection_id = $2`,
		now, collectionID)
	if err != nil {
		return 0, translateError(err, "detach saved products")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected, nil
}

// Delete removes a saved product the user owns. It reports whether a row was
// removed; removing something absent is not an error.
func (r *savedProductRepository) Delete(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM saved_products WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, translateError(err, "remove saved product")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}
