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

const collectionColumns = `id, user_id, name, description, color, created_at, updated_at`

// CollectionRepository defines the interface for collection data access.
// Every lookup is scoped to an owner; a collection owned by someone else is
// indistinguishable from one that does not exist.
type CollectionRepository interface {
	Create(ctx context.Context, collection *domain.Collection) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Collection, error)
	FindOwned(ctx context.Context, ownerID, id uuid.UUID) (*domain.Collection, error)
	LockOwned(ctx context.Context, ownerID, id uuid.UUID) (*domain.Collection, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, patch domain.CollectionPatch, now time.Time) (*domain.Collection, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

type collectionRepository struct {
	db DBTX
}

// NewCollectionRepository creates a new instance of CollectionRepository
func NewCollectionRepository(db DBTX) CollectionRepository {
	return &collectionRepository{db: db}
}

type collectionRow struct {
	ID          uuid.UUID `db:"id"`
	UserID      uuid.UUID `db:"user_id"`
	Name        string    `db:"name"`
	Description *string   `db:"description"`
	Color       *string   `db:"color"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r collectionRow) toDomain() *domain.Collection {
	return &domain.Collection{
		ID:          r.ID,
		UserID:      r.UserID,
		Name:        r.Name,
		Description: r.Description,
		Color:       r.Color,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// Create inserts a new collection
func (r *collectionRepository) Create(ctx context.Context, collection *domain.Collection) error {
	query := `
		INSERT INTO collections (id, user_id, name, description, color, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		collection.ID,
		collection.UserID,
		collection.Name,
		collection.Description,
		collection.Color,
		collection.CreatedAt,
		collection.UpdatedAt,
	)
	if err != nil {
		return translateError(err, "create collection")
	}

	return nil
}

// ListByOwner returns the owner's collections in creation order
func (r *collectionRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Collection, error) {
	query := fmt.Sprintf(`SELECT %s FROM collections WHERE user_id = $1 ORDER BY seq ASC`, collectionColumns)

	var rows []collectionRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, ownerID); err != nil {
		return nil, translateError(err, "list collections")
	}

	collections := make([]*domain.Collection, 0, len(rows))
	for _, row := range rows {
		collections = append(collections, row.toDomain())
	}
	return collections, nil
}

// FindOwned retrieves a collection only if ownerID owns it
func (r *collectionRepository) FindOwned(ctx context.Context, ownerID, id uuid.UUID) (*domain.Collection, error) {
	query := fmt.Sprintf(`SELECT %s FROM collections WHERE id = $1 AND user_id = $2`, collectionColumns)
	return r.getOwned(ctx, query, ownerID, id)
}

// LockOwned is FindOwned with a row lock held until the surrounding
// transaction ends.
func (r *collectionRepository) LockOwned(ctx context.Context, ownerID, id uuid.UUID) (*domain.Collection, error) {
	query := fmt.Sprintf(`SELECT %s FROM collections WHERE id = $1 AND user_id = $2 FOR UPDATE`, collectionColumns)
	return r.getOwned(ctx, query, ownerID, id)
}

func (r *collectionRepository) getOwned(ctx context.Context, query string, ownerID, id uuid.UUID) (*domain.Collection, error) {
	var row collectionRow
	if err := sqlx.GetContext(ctx, r.db, &row, query, id, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCollectionNotFoundOrForbidden
		}
		return nil, translateError(err, "find collection")
	}
	return row.toDomain(), nil
}

// Update applies the supplied fields to a collection the owner owns. The
// ownership check and the write are one statement.
func (r *collectionRepository) Update(ctx context.Context, ownerID, id uuid.UUID, patch domain.CollectionPatch, now time.Time) (*domain.Collection, error) {
	set := &assignments{}
	if patch.Name.Set {
		set.set("name", patch.Name.Value)
	}
	if patch.Description.Set {
		set.set("description", patch.Description.Value)
	}
	if patch.Color.Set {
		set.set("color", patch.Color.Value)
	}
	set.set("updated_at", now)

	query := fmt.Sprintf(`UPDATE collections SET %s WHERE id = %s AND user_id = %s RETURNING %s`,
		set.clause(), set.add(id), set.add(ownerID), collectionColumns)

	var row collectionRow
	if err := sqlx.GetContext(ctx, r.db, &row, query, set.args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCollectionNotFoundOrForbidden
		}
		return nil, translateError(err, "update collection")
	}

	return row.toDomain(), nil
}

// Delete removes a collection the owner owns
func (r *collectionRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM collections WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return translateError(err, "delete collection")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrCollectionNotFoundOrForbidden
	}

	return nil
}
