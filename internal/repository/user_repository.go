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

const userColumns = `id, email, full_name, avatar_url, subscription_tier, created_at, updated_at`

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, patch domain.ProfilePatch, now time.Time) (*domain.User, error)
}

type userRepository struct {
	db DBTX
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(db DBTX) UserRepository {
	return &userRepository{db: db}
}

type userRow struct {
	ID               uuid.UUID `db:"id"`
	Email            string    `db:"email"`
	FullName         *string   `db:"full_name"`
	AvatarURL        *string   `db:"avatar_url"`
	SubscriptionTier string    `db:"subscription_tier"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

func (r userRow) toDomain() *domain.User {
	return &domain.User{
		ID:               r.ID,
		Email:            r.Email,
		FullName:         r.FullName,
		AvatarURL:        r.AvatarURL,
		SubscriptionTier: domain.SubscriptionTier(r.SubscriptionTier),
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

// Create inserts a user row. Registration lives in the identity provider;
// this is used by the seed command and tests.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, email, full_name, avatar_url, subscription_tier, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	tier := user.SubscriptionTier
	if tier == "" {
		tier = domain.TierFree
	}

	_, err := r.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Email,
		user.FullName,
		user.AvatarURL,
		string(tier),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return translateError(err, "create user")
	}

	return nil
}

// FindByID retrieves a user by ID
func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	var row userRow
	if err := sqlx.GetContext(ctx, r.db, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, translateError(err, "find user by ID")
	}

	return row.toDomain(), nil
}

// Exists reports whether a user with the given ID is registered
func (r *userRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, r.db, &exists, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id)
	if err != nil {
		return false, translateError(err, "check user existence")
	}
	return exists, nil
}

// UpdateProfile applies the supplied profile fields and returns the stored row.
// Fields absent from the patch keep their values; updated_at always moves.
func (r *userRepository) UpdateProfile(ctx context.Context, id uuid.UUID, patch domain.ProfilePatch, now time.Time) (*domain.User, error) {
	set := &assignments{}
	if patch.FullName.Set {
		set.set("full_name", patch.FullName.Value)
	}
	if patch.AvatarURL.Set {
		set.set("avatar_url", patch.AvatarURL.Value)
	}
	set.set("updated_at", now)

	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = %s RETURNING %s`,
		set.clause(), set.add(id), userColumns)

	var row userRow
	if err := sqlx.GetContext(ctx, r.db, &row, query, set.args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, translateError(err, "update user profile")
	}

	return row.toDomain(), nil
}
