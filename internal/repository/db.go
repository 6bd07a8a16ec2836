package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// DBTX is satisfied by both *sqlx.DB and *sqlx.Tx, so every repository can
// run either on the pool or inside a transaction.
type DBTX interface {
	sqlx.ExtContext
}

// Repositories groups the repositories bound to one DBTX.
type Repositories struct {
	Users         UserRepository
	Products      ProductRepository
	Collections   CollectionRepository
	SavedProducts SavedProductRepository
}

// NewRepositories binds every repository to db.
func NewRepositories(db DBTX) Repositories {
	return Repositories{
		Users:         NewUserRepository(db),
		Products:      NewProductRepository(db),
		Collections:   NewCollectionRepository(db),
		SavedProducts: NewSavedProductRepository(db),
	}
}

// UnitOfWork runs a callback against repositories that share one transaction.
type UnitOfWork interface {
	// WithinTx commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(repos Repositories) error) error
	// WithinSnapshot runs fn in a read-only REPEATABLE READ transaction, so
	// every query inside it sees the same committed state.
	WithinSnapshot(ctx context.Context, fn func(repos Repositories) error) error
}

var snapshotTxOptions = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}

type unitOfWork struct {
	db *sqlx.DB
}

// NewUnitOfWork creates a UnitOfWork over the connection pool.
func NewUnitOfWork(db *sqlx.DB) UnitOfWork {
	return &unitOfWork{db: db}
}

func (u *unitOfWork) WithinTx(ctx context.Context, fn func(repos Repositories) error) error {
	return u.run(ctx, nil, fn)
}

func (u *unitOfWork) WithinSnapshot(ctx context.Context, fn func(repos Repositories) error) error {
	return u.run(ctx, snapshotTxOptions, fn)
}

func (u *unitOfWork) run(ctx context.Context, opts *sql.TxOptions, fn func(repos Repositories) error) error {
	tx, err := u.db.BeginTxx(ctx, opts)
	if err != nil {
		return translateError(err, "begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(NewRepositories(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return translateError(err, "commit transaction")
	}

	return nil
}
