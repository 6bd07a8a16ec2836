package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"merch-nexus/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

// DriverName is the database/sql driver registered by pgx.
const DriverName = "pgx"

// Service owns the connection pool.
type Service interface {
	// DB returns the pool wrapped for sqlx.
	DB() *sqlx.DB
	// Health pings the database and reports pool statistics. On failure the
	// map only says the database is down; the cause is returned separately
	// so it can be logged without being served.
	Health(ctx context.Context) (map[string]string, error)
	// Close closes the pool.
	Close() error
}

type service struct {
	db *sqlx.DB
}

// New opens a pool against the configured PostgreSQL instance.
func New(cfg config.DatabaseConfig) (Service, error) {
	db, err := sql.Open(DriverName, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.SetConnMaxLifetime(30 * time.Minute)

	return &service{db: sqlx.NewDb(db, DriverName)}, nil
}

// Wrap adapts an already opened *sql.DB, e.g. one pointed at a test container.
func Wrap(db *sql.DB) Service {
	return &service{db: sqlx.NewDb(db, DriverName)}
}

func (s *service) DB() *sqlx.DB {
	return s.db
}

func (s *service) Health(ctx context.Context) (map[string]string, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	stats := make(map[string]string)

	if err := s.db.PingContext(ctx); err != nil {
		stats["status"] = "down"
		return stats, fmt.Errorf("failed to ping database: %w", err)
	}

	dbStats := s.db.Stats()
	stats["status"] = "up"
	stats["open_connections"] = strconv.Itoa(dbStats.OpenConnections)
	stats["in_use"] = strconv.Itoa(dbStats.InUse)
	stats["idle"] = strconv.Itoa(dbStats.Idle)
	stats["wait_count"] = strconv.FormatInt(dbStats.WaitCount, 10)

	return stats, nil
}

func (s *service) Close() error {
	return s.db.Close()
}
