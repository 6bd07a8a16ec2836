package repository

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"merch-nexus/internal/apperror"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUserNotFound                  = apperror.ErrUserNotFound
	ErrProductNotFound               = apperror.ErrProductNotFound
	ErrSavedProductNotFound          = apperror.ErrSavedProductNotFound
	ErrCollectionNotFoundOrForbidden = apperror.ErrCollectionNotFoundOrForbidden
)

// PostgreSQL error codes the store adapter translates.
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgAdminShutdown       = "57P01"
	pgCannotConnectNow    = "57P03"
)

// translateError maps driver errors onto the application error taxonomy.
// Errors it does not recognise are wrapped with the failed action.
func translateError(err error, action string) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgForeignKeyViolation:
			return apperror.ReferentialIntegrity(
				fmt.Sprintf("failed to %s: %s", action, foreignKeySubject(pgErr.ConstraintName)), err)
		case pgErr.Code == pgUniqueViolation:
			return apperror.Conflict(fmt.Sprintf("failed to %s: duplicate value", action), err)
		case strings.HasPrefix(pgErr.Code, "08"),
			pgErr.Code == pgAdminShutdown,
			pgErr.Code == pgCannotConnectNow:
			return apperror.StoreUnavailable(err)
		}
		return fmt.Errorf("failed to %s: %w", action, err)
	}

	if isConnectionError(err) {
		return apperror.StoreUnavailable(err)
	}

	return fmt.Errorf("failed to %s: %w", action, err)
}

func isConnectionError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return pgconn.Timeout(err)
}

func foreignKeySubject(constraint string) string {
	switch {
	case strings.HasSuffix(constraint, "_user"):
		return "user does not exist"
	case strings.HasSuffix(constraint, "_product"):
		return "product does not exist"
	case strings.HasSuffix(constraint, "_collection"):
		return "collection does not exist"
	default:
		return "referenced entity does not exist"
	}
}
