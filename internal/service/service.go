// Package service holds the catalog, collection, saved-product and profile
// managers. Every method that touches user data takes the caller's identity
// as an explicit parameter and checks ownership against stored rows.
package service

import (
	"time"

	"merch-nexus/internal/apperror"

	"go.uber.org/zap"
)

// logFailure logs store and internal failures at Error and expected client
// errors at Debug.
func logFailure(logger *zap.Logger, msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	switch apperror.CodeOf(err) {
	case apperror.CodeStoreUnavailable, apperror.CodeInternal:
		logger.Error(msg, fields...)
	default:
		logger.Debug(msg, fields...)
	}
}

func now() time.Time {
	return time.Now().UTC()
}
