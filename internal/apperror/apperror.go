// Package apperror defines the typed errors shared by the repository, service
// and transport layers.
//
// Services return these errors (or wrap them with %w); handlers translate them
// to HTTP responses through Code.HTTPStatus:
//
//	if errors.Is(err, apperror.ErrCollectionNotFoundOrForbidden) {
//	    ...
//	}
//
//	var appErr *apperror.Error
//	if errors.As(err, &appErr) {
//	    status := appErr.HTTPStatus()
//	}
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error code.
type Code string

const (
	CodeValidation           Code = "VALIDATION"
	CodeNotFound             Code = "NOT_FOUND"
	CodeNotFoundOrForbidden  Code = "NOT_FOUND_OR_FORBIDDEN"
	CodeReferentialIntegrity Code = "REFERENTIAL_INTEGRITY"
	CodeConflict             Code = "CONFLICT"
	CodeStoreUnavailable     Code = "STORE_UNAVAILABLE"
	CodeUnauthorized         Code = "UNAUTHORIZED"
	CodeInternal             Code = "INTERNAL"
)

// HTTPStatus returns the HTTP status code for an error code.
//
// NOT_FOUND_OR_FORBIDDEN maps to 404 so non-owners cannot tell a foreign row
// from a missing one.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound, CodeNotFoundOrForbidden, CodeReferentialIntegrity:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeStoreUnavailable:
		return http.StatusServiceUnavailable
	case CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches any *Error with the same Code and, when the target carries a
// message of its own, the same message. This keeps ErrUserNotFound and
// ErrProductNotFound distinguishable while both still match ErrNotFound.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	if e.Code != t.Code {
		return false
	}
	return t.Message == genericMessage[t.Code] || t.Message == e.Message
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithDetails returns a copy of the error carrying details.
func (e *Error) WithDetails(details any) *Error {
	return &Error{Code: e.Code, Message: e.Message, Details: details, cause: e.cause}
}

// WithCause returns a copy of the error wrapping err.
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Details: e.Details, cause: err}
}

var genericMessage = map[Code]string{
	CodeValidation:           "validation error",
	CodeNotFound:             "not found",
	CodeNotFoundOrForbidden:  "not found or access denied",
	CodeReferentialIntegrity: "referenced entity does not exist",
	CodeConflict:             "conflict",
	CodeStoreUnavailable:     "store unavailable",
	CodeUnauthorized:         "unauthorized",
	CodeInternal:             "internal error",
}

// Generic sentinels, one per code.
var (
	ErrValidation           = &Error{Code: CodeValidation, Message: genericMessage[CodeValidation]}
	ErrNotFound             = &Error{Code: CodeNotFound, Message: genericMessage[CodeNotFound]}
	ErrNotFoundOrForbidden  = &Error{Code: CodeNotFoundOrForbidden, Message: genericMessage[CodeNotFoundOrForbidden]}
	ErrReferentialIntegrity = &Error{Code: CodeReferentialIntegrity, Message: genericMessage[CodeReferentialIntegrity]}
	ErrConflict             = &Error{Code: CodeConflict, Message: genericMessage[CodeConflict]}
	ErrStoreUnavailable     = &Error{Code: CodeStoreUnavailable, Message: genericMessage[CodeStoreUnavailable]}
	ErrUnauthorized         = &Error{Code: CodeUnauthorized, Message: genericMessage[CodeUnauthorized]}
	ErrInternal             = &Error{Code: CodeInternal, Message: genericMessage[CodeInternal]}
)

// Entity-specific sentinels.
var (
	ErrUserNotFound                  = &Error{Code: CodeNotFound, Message: "user not found"}
	ErrProductNotFound               = &Error{Code: CodeNotFound, Message: "product not found"}
	ErrSavedProductNotFound          = &Error{Code: CodeNotFound, Message: "saved product not found"}
	ErrCollectionNotFoundOrForbidden = &Error{Code: CodeNotFoundOrForbidden, Message: "collection not found or access denied"}
)

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// ReferentialIntegrity wraps a foreign key violation reported by the store.
func ReferentialIntegrity(msg string, cause error) *Error {
	return &Error{Code: CodeReferentialIntegrity, Message: msg, cause: cause}
}

// Conflict wraps a uniqueness violation reported by the store.
func Conflict(msg string, cause error) *Error {
	return &Error{Code: CodeConflict, Message: msg, cause: cause}
}

// StoreUnavailable wraps a connectivity fault talking to the store.
func StoreUnavailable(cause error) *Error {
	return &Error{Code: CodeStoreUnavailable, Message: genericMessage[CodeStoreUnavailable], cause: cause}
}

// CodeOf returns the code carried by err, or CodeInternal when err is not an *Error.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}
