// Package apperror defines the typed errors services return and the HTTP
// status each one maps to.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Type classifies an AppError.
type Type string

const (
	TypeValidation   Type = "validation_error"
	TypeUnauthorized Type = "unauthorized"
	TypeForbidden    Type = "forbidden"
	TypeNotFound     Type = "not_found"
	TypeConflict     Type = "conflict"
	TypeInternal     Type = "internal_error"
)

// AppError carries a client-safe message and the HTTP status to answer with.
type AppError struct {
	Type    Type
	Message string
	Code    int
	cause   error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// Wrap attaches the underlying cause, which is logged but never sent to clients.
func (e *AppError) Wrap(cause error) *AppError {
	clone := *e
	clone.cause = cause
	return &clone
}

func newError(t Type, code int, format string, args ...any) *AppError {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &AppError{Type: t, Message: msg, Code: code}
}

func NewValidation(format string, args ...any) *AppError {
	return newError(TypeValidation, http.StatusBadRequest, format, args...)
}

func NewUnauthorized(format string, args ...any) *AppError {
	return newError(TypeUnauthorized, http.StatusUnauthorized, format, args...)
}

func NewForbidden(format string, args ...any) *AppError {
	return newError(TypeForbidden, http.StatusForbidden, format, args...)
}

func NewNotFound(format string, args ...any) *AppError {
	return newError(TypeNotFound, http.StatusNotFound, format, args...)
}

func NewConflict(format string, args ...any) *AppError {
	return newError(TypeConflict, http.StatusConflict, format, args...)
}

func NewInternal(format string, args ...any) *AppError {
	return newError(TypeInternal, http.StatusInternalServerError, format, args...)
}

// As extracts an AppError from err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is reports whether err is an AppError of type t.
func Is(err error, t Type) bool {
	appErr, ok := As(err)
	return ok && appErr.Type == t
}
