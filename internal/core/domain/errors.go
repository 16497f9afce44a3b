package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDeactivated = errors.New("account deactivated")
	ErrDataFetch          = errors.New("identity could not be loaded")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrSessionNotFound    = errors.New("session not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("access forbidden")
	ErrQuery              = errors.New("query failed")
	ErrWrite              = errors.New("write failed")
	ErrNotify             = errors.New("notification failed")
	ErrQueueFull          = errors.New("notification queue full")
	ErrCancelled          = errors.New("load cancelled")
	ErrValidation         = errors.New("validation failed")
)

// ValidationError reports a client-side precondition failure. No I/O has
// happened when one is returned.
type ValidationError struct {
	Fields []string
}

// NewValidationError builds a ValidationError from human-readable messages.
func NewValidationError(msgs ...string) *ValidationError {
	return &ValidationError{Fields: msgs}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Fields, "; "))
}

// Is lets callers match any ValidationError with errors.Is(err, ErrValidation).
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// QueryError wraps a failed read against the store.
func QueryError(table string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrQuery, table, err)
}

// WriteError wraps a failed insert/update/delete against the store.
func WriteError(table string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrWrite, table, err)
}
