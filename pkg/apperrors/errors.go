package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrAlreadyActive      = errors.New("already active")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("invalid role")
	ErrUserExists         = errors.New("user already exists")
	ErrFirstLoginRequired = errors.New("password change required before first login")
)

// ValidationError reports invalid request input with a message safe to
// return to the client.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError with the given message.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// EntityInUseError blocks deletion of a master entity that still has
// active work records. Callers must retry with cascade to proceed.
type EntityInUseError struct {
	Count int
}

func (e *EntityInUseError) Error() string {
	return fmt.Sprintf("entity has %d active work record(s)", e.Count)
}

// DuplicateNameError reports a case-insensitive name collision on a
// master table, carrying the existing row so callers can surface it.
type DuplicateNameError struct {
	ID   int64
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("name %q already exists (id %d)", e.Name, e.ID)
}
