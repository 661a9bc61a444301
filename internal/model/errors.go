package model

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds shared across the application. Everything returned by a service
// matches exactly one of these with errors.Is, or is an internal failure.
var (
	ErrValidation         = errors.New("validation failed")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
)

// Entity errors wrap the kinds above so callers can match either
var (
	// User errors
	ErrUserNotFound      = fmt.Errorf("user %w", ErrNotFound)
	ErrEmailTaken        = fmt.Errorf("email already registered: %w", ErrConflict)
	ErrUsernameTaken     = fmt.Errorf("username already taken: %w", ErrConflict)
	ErrUserHasDependents = fmt.Errorf("user still owns pods or plays in games: %w", ErrConflict)

	// Deck errors
	ErrDeckNotFound = fmt.Errorf("deck %w", ErrNotFound)

	// Pod errors
	ErrPodNotFound  = fmt.Errorf("pod %w", ErrNotFound)
	ErrPodNameTaken = fmt.Errorf("pod name already taken: %w", ErrConflict)
	ErrNotPodOwner  = fmt.Errorf("only the pod owner can do this: %w", ErrForbidden)
	ErrNotPodMember = fmt.Errorf("not a member of this pod: %w", ErrForbidden)

	// Game errors
	ErrGameNotFound = fmt.Errorf("game %w", ErrNotFound)
)

// FieldError describes a single invalid input field
type FieldError struct {
	Field   string
	Message string
}

// ValidationError collects field-level problems with an input.
// It matches ErrValidation with errors.Is.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

// Is reports whether target is ErrValidation
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Add records a problem with a field
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Err returns the error if any fields were recorded, nil otherwise
func (e *ValidationError) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// NewValidationError creates a validation error for a single field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}
