package domain

import (
	"errors"
	"strings"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when user-supplied data fails validation.
	// It is usually wrapped by a *ValidationError carrying the individual messages.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when a user ID is not a positive integer.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidFormat is returned when a request payload cannot be decoded.
	ErrInvalidFormat = errors.New("invalid format")
)

// ValidationError carries every validation failure found for a single input,
// in field order (name, email, age).
type ValidationError struct {
	Errors []string
}

// NewValidationError creates a ValidationError from the given messages.
func NewValidationError(errs []string) *ValidationError {
	return &ValidationError{Errors: errs}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

// Unwrap allows errors.Is(err, ErrValidation).
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
