package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"galeri/internal/validation"
)

var (
	// ErrValidation is wrapped by every input rejection.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCredentials is returned for a wrong email or password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken is returned when a session token cannot be trusted.
	ErrInvalidToken = errors.New("invalid token")
	// ErrConflict is returned when a unique value is already taken.
	ErrConflict = errors.New("conflict")
)

// ValidationError carries per-field messages and unwraps to ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, e.Fields[k])
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// newValidationError converts a validator error into a ValidationError.
func newValidationError(err error) error {
	return &ValidationError{Fields: validation.Messages(err)}
}

// fieldError reports a single rejected field.
func fieldError(field, msg string) error {
	return &ValidationError{Fields: map[string]string{field: msg}}
}
