package learner

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors used across all subsystems. Every command fails before
// any mutation is applied; partial application is a bug, not an outcome.
var (
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation error")
	ErrNotAuthorized = errors.New("not authorized")
	ErrStateConflict = errors.New("state conflict")
	ErrRateLimited   = errors.New("rate limited")
)

// ValidationError carries the specific offending input, typically invalid
// verse keys, so the failure can be surfaced verbatim.
type ValidationError struct {
	Field   string
	Message string
	Keys    []string
}

func (e *ValidationError) Error() string {
	if len(e.Keys) > 0 {
		return fmt.Sprintf("validation: %s: %s (%s)", e.Field, e.Message, strings.Join(e.Keys, ", "))
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a single-field validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NewVerseKeyError creates a validation error listing the offending keys.
func NewVerseKeyError(keys []string) *ValidationError {
	return &ValidationError{Field: "verseKeys", Message: "invalid verse keys", Keys: keys}
}
