package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("domain: not found")
	ErrRatingOutOfRange  = errors.New("rating out of range")
	ErrUnknownVoice      = errors.New("unknown voice")
	ErrHotelNameRequired = errors.New("hotel name is required")
	ErrInvalidRequest    = errors.New("invalid request")
)

// ValidationError wraps a sentinel with the offending field.
type ValidationError struct {
	Field   string
	Value   string
	Wrapped error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s (value=%q)", e.Wrapped, e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error { return e.Wrapped }

func NewValidationError(field, value string, wrapped error) *ValidationError {
	return &ValidationError{Field: field, Value: value, Wrapped: wrapped}
}
