package model

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrNotFound      = errors.New("signal not found")
	ErrConfiguration = errors.New("configuration error")
	ErrValidation    = errors.New("validation error")
)

// ValidationError describes a rejected ingestion field
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is lets errors.Is(err, ErrValidation) match any ValidationError
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError builds a ValidationError for field
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
