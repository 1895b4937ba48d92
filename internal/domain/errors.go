package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Validation error kinds used across the domain.
const (
	ErrRequired     = "required"
	ErrMinLength    = "min_length"
	ErrMaxLength    = "max_length"
	ErrInvalidField = "invalid_field"
	ErrXSSDetected  = "xss_detected"
)

// Sentinel errors mapped to HTTP statuses by the handlers.
var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrForbidden      = errors.New("access denied")
)

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Type    string      `json:"type"`
	Value   interface{} `json:"-"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message, errType string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Type:    errType,
	}
}

// ValidationErrors aggregates field errors so handlers can return them all at once.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}
