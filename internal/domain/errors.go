package domain

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrInvalidID  = errors.New("invalid identifier")
	ErrValidation = errors.New("validation failed")
)

// ValidationError is a business-rule failure caused by caller input.
type ValidationError struct {
	Message string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
