package apperr

import (
	"errors"
	"fmt"
)

// ValidationError indicates malformed caller input. Never retried.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError indicates a referenced resource is absent.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Key)
}

func NewNotFound(resource, key string) *NotFoundError {
	return &NotFoundError{Resource: resource, Key: key}
}

// ProviderError indicates an upstream embedding/translation/storage call failed.
// Hint carries a human-readable next-retry or quota-reset message when known.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
	Hint       string
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("%s provider error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

func NewProvider(provider string, statusCode int, message string) *ProviderError {
	return &ProviderError{Provider: provider, StatusCode: statusCode, Message: message}
}

// DimensionMismatchError indicates a returned vector length does not match the
// configured dimensionality. Always fatal, never truncated or padded.
type DimensionMismatchError struct {
	Want int
	Got  int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("embedding dimension mismatch: want %d, got %d", e.Want, e.Got)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsProvider(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
