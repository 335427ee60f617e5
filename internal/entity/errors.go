package entity

import (
	"errors"
	"fmt"
)

var (
	ErrSessionBusy        = errors.New("session is busy, wait for the current request to finish")
	ErrSessionNotFound    = errors.New("session not found or expired")
	ErrUnauthorized       = errors.New("missing or invalid session token")
	ErrArchiveUnavailable = errors.New("audit archive is not configured")
)

// ValidationError reports malformed or missing input. The operation was not performed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError reports a reference to an unknown customer, product or address.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

func NewNotFoundError(resource, key string) *NotFoundError {
	return &NotFoundError{Resource: resource, Key: key}
}

// ConfigurationError means no discount limit could be resolved. Evaluation must stop.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Message
}

// GatewayError wraps any failure of the text-generation service.
type GatewayError struct {
	Message string
	Err     error
}

func (e *GatewayError) Error() string {
	return "gateway error: " + e.Message
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

func NewGatewayError(err error) *GatewayError {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return gwErr
	}
	return &GatewayError{Message: err.Error(), Err: err}
}
