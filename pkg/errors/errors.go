// Package errors provides custom error types for the dossier system.
// These errors enable better error handling, programmatic error checking,
// and improved debugging throughout the application.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is and As re-export the standard library matchers so callers of this
// package never need a second errors import.
var (
	Is = errors.Is
	As = errors.As
)

// Common sentinel errors for the dossier system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrTransport indicates a remote call failed or returned malformed data
	ErrTransport = errors.New("transport failure")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// APIError represents an error from the record store API
type APIError struct {
	Store      string // record store host or logical name
	StatusCode int
	Message    string
	Endpoint   string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s (status %d): %s", e.Store, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error from %s: %s", e.Store, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support. Every APIError is transport-class,
// including a 404: a missing endpoint is an operational failure, while a
// missing record is signaled with NotFoundError from a well-formed
// zero-match response.
func (e *APIError) Is(target error) bool {
	return target == ErrTransport
}

// NewAPIError creates a new APIError
func NewAPIError(store string, statusCode int, message string) *APIError {
	return &APIError{
		Store:      store,
		StatusCode: statusCode,
		Message:    message,
	}
}

// ParseError represents an error when decoding a remote response. A response
// whose shape lacks an expected field is a whole-response failure and belongs
// here; individually malformed collection entries are skipped at the gateway
// instead.
type ParseError struct {
	Format  string // "json", "yaml", etc.
	Subject string // what was being parsed, e.g. "artifact response"
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Subject != "" {
		return fmt.Sprintf("parse error in %s %s: %s", e.Format, e.Subject, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ParseError) Is(target error) bool {
	return target == ErrTransport
}

// NewParseError creates a new ParseError
func NewParseError(format, subject, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		Subject: subject,
		Message: message,
		Err:     err,
	}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// ResourceError represents an error during resource operations
type ResourceError struct {
	Operation string // "create", "fetch", "resolve", "decode"
	Resource  string // "record", "version history", "artifact folder"
	ID        string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ResourceError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("failed to %s %s %s: %s", e.Operation, e.Resource, e.ID, e.Message)
	}
	return fmt.Sprintf("failed to %s %s: %s", e.Operation, e.Resource, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ResourceError) Unwrap() error {
	return e.Err
}

// NewResourceError creates a new ResourceError
func NewResourceError(operation, resource, id string, err error) *ResourceError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ResourceError{
		Operation: operation,
		Resource:  resource,
		ID:        id,
		Message:   message,
		Err:       err,
	}
}

// TimeoutError represents an operation timeout
type TimeoutError struct {
	Operation string
	Duration  string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *TimeoutError) Error() string {
	if e.Duration != "" {
		return fmt.Sprintf("operation %s timed out after %s: %s", e.Operation, e.Duration, e.Message)
	}
	return fmt.Sprintf("operation %s timed out: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout || target == ErrTransport
}

// NewTimeoutError creates a new TimeoutError
func NewTimeoutError(operation, duration, message string) *TimeoutError {
	return &TimeoutError{
		Operation: operation,
		Duration:  duration,
		Message:   message,
	}
}

// CanceledError represents an operation canceled by its caller before
// completion. It is transport-class for result reporting, but callers can
// tell their own teardown apart from a store fault via IsCanceled.
type CanceledError struct {
	Operation string
	Err       error
}

// Error implements the error interface
func (e *CanceledError) Error() string {
	return fmt.Sprintf("operation %s canceled: %v", e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *CanceledError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *CanceledError) Is(target error) bool {
	return target == ErrCanceled || target == ErrTransport
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsTransport checks if an error is a transport failure
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsCanceled checks if an error is a cancellation error
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapResource wraps an error as a ResourceError
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return NewResourceError(operation, resource, id, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, subject string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, subject, err.Error(), err)
}

// WrapTimeout wraps an error as a TimeoutError
func WrapTimeout(operation string, err error) error {
	if err == nil {
		return nil
	}
	return &TimeoutError{Operation: operation, Message: err.Error(), Err: err}
}

// WrapCanceled wraps an error as a CanceledError
func WrapCanceled(operation string, err error) error {
	if err == nil {
		return nil
	}
	return &CanceledError{Operation: operation, Err: err}
}

// WrapAPI wraps an error as an APIError
func WrapAPI(store string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &APIError{
		Store:      store,
		StatusCode: statusCode,
		Message:    err.Error(),
		Err:        err,
	}
}
