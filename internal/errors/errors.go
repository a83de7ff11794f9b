// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard sentinel errors
var (
	ErrServerUnavailable = errors.New("server unavailable")
	ErrTimeout           = errors.New("operation timed out")
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidInput      = errors.New("input validation failed")
	ErrConfigInvalid     = errors.New("invalid configuration")
	ErrBadResponse       = errors.New("unparseable server response")
)

// RequestError represents a failure reported by the journal backend. Message
// carries the server's structured message verbatim; it is what the user sees.
type RequestError struct {
	Method  string
	Path    string
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request error [%s %s] %d: %s: %v", e.Method, e.Path, e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("request error [%s %s] %d: %s", e.Method, e.Path, e.Status, e.Message)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// NewRequestError creates a new RequestError. Well-known statuses chain to
// their sentinel so callers can match with errors.Is.
func NewRequestError(method, path string, status int, code, message string) *RequestError {
	var cause error
	switch status {
	case http.StatusNotFound:
		cause = ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		cause = ErrInvalidInput
	}
	return &RequestError{
		Method:  method,
		Path:    path,
		Status:  status,
		Code:    code,
		Message: message,
		Err:     cause,
	}
}

// ServerMessage extracts the server-supplied message from an error chain.
// It returns the error's plain text when no RequestError is present, so every
// failure path has something to surface.
func ServerMessage(err error) string {
	var re *RequestError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	return err.Error()
}

// IsClientError reports whether the error is a 4xx server rejection.
func IsClientError(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Status >= 400 && re.Status < 500
}

// ValidationError represents a local precondition failure. It is raised
// before any request is sent.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
