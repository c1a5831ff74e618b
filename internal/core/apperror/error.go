// Package apperror provides structured error handling following RFC 7807 Problem Details.
// Every error that crosses the allocator or HTTP boundary is an AppError.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	// Infrastructure errors (5xx)
	CodeInternal         = "INTERNAL_ERROR"
	CodeTimeout          = "TIMEOUT_ERROR"
	CodeAllocationFailed = "SEQUENCE_ALLOCATION_FAILED"

	// Validation errors (400)
	CodeValidation = "VALIDATION_ERROR"

	// Business rule violations (422)
	CodeBusinessRule  = "BUSINESS_RULE_VIOLATION"
	CodeSerialNotUsed = "SERIAL_NOT_USED"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"
)

// AppError is the standard error type for the service.
// It implements error interface and provides structured details for API responses.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (field errors, sequence names, etc.)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions for common errors ---

// NewValidation creates a validation error (400)
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFound creates a not found error (404)
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewBusinessRule creates a business rule violation error (422)
func NewBusinessRule(code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// NewAllocationFailed reports that a counter could not be advanced durably.
// No value is issued when this error is returned.
func NewAllocationFailed(sequence string, err error) *AppError {
	return &AppError{
		Code:       CodeAllocationFailed,
		Message:    "Sequence allocation failed",
		HTTPStatus: http.StatusServiceUnavailable,
		Details:    map[string]any{"sequence": sequence},
		Err:        err,
	}
}

// NewTimeout reports a call whose outcome is unknown because it did not
// complete in time. Retrying is safe and yields a later value.
func NewTimeout(sequence string, err error) *AppError {
	return &AppError{
		Code:       CodeTimeout,
		Message:    "Sequence call timed out, outcome unknown",
		HTTPStatus: http.StatusGatewayTimeout,
		Details:    map[string]any{"sequence": sequence},
		Err:        err,
	}
}

// NewInternal creates an internal server error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// --- Helper functions ---

// IsAppError checks if error is AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns appropriate HTTP status for any error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// HasCode reports whether err carries an AppError with the given code.
func HasCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

// IsValidation checks if error is CodeValidation
func IsValidation(err error) bool {
	return HasCode(err, CodeValidation)
}

// IsTimeout checks if error is CodeTimeout
func IsTimeout(err error) bool {
	return HasCode(err, CodeTimeout)
}

// IsNotFound checks if error is CodeNotFound
func IsNotFound(err error) bool {
	return HasCode(err, CodeNotFound)
}
