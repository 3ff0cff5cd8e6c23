// Package errors defines application-specific error types shared between
// the usecase layer and the HTTP delivery.
package errors

import (
	"net/http"

	"waitlist/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Submitted form data failed validation",
		"",
	)

	ErrMissingFields = NewBaseError(
		http.StatusBadRequest,
		"MISSING_FIELDS",
		"Missing required fields",
		"",
	)

	ErrPostContentTooLong = NewBaseError(
		http.StatusBadRequest,
		"POST_CONTENT_TOO_LONG",
		"Post content exceeds the maximum allowed length",
		"",
	)

	ErrLedgerWrite = NewBaseError(
		http.StatusInternalServerError,
		"LEDGER_WRITE_FAILED",
		"Failed to record submission",
		"",
	)

	ErrStateBegin = NewBaseError(
		http.StatusInternalServerError,
		"STATE_BEGIN_FAILED",
		"Failed to initiate LinkedIn authorization",
		"",
	)
)
