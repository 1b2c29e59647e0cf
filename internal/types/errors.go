// Package types provides common error types for proper error propagation.
package types

import (
	"fmt"
	"net/http"
	"time"
)

// ErrorCode represents standardized error codes across the application.
type ErrorCode string

const (
	// General errors
	ErrorCodeInternal   ErrorCode = "INTERNAL_ERROR"
	ErrorCodeValidation ErrorCode = "VALIDATION_ERROR"
	ErrorCodeNotFound   ErrorCode = "NOT_FOUND"

	// Auth errors
	ErrorCodeUnauthorized   ErrorCode = "UNAUTHORIZED"
	ErrorCodeForbidden      ErrorCode = "FORBIDDEN"
	ErrorCodeSessionExpired ErrorCode = "SESSION_EXPIRED"
	ErrorCodeSessionInvalid ErrorCode = "SESSION_INVALID"

	// Catalog errors
	ErrorCodeMovieNotFound  ErrorCode = "MOVIE_NOT_FOUND"
	ErrorCodeReviewNotFound ErrorCode = "REVIEW_NOT_FOUND"
	ErrorCodePosterStorage  ErrorCode = "POSTER_STORAGE_ERROR"
)

// ErrorSeverity indicates the severity of an error.
type ErrorSeverity string

const (
	SeverityInfo     ErrorSeverity = "info"
	SeverityWarning  ErrorSeverity = "warning"
	SeverityError    ErrorSeverity = "error"
	SeverityCritical ErrorSeverity = "critical"
)

// AppError represents a structured error with metadata.
type AppError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	Fields     map[string]string      `json:"fields,omitempty"` // field-level validation messages
	Severity   ErrorSeverity          `json:"severity"`
	HTTPStatus int                    `json:"http_status"`
	Context    map[string]interface{} `json:"context,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`

	Cause error `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error.
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithField attaches a field-level validation message.
func (e *AppError) WithField(field, message string) *AppError {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = message
	return e
}

// NewAppError creates a new application error.
func NewAppError(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		Severity:   SeverityError,
		HTTPStatus: httpStatus,
		Timestamp:  time.Now(),
	}
}

// NewValidationError creates a validation error. Field messages can be
// attached with WithField.
func NewValidationError(message string, details ...string) *AppError {
	err := NewAppError(ErrorCodeValidation, message, http.StatusBadRequest)
	if len(details) > 0 {
		err.Details = details[0]
	}
	err.Severity = SeverityWarning
	return err
}

// NewNotFoundError creates a not found error. Known catalog resources get
// their specific error code so clients can branch without parsing messages.
func NewNotFoundError(resource string, id string) *AppError {
	code := ErrorCodeNotFound
	switch resource {
	case "movie":
		code = ErrorCodeMovieNotFound
	case "review":
		code = ErrorCodeReviewNotFound
	}
	return NewAppError(
		code,
		fmt.Sprintf("%s not found", resource),
		http.StatusNotFound,
	).WithContext("resource", resource).WithContext("id", id)
}

// NewForbiddenError creates a permission-denied error.
func NewForbiddenError(message string) *AppError {
	err := NewAppError(ErrorCodeForbidden, message, http.StatusForbidden)
	err.Severity = SeverityWarning
	return err
}

// NewUnauthorizedError creates an authentication-required error.
func NewUnauthorizedError(code ErrorCode, message string) *AppError {
	err := NewAppError(code, message, http.StatusUnauthorized)
	err.Severity = SeverityWarning
	return err
}

// NewInternalError creates an internal server error.
func NewInternalError(message string, cause error) *AppError {
	err := NewAppError(ErrorCodeInternal, message, http.StatusInternalServerError)
	err.Cause = cause
	if cause != nil {
		err.Details = cause.Error()
	}
	err.Severity = SeverityCritical
	return err
}
