package errors

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// Domain errors
	ErrorTypeValidation ErrorType = "VALIDATION"
	ErrorTypeNotFound   ErrorType = "NOT_FOUND"
	ErrorTypeConflict   ErrorType = "CONFLICT"
	ErrorTypeForbidden  ErrorType = "FORBIDDEN"
	ErrorTypeRateLimit  ErrorType = "RATE_LIMITED"

	// Application errors
	ErrorTypeInternal    ErrorType = "INTERNAL"
	ErrorTypeAggregation ErrorType = "AGGREGATION_FAILURE"

	// Infrastructure errors
	ErrorTypeDatabase         ErrorType = "DATABASE"
	ErrorTypeExternal         ErrorType = "EXTERNAL"
	ErrorTypeCacheUnavailable ErrorType = "CACHE_UNAVAILABLE"
	ErrorTypeEnumeration      ErrorType = "ENUMERATION_FAILURE"
)

// AppError represents an application-specific error
type AppError struct {
	Type       ErrorType              `json:"type"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	StackTrace string                 `json:"-"`
	HTTPStatus int                    `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail sets a single detail entry
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// Retryable reports whether the caller may repeat the operation unchanged.
func (e *AppError) Retryable() bool {
	v, ok := e.Details["retryable"].(bool)
	return ok && v
}

func captureStackTrace() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	stack := ""
	for {
		frame, more := frames.Next()
		stack += fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function)
		if !more {
			break
		}
	}
	return stack
}

func newError(t ErrorType, status int, message string, cause error) *AppError {
	return &AppError{
		Type:       t,
		Message:    message,
		Cause:      cause,
		HTTPStatus: status,
		StackTrace: captureStackTrace(),
	}
}

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return newError(ErrorTypeValidation, http.StatusBadRequest, message, nil)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return newError(ErrorTypeNotFound, http.StatusNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// NewConflictError creates a conflict error
func NewConflictError(message string) *AppError {
	return newError(ErrorTypeConflict, http.StatusConflict, message, nil)
}

// NewForbiddenError creates a forbidden error
func NewForbiddenError(message string) *AppError {
	if message == "" {
		message = "forbidden"
	}
	return newError(ErrorTypeForbidden, http.StatusForbidden, message, nil)
}

// NewRateLimitError rejects a caller that exceeded its request budget
func NewRateLimitError(retryAfterSeconds int) *AppError {
	e := newError(ErrorTypeRateLimit, http.StatusTooManyRequests, "too many requests", nil)
	return e.WithDetail("retry_after_seconds", retryAfterSeconds)
}

// NewInternalError creates an internal error
func NewInternalError(message string) *AppError {
	return newError(ErrorTypeInternal, http.StatusInternalServerError, message, nil)
}

// NewDatabaseError creates a database error
func NewDatabaseError(operation string, err error) *AppError {
	return newError(ErrorTypeDatabase, http.StatusInternalServerError,
		fmt.Sprintf("database operation '%s' failed", operation), err)
}

// NewExternalError creates an external service error
func NewExternalError(service string, err error) *AppError {
	return newError(ErrorTypeExternal, http.StatusBadGateway,
		fmt.Sprintf("external service '%s' error", service), err)
}

// NewCacheUnavailableError reports that the cache backend could not serve op.
func NewCacheUnavailableError(op string, err error) *AppError {
	return newError(ErrorTypeCacheUnavailable, http.StatusServiceUnavailable,
		fmt.Sprintf("cache operation '%s' failed", op), err)
}

// NewEnumerationError reports that the live id listing needed for an
// invalidation could not be produced. Nothing was evicted for that step.
func NewEnumerationError(entity string, err error) *AppError {
	e := newError(ErrorTypeEnumeration, http.StatusServiceUnavailable,
		fmt.Sprintf("could not enumerate %s for cache invalidation", entity), err)
	return e.WithDetail("retryable", true).WithDetail("entity", entity)
}

// NewAggregationError reports a failed report query. No partial report is returned.
func NewAggregationError(report string, err error) *AppError {
	e := newError(ErrorTypeAggregation, http.StatusInternalServerError,
		fmt.Sprintf("failed to build %s report", report), err)
	return e.WithDetail("report", report)
}

// GetAppError extracts AppError from an error chain
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == errType
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return IsType(err, ErrorTypeValidation)
}

// IsConflict checks if an error is a conflict error
func IsConflict(err error) bool {
	return IsType(err, ErrorTypeConflict)
}

func IsCacheUnavailable(err error) bool {
	return IsType(err, ErrorTypeCacheUnavailable)
}

func IsEnumerationFailure(err error) bool {
	return IsType(err, ErrorTypeEnumeration)
}

func IsAggregationFailure(err error) bool {
	return IsType(err, ErrorTypeAggregation)
}
