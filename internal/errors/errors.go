// Package errors defines the categorized error types shared by the sync
// pipeline and the read API.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCategory represents the category of an error
type ErrorCategory string

const (
	// CategoryCredential represents token exchange failures
	CategoryCredential ErrorCategory = "credential"
	// CategoryUpstream represents upstream feed failures
	CategoryUpstream ErrorCategory = "upstream"
	// CategoryDatabase represents database errors
	CategoryDatabase ErrorCategory = "database"
	// CategoryValidation represents validation errors
	CategoryValidation ErrorCategory = "validation"
	// CategoryNotFound represents not found errors
	CategoryNotFound ErrorCategory = "not_found"
	// CategoryConflict represents conflicting concurrent operations
	CategoryConflict ErrorCategory = "conflict"
)

// CategorizedError represents an error with category and HTTP status code
type CategorizedError struct {
	Category   ErrorCategory
	StatusCode int
	Code       string
	Message    string
	Cause      error
}

// Error implements the error interface
func (e *CategorizedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e *CategorizedError) Unwrap() error {
	return e.Cause
}

// NewCredentialError creates a token exchange failure error. Fatal to a run.
func NewCredentialError(message string, cause error) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryCredential,
		StatusCode: http.StatusBadGateway,
		Code:       "CREDENTIAL_FAILURE",
		Message:    message,
		Cause:      cause,
	}
}

// NewUpstreamError creates an upstream fetch failure error. Fatal to a run.
func NewUpstreamError(message string, cause error) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryUpstream,
		StatusCode: http.StatusBadGateway,
		Code:       "UPSTREAM_FAILURE",
		Message:    message,
		Cause:      cause,
	}
}

// NewDatabaseError creates a database error
func NewDatabaseError(operation string, cause error) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryDatabase,
		StatusCode: http.StatusInternalServerError,
		Code:       "DATABASE_ERROR",
		Message:    fmt.Sprintf("database operation failed: %s", operation),
		Cause:      cause,
	}
}

// NewInvalidParameterError creates an invalid parameter error
func NewInvalidParameterError(param string, reason string) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryValidation,
		StatusCode: http.StatusBadRequest,
		Code:       "INVALID_PARAMETER",
		Message:    fmt.Sprintf("invalid parameter '%s': %s", param, reason),
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string, id string) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryNotFound,
		StatusCode: http.StatusNotFound,
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// NewRunInProgressError indicates another sync run holds the job lock.
func NewRunInProgressError(jobName string) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryConflict,
		StatusCode: http.StatusConflict,
		Code:       "RUN_IN_PROGRESS",
		Message:    fmt.Sprintf("sync run already in progress for job %s", jobName),
	}
}

// GetStatusCode extracts the HTTP status code from an error. Defaults to 500
// for uncategorized errors.
func GetStatusCode(err error) int {
	var categorized *CategorizedError
	if errors.As(err, &categorized) {
		return categorized.StatusCode
	}
	return http.StatusInternalServerError
}

// GetCategory extracts the category from an error
func GetCategory(err error) ErrorCategory {
	var categorized *CategorizedError
	if errors.As(err, &categorized) {
		return categorized.Category
	}
	return CategoryDatabase
}

// IsCategory reports whether err carries the given category
func IsCategory(err error, category ErrorCategory) bool {
	return GetCategory(err) == category
}
