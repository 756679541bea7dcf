// Package errors provides structured error handling for the application.
// Error codes cover both transport-facing failures and the generation
// pipeline's retry/fallback classification.
package errors

import (
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"
)

// ErrorCode represents an error code
type ErrorCode string

const (
	// Client errors (4xx)
	CodeBadRequest       ErrorCode = "BAD_REQUEST"
	CodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	CodeForbidden        ErrorCode = "FORBIDDEN"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeTooManyRequests  ErrorCode = "TOO_MANY_REQUESTS"

	// Server errors (5xx)
	CodeInternal           ErrorCode = "INTERNAL_ERROR"
	CodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	CodeDatabaseError      ErrorCode = "DATABASE_ERROR"

	// Assessment and generation errors
	CodeSessionNotFound     ErrorCode = "SESSION_NOT_FOUND"
	CodeSessionConflict     ErrorCode = "SESSION_CONFLICT"
	CodeQuestionMismatch    ErrorCode = "QUESTION_MISMATCH"
	CodeFlowIntegrity       ErrorCode = "FLOW_INTEGRITY"
	CodeProviderTransient   ErrorCode = "PROVIDER_TRANSIENT"
	CodeProviderRateLimited ErrorCode = "PROVIDER_RATE_LIMITED"
	CodeProviderFatal       ErrorCode = "PROVIDER_FATAL"
	CodePlanLimitReached    ErrorCode = "PLAN_LIMIT_REACHED"
	CodeProfileNotFound     ErrorCode = "PROFILE_NOT_FOUND"
)

// AppError represents an application error with structured information
type AppError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Cause      error                  `json:"-"`
	StackTrace string                 `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// StatusCode returns the appropriate HTTP status code
func (e *AppError) StatusCode() int {
	switch e.Code {
	case CodeBadRequest, CodeValidationFailed, CodeQuestionMismatch:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden, CodePlanLimitReached:
		return http.StatusForbidden
	case CodeNotFound, CodeSessionNotFound, CodeProfileNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeSessionConflict:
		return http.StatusConflict
	case CodeTooManyRequests, CodeProviderRateLimited:
		return http.StatusTooManyRequests
	case CodeServiceUnavailable, CodeProviderTransient, CodeProviderFatal:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WithMetadata adds metadata to the error
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// WithCause adds a cause error
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message, details string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		Details:    details,
		StackTrace: getStackTrace(),
	}
}

// Predefined error constructors for common scenarios

// NewValidationError creates a validation error
func NewValidationError(details string) *AppError {
	return NewAppError(CodeValidationFailed, "Validation failed", details)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	message := "Resource not found"
	if resource != "" {
		message = fmt.Sprintf("%s not found", strings.Title(resource))
	}
	return NewAppError(CodeNotFound, message, "")
}

// NewConflictError creates a conflict error
func NewConflictError(message string) *AppError {
	return NewAppError(CodeConflict, message, "")
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *AppError {
	if message == "" {
		message = "An unexpected error occurred"
	}
	return NewAppError(CodeInternal, message, "")
}

// NewDatabaseError creates a database error
func NewDatabaseError(operation string, cause error) *AppError {
	return NewAppError(
		CodeDatabaseError,
		"Database operation failed",
		fmt.Sprintf("Failed to %s", operation),
	).WithCause(cause)
}

// Assessment flow errors

// NewSessionConflictError signals an already-active assessment session
func NewSessionConflictError(userID string) *AppError {
	return NewAppError(
		CodeSessionConflict,
		"Assessment already in progress",
		"An in-progress assessment session exists for this user",
	).WithMetadata("user_id", userID)
}

// NewQuestionMismatchError signals an answer submitted for the wrong question
func NewQuestionMismatchError(expected, got string) *AppError {
	return NewAppError(
		CodeQuestionMismatch,
		"Question mismatch",
		fmt.Sprintf("Expected answer for %q, got answer for %q", expected, got),
	).WithMetadata("expected", expected).WithMetadata("got", got)
}

// NewFlowIntegrityError signals a broken question graph. The session cannot
// continue and must be abandoned by the caller.
func NewFlowIntegrityError(questionID string) *AppError {
	return NewAppError(
		CodeFlowIntegrity,
		"Assessment flow broken",
		fmt.Sprintf("No definition or transition for question %q", questionID),
	).WithMetadata("question_id", questionID)
}

// Generation pipeline errors

// NewProviderTransientError creates a retryable provider error
func NewProviderTransientError(provider string, cause error) *AppError {
	return NewAppError(
		CodeProviderTransient,
		"Provider request failed",
		fmt.Sprintf("Transient failure from %s", provider),
	).WithCause(cause).WithMetadata("provider", provider)
}

// NewProviderRateLimitError creates a rate-limit error with a cooldown hint
func NewProviderRateLimitError(provider string, cooldown time.Duration) *AppError {
	return NewAppError(
		CodeProviderRateLimited,
		"Provider rate limited",
		fmt.Sprintf("%s asked us to slow down", provider),
	).WithMetadata("provider", provider).WithMetadata("cooldown_seconds", cooldown.Seconds())
}

// NewProviderFatalError creates an error for an exhausted retry budget
func NewProviderFatalError(provider string, attempts int, cause error) *AppError {
	return NewAppError(
		CodeProviderFatal,
		"Provider retries exhausted",
		fmt.Sprintf("%s failed after %d attempts", provider, attempts),
	).WithCause(cause).WithMetadata("provider", provider).WithMetadata("attempts", attempts)
}

// Utility functions

// Wrap wraps an error as an internal error if it's not already an AppError
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}

	if appErr, ok := err.(*AppError); ok {
		return appErr
	}

	return NewInternalError(message).WithCause(err)
}

// Is checks if an error is of a specific error code
func Is(err error, code ErrorCode) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return CodeInternal
}

// IsRetryable reports whether the generation pipeline should retry after err.
// Rate-limit errors are handled by the cooldown path, not the retry budget.
func IsRetryable(err error) bool {
	return Is(err, CodeProviderTransient)
}

// getStackTrace captures the current stack trace
func getStackTrace() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var builder strings.Builder
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "pkg/errors") {
			builder.WriteString(fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function))
		}
		if !more {
			break
		}
	}

	return builder.String()
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error ErrorDetails `json:"error"`
}

// ErrorDetails represents the error details in API responses
type ErrorDetails struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	Timestamp string                 `json:"timestamp"`
}

// ToErrorResponse converts an AppError to an API error response
func ToErrorResponse(err *AppError, requestID string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetails{
			Code:      err.Code,
			Message:   err.Message,
			Details:   err.Details,
			Metadata:  err.Metadata,
			RequestID: requestID,
			Timestamp: fmt.Sprintf("%d", time.Now().Unix()),
		},
	}
}
