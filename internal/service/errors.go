// Package service provides application-level services for generating, storing and sharing lessons.
package service

import (
	"errors"
	"fmt"

	"github.com/kathalab/lesson-api/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in ServiceError with the failing operation
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrMissingTopic indicates a generation request without a topic.
	// API layer maps this to HTTP 400.
	ErrMissingTopic = errors.New("topic is required")

	// ErrMisconfigured indicates the text generator is not configured
	// (no API key). API layer maps this to HTTP 400.
	ErrMisconfigured = errors.New("lesson generation is not configured")

	// ErrLessonNotFound indicates the lesson does not exist or is not owned by the caller.
	// API layer maps this to HTTP 404.
	ErrLessonNotFound = errors.New("lesson not found")

	// ErrInvalidExcerpt indicates a share request that breaks the share policy.
	// The specific domain error is wrapped alongside it. API layer maps this to HTTP 400.
	ErrInvalidExcerpt = errors.New("invalid excerpt")

	// ErrUnknownSharer indicates the sharer has no profile to take a display name from.
	ErrUnknownSharer = errors.New("sharer has no profile")
)

// ServiceError wraps unexpected errors from a service with context.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "generate_lesson", "share_excerpt")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
// Store not-found errors for lessons are returned as ErrLessonNotFound without wrapping.
func NewServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrLessonNotFound) || errors.Is(err, store.ErrLessonNotFound) {
		return ErrLessonNotFound
	}

	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
