package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/kathalab/lesson-api/internal/api/shared"
	"github.com/kathalab/lesson-api/internal/domain"
	"github.com/kathalab/lesson-api/internal/export"
	"github.com/kathalab/lesson-api/internal/generation"
	"github.com/kathalab/lesson-api/internal/redact"
	"github.com/kathalab/lesson-api/internal/service"
	"github.com/kathalab/lesson-api/internal/service/auth"
	"github.com/kathalab/lesson-api/internal/store"
)

// Client-facing messages with a fixed wording.
const (
	MsgMissingConfiguration = "Missing configuration"
	MsgInvalidRequestFormat = "Invalid request format"
	MsgTokenRequired        = "Token required"
	MsgInvalidUser          = "Invalid user"
	MsgMethodNotAllowed     = "Method Not Allowed"
	MsgGenerationFailed     = "Generation failed"
	MsgParseFailed          = "Failed to parse lesson plan"
	MsgUnexpected           = "An unexpected error occurred"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrUnknownUser),
		errors.Is(err, service.ErrUnknownSharer):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, service.ErrLessonNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, service.ErrMissingTopic),
		errors.Is(err, service.ErrMisconfigured),
		errors.Is(err, service.ErrInvalidExcerpt),
		errors.Is(err, export.ErrUnsupportedFormat),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest

	// Generation failures are server-side from the caller's point of view
	case errors.Is(err, generation.ErrUpstream),
		errors.Is(err, generation.ErrMalformedResponse):
		return http.StatusInternalServerError

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. Generation failures carry the redacted cause
// so callers can tell an upstream outage from an unusable model answer.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return MsgUnexpected
	}

	var validationErr *domain.ValidationError

	switch {
	case errors.Is(err, auth.ErrMissingToken):
		return MsgTokenRequired

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrUnknownUser),
		errors.Is(err, service.ErrUnknownSharer):
		return MsgInvalidUser

	case errors.Is(err, service.ErrMissingTopic),
		errors.Is(err, service.ErrMisconfigured):
		return MsgMissingConfiguration

	case errors.Is(err, generation.ErrUpstream):
		return fmt.Sprintf("%s: %s", MsgGenerationFailed, redact.Error(err))

	case errors.Is(err, generation.ErrMalformedResponse):
		return fmt.Sprintf("%s: %s", MsgParseFailed, redact.Error(err))

	case errors.Is(err, service.ErrLessonNotFound),
		errors.Is(err, store.ErrLessonNotFound):
		return "Lesson not found"

	case errors.Is(err, store.ErrNotFound):
		return "Not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, service.ErrInvalidExcerpt):
		return excerptErrorMessage(err)

	case errors.Is(err, export.ErrUnsupportedFormat):
		return "Unsupported export format"

	case errors.As(err, &validationErr):
		return validationErr.Error()

	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation):
		return "Invalid entity data"

	default:
		return MsgUnexpected
	}
}

// excerptErrorMessage names which share rule a request broke.
func excerptErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrExcerptContentEmpty):
		return "Excerpt content cannot be empty"
	case errors.Is(err, domain.ErrExcerptContentTooLong):
		return "Excerpt content is too long"
	case errors.Is(err, domain.ErrExcerptCategoryInvalid):
		return "Excerpt category is not recognised"
	default:
		return "Invalid excerpt"
	}
}

// HandleAPIError writes the response for a service error. message overrides
// the safe message when non-empty; the full error is only ever logged, redacted.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	if message == "" {
		message = GetSafeErrorMessage(err)
	}

	var opts []shared.ResponseOption
	if status == http.StatusUnauthorized {
		opts = append(opts, shared.WithElevatedLogLevel())
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example format: "Key: 'GenerateLessonRequest.Topic' Error:Field validation for 'Topic' failed on the 'max' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	case "uuid":
		return "invalid identifier"
	default:
		return "validation failed"
	}
}
