package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/kathalab/lesson-api/internal/domain"
)

// Result limits shared by list operations.
const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// ClampLimit applies DefaultListLimit to non-positive limits and caps the
// result at MaxListLimit.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}

// LessonFilter narrows a lesson history listing. Zero values mean "no filter".
type LessonFilter struct {
	// Topic matches lessons whose topic contains it, case-insensitively.
	Topic string
	// AgeBand matches lessons with exactly this age band.
	AgeBand string
	// Limit bounds the number of lessons returned; see ClampLimit.
	Limit int
}

// LessonStore defines the interface for lesson persistence.
type LessonStore interface {
	// Create saves a new lesson. Each call inserts exactly one row;
	// repeated topics for the same owner are allowed.
	// Returns validation errors from the domain Lesson if data is invalid.
	Create(ctx context.Context, lesson *domain.Lesson) error

	// ListByOwner returns the owner's lessons, newest first.
	// Returns an empty slice if nothing matches.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, filter LessonFilter) ([]*domain.Lesson, error)

	// GetByID retrieves one of the owner's lessons.
	// Returns ErrLessonNotFound if it does not exist or belongs to someone else.
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Lesson, error)

	// SetImageURL records where the lesson's illustration is served from.
	// Returns ErrLessonNotFound if nothing matched.
	SetImageURL(ctx context.Context, ownerID, id uuid.UUID, url string) error

	// Delete removes one of the owner's lessons. Shared excerpts copied from
	// the lesson are not affected.
	// Returns ErrLessonNotFound if nothing matched.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}
