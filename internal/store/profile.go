package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/kathalab/lesson-api/internal/domain"
)

// ProfileStore defines the interface for profile persistence.
type ProfileStore interface {
	// GetByID retrieves a profile by the identity provider's user ID.
	// Returns ErrProfileNotFound if the profile does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)

	// Upsert inserts the profile or updates its email and display name.
	// Returns ErrEmailExists if another profile already uses the email.
	Upsert(ctx context.Context, profile *domain.Profile) error
}
