package store

import (
	"context"

	"github.com/kathalab/lesson-api/internal/domain"
)

// ExcerptFilter narrows a community feed listing.
type ExcerptFilter struct {
	// Category restricts the feed to one category when non-empty.
	Category domain.ExcerptCategory
	// Limit bounds the number of excerpts returned; see ClampLimit.
	Limit int
}

// ExcerptStore defines the interface for the shared community feed.
// The feed is readable and writable by any authenticated user.
type ExcerptStore interface {
	// Create publishes an excerpt as a single independent insert.
	Create(ctx context.Context, excerpt *domain.SharedExcerpt) error

	// ListRecent returns excerpts newest first.
	ListRecent(ctx context.Context, filter ExcerptFilter) ([]*domain.SharedExcerpt, error)
}
