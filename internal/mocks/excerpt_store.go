package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/kathalab/lesson-api/internal/domain"
	"github.com/kathalab/lesson-api/internal/store"
)

// MockExcerptStore is an in-memory store.ExcerptStore.
type MockExcerptStore struct {
	CreateFn     func(ctx context.Context, excerpt *domain.SharedExcerpt) error
	ListRecentFn func(ctx context.Context, filter store.ExcerptFilter) ([]*domain.SharedExcerpt, error)

	mu       sync.Mutex
	excerpts []domain.SharedExcerpt
}

var _ store.ExcerptStore = (*MockExcerptStore)(nil)

// NewMockExcerptStore creates an empty feed.
func NewMockExcerptStore() *MockExcerptStore {
	return &MockExcerptStore{}
}

// Create implements store.ExcerptStore
func (m *MockExcerptStore) Create(ctx context.Context, excerpt *domain.SharedExcerpt) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, excerpt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.excerpts = append(m.excerpts, *excerpt)
	return nil
}

// ListRecent implements store.ExcerptStore
func (m *MockExcerptStore) ListRecent(ctx context.Context, filter store.ExcerptFilter) ([]*domain.SharedExcerpt, error) {
	if m.ListRecentFn != nil {
		return m.ListRecentFn(ctx, filter)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.SharedExcerpt, 0, len(m.excerpts))
	for _, e := range m.excerpts {
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		e := e
		out = append(out, &e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit := store.ClampLimit(filter.Limit); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// All returns a copy of every stored excerpt in insertion order.
func (m *MockExcerptStore) All() []domain.SharedExcerpt {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.SharedExcerpt(nil), m.excerpts...)
}
