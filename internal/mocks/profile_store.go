package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/kathalab/lesson-api/internal/domain"
	"github.com/kathalab/lesson-api/internal/store"
)

// MockProfileStore implements store.ProfileStore for testing
type MockProfileStore struct {
	// Function fields for customizable behavior
	GetByIDFn func(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	UpsertFn  func(ctx context.Context, profile *domain.Profile) error

	// GetByIDError is returned by the default GetByID when set.
	GetByIDError error

	mu       sync.Mutex
	profiles map[uuid.UUID]domain.Profile
}

var _ store.ProfileStore = (*MockProfileStore)(nil)

// NewMockProfileStore creates a store seeded with the given profiles.
func NewMockProfileStore(profiles ...*domain.Profile) *MockProfileStore {
	m := &MockProfileStore{profiles: make(map[uuid.UUID]domain.Profile)}
	for _, p := range profiles {
		m.profiles[p.ID] = *p
	}
	return m
}

// GetByID implements store.ProfileStore
func (m *MockProfileStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	if m.GetByIDError != nil {
		return nil, m.GetByIDError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, store.ErrProfileNotFound
	}
	return &p, nil
}

// Upsert implements store.ProfileStore
func (m *MockProfileStore) Upsert(ctx context.Context, profile *domain.Profile) error {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, profile)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, p := range m.profiles {
		if id != profile.ID && p.Email == profile.Email {
			return store.ErrEmailExists
		}
	}
	m.profiles[profile.ID] = *profile
	return nil
}
