package mocks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/kathalab/lesson-api/internal/domain"
	"github.com/kathalab/lesson-api/internal/store"
)

// MockLessonStore is an in-memory store.LessonStore.
type MockLessonStore struct {
	// Function fields for customizable behavior
	CreateFn      func(ctx context.Context, lesson *domain.Lesson) error
	ListByOwnerFn func(ctx context.Context, ownerID uuid.UUID, filter store.LessonFilter) ([]*domain.Lesson, error)
	GetByIDFn     func(ctx context.Context, ownerID, id uuid.UUID) (*domain.Lesson, error)
	SetImageURLFn func(ctx context.Context, ownerID, id uuid.UUID, url string) error
	DeleteFn      func(ctx context.Context, ownerID, id uuid.UUID) error

	// CreateError is returned by the default Create when set.
	CreateError error

	mu      sync.Mutex
	lessons map[uuid.UUID]domain.Lesson
}

var _ store.LessonStore = (*MockLessonStore)(nil)

// NewMockLessonStore creates an empty store.
func NewMockLessonStore() *MockLessonStore {
	return &MockLessonStore{lessons: make(map[uuid.UUID]domain.Lesson)}
}

// Create implements store.LessonStore
func (m *MockLessonStore) Create(ctx context.Context, lesson *domain.Lesson) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, lesson)
	}
	if m.CreateError != nil {
		return m.CreateError
	}
	if err := lesson.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.lessons[lesson.ID]; exists {
		return store.ErrDuplicate
	}
	m.lessons[lesson.ID] = *lesson
	return nil
}

// ListByOwner implements store.LessonStore
func (m *MockLessonStore) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	filter store.LessonFilter,
) ([]*domain.Lesson, error) {
	if m.ListByOwnerFn != nil {
		return m.ListByOwnerFn(ctx, ownerID, filter)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	topic := strings.ToLower(strings.TrimSpace(filter.Topic))
	out := make([]*domain.Lesson, 0)
	for _, l := range m.lessons {
		if l.UserID != ownerID {
			continue
		}
		if topic != "" && !strings.Contains(strings.ToLower(l.Topic), topic) {
			continue
		}
		if filter.AgeBand != "" && l.AgeBand != filter.AgeBand {
			continue
		}
		l := l
		out = append(out, &l)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() > out[j].ID.String()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit := store.ClampLimit(filter.Limit); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// GetByID implements store.LessonStore
func (m *MockLessonStore) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Lesson, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, ownerID, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.lessons[id]
	if !ok || l.UserID != ownerID {
		return nil, store.ErrLessonNotFound
	}
	return &l, nil
}

// SetImageURL implements store.LessonStore
func (m *MockLessonStore) SetImageURL(ctx context.Context, ownerID, id uuid.UUID, url string) error {
	if m.SetImageURLFn != nil {
		return m.SetImageURLFn(ctx, ownerID, id, url)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.lessons[id]
	if !ok || l.UserID != ownerID {
		return store.ErrLessonNotFound
	}
	l.ImageURL = url
	m.lessons[id] = l
	return nil
}

// Delete implements store.LessonStore
func (m *MockLessonStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, ownerID, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.lessons[id]
	if !ok || l.UserID != ownerID {
		return store.ErrLessonNotFound
	}
	delete(m.lessons, id)
	return nil
}

// Count returns the number of stored lessons across all owners.
func (m *MockLessonStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.lessons)
}
