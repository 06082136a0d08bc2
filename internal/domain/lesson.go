package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Lesson-specific validation errors
var (
	// ErrLessonIDEmpty is returned when a lesson ID is empty or nil.
	ErrLessonIDEmpty = errors.New("lesson ID cannot be empty")

	// ErrLessonUserIDEmpty is returned when a lesson's owner ID is empty or nil.
	ErrLessonUserIDEmpty = errors.New("lesson user ID cannot be empty")

	// ErrLessonTopicEmpty is returned when a lesson's topic is blank.
	ErrLessonTopicEmpty = errors.New("lesson topic cannot be empty")
)

// Default request attributes applied when the caller leaves them blank.
const (
	DefaultLanguage = "English"
	DefaultAgeBand  = "6-8"
)

// Lesson is a generated lesson plan persisted for its owner.
// Lessons are immutable: they are created once and only ever deleted.
type Lesson struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Topic     string     `json:"topic"`
	Language  string     `json:"language"`
	AgeBand   string     `json:"age_band"`
	Plan      LessonPlan `json:"lesson_plan"`
	ImageURL  string     `json:"image_url,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewLesson creates a new Lesson owned by userID.
// It generates a new UUID and sets the creation timestamp.
// Returns an error if validation fails.
func NewLesson(userID uuid.UUID, topic, language, ageBand string, plan LessonPlan) (*Lesson, error) {
	lesson := &Lesson{
		ID:        uuid.New(),
		UserID:    userID,
		Topic:     strings.TrimSpace(topic),
		Language:  orDefault(language, DefaultLanguage),
		AgeBand:   orDefault(ageBand, DefaultAgeBand),
		Plan:      plan,
		CreatedAt: time.Now().UTC(),
	}

	if err := lesson.Validate(); err != nil {
		return nil, err
	}

	return lesson, nil
}

// Validate checks if the Lesson has valid data.
func (l *Lesson) Validate() error {
	if l.ID == uuid.Nil {
		return ErrLessonIDEmpty
	}

	if l.UserID == uuid.Nil {
		return ErrLessonUserIDEmpty
	}

	if strings.TrimSpace(l.Topic) == "" {
		return ErrLessonTopicEmpty
	}

	return l.Plan.Validate()
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
