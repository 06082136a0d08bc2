package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Excerpt-specific validation errors
var (
	// ErrExcerptIDEmpty is returned when an excerpt ID is empty or nil.
	ErrExcerptIDEmpty = errors.New("excerpt ID cannot be empty")

	// ErrExcerptSharerEmpty is returned when no authenticated sharer is attached.
	ErrExcerptSharerEmpty = errors.New("excerpt sharer cannot be empty")

	// ErrExcerptOwnerNameEmpty is returned when the denormalized display name is blank.
	ErrExcerptOwnerNameEmpty = errors.New("excerpt source owner name cannot be empty")

	// ErrExcerptContentEmpty is returned when an excerpt has no content.
	ErrExcerptContentEmpty = errors.New("excerpt content cannot be empty")

	// ErrExcerptContentTooLong is returned when content exceeds the configured cap.
	ErrExcerptContentTooLong = errors.New("excerpt content is too long")

	// ErrExcerptCategoryInvalid is returned for a category outside the fixed set.
	ErrExcerptCategoryInvalid = errors.New("excerpt category is not recognised")
)

// ExcerptCategory labels which part of a lesson an excerpt was copied from.
type ExcerptCategory string

// Recognised excerpt categories.
const (
	CategoryFullPlan   ExcerptCategory = "Full Plan"
	CategoryRhyme      ExcerptCategory = "Rhyme"
	CategoryStory      ExcerptCategory = "Story"
	CategoryActivity   ExcerptCategory = "Activity"
	CategoryVocabulary ExcerptCategory = "Vocabulary"
	CategoryAssessment ExcerptCategory = "Assessment"
)

// ExcerptCategories lists every recognised category in display order.
var ExcerptCategories = []ExcerptCategory{
	CategoryFullPlan,
	CategoryRhyme,
	CategoryStory,
	CategoryActivity,
	CategoryVocabulary,
	CategoryAssessment,
}

// ParseExcerptCategory matches a category name case-insensitively.
func ParseExcerptCategory(name string) (ExcerptCategory, error) {
	name = strings.TrimSpace(name)
	for _, c := range ExcerptCategories {
		if strings.EqualFold(string(c), name) {
			return c, nil
		}
	}
	return "", ErrExcerptCategoryInvalid
}

// SharedExcerpt is a fragment of a lesson published to the community feed.
// It has a lifecycle independent of the lesson it was copied from: the
// source reference is informational only and is not a foreign key.
type SharedExcerpt struct {
	ID              uuid.UUID       `json:"id"`
	SharerID        uuid.UUID       `json:"sharer_id"`
	SourceLessonID  uuid.NullUUID   `json:"source_lesson_id"`
	SourceOwnerName string          `json:"source_owner_name"`
	Topic           string          `json:"topic"`
	Category        ExcerptCategory `json:"category"`
	Content         string          `json:"content"`
	AgeBand         string          `json:"age_band"`
	CreatedAt       time.Time       `json:"created_at"`
}

// NewSharedExcerpt creates a new SharedExcerpt.
// maxContentLength caps the content in characters; zero disables the cap.
func NewSharedExcerpt(
	sharerID uuid.UUID,
	sourceOwnerName string,
	sourceLessonID uuid.NullUUID,
	topic string,
	category ExcerptCategory,
	content string,
	ageBand string,
	maxContentLength int,
) (*SharedExcerpt, error) {
	excerpt := &SharedExcerpt{
		ID:              uuid.New(),
		SharerID:        sharerID,
		SourceLessonID:  sourceLessonID,
		SourceOwnerName: strings.TrimSpace(sourceOwnerName),
		Topic:           strings.TrimSpace(topic),
		Category:        category,
		Content:         strings.TrimSpace(content),
		AgeBand:         strings.TrimSpace(ageBand),
		CreatedAt:       time.Now().UTC(),
	}

	if err := excerpt.Validate(maxContentLength); err != nil {
		return nil, err
	}

	return excerpt, nil
}

// Validate checks if the SharedExcerpt has valid data.
func (e *SharedExcerpt) Validate(maxContentLength int) error {
	if e.ID == uuid.Nil {
		return ErrExcerptIDEmpty
	}

	if e.SharerID == uuid.Nil {
		return ErrExcerptSharerEmpty
	}

	if e.SourceOwnerName == "" {
		return ErrExcerptOwnerNameEmpty
	}

	if _, err := ParseExcerptCategory(string(e.Category)); err != nil {
		return err
	}

	if e.Content == "" {
		return ErrExcerptContentEmpty
	}

	if maxContentLength > 0 && utf8.RuneCountInString(e.Content) > maxContentLength {
		return ErrExcerptContentTooLong
	}

	return nil
}
