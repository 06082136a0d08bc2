package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/kathalab/lesson-api/internal/domain"
)

// GenerateLessonRequest defines the payload for POST /api/generate-lesson.
// Topic is checked by the service so a blank topic gets the fixed
// "Missing configuration" answer rather than a validation message.
type GenerateLessonRequest struct {
	Topic    string      `json:"topic"    validate:"max=200"`
	Language string      `json:"language" validate:"max=64"`
	Age      domain.Text `json:"age"      validate:"max=32"`
}

// GenerateLessonResponse is the successful answer to a generation request.
// Image is null when no illustration was produced.
type GenerateLessonResponse struct {
	Success    bool              `json:"success"`
	LessonPlan domain.LessonPlan `json:"lessonPlan"`
	LessonID   *uuid.UUID        `json:"lessonId,omitempty"`
	Image      *string           `json:"image"`
	ImageURL   string            `json:"imageUrl,omitempty"`
	Saved      bool              `json:"saved"`
	Warning    string            `json:"warning,omitempty"`
}

// LessonSummary is one row of the lesson history listing.
type LessonSummary struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Topic     string    `json:"topic"`
	Language  string    `json:"language"`
	Age       string    `json:"age"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// LessonResponse is a stored lesson with its full plan.
type LessonResponse struct {
	LessonSummary
	LessonPlan domain.LessonPlan `json:"lessonPlan"`
}

// LessonListResponse wraps the history listing.
type LessonListResponse struct {
	Lessons []LessonSummary `json:"lessons"`
}

// ShareExcerptRequest defines the payload for POST /api/community.
// Topic and age default to the source lesson's when lessonId is given.
type ShareExcerptRequest struct {
	LessonID *uuid.UUID  `json:"lessonId"`
	Topic    string      `json:"topic"    validate:"max=200"`
	Category string      `json:"category" validate:"required,max=32"`
	Content  string      `json:"content"  validate:"required"`
	Age      domain.Text `json:"age"      validate:"max=32"`
}

// ExcerptResponse is one community feed entry.
type ExcerptResponse struct {
	ID        uuid.UUID  `json:"id"`
	LessonID  *uuid.UUID `json:"lessonId"`
	SharedBy  string     `json:"sharedBy"`
	Topic     string     `json:"topic"`
	Category  string     `json:"category"`
	Content   string     `json:"content"`
	Age       string     `json:"age"`
	CreatedAt time.Time  `json:"createdAt"`
}

// ExcerptListResponse wraps the community feed.
type ExcerptListResponse struct {
	Excerpts []ExcerptResponse `json:"excerpts"`
}

func lessonToSummary(l *domain.Lesson) LessonSummary {
	return LessonSummary{
		ID:        l.ID,
		Title:     string(l.Plan.Title),
		Topic:     l.Topic,
		Language:  l.Language,
		Age:       l.AgeBand,
		ImageURL:  l.ImageURL,
		CreatedAt: l.CreatedAt,
	}
}

func lessonToResponse(l *domain.Lesson) LessonResponse {
	return LessonResponse{
		LessonSummary: lessonToSummary(l),
		LessonPlan:    l.Plan,
	}
}

func excerptToResponse(e *domain.SharedExcerpt) ExcerptResponse {
	resp := ExcerptResponse{
		ID:        e.ID,
		SharedBy:  e.SourceOwnerName,
		Topic:     e.Topic,
		Category:  string(e.Category),
		Content:   e.Content,
		Age:       e.AgeBand,
		CreatedAt: e.CreatedAt,
	}
	if e.SourceLessonID.Valid {
		id := e.SourceLessonID.UUID
		resp.LessonID = &id
	}
	return resp
}
