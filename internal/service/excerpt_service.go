package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/kathalab/lesson-api/internal/domain"
	"github.com/kathalab/lesson-api/internal/platform/logger"
	"github.com/kathalab/lesson-api/internal/platform/metrics"
	"github.com/kathalab/lesson-api/internal/store"
	"github.com/microcosm-cc/bluemonday"
)

// DefaultMaxExcerptLength caps shared content when no limit is configured.
const DefaultMaxExcerptLength = 20000

// ShareRequest publishes part of a lesson to the community feed.
type ShareRequest struct {
	UserID uuid.UUID
	// LessonID optionally names the caller's own source lesson. Topic and
	// AgeBand default to the lesson's values when it is given.
	LessonID uuid.NullUUID
	Topic    string
	Category string
	Content  string
	AgeBand  string
}

// ExcerptService provides community feed operations
type ExcerptService interface {
	// Share validates, sanitizes and publishes an excerpt.
	// Returns errors wrapping ErrInvalidExcerpt for policy violations,
	// ErrLessonNotFound when LessonID is not the caller's, and
	// ErrUnknownSharer when the caller has no profile.
	Share(ctx context.Context, req ShareRequest) (*domain.SharedExcerpt, error)

	// Feed lists shared excerpts newest first.
	Feed(ctx context.Context, filter store.ExcerptFilter) ([]*domain.SharedExcerpt, error)
}

// ExcerptServiceDeps holds the collaborators of the excerpt service.
type ExcerptServiceDeps struct {
	Excerpts         store.ExcerptStore
	Lessons          store.LessonStore
	Profiles         store.ProfileStore
	MaxContentLength int
	Metrics          *metrics.Recorder
	Logger           *slog.Logger
}

type excerptServiceImpl struct {
	excerpts  store.ExcerptStore
	lessons   store.LessonStore
	profiles  store.ProfileStore
	maxLength int
	content   *bluemonday.Policy
	plain     *bluemonday.Policy
	metrics   *metrics.Recorder
	logger    *slog.Logger
}

// NewExcerptService creates a new ExcerptService.
// It returns an error if any of the stores is nil.
func NewExcerptService(deps ExcerptServiceDeps) (ExcerptService, error) {
	switch {
	case deps.Excerpts == nil:
		return nil, &ServiceError{Operation: "create_service", Message: "excerpt store cannot be nil"}
	case deps.Lessons == nil:
		return nil, &ServiceError{Operation: "create_service", Message: "lesson store cannot be nil"}
	case deps.Profiles == nil:
		return nil, &ServiceError{Operation: "create_service", Message: "profile store cannot be nil"}
	}

	maxLength := deps.MaxContentLength
	if maxLength <= 0 {
		maxLength = DefaultMaxExcerptLength
	}

	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}

	return &excerptServiceImpl{
		excerpts:  deps.Excerpts,
		lessons:   deps.Lessons,
		profiles:  deps.Profiles,
		maxLength: maxLength,
		content:   bluemonday.UGCPolicy(),
		plain:     bluemonday.StrictPolicy(),
		metrics:   deps.Metrics,
		logger:    log.With(slog.String("component", "excerpt_service")),
	}, nil
}

// Share implements ExcerptService.Share
func (s *excerptServiceImpl) Share(ctx context.Context, req ShareRequest) (*domain.SharedExcerpt, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("user_id", req.UserID.String()))

	category, err := domain.ParseExcerptCategory(req.Category)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidExcerpt, err)
	}

	profile, err := s.profiles.GetByID(ctx, req.UserID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrUnknownSharer
		}
		return nil, NewServiceError("share_excerpt", "failed to load sharer profile", err)
	}

	topic, ageBand := req.Topic, req.AgeBand
	if req.LessonID.Valid {
		lesson, err := s.lessons.GetByID(ctx, req.UserID, req.LessonID.UUID)
		if err != nil {
			return nil, NewServiceError("share_excerpt", "failed to load source lesson", err)
		}
		if strings.TrimSpace(topic) == "" {
			topic = lesson.Topic
		}
		if strings.TrimSpace(ageBand) == "" {
			ageBand = lesson.AgeBand
		}
	}

	excerpt, err := domain.NewSharedExcerpt(
		req.UserID,
		profile.DisplayName,
		req.LessonID,
		s.plainText(topic),
		category,
		s.content.Sanitize(req.Content),
		s.plainText(ageBand),
		s.maxLength,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidExcerpt, err)
	}

	if err := s.excerpts.Create(ctx, excerpt); err != nil {
		return nil, NewServiceError("share_excerpt", "failed to publish excerpt", err)
	}

	s.metrics.ExcerptShared(string(category))
	log.Info("excerpt shared",
		slog.String("excerpt_id", excerpt.ID.String()),
		slog.String("category", string(category)))
	return excerpt, nil
}

// plainText strips all markup. Like Content, the result is HTML-escaped.
func (s *excerptServiceImpl) plainText(v string) string {
	return strings.TrimSpace(s.plain.Sanitize(v))
}

// Feed implements ExcerptService.Feed
func (s *excerptServiceImpl) Feed(ctx context.Context, filter store.ExcerptFilter) ([]*domain.SharedExcerpt, error) {
	if filter.Category != "" {
		category, err := domain.ParseExcerptCategory(string(filter.Category))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidExcerpt, err)
		}
		filter.Category = category
	}

	excerpts, err := s.excerpts.ListRecent(ctx, filter)
	if err != nil {
		return nil, NewServiceError("list_excerpts", "failed to list community feed", err)
	}
	return excerpts, nil
}
