package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kathalab/lesson-api/internal/domain"
	"github.com/kathalab/lesson-api/internal/export"
	"github.com/kathalab/lesson-api/internal/generation"
	"github.com/kathalab/lesson-api/internal/platform/logger"
	"github.com/kathalab/lesson-api/internal/platform/metrics"
	"github.com/kathalab/lesson-api/internal/prompt"
	"github.com/kathalab/lesson-api/internal/store"
)

// UnsavedWarning is reported when a lesson was generated but could not be stored.
const UnsavedWarning = "Lesson generated but could not be saved to your history"

// ImageUploader stores illustration bytes and returns a public URL.
type ImageUploader interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// GenerateRequest is a single lesson generation request.
type GenerateRequest struct {
	UserID   uuid.UUID
	Topic    string
	Language string
	AgeBand  string
}

// GenerateResult is the outcome of a successful generation.
// Lesson is always set; it is only in the store when Saved is true.
type GenerateResult struct {
	Lesson       *domain.Lesson
	Illustration *generation.Illustration
	Saved        bool
	Warning      string
}

// LessonService provides lesson generation and history operations
type LessonService interface {
	// Generate runs the full pipeline for one request.
	// Returns ErrMissingTopic, ErrMisconfigured, or errors wrapping
	// generation.ErrUpstream / generation.ErrMalformedResponse.
	// A storage failure is not an error: the result reports Saved=false.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error)

	// List returns the caller's lessons, newest first.
	List(ctx context.Context, userID uuid.UUID, filter store.LessonFilter) ([]*domain.Lesson, error)

	// Get returns one of the caller's lessons or ErrLessonNotFound.
	Get(ctx context.Context, userID, lessonID uuid.UUID) (*domain.Lesson, error)

	// Delete removes one of the caller's lessons or returns ErrLessonNotFound.
	Delete(ctx context.Context, userID, lessonID uuid.UUID) error

	// Export renders one of the caller's lessons as a document.
	Export(ctx context.Context, userID, lessonID uuid.UUID, format export.Format) (*export.Document, error)
}

// LessonServiceDeps holds the collaborators of the lesson service.
// Lessons is required. A nil Generator makes Generate return ErrMisconfigured;
// nil Images, Uploader and Metrics disable those features.
type LessonServiceDeps struct {
	Lessons   store.LessonStore
	Generator generation.Generator
	Images    generation.ImageGenerator
	Uploader  ImageUploader
	Prompts   *prompt.Builder
	Exporter  *export.Exporter
	Metrics   *metrics.Recorder
	Logger    *slog.Logger
}

// lessonServiceImpl implements the LessonService interface
type lessonServiceImpl struct {
	lessons   store.LessonStore
	generator generation.Generator
	images    generation.ImageGenerator
	uploader  ImageUploader
	prompts   *prompt.Builder
	exporter  *export.Exporter
	metrics   *metrics.Recorder
	logger    *slog.Logger
}

// NewLessonService creates a new LessonService.
// It returns an error if the lesson store is nil or the default prompt
// template cannot be loaded.
func NewLessonService(deps LessonServiceDeps) (LessonService, error) {
	if deps.Lessons == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "lesson store cannot be nil"}
	}

	prompts := deps.Prompts
	if prompts == nil {
		var err error
		if prompts, err = prompt.NewBuilder(""); err != nil {
			return nil, NewServiceError("create_service", "failed to load prompt template", err)
		}
	}

	exporter := deps.Exporter
	if exporter == nil {
		exporter = export.NewExporter(export.DefaultConfig())
	}

	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}

	return &lessonServiceImpl{
		lessons:   deps.Lessons,
		generator: deps.Generator,
		images:    deps.Images,
		uploader:  deps.Uploader,
		prompts:   prompts,
		exporter:  exporter,
		metrics:   deps.Metrics,
		logger:    log.With(slog.String("component", "lesson_service")),
	}, nil
}

// Generate implements LessonService.Generate
func (s *lessonServiceImpl) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("user_id", req.UserID.String()))

	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		s.metrics.Generation(metrics.OutcomeInvalid)
		return nil, ErrMissingTopic
	}
	if s.generator == nil {
		s.metrics.Generation(metrics.OutcomeUnavailable)
		return nil, ErrMisconfigured
	}

	p, err := s.prompts.Build(topic, req.Language, req.AgeBand)
	if err != nil {
		return nil, NewServiceError("generate_lesson", "failed to build prompt", err)
	}

	start := time.Now()
	raw, err := s.generator.Generate(ctx, p)
	s.metrics.ObserveStage(metrics.StageModel, start)
	if err != nil {
		if errors.Is(err, generation.ErrContentBlocked) {
			s.metrics.Generation(metrics.OutcomeBlocked)
		} else {
			s.metrics.Generation(metrics.OutcomeUpstream)
		}
		log.Error("lesson generation failed", slog.String("error", err.Error()))
		return nil, err
	}

	plan, report, err := generation.ParseLessonPlan(raw)
	if err != nil {
		s.metrics.Generation(metrics.OutcomeMalformed)
		log.Error("failed to parse lesson plan",
			slog.String("error", err.Error()),
			slog.Int("response_length", len(raw)))
		return nil, err
	}
	if len(report.UnknownKeys) > 0 {
		log.Warn("dropped unknown lesson plan keys", slog.Any("keys", report.UnknownKeys))
	}
	plan.WithDefaults(topic)

	lesson, err := domain.NewLesson(req.UserID, topic, p.Language, p.AgeBand, *plan)
	if err != nil {
		return nil, NewServiceError("generate_lesson", "failed to assemble lesson", err)
	}

	result := &GenerateResult{Lesson: lesson}
	result.Illustration = s.illustrate(ctx, lesson)

	start = time.Now()
	err = s.lessons.Create(ctx, lesson)
	s.metrics.ObserveStage(metrics.StagePersist, start)
	if err != nil {
		s.metrics.Generation(metrics.OutcomeUnsaved)
		log.Error("generated lesson could not be saved",
			slog.String("error", err.Error()),
			slog.String("lesson_id", lesson.ID.String()))
		result.Warning = UnsavedWarning
		return result, nil
	}
	result.Saved = true

	if result.Illustration != nil {
		s.publish(ctx, log, lesson, result.Illustration)
	}

	s.metrics.Generation(metrics.OutcomeSuccess)
	log.Info("lesson generated",
		slog.String("lesson_id", lesson.ID.String()),
		slog.Bool("illustrated", result.Illustration != nil))
	return result, nil
}

// illustrate generates the optional illustration. A failure yields nil and
// the lesson is returned without an image.
func (s *lessonServiceImpl) illustrate(ctx context.Context, lesson *domain.Lesson) *generation.Illustration {
	if s.images == nil {
		return nil
	}

	start := time.Now()
	ill := s.images.Generate(ctx, string(lesson.Plan.ImagePrompt))
	s.metrics.ObserveStage(metrics.StageImage, start)
	s.metrics.Illustration(ill != nil)
	return ill
}

// publish uploads the illustration of a saved lesson and records its URL.
// Failures are logged and leave the lesson without an ImageURL.
func (s *lessonServiceImpl) publish(
	ctx context.Context,
	log *slog.Logger,
	lesson *domain.Lesson,
	ill *generation.Illustration,
) {
	if s.uploader == nil {
		return
	}
	log = log.With(slog.String("lesson_id", lesson.ID.String()))

	start := time.Now()
	url, err := s.uploader.Upload(ctx, lessonImageKey(lesson.UserID, lesson.ID, ill.MIMEType), ill.Data, ill.MIMEType)
	s.metrics.ObserveStage(metrics.StageUpload, start)
	if err != nil {
		log.Warn("failed to upload illustration", slog.String("error", err.Error()))
		return
	}

	if err := s.lessons.SetImageURL(ctx, lesson.UserID, lesson.ID, url); err != nil {
		log.Warn("failed to record illustration url",
			slog.String("error", err.Error()),
			slog.String("url", url))
		return
	}
	lesson.ImageURL = url
}

// List implements LessonService.List
func (s *lessonServiceImpl) List(
	ctx context.Context,
	userID uuid.UUID,
	filter store.LessonFilter,
) ([]*domain.Lesson, error) {
	lessons, err := s.lessons.ListByOwner(ctx, userID, filter)
	if err != nil {
		return nil, NewServiceError("list_lessons", "failed to list lessons", err)
	}
	return lessons, nil
}

// Get implements LessonService.Get
func (s *lessonServiceImpl) Get(ctx context.Context, userID, lessonID uuid.UUID) (*domain.Lesson, error) {
	lesson, err := s.lessons.GetByID(ctx, userID, lessonID)
	if err != nil {
		return nil, NewServiceError("get_lesson", "failed to get lesson", err)
	}
	return lesson, nil
}

// Delete implements LessonService.Delete
func (s *lessonServiceImpl) Delete(ctx context.Context, userID, lessonID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.lessons.Delete(ctx, userID, lessonID); err != nil {
		return NewServiceError("delete_lesson", "failed to delete lesson", err)
	}

	log.Info("lesson deleted",
		slog.String("user_id", userID.String()),
		slog.String("lesson_id", lessonID.String()))
	return nil
}

// Export implements LessonService.Export
func (s *lessonServiceImpl) Export(
	ctx context.Context,
	userID, lessonID uuid.UUID,
	format export.Format,
) (*export.Document, error) {
	lesson, err := s.Get(ctx, userID, lessonID)
	if err != nil {
		return nil, err
	}

	doc, err := s.exporter.Export(lesson, format)
	if err != nil {
		if errors.Is(err, export.ErrUnsupportedFormat) {
			return nil, err
		}
		return nil, NewServiceError("export_lesson", "failed to render lesson", err)
	}
	return doc, nil
}

// lessonImageKey names the object for a lesson illustration,
// e.g. lessons/<owner>/<lesson>.png.
func lessonImageKey(ownerID, lessonID uuid.UUID, mimeType string) string {
	return fmt.Sprintf("lessons/%s/%s%s", ownerID, lessonID, imageExtension(mimeType))
}

func imageExtension(mimeType string) string {
	switch strings.ToLower(strings.TrimSpace(mimeType)) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".png"
	}
}
