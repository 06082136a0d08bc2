package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/kathalab/lesson-api/internal/domain"
	"github.com/kathalab/lesson-api/internal/platform/logger"
	"github.com/kathalab/lesson-api/internal/store"
)

const lessonColumns = `id, user_id, topic, language, age_band, content, COALESCE(image_url, ''), created_at`

// likeEscaper escapes ILIKE wildcards so user input matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// PostgresLessonStore implements the store.LessonStore interface
// using a PostgreSQL database as the storage backend.
type PostgresLessonStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresLessonStore creates a new PostgreSQL implementation of the LessonStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresLessonStore(db store.DBTX, logger *slog.Logger) *PostgresLessonStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresLessonStore{
		db:     db,
		logger: logger.With(slog.String("component", "lesson_store")),
	}
}

// Ensure PostgresLessonStore implements store.LessonStore interface
var _ store.LessonStore = (*PostgresLessonStore)(nil)

// Create implements store.LessonStore.Create
// Returns store.ErrInvalidEntity if the owner has no profile row.
func (s *PostgresLessonStore) Create(ctx context.Context, lesson *domain.Lesson) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := lesson.Validate(); err != nil {
		log.Warn("lesson validation failed during create",
			slog.String("error", err.Error()),
			slog.String("lesson_id", lesson.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	content, err := json.Marshal(lesson.Plan)
	if err != nil {
		return fmt.Errorf("failed to encode lesson plan: %w", err)
	}

	query := `
		INSERT INTO lessons (id, user_id, topic, language, age_band, content, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		lesson.ID,
		lesson.UserID,
		lesson.Topic,
		lesson.Language,
		lesson.AgeBand,
		content,
		lesson.ImageURL,
		lesson.CreatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("lesson owner has no profile",
				slog.String("lesson_id", lesson.ID.String()),
				slog.String("user_id", lesson.UserID.String()))
			return fmt.Errorf("%w: profile %s not found", store.ErrInvalidEntity, lesson.UserID)
		}

		log.Error("failed to create lesson",
			slog.String("error", err.Error()),
			slog.String("lesson_id", lesson.ID.String()),
			slog.String("user_id", lesson.UserID.String()))
		return store.NewStoreError("lesson", "create", "failed to insert lesson", MapError(err))
	}

	log.Info("lesson created successfully",
		slog.String("lesson_id", lesson.ID.String()),
		slog.String("user_id", lesson.UserID.String()))
	return nil
}

// ListByOwner implements store.LessonStore.ListByOwner
func (s *PostgresLessonStore) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	filter store.LessonFilter,
) ([]*domain.Lesson, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args := buildLessonListQuery(ownerID, filter)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list lessons",
			slog.String("error", err.Error()),
			slog.String("user_id", ownerID.String()))
		return nil, store.NewStoreError("lesson", "list", "failed to query lessons", MapError(err))
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	lessons := make([]*domain.Lesson, 0)
	for rows.Next() {
		lesson, err := scanLesson(rows)
		if err != nil {
			log.Error("failed to scan lesson row", slog.String("error", err.Error()))
			return nil, store.NewStoreError("lesson", "list", "failed to scan lesson", err)
		}
		lessons = append(lessons, lesson)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("lesson", "list", "failed to iterate lessons", MapError(err))
	}

	log.Debug("lessons listed",
		slog.String("user_id", ownerID.String()),
		slog.Int("count", len(lessons)))
	return lessons, nil
}

// buildLessonListQuery assembles the owner-scoped history query.
// The owner predicate is always the first argument.
func buildLessonListQuery(ownerID uuid.UUID, filter store.LessonFilter) (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT " + lessonColumns + " FROM lessons WHERE user_id = $1")
	args := []any{ownerID}

	if topic := strings.TrimSpace(filter.Topic); topic != "" {
		args = append(args, "%"+likeEscaper.Replace(topic)+"%")
		b.WriteString(" AND topic ILIKE $" + strconv.Itoa(len(args)))
	}

	if age := strings.TrimSpace(filter.AgeBand); age != "" {
		args = append(args, age)
		b.WriteString(" AND age_band = $" + strconv.Itoa(len(args)))
	}

	args = append(args, store.ClampLimit(filter.Limit))
	b.WriteString(" ORDER BY created_at DESC, id DESC LIMIT $" + strconv.Itoa(len(args)))

	return b.String(), args
}

// GetByID implements store.LessonStore.GetByID
func (s *PostgresLessonStore) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Lesson, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := "SELECT " + lessonColumns + " FROM lessons WHERE id = $1 AND user_id = $2"

	lesson, err := scanLesson(s.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("lesson not found",
				slog.String("lesson_id", id.String()),
				slog.String("user_id", ownerID.String()))
			return nil, store.ErrLessonNotFound
		}
		log.Error("failed to get lesson by ID",
			slog.String("error", err.Error()),
			slog.String("lesson_id", id.String()))
		return nil, store.NewStoreError("lesson", "get", "failed to load lesson", MapError(err))
	}

	return lesson, nil
}

// SetImageURL implements store.LessonStore.SetImageURL
func (s *PostgresLessonStore) SetImageURL(ctx context.Context, ownerID, id uuid.UUID, url string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		"UPDATE lessons SET image_url = $1 WHERE id = $2 AND user_id = $3", url, id, ownerID)
	if err != nil {
		log.Error("failed to set lesson image",
			slog.String("error", err.Error()),
			slog.String("lesson_id", id.String()))
		return store.NewStoreError("lesson", "set_image", "failed to set lesson image", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrLessonNotFound)
}

// Delete implements store.LessonStore.Delete
func (s *PostgresLessonStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, "DELETE FROM lessons WHERE id = $1 AND user_id = $2", id, ownerID)
	if err != nil {
		log.Error("failed to delete lesson",
			slog.String("error", err.Error()),
			slog.String("lesson_id", id.String()))
		return store.NewStoreError("lesson", "delete", "failed to delete lesson", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrLessonNotFound); err != nil {
		if errors.Is(err, store.ErrLessonNotFound) {
			log.Debug("lesson not found for deletion",
				slog.String("lesson_id", id.String()),
				slog.String("user_id", ownerID.String()))
		}
		return err
	}

	log.Info("lesson deleted successfully",
		slog.String("lesson_id", id.String()),
		slog.String("user_id", ownerID.String()))
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanLesson(row rowScanner) (*domain.Lesson, error) {
	var (
		lesson  domain.Lesson
		content []byte
	)

	err := row.Scan(
		&lesson.ID,
		&lesson.UserID,
		&lesson.Topic,
		&lesson.Language,
		&lesson.AgeBand,
		&content,
		&lesson.ImageURL,
		&lesson.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(content, &lesson.Plan); err != nil {
		return nil, fmt.Errorf("failed to decode stored lesson plan %s: %w", lesson.ID, err)
	}
	lesson.Plan.Normalize()

	return &lesson, nil
}
