package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kathalab/lesson-api/internal/domain"
	"github.com/kathalab/lesson-api/internal/platform/logger"
	"github.com/kathalab/lesson-api/internal/store"
)

// PostgresExcerptStore implements the store.ExcerptStore interface
// using a PostgreSQL database as the storage backend.
type PostgresExcerptStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresExcerptStore creates a new PostgreSQL implementation of the ExcerptStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresExcerptStore(db store.DBTX, logger *slog.Logger) *PostgresExcerptStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresExcerptStore{
		db:     db,
		logger: logger.With(slog.String("component", "excerpt_store")),
	}
}

// Ensure PostgresExcerptStore implements store.ExcerptStore interface
var _ store.ExcerptStore = (*PostgresExcerptStore)(nil)

// Create implements store.ExcerptStore.Create
func (s *PostgresExcerptStore) Create(ctx context.Context, excerpt *domain.SharedExcerpt) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := excerpt.Validate(0); err != nil {
		log.Warn("excerpt validation failed during create",
			slog.String("error", err.Error()),
			slog.String("excerpt_id", excerpt.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO shared_excerpts
			(id, sharer_id, source_lesson_id, source_owner_name, topic, category, content, age_band, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		excerpt.ID,
		excerpt.SharerID,
		excerpt.SourceLessonID,
		excerpt.SourceOwnerName,
		excerpt.Topic,
		string(excerpt.Category),
		excerpt.Content,
		excerpt.AgeBand,
		excerpt.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create shared excerpt",
			slog.String("error", err.Error()),
			slog.String("excerpt_id", excerpt.ID.String()))
		return store.NewStoreError("excerpt", "create", "failed to insert excerpt", MapError(err))
	}

	log.Info("shared excerpt created",
		slog.String("excerpt_id", excerpt.ID.String()),
		slog.String("category", string(excerpt.Category)))
	return nil
}

// ListRecent implements store.ExcerptStore.ListRecent
func (s *PostgresExcerptStore) ListRecent(
	ctx context.Context,
	filter store.ExcerptFilter,
) ([]*domain.SharedExcerpt, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, sharer_id, source_lesson_id, source_owner_name, topic, category, content, age_band, created_at
		FROM shared_excerpts
		WHERE ($1::text = '' OR category = $1::text)
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	rows, err := s.db.QueryContext(ctx, query, string(filter.Category), store.ClampLimit(filter.Limit))
	if err != nil {
		log.Error("failed to list shared excerpts", slog.String("error", err.Error()))
		return nil, store.NewStoreError("excerpt", "list", "failed to query excerpts", MapError(err))
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	excerpts := make([]*domain.SharedExcerpt, 0)
	for rows.Next() {
		var (
			e        domain.SharedExcerpt
			category string
		)
		if err := rows.Scan(
			&e.ID,
			&e.SharerID,
			&e.SourceLessonID,
			&e.SourceOwnerName,
			&e.Topic,
			&category,
			&e.Content,
			&e.AgeBand,
			&e.CreatedAt,
		); err != nil {
			log.Error("failed to scan shared excerpt row", slog.String("error", err.Error()))
			return nil, store.NewStoreError("excerpt", "list", "failed to scan excerpt", err)
		}
		e.Category = domain.ExcerptCategory(category)
		excerpts = append(excerpts, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("excerpt", "list", "failed to iterate excerpts", MapError(err))
	}

	return excerpts, nil
}
