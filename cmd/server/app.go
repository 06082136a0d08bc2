package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"cloud.google.com/go/storage"
	"github.com/kathalab/lesson-api/internal/config"
	"github.com/kathalab/lesson-api/internal/export"
	"github.com/kathalab/lesson-api/internal/generation"
	"github.com/kathalab/lesson-api/internal/platform/gcs"
	"github.com/kathalab/lesson-api/internal/platform/gemini"
	"github.com/kathalab/lesson-api/internal/platform/metrics"
	"github.com/kathalab/lesson-api/internal/platform/postgres"
	"github.com/kathalab/lesson-api/internal/prompt"
	"github.com/kathalab/lesson-api/internal/service"
	"github.com/kathalab/lesson-api/internal/service/auth"
	"github.com/kathalab/lesson-api/internal/store"
)

// dependencies are the collaborators the application is assembled from.
// Production values come from newApplication; tests pass fakes to assemble.
// Generator, Images and Uploader may be nil.
type dependencies struct {
	Lessons   store.LessonStore
	Excerpts  store.ExcerptStore
	Profiles  store.ProfileStore
	Generator generation.Generator
	Images    generation.ImageGenerator
	Uploader  service.ImageUploader
}

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	metrics        *metrics.Recorder
	authenticator  *auth.Authenticator
	lessonService  service.LessonService
	excerptService service.ExcerptService

	storageClient *storage.Client
}

// newApplication creates the production clients and stores and assembles
// the application from them. A missing Gemini API key or storage bucket
// disables generation or uploads; it does not fail start-up.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	deps := dependencies{
		Lessons:  postgres.NewPostgresLessonStore(db, logger),
		Excerpts: postgres.NewPostgresExcerptStore(db, logger),
		Profiles: postgres.NewPostgresProfileStore(db, logger),
	}

	if cfg.LLM.GeminiAPIKey == "" {
		logger.Warn("gemini API key not configured; lesson generation is disabled")
	} else {
		client, err := gemini.NewClient(ctx, cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}

		text, err := gemini.NewTextClient(logger, client.Models, cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("failed to create text generator: %w", err)
		}
		deps.Generator = text

		if cfg.LLM.ImageModelName != "" {
			images, err := gemini.NewImageClient(logger, client.Models, cfg.LLM)
			if err != nil {
				return nil, fmt.Errorf("failed to create image generator: %w", err)
			}
			deps.Images = images
		}
		logger.Info("gemini clients initialized",
			slog.String("model", cfg.LLM.ModelName),
			slog.String("image_model", cfg.LLM.ImageModelName))
	}

	var storageClient *storage.Client
	if cfg.Storage.Bucket != "" {
		var err error
		if storageClient, err = gcs.NewClient(ctx); err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		uploader, err := gcs.NewImageStore(storageClient, cfg.Storage, logger)
		if err != nil {
			_ = storageClient.Close()
			return nil, fmt.Errorf("failed to create image store: %w", err)
		}
		deps.Uploader = uploader
		logger.Info("illustration uploads enabled", slog.String("bucket", cfg.Storage.Bucket))
	}

	app, err := assemble(cfg, logger, deps)
	if err != nil {
		if storageClient != nil {
			_ = storageClient.Close()
		}
		return nil, err
	}
	app.db = db
	app.storageClient = storageClient

	logger.Info("application initialized successfully")
	return app, nil
}

// assemble wires services from already constructed dependencies.
func assemble(cfg *config.Config, logger *slog.Logger, deps dependencies) (*application, error) {
	if deps.Lessons == nil || deps.Excerpts == nil || deps.Profiles == nil {
		return nil, errors.New("lesson, excerpt and profile stores are required")
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	prompts, err := prompt.NewBuilder(cfg.LLM.PromptTemplatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load prompt template: %w", err)
	}

	recorder := metrics.NewRecorder()

	exporter := export.NewExporter(export.Config{
		PageSize:     cfg.Export.PageSize,
		MarginsMM:    cfg.Export.MarginsMM,
		FontFamily:   cfg.Export.FontFamily,
		UTF8FontPath: cfg.Export.UTF8FontPath,
	})
	if cfg.Export.UTF8FontPath == "" {
		logger.Warn("no UTF-8 font configured for PDF export; non-Latin text will not render")
	}

	lessonService, err := service.NewLessonService(service.LessonServiceDeps{
		Lessons:   deps.Lessons,
		Generator: deps.Generator,
		Images:    deps.Images,
		Uploader:  deps.Uploader,
		Prompts:   prompts,
		Exporter:  exporter,
		Metrics:   recorder,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create lesson service: %w", err)
	}

	excerptService, err := service.NewExcerptService(service.ExcerptServiceDeps{
		Excerpts:         deps.Excerpts,
		Lessons:          deps.Lessons,
		Profiles:         deps.Profiles,
		MaxContentLength: cfg.Sharing.MaxContentLength,
		Metrics:          recorder,
		Logger:           logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create excerpt service: %w", err)
	}

	return &application{
		config:         cfg,
		logger:         logger,
		metrics:        recorder,
		authenticator:  auth.NewAuthenticator(jwtService, deps.Profiles, logger),
		lessonService:  lessonService,
		excerptService: excerptService,
	}, nil
}

// Run serves HTTP until ctx is cancelled.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases clients owned by the application. The database pool is
// closed by its opener.
func (app *application) cleanup() {
	if app.storageClient != nil {
		if err := app.storageClient.Close(); err != nil {
			app.logger.Error("error closing storage client", slog.String("error", err.Error()))
		}
	}
	app.logger.Info("application shutdown completed")
}
