package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/kathalab/lesson-api/internal/config"
	"github.com/kathalab/lesson-api/internal/domain"
	"github.com/kathalab/lesson-api/internal/export"
	"github.com/kathalab/lesson-api/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func TestAssemble(t *testing.T) {
	t.Parallel()

	stores := func() dependencies {
		return dependencies{
			Lessons:  mocks.NewMockLessonStore(),
			Excerpts: mocks.NewMockExcerptStore(),
			Profiles: mocks.NewMockProfileStore(),
		}
	}

	t.Run("stores are required", func(t *testing.T) {
		deps := stores()
		deps.Profiles = nil
		_, err := assemble(testConfig(), slog.Default(), deps)
		assert.Error(t, err)
	})

	t.Run("short jwt secret", func(t *testing.T) {
		cfg := testConfig()
		cfg.Auth.JWTSecret = "too-short"
		_, err := assemble(cfg, slog.Default(), stores())
		assert.ErrorContains(t, err, "JWT")
	})

	t.Run("missing prompt template", func(t *testing.T) {
		cfg := testConfig()
		cfg.LLM.PromptTemplatePath = "does-not-exist.tmpl"
		_, err := assemble(cfg, slog.Default(), stores())
		assert.ErrorContains(t, err, "prompt template")
	})

	t.Run("without a generator", func(t *testing.T) {
		app, err := assemble(testConfig(), slog.Default(), stores())
		require.NoError(t, err)
		assert.NotNil(t, app.lessonService)
		assert.NotNil(t, app.excerptService)
		assert.NotNil(t, app.authenticator)
	})
}

func TestAssemble_ExportUsesConfiguredFont(t *testing.T) {
	t.Parallel()

	fontPath := filepath.Join(t.TempDir(), "go-regular.ttf")
	require.NoError(t, os.WriteFile(fontPath, goregular.TTF, 0o600))

	cfg := testConfig()
	cfg.Export = config.ExportConfig{PageSize: "A5", MarginsMM: 10, UTF8FontPath: fontPath}

	lessons := mocks.NewMockLessonStore()
	app, err := assemble(cfg, slog.Default(), dependencies{
		Lessons:  lessons,
		Excerpts: mocks.NewMockExcerptStore(),
		Profiles: mocks.NewMockProfileStore(),
	})
	require.NoError(t, err)

	plan := domain.LessonPlan{
		Title:            "Круговорот воды",
		StoryHook:        domain.StoryHook{Narrative: "Капелька просыпается в тёплом пруду."},
		Activity:         domain.Activity{Name: "Облако в банке", Steps: domain.StringList{"Налейте", "Накройте"}},
		VocabularyBridge: domain.StringList{"облако (oblako): cloud"},
	}
	plan.Normalize()
	lesson, err := domain.NewLesson(uuid.New(), "Water Cycle", "Russian", "7", plan)
	require.NoError(t, err)
	require.NoError(t, lessons.Create(context.Background(), lesson))

	doc, err := app.lessonService.Export(context.Background(), lesson.UserID, lesson.ID, export.FormatPDF)
	require.NoError(t, err)
	assert.Contains(t, string(doc.Body), "/FontFile2")
}

func TestRunMigrations_UnknownCommand(t *testing.T) {
	t.Parallel()
	err := runMigrations(context.Background(), nil, "sideways", slog.Default())
	assert.ErrorIs(t, err, ErrUnknownMigrationCommand)
	assert.ErrorContains(t, err, `"sideways"`)
}

func TestSlogGooseLogger(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l := slogGooseLogger{logger: slog.New(slog.NewJSONHandler(&buf, nil))}

	l.Printf("OK   %s (%d ms)\n", "00001_init.sql", 12)
	l.Fatalf("failed to apply %s", "00002_broken.sql")

	out := buf.String()
	assert.Contains(t, out, `"level":"INFO","msg":"OK   00001_init.sql (12 ms)"`)
	assert.Contains(t, out, `"level":"ERROR","msg":"failed to apply 00002_broken.sql"`)
}
