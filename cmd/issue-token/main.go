// Command issue-token registers a teacher profile and prints a signed
// access token for it. It is meant for local development and smoke tests
// against a server that shares the same LESSON_AUTH_JWT_SECRET.
//
// Usage:
//
//	go run ./cmd/issue-token -email asha@example.com -name "Asha Rao"
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // Register pgx driver for database/sql
	"github.com/kathalab/lesson-api/internal/config"
	"github.com/kathalab/lesson-api/internal/domain"
	"github.com/kathalab/lesson-api/internal/platform/logger"
	"github.com/kathalab/lesson-api/internal/platform/postgres"
	"github.com/kathalab/lesson-api/internal/redact"
	"github.com/kathalab/lesson-api/internal/service/auth"
)

func main() {
	email := flag.String("email", "", "Profile email (required)")
	name := flag.String("name", "", "Display name shown on shared excerpts (required)")
	id := flag.String("id", "", "Profile ID; a new one is generated when empty")
	flag.Parse()

	if *email == "" || *name == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	token, err := issue(context.Background(), cfg, l, *id, *email, *name)
	if err != nil {
		l.Error("failed to issue token", slog.String("error", redact.Error(err)))
		os.Exit(1)
	}
	fmt.Println(token)
}

func issue(ctx context.Context, cfg *config.Config, l *slog.Logger, rawID, email, name string) (string, error) {
	profileID := uuid.New()
	if rawID != "" {
		parsed, err := uuid.Parse(rawID)
		if err != nil {
			return "", fmt.Errorf("invalid -id: %w", err)
		}
		profileID = parsed
	}

	profile, err := domain.NewProfile(profileID, email, name)
	if err != nil {
		return "", err
	}

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return "", fmt.Errorf("failed to open database connection: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			l.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := postgres.NewPostgresProfileStore(db, l).Upsert(ctx, profile); err != nil {
		return "", fmt.Errorf("failed to save profile: %w", err)
	}
	l.Info("profile saved", slog.String("user_id", profile.ID.String()))

	tokens, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return "", err
	}
	return tokens.GenerateToken(ctx, profile.ID, profile.Email)
}
