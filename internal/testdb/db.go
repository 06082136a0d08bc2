// Package testdb provides database helpers for integration tests.
// Tests using it are skipped unless LESSON_TEST_DATABASE_URL (or
// LESSON_DATABASE_URL) points at a disposable Postgres database.
package testdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/kathalab/lesson-api/internal/platform/postgres/migrations"
	"github.com/kathalab/lesson-api/internal/store"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
)

// TestTimeout defines a default timeout for test database operations.
const TestTimeout = 5 * time.Second

var migrateOnce sync.Once

// DatabaseURL returns the database URL for integration tests, or "" if none is configured.
func DatabaseURL() string {
	if url := os.Getenv("LESSON_TEST_DATABASE_URL"); url != "" {
		return url
	}
	return os.Getenv("LESSON_DATABASE_URL")
}

// GetTestDBWithT returns a migrated database connection, skipping the test
// when no database is configured. The connection is closed on cleanup.
func GetTestDBWithT(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := DatabaseURL()
	if dbURL == "" {
		t.Skip("LESSON_TEST_DATABASE_URL not set - skipping integration test")
	}

	db, err := sql.Open("pgx", dbURL)
	require.NoError(t, err, "Failed to open database connection")

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()
	require.NoError(t, db.PingContext(ctx), "Database ping failed")

	var migrateErr error
	migrateOnce.Do(func() {
		migrateErr = applyMigrations(db, t)
	})
	require.NoError(t, migrateErr, "Failed to run migrations")

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: failed to close database connection: %v", err)
		}
	})

	return db
}

func applyMigrations(db *sql.DB, t *testing.T) error {
	goose.SetLogger(&testGooseLogger{t: t})
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db, ".")
}

// WithTx executes a test function within a transaction, automatically rolling back
// after the test completes. This ensures test isolation and prevents side effects.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.Begin()
	require.NoError(t, err, "Failed to begin transaction")

	defer func() {
		err := tx.Rollback()
		if err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("Warning: failed to rollback transaction: %v", err)
		}
	}()

	fn(t, tx)
}

// MustInsertProfile inserts a profile row and returns its ID.
func MustInsertProfile(ctx context.Context, t *testing.T, db store.DBTX, displayName string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	email := fmt.Sprintf("%s-%s@example.com", strings.ToLower(strings.ReplaceAll(displayName, " ", ".")), id.String()[:8])
	_, err := db.ExecContext(ctx,
		`INSERT INTO profiles (id, email, display_name) VALUES ($1, $2, $3)`,
		id, email, displayName)
	require.NoError(t, err, "Failed to insert test profile")

	return id
}

// testGooseLogger routes goose output to the test log.
type testGooseLogger struct {
	t *testing.T
}

func (l *testGooseLogger) Printf(format string, v ...interface{}) {
	l.t.Log("Goose: " + strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l *testGooseLogger) Fatalf(format string, v ...interface{}) {
	l.t.Fatal("Goose fatal error: " + strings.TrimSpace(fmt.Sprintf(format, v...)))
}
