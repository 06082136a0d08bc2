//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kathalab/lesson-api/internal/domain"
	"github.com/kathalab/lesson-api/internal/platform/postgres"
	"github.com/kathalab/lesson-api/internal/store"
	"github.com/kathalab/lesson-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlan(narrative string) domain.LessonPlan {
	plan := domain.LessonPlan{
		Title:     "Water Cycle",
		StoryHook: domain.StoryHook{Narrative: domain.Text(narrative)},
		Activity:  domain.Activity{Name: "Cloud in a jar", Steps: domain.StringList{"Pour", "Cover"}},
		Rhyme:     "Up goes the water",
	}
	plan.Normalize()
	return plan
}

func mustLesson(t *testing.T, owner uuid.UUID, topic, age string) *domain.Lesson {
	t.Helper()
	lesson, err := domain.NewLesson(owner, topic, "Hindi", age, testPlan("Bindu the raindrop"))
	require.NoError(t, err)
	return lesson
}

func TestPostgresLessonStore(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx, cancel := context.WithTimeout(context.Background(), testdb.TestTimeout)
		defer cancel()

		lessons := postgres.NewPostgresLessonStore(tx, nil)
		owner := testdb.MustInsertProfile(ctx, t, tx, "Asha")
		other := testdb.MustInsertProfile(ctx, t, tx, "Ravi")

		first := mustLesson(t, owner, "Water Cycle", "7")
		first.CreatedAt = time.Now().UTC().Add(-time.Minute)
		second := mustLesson(t, owner, "Water Cycle", "7")
		second.ImageURL = "https://cdn.example.com/lessons/x.png"
		third := mustLesson(t, owner, "Fractions", "9")
		foreign := mustLesson(t, other, "Water Cycle", "7")

		for _, l := range []*domain.Lesson{first, second, third, foreign} {
			require.NoError(t, lessons.Create(ctx, l))
		}

		t.Run("get round trips the plan", func(t *testing.T) {
			got, err := lessons.GetByID(ctx, owner, second.ID)
			require.NoError(t, err)
			assert.Equal(t, second.Plan, got.Plan)
			assert.Equal(t, second.ImageURL, got.ImageURL)
			assert.Equal(t, "Hindi", got.Language)
		})

		t.Run("get is owner scoped", func(t *testing.T) {
			_, err := lessons.GetByID(ctx, other, second.ID)
			assert.ErrorIs(t, err, store.ErrLessonNotFound)
		})

		t.Run("list newest first and filtered", func(t *testing.T) {
			all, err := lessons.ListByOwner(ctx, owner, store.LessonFilter{})
			require.NoError(t, err)
			require.Len(t, all, 3)
			assert.NotEqual(t, first.ID, all[0].ID)
			assert.Equal(t, first.ID, all[2].ID)

			water, err := lessons.ListByOwner(ctx, owner, store.LessonFilter{Topic: "water"})
			require.NoError(t, err)
			assert.Len(t, water, 2)

			nine, err := lessons.ListByOwner(ctx, owner, store.LessonFilter{AgeBand: "9"})
			require.NoError(t, err)
			require.Len(t, nine, 1)
			assert.Equal(t, third.ID, nine[0].ID)

			limited, err := lessons.ListByOwner(ctx, owner, store.LessonFilter{Limit: 1})
			require.NoError(t, err)
			assert.Len(t, limited, 1)

			none, err := lessons.ListByOwner(ctx, uuid.New(), store.LessonFilter{})
			require.NoError(t, err)
			assert.NotNil(t, none)
			assert.Empty(t, none)
		})

		t.Run("image url is owner scoped", func(t *testing.T) {
			url := "https://cdn.example.com/lessons/third.png"
			assert.ErrorIs(t, lessons.SetImageURL(ctx, other, third.ID, url), store.ErrLessonNotFound)
			require.NoError(t, lessons.SetImageURL(ctx, owner, third.ID, url))

			got, err := lessons.GetByID(ctx, owner, third.ID)
			require.NoError(t, err)
			assert.Equal(t, url, got.ImageURL)
		})

		t.Run("delete is owner scoped", func(t *testing.T) {
			assert.ErrorIs(t, lessons.Delete(ctx, other, third.ID), store.ErrLessonNotFound)
			require.NoError(t, lessons.Delete(ctx, owner, third.ID))
			assert.ErrorIs(t, lessons.Delete(ctx, owner, third.ID), store.ErrLessonNotFound)
		})

		t.Run("unknown owner is rejected", func(t *testing.T) {
			err := lessons.Create(ctx, mustLesson(t, uuid.New(), "Seasons", "6"))
			assert.ErrorIs(t, err, store.ErrInvalidEntity)
		})
	})
}

func TestPostgresExcerptStore_SurvivesLessonDeletion(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx, cancel := context.WithTimeout(context.Background(), testdb.TestTimeout)
		defer cancel()

		lessons := postgres.NewPostgresLessonStore(tx, nil)
		excerpts := postgres.NewPostgresExcerptStore(tx, nil)
		owner := testdb.MustInsertProfile(ctx, t, tx, "Asha")

		lesson := mustLesson(t, owner, "Water Cycle", "7")
		require.NoError(t, lessons.Create(ctx, lesson))

		rhyme, err := domain.NewSharedExcerpt(owner, "Asha", uuid.NullUUID{UUID: lesson.ID, Valid: true},
			lesson.Topic, domain.CategoryRhyme, string(lesson.Plan.Rhyme), lesson.AgeBand, 0)
		require.NoError(t, err)
		require.NoError(t, excerpts.Create(ctx, rhyme))

		story, err := domain.NewSharedExcerpt(owner, "Asha", uuid.NullUUID{},
			"Seasons", domain.CategoryStory, "Once upon a monsoon", "6", 0)
		require.NoError(t, err)
		story.CreatedAt = rhyme.CreatedAt.Add(time.Second)
		require.NoError(t, excerpts.Create(ctx, story))

		require.NoError(t, lessons.Delete(ctx, owner, lesson.ID))

		feed, err := excerpts.ListRecent(ctx, store.ExcerptFilter{})
		require.NoError(t, err)
		ids := make([]uuid.UUID, 0, len(feed))
		for _, e := range feed {
			ids = append(ids, e.ID)
		}
		assert.Contains(t, ids, rhyme.ID)
		assert.Contains(t, ids, story.ID)

		rhymes, err := excerpts.ListRecent(ctx, store.ExcerptFilter{Category: domain.CategoryRhyme, Limit: 200})
		require.NoError(t, err)
		for _, e := range rhymes {
			assert.Equal(t, domain.CategoryRhyme, e.Category)
		}

		var found *domain.SharedExcerpt
		for _, e := range rhymes {
			if e.ID == rhyme.ID {
				found = e
			}
		}
		require.NotNil(t, found)
		assert.True(t, found.SourceLessonID.Valid)
		assert.Equal(t, lesson.ID, found.SourceLessonID.UUID)
		assert.Equal(t, "Asha", found.SourceOwnerName)
	})
}

func TestPostgresProfileStore(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx, cancel := context.WithTimeout(context.Background(), testdb.TestTimeout)
		defer cancel()

		profiles := postgres.NewPostgresProfileStore(tx, nil)

		profile, err := domain.NewProfile(uuid.New(), "asha-"+uuid.NewString()[:8]+"@example.com", "Asha")
		require.NoError(t, err)
		require.NoError(t, profiles.Upsert(ctx, profile))

		profile.DisplayName = "Asha Rao"
		require.NoError(t, profiles.Upsert(ctx, profile))

		got, err := profiles.GetByID(ctx, profile.ID)
		require.NoError(t, err)
		assert.Equal(t, "Asha Rao", got.DisplayName)

		_, err = profiles.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrProfileNotFound)

		clash, err := domain.NewProfile(uuid.New(), profile.Email, "Impostor")
		require.NoError(t, err)
		assert.ErrorIs(t, profiles.Upsert(ctx, clash), store.ErrEmailExists)
	})
}
