package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExcerptCategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    ExcerptCategory
		wantErr error
	}{
		{input: "Rhyme", want: CategoryRhyme},
		{input: "full plan", want: CategoryFullPlan},
		{input: " STORY ", want: CategoryStory},
		{input: "Recipe", wantErr: ErrExcerptCategoryInvalid},
		{input: "", wantErr: ErrExcerptCategoryInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := ParseExcerptCategory(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewSharedExcerpt(t *testing.T) {
	t.Parallel()
	sharer := uuid.New()
	source := uuid.NullUUID{UUID: uuid.New(), Valid: true}

	excerpt, err := NewSharedExcerpt(sharer, "Asha", source, "Water Cycle", CategoryRhyme,
		"  Rain goes up  ", "6-8", 100)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, excerpt.ID)
	assert.Equal(t, "Rain goes up", excerpt.Content)
	assert.Equal(t, source, excerpt.SourceLessonID)
	assert.False(t, excerpt.CreatedAt.IsZero())

	tests := []struct {
		name     string
		sharer   uuid.UUID
		owner    string
		category ExcerptCategory
		content  string
		max      int
		wantErr  error
	}{
		{name: "no sharer", sharer: uuid.Nil, owner: "Asha", category: CategoryStory, content: "x", wantErr: ErrExcerptSharerEmpty},
		{name: "no owner name", sharer: sharer, owner: " ", category: CategoryStory, content: "x", wantErr: ErrExcerptOwnerNameEmpty},
		{name: "bad category", sharer: sharer, owner: "Asha", category: "Recipe", content: "x", wantErr: ErrExcerptCategoryInvalid},
		{name: "empty content", sharer: sharer, owner: "Asha", category: CategoryStory, content: "  ", wantErr: ErrExcerptContentEmpty},
		{name: "too long", sharer: sharer, owner: "Asha", category: CategoryStory, content: strings.Repeat("ए", 11), max: 10, wantErr: ErrExcerptContentTooLong},
		{name: "cap counts characters", sharer: sharer, owner: "Asha", category: CategoryStory, content: strings.Repeat("ए", 10), max: 10},
		{name: "no cap", sharer: sharer, owner: "Asha", category: CategoryStory, content: strings.Repeat("a", 50000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewSharedExcerpt(tt.sharer, tt.owner, uuid.NullUUID{}, "Topic", tt.category, tt.content, "", tt.max)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
