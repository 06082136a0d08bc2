package generation_test

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/kathalab/lesson-api/internal/domain"
	"github.com/kathalab/lesson-api/internal/generation"
	"github.com/kathalab/lesson-api/internal/prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validPlanJSON = `{
  "title": "The Water Cycle",
  "learningObjectives": ["Name the stages of the water cycle"],
  "storyHook": {
    "title": "Bindu the Raindrop",
    "narrative": "Bindu lived in a puddle near the school gate...",
    "discussionQuestions": ["Where did Bindu go?"]
  },
  "rhyme": "Up goes the water, down comes the rain",
  "activity": {
    "name": "Cloud in a jar",
    "materials": ["jar", "hot water", "ice"],
    "steps": ["Pour hot water", "Cover with ice"],
    "durationMinutes": "20"
  },
  "vocabularyBridge": ["बादल (cloud): water floating in the sky"],
  "literacyDrill": {"focus": "Sight words", "exercises": ["Read: rain, cloud, sun"]},
  "numeracyDrill": {"focus": "Counting", "exercises": ["Count the drops"]},
  "assessment": {"questions": ["What makes rain?"], "rubric": ["Names two stages"]},
  "resources": ["Local weather chart"],
  "teacherTips": ["Use a kettle for steam"],
  "imagePrompt": "A smiling raindrop rising from a puddle to a cloud"
}`

func TestStripFences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "no fences", input: `{"a":1}`, want: `{"a":1}`},
		{name: "plain fences", input: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "tagged fences", input: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "single line", input: "```json{\"a\":1}```", want: `{"a":1}`},
		{name: "surrounding whitespace", input: "\n\n  ```JSON\r\n{\"a\":1}\r\n```  \n", want: `{"a":1}`},
		{name: "nested fences", input: "```\n```json\n{\"a\":1}\n```\n```", want: `{"a":1}`},
		{name: "only opening fence", input: "```json\n{\"a\":1}", want: `{"a":1}`},
		{name: "empty", input: "   ", want: ""},
		{name: "only fences", input: "``````", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, generation.StripFences(tt.input))
		})
	}
}

func TestStripFences_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"plain text",
		"```json\n{}\n```",
		"``` ```",
		"```\n```\n```",
		"  ```python\nprint('hi')\n```\n",
		"```json\n" + validPlanJSON + "\n```",
		"text with ``` inside",
	}

	for _, in := range inputs {
		once := generation.StripFences(in)
		assert.Equal(t, once, generation.StripFences(once), "input %q", in)
	}
}

func TestParseLessonPlan_RoundTrip(t *testing.T) {
	t.Parallel()

	var want domain.LessonPlan
	require.NoError(t, json.Unmarshal([]byte(validPlanJSON), &want))

	for name, raw := range map[string]string{
		"bare":   validPlanJSON,
		"fenced": "```json\n" + validPlanJSON + "\n```",
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			plan, report, err := generation.ParseLessonPlan(raw)
			require.NoError(t, err)
			assert.Empty(t, report.UnknownKeys)
			assert.Equal(t, want, *plan)
		})
	}
}

func TestParseLessonPlan_Repairs(t *testing.T) {
	t.Parallel()

	raw := `{
		"storyHook": {"narrative": "Once upon a time"},
		"activity": {"steps": "Draw a cloud"},
		"resources": null,
		"mood": "cheerful",
		"extra": 42
	}`

	plan, report, err := generation.ParseLessonPlan(raw)
	require.NoError(t, err)

	assert.Equal(t, []string{"extra", "mood"}, report.UnknownKeys)
	assert.Equal(t, domain.StringList{"Draw a cloud"}, plan.Activity.Steps)
	assert.Equal(t, domain.Text(""), plan.Title)

	out, err := json.Marshal(plan)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "null")
	assert.NotContains(t, string(out), "mood")
	assert.Contains(t, string(out), `"resources":[]`)
	assert.Contains(t, string(out), `"teacherTips":[]`)
}

func TestParseLessonPlan_WrongTypedItemsAreFolded(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		raw   string
		check func(t *testing.T, plan *domain.LessonPlan)
	}{
		{
			name: "vocabulary bridge objects",
			raw: `{
				"storyHook": {"narrative": "Once upon a time"},
				"activity": {"name": "Cloud in a jar"},
				"vocabularyBridge": [{"word": "बादल", "english": "cloud"}, "बारिश - rain"]
			}`,
			check: func(t *testing.T, plan *domain.LessonPlan) {
				assert.Equal(t, domain.StringList{"word: बादल; english: cloud", "बारिश - rain"}, plan.VocabularyBridge)
			},
		},
		{
			name: "rhyme as object",
			raw: `{
				"storyHook": {"narrative": "Once upon a time"},
				"activity": {"name": "Cloud in a jar"},
				"rhyme": {"title": "Little Drop", "lyrics": ["Up I go", "Down I flow"]}
			}`,
			check: func(t *testing.T, plan *domain.LessonPlan) {
				assert.Equal(t, domain.Text("title: Little Drop; lyrics: Up I go, Down I flow"), plan.Rhyme)
			},
		},
		{
			name: "rhyme as boolean",
			raw: `{
				"storyHook": {"narrative": "Once upon a time"},
				"activity": {"name": "Cloud in a jar"},
				"rhyme": true,
				"teacherTips": ["Speak slowly", false]
			}`,
			check: func(t *testing.T, plan *domain.LessonPlan) {
				assert.Equal(t, domain.Text(""), plan.Rhyme)
				assert.Equal(t, domain.StringList{"Speak slowly"}, plan.TeacherTips)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			plan, _, err := generation.ParseLessonPlan(tt.raw)
			require.NoError(t, err)
			tt.check(t, plan)
		})
	}
}

func TestParseLessonPlan_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: "not json"},
		{name: "empty", raw: ""},
		{name: "fences only", raw: "```json\n```"},
		{name: "array", raw: `[{"title":"x"}]`},
		{name: "string", raw: `"a lesson"`},
		{name: "null", raw: `null`},
		{name: "truncated", raw: validPlanJSON[:len(validPlanJSON)/2]},
		{name: "wrong type", raw: `{"storyHook": "just text", "activity": {"name": "x"}}`},
		{name: "missing story", raw: `{"activity": {"name": "Cloud in a jar"}}`},
		{name: "missing activity", raw: `{"storyHook": {"narrative": "Once"}}`},
		{name: "trailing prose", raw: validPlanJSON + "\nHope this helps!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var (
				plan *domain.LessonPlan
				err  error
			)
			require.NotPanics(t, func() {
				plan, _, err = generation.ParseLessonPlan(tt.raw)
			})
			assert.Nil(t, plan)
			assert.ErrorIs(t, err, generation.ErrMalformedResponse)
			assert.NotErrorIs(t, err, generation.ErrUpstream)
		})
	}
}

// The parser reports unknown keys against the prompt catalogue, so the
// catalogue and the LessonPlan JSON tags must describe the same record.
func TestLessonPlanMatchesPromptCatalogue(t *testing.T) {
	t.Parallel()

	planType := reflect.TypeOf(domain.LessonPlan{})
	assert.Equal(t, prompt.Keys(), jsonKeys(planType))

	for i, s := range prompt.Sections() {
		if s.Kind != prompt.KindObject {
			continue
		}
		var want []string
		for _, f := range s.Fields {
			want = append(want, f.Key)
		}
		assert.Equal(t, want, jsonKeys(planType.Field(i).Type), "fields of %q", s.Key)
	}
}

func jsonKeys(t reflect.Type) []string {
	keys := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		keys = append(keys, strings.Split(t.Field(i).Tag.Get("json"), ",")[0])
	}
	return keys
}

func TestErrContentBlockedIsUpstream(t *testing.T) {
	t.Parallel()
	assert.ErrorIs(t, generation.ErrContentBlocked, generation.ErrUpstream)
}

func TestIllustrationDataURI(t *testing.T) {
	t.Parallel()

	var nilImage *generation.Illustration
	assert.Equal(t, "", nilImage.DataURI())
	assert.Equal(t, "", (&generation.Illustration{}).DataURI())
	assert.Equal(t, "data:image/jpeg;base64,AQID",
		(&generation.Illustration{Data: []byte{1, 2, 3}, MIMEType: "image/jpeg"}).DataURI())
	assert.Equal(t, "data:image/png;base64,AQID",
		(&generation.Illustration{Data: []byte{1, 2, 3}}).DataURI())
}
