package export

import (
	"fmt"
	"strings"

	"github.com/kathalab/lesson-api/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// block is one part of a section: a subheading, free text or a list.
type block struct {
	Subheading string
	Text       string
	Items      []string
	Numbered   bool
}

type section struct {
	Heading string
	Blocks  []block
}

type outline struct {
	Title    string
	Subtitle string
	ImageURL string
	Sections []section
}

var titleCaser = cases.Title(language.English)

// buildOutline orders a lesson for rendering. Sections without content are
// left out.
func buildOutline(lesson *domain.Lesson) outline {
	p := lesson.Plan

	title := strings.TrimSpace(string(p.Title))
	if title == "" {
		title = titleCaser.String(lesson.Topic)
	}

	o := outline{
		Title:    title,
		Subtitle: fmt.Sprintf("Topic: %s | Language: %s | Ages: %s", lesson.Topic, lesson.Language, lesson.AgeBand),
		ImageURL: lesson.ImageURL,
	}

	add := func(heading string, blocks ...block) {
		kept := blocks[:0]
		for _, b := range blocks {
			if b.Text != "" || len(b.Items) > 0 {
				kept = append(kept, b)
			}
		}
		if len(kept) > 0 {
			o.Sections = append(o.Sections, section{Heading: heading, Blocks: kept})
		}
	}

	add("Learning Objectives", block{Items: p.LearningObjectives})
	add("Story Hook",
		block{Subheading: string(p.StoryHook.Title), Text: string(p.StoryHook.Narrative)},
		block{Subheading: "Discussion questions", Items: p.StoryHook.DiscussionQuestions, Numbered: true},
	)
	add("Rhyme", block{Text: string(p.Rhyme)})

	activityText := string(p.Activity.Name)
	if d := strings.TrimSpace(string(p.Activity.DurationMinutes)); d != "" {
		activityText = fmt.Sprintf("%s (%s minutes)", activityText, strings.TrimSuffix(d, " minutes"))
	}
	add("Activity",
		block{Text: strings.TrimSpace(activityText)},
		block{Subheading: "Materials", Items: p.Activity.Materials},
		block{Subheading: "Steps", Items: p.Activity.Steps, Numbered: true},
	)
	add("Vocabulary Bridge", block{Items: p.VocabularyBridge})
	add("Literacy Drill",
		block{Text: string(p.LiteracyDrill.Focus)},
		block{Items: p.LiteracyDrill.Exercises, Numbered: true},
	)
	add("Numeracy Drill",
		block{Text: string(p.NumeracyDrill.Focus)},
		block{Items: p.NumeracyDrill.Exercises, Numbered: true},
	)
	add("Assessment",
		block{Subheading: "Questions", Items: p.Assessment.Questions, Numbered: true},
		block{Subheading: "Rubric", Items: p.Assessment.Rubric},
	)
	add("Resources", block{Items: p.Resources})
	add("Teacher Tips", block{Items: p.TeacherTips})

	return o
}

// slug turns a topic into a file-name-safe stem.
func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "lesson"
	}
	return out
}
