package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Text is a free-text lesson field. Models occasionally answer a text field
// with an array of lines, a bare number, an object or a boolean. Arrays fold
// into lines, objects into "key: value" pairs in their original order, and
// booleans carry no text.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	case '[':
		var lines StringList
		if err := json.Unmarshal(data, &lines); err != nil {
			return err
		}
		*t = Text(strings.Join(compact(lines), "\n"))
	case '{':
		s, err := foldObject(data)
		if err != nil {
			return err
		}
		*t = Text(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return fmt.Errorf("%w: expected text, got %s", ErrInvalidFormat, truncate(string(data), 32))
		}
		*t = ""
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("%w: expected text, got %s", ErrInvalidFormat, truncate(string(data), 32))
		}
		*t = Text(n.String())
	}
	return nil
}

// foldObject renders a JSON object as "key: value; key: value", keeping the
// key order of the input and skipping empty values.
func foldObject(data []byte) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return "", err
	}

	var parts []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		key, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return "", err
		}
		var value Text
		if err := value.UnmarshalJSON(raw); err != nil {
			return "", err
		}
		v := strings.TrimSpace(strings.ReplaceAll(string(value), "\n", ", "))
		if v == "" {
			continue
		}
		if key = strings.TrimSpace(key); key == "" {
			parts = append(parts, v)
		} else {
			parts = append(parts, key+": "+v)
		}
	}
	return strings.Join(parts, "; "), nil
}

// String returns the text as a plain string.
func (t Text) String() string { return string(t) }

// StringList is a list-of-text lesson field. Any other JSON value is accepted
// as a one-element list and each item decodes like Text. Null decodes to an
// empty list. It always encodes as a JSON array, never null.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = StringList{}
		return nil
	}

	switch data[0] {
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		out := make(StringList, 0, len(raw))
		for _, item := range raw {
			var t Text
			if err := t.UnmarshalJSON(item); err != nil {
				return err
			}
			out = append(out, string(t))
		}
		*l = out
		return nil
	default:
		var t Text
		if err := t.UnmarshalJSON(data); err != nil {
			return err
		}
		if strings.TrimSpace(string(t)) == "" {
			*l = StringList{}
		} else {
			*l = StringList{string(t)}
		}
		return nil
	}
}

// MarshalJSON implements json.Marshaler.
func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

// StoryHook is the narrative opening of a lesson.
type StoryHook struct {
	Title               Text       `json:"title"`
	Narrative           Text       `json:"narrative"`
	DiscussionQuestions StringList `json:"discussionQuestions"`
}

// Activity is the hands-on, materials-based part of a lesson.
type Activity struct {
	Name            Text       `json:"name"`
	Materials       StringList `json:"materials"`
	Steps           StringList `json:"steps"`
	DurationMinutes Text       `json:"durationMinutes"`
}

// Drill is a short literacy or numeracy practice block.
type Drill struct {
	Focus     Text       `json:"focus"`
	Exercises StringList `json:"exercises"`
}

// Assessment holds check-for-understanding questions and a rubric.
type Assessment struct {
	Questions StringList `json:"questions"`
	Rubric    StringList `json:"rubric"`
}

// LessonPlan is the structured document produced by the generation step.
// Its JSON keys are the fixed output schema the model is asked to honour.
type LessonPlan struct {
	Title              Text       `json:"title"`
	LearningObjectives StringList `json:"learningObjectives"`
	StoryHook          StoryHook  `json:"storyHook"`
	Rhyme              Text       `json:"rhyme"`
	Activity           Activity   `json:"activity"`
	VocabularyBridge   StringList `json:"vocabularyBridge"`
	LiteracyDrill      Drill      `json:"literacyDrill"`
	NumeracyDrill      Drill      `json:"numeracyDrill"`
	Assessment         Assessment `json:"assessment"`
	Resources          StringList `json:"resources"`
	TeacherTips        StringList `json:"teacherTips"`
	ImagePrompt        Text       `json:"imagePrompt"`
}

// Normalize trims whitespace and replaces nil lists with empty ones so that
// omitted optional sections render as empty values rather than null.
func (p *LessonPlan) Normalize() {
	trimText(&p.Title)
	trimText(&p.Rhyme)
	trimText(&p.ImagePrompt)
	trimText(&p.StoryHook.Title)
	trimText(&p.StoryHook.Narrative)
	trimText(&p.Activity.Name)
	trimText(&p.Activity.DurationMinutes)
	trimText(&p.LiteracyDrill.Focus)
	trimText(&p.NumeracyDrill.Focus)

	for _, l := range []*StringList{
		&p.LearningObjectives,
		&p.StoryHook.DiscussionQuestions,
		&p.Activity.Materials,
		&p.Activity.Steps,
		&p.VocabularyBridge,
		&p.LiteracyDrill.Exercises,
		&p.NumeracyDrill.Exercises,
		&p.Assessment.Questions,
		&p.Assessment.Rubric,
		&p.Resources,
		&p.TeacherTips,
	} {
		*l = compact(*l)
	}
}

// Validate checks the required sections are present. A plan without a story
// narrative or without any activity content is not a usable lesson.
func (p *LessonPlan) Validate() error {
	var missing []string
	if strings.TrimSpace(string(p.StoryHook.Narrative)) == "" {
		missing = append(missing, "storyHook.narrative")
	}
	if strings.TrimSpace(string(p.Activity.Name)) == "" && len(p.Activity.Steps) == 0 {
		missing = append(missing, "activity")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required sections: %s", ErrIncompleteLessonPlan, strings.Join(missing, ", "))
	}
	return nil
}

// WithDefaults fills fields the model may legitimately omit from request data.
func (p *LessonPlan) WithDefaults(topic string) {
	if p.Title == "" {
		p.Title = Text(topic)
	}
	if p.ImagePrompt == "" {
		p.ImagePrompt = Text(topic)
	}
}

func trimText(t *Text) {
	*t = Text(strings.TrimSpace(string(*t)))
}

func compact(l StringList) StringList {
	out := make(StringList, 0, len(l))
	for _, s := range l {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..." + strconv.Itoa(len(s)-n) + " more bytes"
}
