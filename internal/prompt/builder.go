// Package prompt builds the instruction sent to the language model for a
// lesson plan request. Building is pure: the same inputs always yield the
// same prompt, and the output schema is a fixed catalogue rather than being
// derived from the request.
package prompt

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/kathalab/lesson-api/internal/domain"
)

// ErrInvalidTemplate is returned when a prompt template cannot be loaded or executed.
var ErrInvalidTemplate = errors.New("invalid prompt template")

//go:embed templates/lesson.tmpl
var defaultTemplate string

// Prompt is the instruction for one lesson plan request together with the
// schema the response must follow.
type Prompt struct {
	Topic       string
	Language    string
	AgeBand     string
	Instruction string
	Sections    []Section
}

// templateData is the fixed set of fields available to prompt templates.
type templateData struct {
	Topic    string
	Language string
	AgeBand  string
	Sections []Section
}

// Builder renders prompts from a text template.
type Builder struct {
	tmpl *template.Template
}

// NewBuilder returns a Builder using the embedded template, or the template
// at templatePath when it is non-empty.
func NewBuilder(templatePath string) (*Builder, error) {
	text := defaultTemplate
	name := "lesson"
	if templatePath != "" {
		content, err := os.ReadFile(templatePath)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read %s: %v", ErrInvalidTemplate, templatePath, err)
		}
		text = string(content)
		name = templatePath
	}

	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}

	return &Builder{tmpl: tmpl}, nil
}

// Build renders the prompt for a topic. Blank language and age band fall back
// to domain.DefaultLanguage and domain.DefaultAgeBand. The topic is embedded
// literally; callers reject blank topics before building.
func (b *Builder) Build(topic, language, ageBand string) (Prompt, error) {
	data := templateData{
		Topic:    strings.TrimSpace(topic),
		Language: withDefault(language, domain.DefaultLanguage),
		AgeBand:  withDefault(ageBand, domain.DefaultAgeBand),
		Sections: Sections(),
	}

	var buf bytes.Buffer
	if err := b.tmpl.Execute(&buf, data); err != nil {
		return Prompt{}, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}

	return Prompt{
		Topic:       data.Topic,
		Language:    data.Language,
		AgeBand:     data.AgeBand,
		Instruction: buf.String(),
		Sections:    data.Sections,
	}, nil
}

func withDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
