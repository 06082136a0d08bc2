package generation

import (
	"context"
	"encoding/base64"

	"github.com/kathalab/lesson-api/internal/prompt"
)

// Generator produces the raw text of a lesson plan from a prompt.
// This interface serves as a boundary between the application core and
// external LLM services.
type Generator interface {
	// Generate sends the prompt to the model and returns its raw text output.
	// Failures wrap ErrUpstream; safety blocks wrap ErrContentBlocked.
	Generate(ctx context.Context, p prompt.Prompt) (string, error)
}

// Illustration is a generated lesson image.
type Illustration struct {
	Data     []byte
	MIMEType string
}

// DataURI returns the image inlined as a base64 data URI.
func (i *Illustration) DataURI() string {
	if i == nil || len(i.Data) == 0 {
		return ""
	}
	mimeType := i.MIMEType
	if mimeType == "" {
		mimeType = "image/png"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// ImageGenerator produces an optional illustration for a lesson.
type ImageGenerator interface {
	// Generate returns an illustration for the phrase, or nil when none could
	// be produced. Failures are absorbed by the implementation.
	Generate(ctx context.Context, phrase string) *Illustration
}
