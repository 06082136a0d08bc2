package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kathalab/lesson-api/internal/config"
	"github.com/kathalab/lesson-api/internal/generation"
	"github.com/kathalab/lesson-api/internal/platform/logger"
	"github.com/kathalab/lesson-api/internal/prompt"
	"google.golang.org/genai"
)

// ContentGenerator is the subset of *genai.Models used by TextClient.
type ContentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// TextClient implements generation.Generator using a Gemini text model.
type TextClient struct {
	// logger is used when the request context carries no logger
	logger *slog.Logger

	// models performs the API calls
	models ContentGenerator

	// model is the name of the Gemini model to use
	model string

	// temperature controls sampling randomness
	temperature float32

	// timeout bounds each call
	timeout time.Duration
}

var _ generation.Generator = (*TextClient)(nil)

// NewTextClient creates a TextClient.
//
// Parameters:
//   - logger: A structured logger for operation logging
//   - models: The API surface, normally client.Models from NewClient
//   - cfg: LLM configuration providing model name, temperature and timeout
//
// Returns:
//   - A TextClient or an error wrapping generation.ErrInvalidConfig
func NewTextClient(logger *slog.Logger, models ContentGenerator, cfg config.LLMConfig) (*TextClient, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if models == nil {
		return nil, fmt.Errorf("%w: content generator cannot be nil", generation.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.RequestTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("%w: request timeout must be positive", generation.ErrInvalidConfig)
	}

	return &TextClient{
		logger:      logger.With("component", "gemini_text_client"),
		models:      models,
		model:       cfg.ModelName,
		temperature: float32(cfg.Temperature),
		timeout:     time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
	}, nil
}

// Generate sends the prompt to the model in JSON mode and returns the text of
// the first candidate. Every failure wraps generation.ErrUpstream.
func (c *TextClient) Generate(ctx context.Context, p prompt.Prompt) (string, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	temperature := c.temperature
	cfg := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		ResponseMIMEType: "application/json",
		ResponseSchema:   ResponseSchema(p.Sections),
	}
	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: p.Instruction}},
	}}

	log.DebugContext(ctx, "Calling Gemini text model",
		"model", c.model,
		"prompt_length", len(p.Instruction))

	start := time.Now()
	resp, err := c.models.GenerateContent(ctx, c.model, contents, cfg)
	elapsed := time.Since(start)

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			log.WarnContext(ctx, "Gemini text call timed out",
				"model", c.model,
				"timeout", c.timeout.String())
			return "", fmt.Errorf("%w: request timed out after %s", generation.ErrUpstream, c.timeout)
		}
		log.ErrorContext(ctx, "Gemini text call failed",
			"model", c.model,
			"error", err)
		return "", fmt.Errorf("%w: %v", generation.ErrUpstream, err)
	}

	text, err := responseText(resp)
	if err != nil {
		log.WarnContext(ctx, "Gemini returned no usable content",
			"model", c.model,
			"error", err)
		return "", err
	}

	log.InfoContext(ctx, "Gemini text call succeeded",
		"model", c.model,
		"response_length", len(text),
		"duration_ms", elapsed.Milliseconds())

	return text, nil
}

// responseText extracts the concatenated text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", generation.ErrUpstream)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates in response", generation.ErrUpstream)
	}

	candidate := resp.Candidates[0]
	if candidate == nil {
		return "", fmt.Errorf("%w: empty candidate", generation.ErrUpstream)
	}

	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", generation.ErrContentBlocked
	}

	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrUpstream)
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}

	if strings.TrimSpace(b.String()) == "" {
		return "", fmt.Errorf("%w: no text in response", generation.ErrUpstream)
	}

	return b.String(), nil
}
