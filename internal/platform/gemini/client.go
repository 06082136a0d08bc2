package gemini

import (
	"context"
	"fmt"

	"github.com/kathalab/lesson-api/internal/config"
	"github.com/kathalab/lesson-api/internal/generation"
	"google.golang.org/genai"
)

// NewClient creates a Gemini API client from the LLM configuration.
// The returned client's Models field satisfies both ContentGenerator and
// ImageModel.
func NewClient(ctx context.Context, cfg config.LLMConfig) (*genai.Client, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return client, nil
}
