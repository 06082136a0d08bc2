package gemini

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/kathalab/lesson-api/internal/config"
	"github.com/kathalab/lesson-api/internal/generation"
	"github.com/kathalab/lesson-api/internal/platform/logger"
	"google.golang.org/genai"
)

// ImageModel is the subset of *genai.Models used by ImageClient.
type ImageModel interface {
	GenerateImages(
		ctx context.Context,
		model string,
		prompt string,
		config *genai.GenerateImagesConfig,
	) (*genai.GenerateImagesResponse, error)
}

// ImageClient implements generation.ImageGenerator using a Gemini image model.
type ImageClient struct {
	logger      *slog.Logger
	models      ImageModel
	model       string
	stylePrefix string
	timeout     time.Duration
}

var _ generation.ImageGenerator = (*ImageClient)(nil)

// NewImageClient creates an ImageClient. The style prefix is prepended to
// every phrase so illustrations share one look.
func NewImageClient(logger *slog.Logger, models ImageModel, cfg config.LLMConfig) (*ImageClient, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if models == nil || cfg.ImageModelName == "" {
		return nil, errors.New("image model is not configured")
	}

	timeout := time.Duration(cfg.ImageTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &ImageClient{
		logger:      logger.With("component", "gemini_image_client"),
		models:      models,
		model:       cfg.ImageModelName,
		stylePrefix: cfg.ImageStylePrefix,
		timeout:     timeout,
	}, nil
}

// Generate returns an illustration for phrase, or nil if the model produced
// nothing usable. It never returns an error: a lesson without a picture is
// still a lesson.
func (c *ImageClient) Generate(ctx context.Context, phrase string) *generation.Illustration {
	log := logger.FromContextOrDefault(ctx, c.logger)

	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.models.GenerateImages(ctx, c.model, c.stylePrefix+phrase, nil)
	if err != nil {
		log.WarnContext(ctx, "Image generation failed",
			"model", c.model,
			"error", err,
			"timed_out", errors.Is(ctx.Err(), context.DeadlineExceeded))
		return nil
	}

	if resp == nil {
		log.WarnContext(ctx, "Image generation returned nil response", "model", c.model)
		return nil
	}

	for _, img := range resp.GeneratedImages {
		if img == nil || img.Image == nil || len(img.Image.ImageBytes) == 0 {
			continue
		}

		mimeType := img.Image.MIMEType
		if mimeType == "" {
			mimeType = http.DetectContentType(img.Image.ImageBytes)
		}

		log.InfoContext(ctx, "Image generated",
			"model", c.model,
			"bytes", len(img.Image.ImageBytes),
			"mime_type", mimeType,
			"duration_ms", time.Since(start).Milliseconds())

		return &generation.Illustration{
			Data:     img.Image.ImageBytes,
			MIMEType: mimeType,
		}
	}

	log.WarnContext(ctx, "Image generation returned no images", "model", c.model)
	return nil
}
