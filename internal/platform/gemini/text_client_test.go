package gemini_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/kathalab/lesson-api/internal/config"
	"github.com/kathalab/lesson-api/internal/generation"
	"github.com/kathalab/lesson-api/internal/platform/gemini"
	"github.com/kathalab/lesson-api/internal/prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func testPrompt(t *testing.T, topic, language, ageBand string) prompt.Prompt {
	t.Helper()
	b, err := prompt.NewBuilder("")
	require.NoError(t, err)
	p, err := b.Build(topic, language, ageBand)
	require.NoError(t, err)
	return p
}

type fakeContentGenerator struct {
	resp *genai.GenerateContentResponse
	err  error
	// block makes the call wait for context cancellation
	block bool

	calls      int
	gotModel   string
	gotContent []*genai.Content
	gotConfig  *genai.GenerateContentConfig
}

func (f *fakeContentGenerator) GenerateContent(
	ctx context.Context,
	model string,
	contents []*genai.Content,
	cfg *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.gotModel = model
	f.gotContent = contents
	f.gotConfig = cfg
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.resp, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testLLMConfig() config.LLMConfig {
	return config.LLMConfig{
		GeminiAPIKey:          "test-key",
		ModelName:             "gemini-test",
		ImageModelName:        "imagen-test",
		ImageStylePrefix:      "Flat style: ",
		Temperature:           0.8,
		RequestTimeoutSeconds: 5,
		ImageTimeoutSeconds:   5,
	}
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{Role: "model"}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: content, FinishReason: genai.FinishReasonStop}},
	}
}

func TestNewTextClient_Validation(t *testing.T) {
	t.Parallel()
	fake := &fakeContentGenerator{}

	_, err := gemini.NewTextClient(nil, fake, testLLMConfig())
	assert.Error(t, err)

	_, err = gemini.NewTextClient(discardLogger(), nil, testLLMConfig())
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	cfg := testLLMConfig()
	cfg.ModelName = ""
	_, err = gemini.NewTextClient(discardLogger(), fake, cfg)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	cfg = testLLMConfig()
	cfg.RequestTimeoutSeconds = 0
	_, err = gemini.NewTextClient(discardLogger(), fake, cfg)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestTextClient_Generate_Success(t *testing.T) {
	t.Parallel()

	fake := &fakeContentGenerator{resp: textResponse(`{"title":`, `"Water Cycle"}`)}
	client, err := gemini.NewTextClient(discardLogger(), fake, testLLMConfig())
	require.NoError(t, err)

	p := testPrompt(t, "Water Cycle", "Hindi", "7")
	text, err := client.Generate(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, `{"title":"Water Cycle"}`, text)
	assert.Equal(t, 1, fake.calls)
	assert.Equal(t, "gemini-test", fake.gotModel)
	require.Len(t, fake.gotContent, 1)
	require.Len(t, fake.gotContent[0].Parts, 1)
	assert.Equal(t, p.Instruction, fake.gotContent[0].Parts[0].Text)

	require.NotNil(t, fake.gotConfig)
	assert.Equal(t, "application/json", fake.gotConfig.ResponseMIMEType)
	require.NotNil(t, fake.gotConfig.Temperature)
	assert.InDelta(t, 0.8, *fake.gotConfig.Temperature, 0.0001)
	require.NotNil(t, fake.gotConfig.ResponseSchema)
	assert.Len(t, fake.gotConfig.ResponseSchema.Properties, len(prompt.Keys()))
}

func TestTextClient_Generate_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		fake        *fakeContentGenerator
		wantBlocked bool
	}{
		{name: "api error", fake: &fakeContentGenerator{err: errors.New("503 unavailable")}},
		{name: "nil response", fake: &fakeContentGenerator{}},
		{name: "zero candidates", fake: &fakeContentGenerator{resp: &genai.GenerateContentResponse{}}},
		{name: "nil content", fake: &fakeContentGenerator{resp: &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonStop}},
		}}},
		{name: "empty text", fake: &fakeContentGenerator{resp: textResponse("", "  ")}},
		{
			name: "safety block",
			fake: &fakeContentGenerator{resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
			}},
			wantBlocked: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client, err := gemini.NewTextClient(discardLogger(), tt.fake, testLLMConfig())
			require.NoError(t, err)

			text, err := client.Generate(context.Background(), testPrompt(t, "Water Cycle", "", ""))
			assert.Empty(t, text)
			assert.ErrorIs(t, err, generation.ErrUpstream)
			assert.NotErrorIs(t, err, generation.ErrMalformedResponse)
			assert.Equal(t, tt.wantBlocked, errors.Is(err, generation.ErrContentBlocked))
		})
	}
}

func TestTextClient_Generate_Timeout(t *testing.T) {
	t.Parallel()

	cfg := testLLMConfig()
	cfg.RequestTimeoutSeconds = 1
	fake := &fakeContentGenerator{block: true}
	client, err := gemini.NewTextClient(discardLogger(), fake, cfg)
	require.NoError(t, err)

	start := time.Now()
	_, err = client.Generate(context.Background(), testPrompt(t, "Water Cycle", "", ""))
	assert.ErrorIs(t, err, generation.ErrUpstream)
	assert.Contains(t, err.Error(), "timed out")
	assert.Less(t, time.Since(start), 5*time.Second)
}
