package gemini_test

import (
	"context"
	"errors"
	"testing"

	"github.com/kathalab/lesson-api/internal/generation"
	"github.com/kathalab/lesson-api/internal/platform/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeImageModel struct {
	resp *genai.GenerateImagesResponse
	err  error

	gotModel  string
	gotPrompt string
}

func (f *fakeImageModel) GenerateImages(
	_ context.Context,
	model string,
	prompt string,
	_ *genai.GenerateImagesConfig,
) (*genai.GenerateImagesResponse, error) {
	f.gotModel = model
	f.gotPrompt = prompt
	return f.resp, f.err
}

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func TestNewImageClient_Disabled(t *testing.T) {
	t.Parallel()

	cfg := testLLMConfig()
	cfg.ImageModelName = ""
	_, err := gemini.NewImageClient(discardLogger(), &fakeImageModel{}, cfg)
	assert.Error(t, err)

	_, err = gemini.NewImageClient(discardLogger(), nil, testLLMConfig())
	assert.Error(t, err)
}

func TestImageClient_Generate(t *testing.T) {
	t.Parallel()

	fake := &fakeImageModel{resp: &genai.GenerateImagesResponse{
		GeneratedImages: []*genai.GeneratedImage{
			{Image: &genai.Image{ImageBytes: pngHeader}},
		},
	}}
	client, err := gemini.NewImageClient(discardLogger(), fake, testLLMConfig())
	require.NoError(t, err)

	img := client.Generate(context.Background(), "  a raindrop rising to a cloud ")
	require.NotNil(t, img)

	assert.Equal(t, "imagen-test", fake.gotModel)
	assert.Equal(t, "Flat style: a raindrop rising to a cloud", fake.gotPrompt)
	assert.Equal(t, pngHeader, img.Data)
	assert.Equal(t, "image/png", img.MIMEType)
	assert.Contains(t, img.DataURI(), "data:image/png;base64,")
}

func TestImageClient_Generate_FailuresAreAbsorbed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		fake   *fakeImageModel
		phrase string
	}{
		{name: "api error", fake: &fakeImageModel{err: errors.New("quota exceeded")}, phrase: "cloud"},
		{name: "nil response", fake: &fakeImageModel{}, phrase: "cloud"},
		{name: "no images", fake: &fakeImageModel{resp: &genai.GenerateImagesResponse{}}, phrase: "cloud"},
		{name: "empty bytes", fake: &fakeImageModel{resp: &genai.GenerateImagesResponse{
			GeneratedImages: []*genai.GeneratedImage{{Image: &genai.Image{}}, {}},
		}}, phrase: "cloud"},
		{name: "blank phrase", fake: &fakeImageModel{}, phrase: "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client, err := gemini.NewImageClient(discardLogger(), tt.fake, testLLMConfig())
			require.NoError(t, err)

			var img *generation.Illustration
			assert.NotPanics(t, func() {
				img = client.Generate(context.Background(), tt.phrase)
			})
			assert.Nil(t, img)
		})
	}
}
