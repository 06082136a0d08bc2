package mocks

import (
	"context"
	"sync"

	"github.com/kathalab/lesson-api/internal/generation"
	"github.com/kathalab/lesson-api/internal/prompt"
)

// MockGenerator implements generation.Generator for testing
type MockGenerator struct {
	// GenerateFn allows test cases to mock the Generate behavior
	GenerateFn func(ctx context.Context, p prompt.Prompt) (string, error)

	// Default response values
	Response string
	Err      error

	mu      sync.Mutex
	prompts []prompt.Prompt
}

var _ generation.Generator = (*MockGenerator)(nil)

// Generate implements the generation.Generator interface
func (m *MockGenerator) Generate(ctx context.Context, p prompt.Prompt) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, p)
	m.mu.Unlock()

	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, p)
	}
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

// CallCount returns how many times Generate was called.
func (m *MockGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// Prompts returns every prompt received, in call order.
func (m *MockGenerator) Prompts() []prompt.Prompt {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]prompt.Prompt(nil), m.prompts...)
}

// MockImageGenerator implements generation.ImageGenerator for testing.
// A nil Illustration simulates an absorbed image failure.
type MockImageGenerator struct {
	GenerateFn   func(ctx context.Context, phrase string) *generation.Illustration
	Illustration *generation.Illustration

	mu      sync.Mutex
	phrases []string
}

var _ generation.ImageGenerator = (*MockImageGenerator)(nil)

// Generate implements the generation.ImageGenerator interface
func (m *MockImageGenerator) Generate(ctx context.Context, phrase string) *generation.Illustration {
	m.mu.Lock()
	m.phrases = append(m.phrases, phrase)
	m.mu.Unlock()

	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, phrase)
	}
	return m.Illustration
}

// Phrases returns every phrase received, in call order.
func (m *MockImageGenerator) Phrases() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.phrases...)
}

// MockImageUploader records uploads and returns a URL under BaseURL.
type MockImageUploader struct {
	UploadFn func(ctx context.Context, key string, data []byte, contentType string) (string, error)
	BaseURL  string
	Err      error

	mu   sync.Mutex
	Keys []string
}

// Upload stores nothing; it records the key and returns BaseURL + "/" + key.
func (m *MockImageUploader) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	m.mu.Lock()
	m.Keys = append(m.Keys, key)
	m.mu.Unlock()

	if m.UploadFn != nil {
		return m.UploadFn(ctx, key, data, contentType)
	}
	if m.Err != nil {
		return "", m.Err
	}
	base := m.BaseURL
	if base == "" {
		base = "https://storage.example.test"
	}
	return base + "/" + key, nil
}
