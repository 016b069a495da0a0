package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/studyzone/internal/store"
)

// NewProvider builds the configured provider wrapped as
// caller → retry → recording → SDK. It returns ErrDisabled when no
// provider is selected.
func NewProvider(ctx context.Context, cfg Config, events store.EventRepo, log *zap.Logger) (Provider, error) {
	if !cfg.Enabled() {
		return nil, ErrDisabled
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderMock:
		m := NewMockProvider()
		m.Fallback = mockExplanation
		base = m
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return WithRetry(WithRecording(base, cfg.Provider, events, log), cfg.Retry), nil
}

// mockExplanation lets the app run end to end with provider "mock".
var mockExplanation = json.RawMessage(`{"explanation":"Mock explanation: compare your choice with the correct answer.","tip":"Set llm.provider to a real provider for detailed feedback."}`)
