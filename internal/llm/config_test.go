package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"disabled", Config{}, ""},
		{"none", Config{Provider: "none"}, ""},
		{"mock needs no key", Config{Provider: ProviderMock}, ""},
		{"anthropic without key", Config{Provider: ProviderAnthropic}, "STUDYZONE_ANTHROPIC_API_KEY is required"},
		{"anthropic with key", Config{Provider: ProviderAnthropic, Anthropic: AnthropicConfig{APIKey: "k"}}, ""},
		{"openai without key", Config{Provider: ProviderOpenAI}, "STUDYZONE_OPENAI_API_KEY"},
		{"gemini without key", Config{Provider: ProviderGemini}, "STUDYZONE_GEMINI_API_KEY"},
		{"openrouter with key", Config{Provider: ProviderOpenRouter, OpenRouter: OpenRouterConfig{APIKey: "k"}}, ""},
		{"unknown provider", Config{Provider: "cohere"}, `unknown LLM provider: "cohere"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_EnabledAndModel(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.Enabled())
	assert.Empty(t, cfg.Model())

	cfg.Provider = ProviderAnthropic
	assert.True(t, cfg.Enabled())
	assert.Equal(t, "claude-haiku-4-5-20251001", cfg.Model())

	cfg.Provider = ProviderOpenRouter
	assert.Equal(t, "google/gemini-2.0-flash-001", cfg.Model())
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("STUDYZONE_LLM_PROVIDER", "openai")
	t.Setenv("STUDYZONE_OPENAI_API_KEY", "sk-test")
	t.Setenv("STUDYZONE_OPENAI_BASE_URL", "http://localhost:8080/v1")

	cfg := ApplyEnv(DefaultConfig())
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, "http://localhost:8080/v1", cfg.OpenAI.BaseURL)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.NoError(t, cfg.Validate())
}

func TestDiscover(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}

	_, ok := Discover(DefaultConfig())
	assert.False(t, ok)

	t.Setenv("ANTHROPIC_API_KEY", "a-key")
	t.Setenv("OPENROUTER_API_KEY", "or-key")
	cfg, ok := Discover(DefaultConfig())
	require.True(t, ok)
	assert.Equal(t, ProviderAnthropic, cfg.Provider)
	assert.Equal(t, "a-key", cfg.Anthropic.APIKey)

	explicit := DefaultConfig()
	explicit.Provider = ProviderMock
	cfg, ok = Discover(explicit)
	assert.True(t, ok)
	assert.Equal(t, ProviderMock, cfg.Provider, "an explicit provider is kept")
}
