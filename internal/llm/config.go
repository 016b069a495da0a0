package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderNone       = ""
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config selects and configures the provider used for answer explanations.
type Config struct {
	// Provider is empty (or "none") when explanations are off.
	Provider string `mapstructure:"provider"`

	Anthropic  AnthropicConfig  `mapstructure:"anthropic"`
	OpenAI     OpenAIConfig     `mapstructure:"openai"`
	Gemini     GeminiConfig     `mapstructure:"gemini"`
	OpenRouter OpenRouterConfig `mapstructure:"openrouter"`
	Retry      RetryConfig      `mapstructure:"retry"`

	// Timeout bounds one explanation including retries.
	Timeout time.Duration `mapstructure:"timeout"`
}

type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OpenRouterConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// RetryConfig controls exponential backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	InitialWait time.Duration `mapstructure:"initial_wait"`
	MaxWait     time.Duration `mapstructure:"max_wait"`
	Multiplier  float64       `mapstructure:"multiplier"`
}

// DefaultConfig has explanations off and small, cheap models selected for
// when a provider is turned on.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderNone,
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-001"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     8 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 20 * time.Second,
	}
}

// Enabled reports whether a provider is selected.
func (c Config) Enabled() bool {
	return c.Provider != ProviderNone && c.Provider != "none"
}

// Model is the configured model name for the selected provider.
func (c Config) Model() string {
	switch c.Provider {
	case ProviderAnthropic:
		return resolveModel(c.Anthropic.Model, anthropicModels)
	case ProviderOpenAI:
		return resolveModel(c.OpenAI.Model, openaiModels)
	case ProviderGemini:
		return resolveModel(c.Gemini.Model, geminiModels)
	case ProviderOpenRouter:
		return c.OpenRouter.Model
	case ProviderMock:
		return "mock"
	}
	return ""
}

// ApplyEnv overlays STUDYZONE_* variables onto cfg.
func ApplyEnv(cfg Config) Config {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set(&cfg.Provider, "STUDYZONE_LLM_PROVIDER")
	set(&cfg.Anthropic.APIKey, "STUDYZONE_ANTHROPIC_API_KEY")
	set(&cfg.Anthropic.Model, "STUDYZONE_ANTHROPIC_MODEL")
	set(&cfg.OpenAI.APIKey, "STUDYZONE_OPENAI_API_KEY")
	set(&cfg.OpenAI.Model, "STUDYZONE_OPENAI_MODEL")
	set(&cfg.OpenAI.BaseURL, "STUDYZONE_OPENAI_BASE_URL")
	set(&cfg.Gemini.APIKey, "STUDYZONE_GEMINI_API_KEY")
	set(&cfg.Gemini.Model, "STUDYZONE_GEMINI_MODEL")
	set(&cfg.OpenRouter.APIKey, "STUDYZONE_OPENROUTER_API_KEY")
	set(&cfg.OpenRouter.Model, "STUDYZONE_OPENROUTER_MODEL")
	return cfg
}

// Discover fills in a provider from the vendors' standard key variables
// when none is selected. The first key found wins, in the order Gemini,
// OpenAI, Anthropic, OpenRouter.
func Discover(cfg Config) (Config, bool) {
	if cfg.Enabled() {
		return cfg, true
	}
	vendors := []struct {
		env      string
		provider string
		key      *string
	}{
		{"GEMINI_API_KEY", ProviderGemini, &cfg.Gemini.APIKey},
		{"OPENAI_API_KEY", ProviderOpenAI, &cfg.OpenAI.APIKey},
		{"ANTHROPIC_API_KEY", ProviderAnthropic, &cfg.Anthropic.APIKey},
		{"OPENROUTER_API_KEY", ProviderOpenRouter, &cfg.OpenRouter.APIKey},
	}
	for _, p := range vendors {
		if k := os.Getenv(p.env); k != "" {
			cfg.Provider = p.provider
			*p.key = k
			return cfg, true
		}
	}
	return cfg, false
}

// Validate checks that the selected provider has an API key.
func (c Config) Validate() error {
	var key, env string
	switch c.Provider {
	case ProviderNone, "none", ProviderMock:
		return nil
	case ProviderAnthropic:
		key, env = c.Anthropic.APIKey, "STUDYZONE_ANTHROPIC_API_KEY"
	case ProviderOpenAI:
		key, env = c.OpenAI.APIKey, "STUDYZONE_OPENAI_API_KEY"
	case ProviderGemini:
		key, env = c.Gemini.APIKey, "STUDYZONE_GEMINI_API_KEY"
	case ProviderOpenRouter:
		key, env = c.OpenRouter.APIKey, "STUDYZONE_OPENROUTER_API_KEY"
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("%s is required for the %s provider", env, c.Provider)
	}
	return nil
}
