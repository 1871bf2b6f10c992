package llm

import (
	"fmt"
	"os"
	"time"
)

// Config holds LLM provider configuration. It is embedded in the
// application config under the "llm" key.
type Config struct {
	// Provider is one of "anthropic", "openai", "gemini", "openrouter", "mock".
	Provider string `yaml:"provider"`

	Anthropic  AnthropicConfig  `yaml:"anthropic"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	Gemini     GeminiConfig     `yaml:"gemini"`
	OpenRouter OpenRouterConfig `yaml:"openrouter"`
	Retry      RetryConfig      `yaml:"retry"`

	// Timeout bounds one request including retries.
	Timeout time.Duration `yaml:"timeout"`
}

type AnthropicConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type OpenAIConfig struct {
	APIKey         string `yaml:"api_key"`
	Model          string `yaml:"model"`
	EmbeddingModel string `yaml:"embedding_model"`
	BaseURL        string `yaml:"base_url"`
}

type GeminiConfig struct {
	APIKey         string `yaml:"api_key"`
	Model          string `yaml:"model"`
	EmbeddingModel string `yaml:"embedding_model"`
}

type OpenRouterConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// RetryConfig configures backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	InitialWait time.Duration `yaml:"initial_wait"`
	MaxWait     time.Duration `yaml:"max_wait"`
	Multiplier  float64       `yaml:"multiplier"`
}

// DefaultConfig returns defaults tuned for the judge and embedding calls,
// which sit on the grading path and must stay short.
func DefaultConfig() Config {
	return Config{
		Provider:  "openai",
		Anthropic: AnthropicConfig{Model: "claude-haiku"},
		OpenAI: OpenAIConfig{
			Model:          "gpt-4o-mini",
			EmbeddingModel: "text-embedding-3-small",
		},
		Gemini: GeminiConfig{
			Model:          "gemini-flash",
			EmbeddingModel: "text-embedding-004",
		},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"},
		Retry: RetryConfig{
			MaxAttempts: 2,
			InitialWait: 200 * time.Millisecond,
			MaxWait:     time.Second,
			Multiplier:  2.0,
		},
		Timeout: 10 * time.Second,
	}
}

// ApplyEnv overrides cfg with SMARTEST_* environment variables.
func ApplyEnv(cfg *Config) {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set(&cfg.Provider, "SMARTEST_LLM_PROVIDER")
	set(&cfg.Anthropic.APIKey, "SMARTEST_ANTHROPIC_API_KEY")
	set(&cfg.Anthropic.Model, "SMARTEST_ANTHROPIC_MODEL")
	set(&cfg.OpenAI.APIKey, "SMARTEST_OPENAI_API_KEY")
	set(&cfg.OpenAI.Model, "SMARTEST_OPENAI_MODEL")
	set(&cfg.OpenAI.EmbeddingModel, "SMARTEST_OPENAI_EMBEDDING_MODEL")
	set(&cfg.OpenAI.BaseURL, "SMARTEST_OPENAI_BASE_URL")
	set(&cfg.Gemini.APIKey, "SMARTEST_GEMINI_API_KEY")
	set(&cfg.Gemini.Model, "SMARTEST_GEMINI_MODEL")
	set(&cfg.Gemini.EmbeddingModel, "SMARTEST_GEMINI_EMBEDDING_MODEL")
	set(&cfg.OpenRouter.APIKey, "SMARTEST_OPENROUTER_API_KEY")
	set(&cfg.OpenRouter.Model, "SMARTEST_OPENROUTER_MODEL")
}

// ConfigFromEnv is DefaultConfig with ApplyEnv applied.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	ApplyEnv(&cfg)
	return cfg
}

// DiscoverConfig probes the standard vendor key variables in priority
// order (Gemini, OpenAI, Anthropic, OpenRouter) and returns a Config for
// the first one found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = "gemini"
		cfg.Gemini.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = "openai"
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = "anthropic"
		cfg.Anthropic.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Provider = "openrouter"
		cfg.OpenRouter.APIKey = k
		return cfg, true
	}
	return Config{}, false
}

// HasKey reports whether the selected provider has credentials.
func (c Config) HasKey() bool {
	return c.Validate() == nil
}

// Validate checks that the selected provider has its API key set.
func (c Config) Validate() error {
	missing := func(env string) error {
		return fmt.Errorf("%s is required for the %s provider", env, c.Provider)
	}
	switch c.Provider {
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return missing("SMARTEST_ANTHROPIC_API_KEY")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return missing("SMARTEST_OPENAI_API_KEY")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return missing("SMARTEST_GEMINI_API_KEY")
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return missing("SMARTEST_OPENROUTER_API_KEY")
		}
	case "mock":
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
