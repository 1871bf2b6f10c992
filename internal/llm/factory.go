package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/smartest/internal/logger"
)

// NewProvider builds the configured chat provider wrapped as
// caller → retry → logging → base.
func NewProvider(ctx context.Context, cfg Config, log *logger.Logger) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return WithRetry(WithLogging(base, log), cfg.Retry), nil
}

// NewEmbedder builds the configured embedding client. Only the OpenAI and
// Gemini APIs expose embeddings; other providers are rejected.
func NewEmbedder(ctx context.Context, cfg Config, log *logger.Logger) (Embedder, error) {
	var base Embedder
	var err error

	switch cfg.Provider {
	case "openai":
		base, err = NewOpenAIEmbedder(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiEmbedder(ctx, cfg.Gemini)
	case "mock":
		return NewMockEmbedder(nil), nil
	default:
		return nil, fmt.Errorf("provider %q does not support embeddings", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s embedder: %w", cfg.Provider, err)
	}

	return WithEmbedRetry(WithEmbedLogging(base, log), cfg.Retry), nil
}
