package llm

import "fmt"

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterProvider is an OpenAIProvider pointed at OpenRouter.
type OpenRouterProvider struct {
	*OpenAIProvider
}

func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}
	// OpenRouter model names are vendor-prefixed and never need resolving.
	return &OpenRouterProvider{OpenAIProvider: &OpenAIProvider{
		client: newOpenAIClient(cfg.APIKey, baseURL),
		model:  cfg.Model,
	}}, nil
}
