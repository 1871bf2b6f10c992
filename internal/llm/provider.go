package llm

import (
	"context"
	"encoding/json"
)

// Provider sends a prompt to a chat model and returns its reply.
// SmarTest uses it as the similarity judge: the model is asked to rate how
// close a student answer is to the reference answer.
type Provider interface {
	// Generate runs a single request. When req.Schema is set the provider
	// asks for structured output and validates the reply against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the model the provider talks to.
	ModelID() string
}

// Embedder turns texts into dense vectors for the semantic similarity
// backend. Vectors come back in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	ModelID() string
}

// Request describes a single-turn or multi-turn prompt.
type Request struct {
	System   string
	Messages []Message

	// Schema, when non-nil, switches the provider to structured output.
	// Without it the reply text is returned as-is in Response.Content.
	Schema *Schema

	MaxTokens int

	// Temperature ranges 0.0 - 1.0. Zero means deterministic.
	Temperature float64
}

// Message is one conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema definition. Name is kebab-case and doubles
// as the cache key for the compiled validator.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Response holds the model output.
type Response struct {
	Content json.RawMessage
	Usage   Usage
	Model   string

	// StopReason is normalized to "end", "max_tokens" or "error".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
