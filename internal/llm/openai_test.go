package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpenAIServer(t *testing.T, handler http.HandlerFunc) string {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server.URL + "/v1"
}

func chatCompletion(content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1234567890,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 6, "total_tokens": 46},
	}
}

func TestOpenAIProvider_StructuredReply(t *testing.T) {
	var gotBody map[string]any
	url := newTestOpenAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(`{"similarity":0.5}`, "stop"))
	})

	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "gpt-4o-mini", BaseURL: url})
	require.NoError(t, err)

	resp, err := p.Generate(context.Background(), Request{
		System:    "judge",
		Messages:  []Message{{Role: RoleUser, Content: "compare"}},
		Schema:    judgeTestSchema(),
		MaxTokens: 32,
	})
	require.NoError(t, err)
	assert.Equal(t, 40, resp.Usage.InputTokens)
	assert.Equal(t, "end", resp.StopReason)
	assert.JSONEq(t, `{"similarity":0.5}`, string(resp.Content))

	format, ok := gotBody["response_format"].(map[string]any)
	require.True(t, ok, "response_format missing")
	assert.Equal(t, "json_schema", format["type"])
	msgs := gotBody["messages"].([]any)
	assert.Len(t, msgs, 2)
}

func TestOpenAIProvider_SchemaMismatchIsInvalid(t *testing.T) {
	url := newTestOpenAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(`{"similarity":"high"}`, "stop"))
	})
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "gpt-4o-mini", BaseURL: url})
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), Request{Schema: judgeTestSchema(), MaxTokens: 32})
	var inv *ErrInvalidResponse
	assert.True(t, errors.As(err, &inv), "got %T", err)
}

func TestOpenAIProvider_LengthIsMaxTokens(t *testing.T) {
	url := newTestOpenAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(`{"simi`, "length"))
	})
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "gpt-4o-mini", BaseURL: url})
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), Request{MaxTokens: 2})
	var mt *ErrMaxTokensExceeded
	assert.True(t, errors.As(err, &mt), "got %T", err)
}

func TestOpenAIProvider_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{"rate limit", http.StatusTooManyRequests, func(err error) bool {
			var rl *ErrRateLimit
			return errors.As(err, &rl)
		}},
		{"server error", http.StatusInternalServerError, func(err error) bool {
			var un *ErrProviderUnavailable
			return errors.As(err, &un)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := newTestOpenAIServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]any{"type": "x", "message": "nope"},
				})
			})
			p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "gpt-4o-mini", BaseURL: url})
			require.NoError(t, err)

			_, err = p.Generate(context.Background(), Request{MaxTokens: 8})
			require.Error(t, err)
			assert.True(t, tt.check(err), "got %T (%v)", err, err)
			assert.True(t, IsTransient(err))
		})
	}
}

func TestOpenAIEmbedder_OrdersByIndex(t *testing.T) {
	url := newTestOpenAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/embeddings"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"model":  "text-embedding-3-small",
			"data": []map[string]any{
				{"object": "embedding", "index": 1, "embedding": []float32{0, 1}},
				{"object": "embedding", "index": 0, "embedding": []float32{1, 0}},
			},
			"usage": map[string]any{"prompt_tokens": 4, "total_tokens": 4},
		})
	})

	e, err := NewOpenAIEmbedder(OpenAIConfig{APIKey: "k", BaseURL: url})
	require.NoError(t, err)
	assert.Equal(t, "text-embedding-3-small", e.ModelID())

	vecs, err := e.Embed(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 0}, {0, 1}}, vecs)
}

func TestOpenAIEmbedder_CountMismatch(t *testing.T) {
	url := newTestOpenAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data":   []map[string]any{{"object": "embedding", "index": 0, "embedding": []float32{1}}},
		})
	})
	e, err := NewOpenAIEmbedder(OpenAIConfig{APIKey: "k", BaseURL: url})
	require.NoError(t, err)

	_, err = e.Embed(context.Background(), []string{"a", "b"})
	var inv *ErrInvalidResponse
	assert.True(t, errors.As(err, &inv))
}

func TestNewOpenRouterProvider(t *testing.T) {
	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or", Model: "meta-llama/llama-3-8b"})
	require.NoError(t, err)
	assert.Equal(t, "meta-llama/llama-3-8b", p.ModelID())

	_, err = NewOpenRouterProvider(OpenRouterConfig{Model: "x"})
	assert.Error(t, err)
}
