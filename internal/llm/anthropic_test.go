package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
)

func newTestAnthropicProvider(t *testing.T, handler http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewAnthropicProvider(
		AnthropicConfig{APIKey: "test-key", Model: "claude-haiku"},
		option.WithBaseURL(server.URL),
		option.WithMaxRetries(0),
	)
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	return p
}

func anthropicMessage(text, stop string) map[string]any {
	return map[string]any{
		"id":          "msg_test",
		"type":        "message",
		"role":        "assistant",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"model":       "claude-haiku-4-5-20251001",
		"stop_reason": stop,
		"usage":       map[string]any{"input_tokens": 50, "output_tokens": 7},
	}
}

func TestAnthropicProvider_JudgeReply(t *testing.T) {
	p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(anthropicMessage(`{"similarity":0.82}`, "end_turn"))
	})

	resp, err := p.Generate(context.Background(), Request{
		System:    "Rate similarity.",
		Messages:  []Message{{Role: RoleUser, Content: "A: x\nB: y"}},
		Schema:    judgeTestSchema(),
		MaxTokens: 64,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.TotalTokens != 57 {
		t.Fatalf("expected 57 total tokens, got %d", resp.Usage.TotalTokens)
	}
	if string(resp.Content) != `{"similarity":0.82}` {
		t.Fatalf("unexpected content %s", resp.Content)
	}
	if p.ModelID() != "claude-haiku-4-5-20251001" {
		t.Fatalf("model not resolved: %q", p.ModelID())
	}
}

func TestAnthropicProvider_MaxTokens(t *testing.T) {
	p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(anthropicMessage(`{"simil`, "max_tokens"))
	})

	_, err := p.Generate(context.Background(), Request{
		Messages:  []Message{{Role: RoleUser, Content: "x"}},
		MaxTokens: 4,
	})
	var mt *ErrMaxTokensExceeded
	if !errors.As(err, &mt) {
		t.Fatalf("expected ErrMaxTokensExceeded, got %T (%v)", err, err)
	}
}

func TestAnthropicProvider_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		code    int
		wantErr any
	}{
		{"rate limit", "rate_limit_error", http.StatusTooManyRequests, &ErrRateLimit{}},
		{"server error", "api_error", http.StatusInternalServerError, &ErrProviderUnavailable{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.code)
				json.NewEncoder(w).Encode(map[string]any{
					"type":  "error",
					"error": map[string]any{"type": tt.status, "message": "nope"},
				})
			})

			_, err := p.Generate(context.Background(), Request{
				Messages:  []Message{{Role: RoleUser, Content: "x"}},
				MaxTokens: 10,
			})
			switch tt.wantErr.(type) {
			case *ErrRateLimit:
				var rl *ErrRateLimit
				if !errors.As(err, &rl) {
					t.Fatalf("expected ErrRateLimit, got %T (%v)", err, err)
				}
			case *ErrProviderUnavailable:
				var un *ErrProviderUnavailable
				if !errors.As(err, &un) {
					t.Fatalf("expected ErrProviderUnavailable, got %T (%v)", err, err)
				}
			}
		})
	}
}

func TestAnthropicProvider_RequiresKey(t *testing.T) {
	if _, err := NewAnthropicProvider(AnthropicConfig{}); err == nil {
		t.Fatal("expected error for empty key")
	}
}
