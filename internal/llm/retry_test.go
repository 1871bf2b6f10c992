package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     5 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func TestRetry_Generate(t *testing.T) {
	ok := MockResponse{Content: json.RawMessage(`{"similarity":0.9}`)}
	down := MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}}
	bad := MockResponse{Err: &ErrInvalidResponse{Content: json.RawMessage(`nope`), Err: errors.New("bad")}}

	tests := []struct {
		name      string
		queue     []MockResponse
		wantErr   bool
		wantCalls int
	}{
		{"first attempt", []MockResponse{ok}, false, 1},
		{"transient then success", []MockResponse{down, ok}, false, 2},
		{"all attempts fail", []MockResponse{down, down, down}, true, 3},
		{"invalid retried once", []MockResponse{bad, bad, ok}, true, 2},
		{"max tokens not retried", []MockResponse{{Err: &ErrMaxTokensExceeded{}}}, true, 1},
		{"rate limit honors retry-after", []MockResponse{{Err: &ErrRateLimit{RetryAfter: time.Millisecond}}, ok}, false, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.queue...)
			p := WithRetry(mock, fastRetry())

			resp, err := p.Generate(context.Background(), Request{})
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.JSONEq(t, `{"similarity":0.9}`, string(resp.Content))
			}
			assert.Equal(t, tt.wantCalls, mock.CallCount())
		})
	}
}

func TestRetry_CancelledContextStops(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
		MockResponse{Content: json.RawMessage(`{}`)},
	)
	p := WithRetry(mock, RetryConfig{MaxAttempts: 3, InitialWait: time.Second, MaxWait: time.Second, Multiplier: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Generate(ctx, Request{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_Embedder(t *testing.T) {
	emb := NewMockEmbedder(map[string][]float32{"a": {1, 0}})
	emb.Err = &ErrProviderUnavailable{Err: errors.New("down")}
	r := WithEmbedRetry(emb, fastRetry())

	_, err := r.Embed(context.Background(), []string{"a"})
	require.Error(t, err)
	assert.Equal(t, 3, emb.CallCount())

	emb.Err = nil
	vecs, err := r.Embed(context.Background(), []string{"a"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 0}}, vecs)
	assert.Equal(t, "mock-embedding", r.ModelID())
}

func TestBackoffCapped(t *testing.T) {
	cfg := RetryConfig{InitialWait: 100 * time.Millisecond, MaxWait: 200 * time.Millisecond, Multiplier: 10}
	for attempt := range 4 {
		wait := backoff(cfg, attempt, errors.New("x"))
		assert.LessOrEqual(t, wait, 240*time.Millisecond)
		assert.GreaterOrEqual(t, wait, time.Duration(0))
	}
}
