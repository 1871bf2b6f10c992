package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryProvider retries transient Generate failures with exponential
// backoff and jitter.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

// WithRetry wraps a Provider with retry logic.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &RetryProvider{inner: p, config: cfg}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var resp *Response
	err := retryLoop(ctx, r.config, func() error {
		var err error
		resp, err = r.inner.Generate(ctx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// RetryEmbedder is the Embedder counterpart of RetryProvider.
type RetryEmbedder struct {
	inner  Embedder
	config RetryConfig
}

// WithEmbedRetry wraps an Embedder with retry logic.
func WithEmbedRetry(e Embedder, cfg RetryConfig) Embedder {
	return &RetryEmbedder{inner: e, config: cfg}
}

func (r *RetryEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	var out [][]float32
	err := retryLoop(ctx, r.config, func() error {
		var err error
		out, err = r.inner.Embed(ctx, texts)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *RetryEmbedder) ModelID() string {
	return r.inner.ModelID()
}

func retryLoop(ctx context.Context, cfg RetryConfig, call func() error) error {
	attempts := max(cfg.MaxAttempts, 1)
	invalidRetried := false

	var lastErr error
	for attempt := range attempts {
		err := call()
		if err == nil {
			return nil
		}
		lastErr = err

		if !shouldRetry(err, &invalidRetried) {
			return err
		}
		if attempt == attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff(cfg, attempt, err)):
		}
	}
	return lastErr
}

func shouldRetry(err error, invalidRetried *bool) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var maxTok *ErrMaxTokensExceeded
	if errors.As(err, &maxTok) {
		return false
	}

	// A malformed reply gets exactly one more chance.
	var invResp *ErrInvalidResponse
	if errors.As(err, &invResp) {
		if *invalidRetried {
			return false
		}
		*invalidRetried = true
		return true
	}

	// Rate limits, outages and unclassified transport errors.
	return true
}

func backoff(cfg RetryConfig, attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(cfg.InitialWait) * math.Pow(cfg.Multiplier, float64(attempt))
	wait = math.Min(wait, float64(cfg.MaxWait))

	// ±20% jitter.
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	return time.Duration(math.Max(wait, 0))
}
