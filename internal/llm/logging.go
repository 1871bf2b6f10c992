package llm

import (
	"context"
	"time"

	"github.com/abhisek/smartest/internal/logger"
)

// LoggingProvider logs every request with its purpose, latency and usage.
type LoggingProvider struct {
	inner Provider
	log   *logger.Logger
}

// WithLogging wraps a Provider with structured request logging.
func WithLogging(p Provider, log *logger.Logger) Provider {
	return &LoggingProvider{inner: p, log: log}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	fields := []any{
		"purpose", PurposeFrom(ctx),
		"model", l.inner.ModelID(),
		"latency_ms", time.Since(start).Milliseconds(),
		"success", err == nil,
	}
	if req.Schema != nil {
		fields = append(fields, "schema", req.Schema.Name)
	}
	if resp != nil {
		fields = append(fields,
			"served_by", resp.Model,
			"input_tokens", resp.Usage.InputTokens,
			"output_tokens", resp.Usage.OutputTokens,
			"stop_reason", resp.StopReason,
		)
	}
	if err != nil {
		l.log.Warn("llm request failed", append(fields, "error", err.Error())...)
		return resp, err
	}
	l.log.Debug("llm request", fields...)
	return resp, nil
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// LoggingEmbedder is the Embedder counterpart of LoggingProvider.
type LoggingEmbedder struct {
	inner Embedder
	log   *logger.Logger
}

func WithEmbedLogging(e Embedder, log *logger.Logger) Embedder {
	return &LoggingEmbedder{inner: e, log: log}
}

func (l *LoggingEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	start := time.Now()
	out, err := l.inner.Embed(ctx, texts)

	fields := []any{
		"purpose", PurposeFrom(ctx),
		"model", l.inner.ModelID(),
		"inputs", len(texts),
		"latency_ms", time.Since(start).Milliseconds(),
		"success", err == nil,
	}
	if err != nil {
		l.log.Warn("embedding request failed", append(fields, "error", err.Error())...)
		return nil, err
	}
	l.log.Debug("embedding request", fields...)
	return out, nil
}

func (l *LoggingEmbedder) ModelID() string {
	return l.inner.ModelID()
}
