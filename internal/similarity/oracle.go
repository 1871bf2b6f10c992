// Package similarity scores how close two texts are in [0,1]. The oracle
// prefers a semantic backend (LLM embeddings or an LLM judge) and falls
// back to edit-distance ratios, then to a positional character match.
package similarity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/smartest/internal/config"
	"github.com/abhisek/smartest/internal/llm"
	"github.com/abhisek/smartest/internal/logger"
	"github.com/abhisek/smartest/internal/textnorm"
)

// Method labels which tier produced a score.
type Method string

const (
	MethodSemantic Method = "Semantic Similarity"
	MethodFuzzy    Method = "Fuzzy Matching"
	MethodFallback Method = "Fallback"
)

// Score is a similarity value plus the tier that produced it.
type Score struct {
	Value  float64
	Method Method
}

// Scorer is what graders and the retriever depend on.
type Scorer interface {
	Similarity(ctx context.Context, a, b string) float64
}

type Options struct {
	// Semantic is nil when no semantic backend is configured.
	Semantic *Resource
	// Timeout bounds the semantic load plus score for one comparison.
	Timeout time.Duration
	// DisableFuzzy forces the positional fallback. Used to exercise the
	// degraded path.
	DisableFuzzy bool
	Log          *logger.Logger
}

type Oracle struct {
	semantic *Resource
	timeout  time.Duration
	fuzzy    bool
	log      *logger.Logger
}

func New(opts Options) *Oracle {
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Second
	}
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}
	return &Oracle{
		semantic: opts.Semantic,
		timeout:  opts.Timeout,
		fuzzy:    !opts.DisableFuzzy,
		log:      opts.Log.With("component", "similarity"),
	}
}

// Lexical returns an oracle without a semantic backend.
func Lexical() *Oracle {
	return New(Options{})
}

// NewFromConfig wires the semantic backend selected in cfg.Similarity.
func NewFromConfig(cfg config.Config, log *logger.Logger) (*Oracle, error) {
	opts := Options{Timeout: cfg.Similarity.Timeout, Log: log}
	llmCfg := cfg.LLM
	if m := cfg.Similarity.EmbeddingModel; m != "" {
		llmCfg.OpenAI.EmbeddingModel = m
		llmCfg.Gemini.EmbeddingModel = m
	}

	switch cfg.Similarity.Backend {
	case config.SimilarityNone, "":
	case config.SimilarityEmbedding:
		opts.Semantic = NewResource(config.SimilarityEmbedding, func(ctx context.Context) (Backend, error) {
			e, err := llm.NewEmbedder(ctx, llmCfg, log)
			if err != nil {
				return nil, err
			}
			// A probe call surfaces bad keys and unknown models at load time.
			if _, err := e.Embed(llm.WithPurpose(ctx, "similarity-probe"), []string{"probe"}); err != nil {
				return nil, fmt.Errorf("probe embedding model: %w", err)
			}
			return NewEmbeddingBackend(e), nil
		})
	case config.SimilarityJudge:
		opts.Semantic = NewResource(config.SimilarityJudge, func(ctx context.Context) (Backend, error) {
			p, err := llm.NewProvider(ctx, llmCfg, log)
			if err != nil {
				return nil, err
			}
			return NewJudgeBackend(p), nil
		})
	default:
		return nil, fmt.Errorf("unknown similarity backend %q", cfg.Similarity.Backend)
	}
	return New(opts), nil
}

// Similarity implements Scorer.
func (o *Oracle) Similarity(ctx context.Context, a, b string) float64 {
	return o.Compare(ctx, a, b).Value
}

// Compare runs the full priority order: exact, substring, semantic, fuzzy,
// positional. It never fails; backend errors drop to the next tier.
func (o *Oracle) Compare(ctx context.Context, a, b string) Score {
	na, nb := textnorm.Normalize(a), textnorm.Normalize(b)
	if na == nb {
		return Score{Value: 1, Method: o.currentMethod()}
	}
	if na == "" || nb == "" {
		return Score{Value: 0, Method: o.currentMethod()}
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		if o.fuzzy {
			return Score{Value: 0.9, Method: o.currentMethod()}
		}
		if o.backend(ctx) != nil {
			return Score{Value: 0.9, Method: MethodSemantic}
		}
		return Score{Value: 0.85, Method: MethodFallback}
	}

	if backend := o.backend(ctx); backend != nil {
		v, err := backend.Score(ctx, na, nb)
		if err == nil {
			return Score{Value: v, Method: MethodSemantic}
		}
		o.log.Debug("semantic score failed, falling back",
			"backend", backend.Name(), "transient", llm.IsTransient(err), "error", err.Error())
	}

	if o.fuzzy {
		return Score{Value: fuzzyScore(na, nb), Method: MethodFuzzy}
	}
	return Score{Value: positionalScore(na, nb), Method: MethodFallback}
}

func (o *Oracle) backend(ctx context.Context) Backend {
	if o.semantic == nil {
		return nil
	}
	b, err := o.semantic.Get(ctx)
	if err != nil {
		o.log.Debug("semantic backend unavailable", "backend", o.semantic.Name(), "error", err.Error())
		return nil
	}
	return b
}

// currentMethod is the best tier available without triggering a load.
func (o *Oracle) currentMethod() Method {
	if o.semantic != nil {
		if st, _ := o.semantic.State(); st == StateLoaded {
			return MethodSemantic
		}
	}
	if o.fuzzy {
		return MethodFuzzy
	}
	return MethodFallback
}

// Warm attempts to load the semantic backend once.
func (o *Oracle) Warm(ctx context.Context) error {
	if o.semantic == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	_, err := o.semantic.Get(ctx)
	return err
}

// Status is the diagnostics payload behind /nlp/status.
type Status struct {
	Backend             string `json:"backend"`
	State               string `json:"state"`
	Model               string `json:"model,omitempty"`
	LastError           string `json:"last_error,omitempty"`
	FuzzyAvailable      bool   `json:"fuzzy_available"`
	PositionalAvailable bool   `json:"positional_available"`
	Method              Method `json:"method"`
	Timeout             string `json:"timeout"`
}

func (o *Oracle) Status() Status {
	st := Status{
		Backend:             config.SimilarityNone,
		State:               StateUnloaded.String(),
		FuzzyAvailable:      o.fuzzy,
		PositionalAvailable: true,
		Method:              o.currentMethod(),
		Timeout:             o.timeout.String(),
	}
	if o.semantic != nil {
		state, err := o.semantic.State()
		st.Backend = o.semantic.Name()
		st.State = state.String()
		st.Model = o.semantic.ModelID()
		if err != nil {
			st.LastError = err.Error()
		}
	}
	return st
}
