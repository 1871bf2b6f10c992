package similarity

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/smartest/internal/config"
	"github.com/abhisek/smartest/internal/llm"
	"github.com/abhisek/smartest/internal/logger"
)

func TestCompare_Shortcuts(t *testing.T) {
	o := Lexical()
	ctx := context.Background()

	assert.Equal(t, 1.0, o.Similarity(ctx, "  Nash Equilibrium ", "nash equilibrium"))
	assert.Equal(t, 0.9, o.Similarity(ctx, "equilibrium", "nash equilibrium is stable"))
	assert.Equal(t, 0.0, o.Similarity(ctx, "", "anything"))
}

func TestCompare_FuzzyBand(t *testing.T) {
	o := Lexical()
	s := o.Compare(context.Background(), "minimax algorithm", "the minmax algoritm")
	assert.Equal(t, MethodFuzzy, s.Method)
	assert.Greater(t, s.Value, 0.6)
	assert.LessOrEqual(t, s.Value, 1.0)

	far := o.Similarity(context.Background(), "backtracking", "zebra")
	assert.Less(t, far, 0.4)
}

func TestCompare_DegradedPath(t *testing.T) {
	o := New(Options{DisableFuzzy: true})
	ctx := context.Background()

	sub := o.Compare(ctx, "nash", "nash equilibrium")
	assert.Equal(t, 0.85, sub.Value)
	assert.Equal(t, MethodFallback, sub.Method)

	pos := o.Compare(ctx, "abcd", "abxy")
	assert.Equal(t, 0.5, pos.Value)
	assert.Equal(t, MethodFallback, pos.Method)
}

func TestCompare_SemanticFirst(t *testing.T) {
	emb := llm.NewMockEmbedder(map[string][]float32{
		"a pure equilibrium": {1, 0},
		"stable profile":     {1, 1},
	})
	o := New(Options{Semantic: NewResource("embedding", func(context.Context) (Backend, error) {
		return NewEmbeddingBackend(emb), nil
	})})

	s := o.Compare(context.Background(), "A pure equilibrium", "stable profile")
	assert.Equal(t, MethodSemantic, s.Method)
	assert.InDelta(t, 0.7071, s.Value, 0.001)
}

func TestCompare_SemanticErrorFallsBack(t *testing.T) {
	emb := llm.NewMockEmbedder(nil)
	emb.Err = &llm.ErrRateLimit{}
	o := New(Options{Semantic: NewResource("embedding", func(context.Context) (Backend, error) {
		return NewEmbeddingBackend(emb), nil
	})})

	s := o.Compare(context.Background(), "alpha", "beta")
	assert.Equal(t, MethodFuzzy, s.Method)
}

func TestCompare_JudgeBackend(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"similarity":0.42}`)})
	o := New(Options{Semantic: NewResource("judge", func(context.Context) (Backend, error) {
		return NewJudgeBackend(mock), nil
	})})

	s := o.Compare(context.Background(), "prune subtrees", "skip branches")
	assert.Equal(t, MethodSemantic, s.Method)
	assert.InDelta(t, 0.42, s.Value, 1e-9)
	require.Equal(t, 1, mock.CallCount())
	assert.Equal(t, JudgeSchema, mock.Calls[0].Schema)
}

func TestCompare_TimeoutFallsBack(t *testing.T) {
	o := New(Options{
		Timeout: 10 * time.Millisecond,
		Semantic: NewResource("embedding", func(ctx context.Context) (Backend, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}),
	})
	s := o.Compare(context.Background(), "alpha", "beta")
	assert.Equal(t, MethodFuzzy, s.Method)

	st := o.Status()
	assert.Equal(t, "failed", st.State)
	assert.NotEmpty(t, st.LastError)
}

func TestResource_RetriesAfterFailure(t *testing.T) {
	var calls int32
	r := NewResource("embedding", func(context.Context) (Backend, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return nil, errors.New("cold start")
		}
		return NewEmbeddingBackend(llm.NewMockEmbedder(nil)), nil
	})

	_, err := r.Get(context.Background())
	require.Error(t, err)
	st, lastErr := r.State()
	assert.Equal(t, StateFailed, st)
	assert.EqualError(t, lastErr, "cold start")

	_, err = r.Get(context.Background())
	require.NoError(t, err)
	st, lastErr = r.State()
	assert.Equal(t, StateLoaded, st)
	assert.NoError(t, lastErr)

	_, err = r.Get(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls), "successful load is memoized")
}

func TestResource_ConcurrentLoadsCollapse(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	r := NewResource("embedding", func(context.Context) (Backend, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return NewEmbeddingBackend(llm.NewMockEmbedder(nil)), nil
	})

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = r.Get(context.Background())
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestStatus(t *testing.T) {
	st := Lexical().Status()
	assert.Equal(t, "none", st.Backend)
	assert.Equal(t, MethodFuzzy, st.Method)
	assert.True(t, st.FuzzyAvailable)
	assert.True(t, st.PositionalAvailable)
}

func TestNewFromConfig(t *testing.T) {
	cfg := config.Default()
	o, err := NewFromConfig(cfg, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, "none", o.Status().Backend)

	cfg.Similarity.Backend = config.SimilarityJudge
	cfg.LLM.Provider = "mock"
	o, err = NewFromConfig(cfg, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, o.Warm(context.Background()))
	assert.Equal(t, "loaded", o.Status().State)
	assert.Equal(t, MethodSemantic, o.Status().Method)

	cfg.Similarity.Backend = "bert"
	_, err = NewFromConfig(cfg, logger.Nop())
	assert.Error(t, err)
}

func TestLexicalRatios(t *testing.T) {
	assert.Equal(t, 1.0, partialRatio("nash", "the nash point"))
	assert.Equal(t, 1.0, tokenSortRatio("b a", "a b"))
	assert.Equal(t, 1.0, positionalScore("", ""))
}
