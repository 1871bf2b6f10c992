package theory

import (
	"context"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/smartest/internal/logger"
	"github.com/abhisek/smartest/internal/similarity"
)

// Retrieval defaults.
const (
	DefaultThreshold  = 0.35
	DefaultMaxSources = 3
	DefaultMaxAnswer  = 600
	defaultWorkers    = 8
)

// Source is a chunk with its score against the question.
type Source struct {
	Chunk
	Score float64 `json:"score"`
}

// Answer is what the retriever says to a free-form question.
type Answer struct {
	Text       string   `json:"answer"`
	Confidence float64  `json:"confidence"`
	Sources    []Source `json:"sources"`
	Method     string   `json:"method"`
	// Confident is false when the best chunk fell below the threshold
	// and Text only suggests topics.
	Confident   bool     `json:"-"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Retriever ranks theory chunks by similarity to a question. It is safe
// for concurrent use.
type Retriever struct {
	chunks []Chunk
	scorer similarity.Scorer
	log    *logger.Logger

	Threshold  float64
	MaxSources int
	MaxAnswer  int
	Workers    int
}

func NewRetriever(topics []Topic, scorer similarity.Scorer, log *logger.Logger) *Retriever {
	if scorer == nil {
		scorer = similarity.Lexical()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Retriever{
		chunks:     BuildChunks(topics),
		scorer:     scorer,
		log:        log.With("component", "retriever"),
		Threshold:  DefaultThreshold,
		MaxSources: DefaultMaxSources,
		MaxAnswer:  DefaultMaxAnswer,
		Workers:    defaultWorkers,
	}
}

// Chunks returns the indexed chunks.
func (r *Retriever) Chunks() []Chunk { return r.chunks }

// Ask answers question from the best matching chunk, restricted to topicID
// when it is not empty. Below the threshold it suggests topics instead.
// The only error is a cancelled ctx.
func (r *Retriever) Ask(ctx context.Context, question, topicID string) (Answer, error) {
	if strings.TrimSpace(question) == "" {
		return Answer{Text: "Please write a question.", Method: string(r.method(nil))}, nil
	}

	var pool []Chunk
	for _, c := range r.chunks {
		if topicID == "" || c.TopicID == topicID {
			pool = append(pool, c)
		}
	}

	scored := make([]Source, len(pool))
	methods := make([]similarity.Method, len(pool))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, r.Workers))
	for i, c := range pool {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s := r.score(gctx, question, c.Text)
			scored[i] = Source{Chunk: c, Score: s.Value}
			methods[i] = s.Method
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Answer{}, err
	}

	order := make([]int, len(scored))
	for i := range order {
		order[i] = i
	}
	// Stable so equal scores keep chunk order.
	slices.SortStableFunc(order, func(a, b int) int {
		switch {
		case scored[a].Score > scored[b].Score:
			return -1
		case scored[a].Score < scored[b].Score:
			return 1
		}
		return 0
	})
	top := make([]Source, 0, r.MaxSources)
	for _, i := range order[:min(len(order), r.MaxSources)] {
		top = append(top, scored[i])
	}

	ans := Answer{Sources: top}
	if len(top) > 0 {
		ans.Confidence = top[0].Score
		ans.Method = string(r.method(&methods[order[0]]))
	} else {
		ans.Method = string(r.method(nil))
	}
	r.log.Debug("retrieved", "chunks", len(pool), "best", ans.Confidence, "topic", topicID)

	if ans.Confidence < r.Threshold {
		for _, s := range top {
			label := s.TopicName
			if label == "" {
				label = s.TopicID
			}
			if label != "" && !slices.Contains(ans.Suggestions, label) {
				ans.Suggestions = append(ans.Suggestions, label)
			}
		}
		ans.Text = "I'm not sure. Try rephrasing the question or pick a specific topic."
		if len(ans.Suggestions) > 0 {
			ans.Text += " Suggestions: " + strings.Join(ans.Suggestions, ", ") + "."
		}
		return ans, nil
	}

	ans.Confident = true
	ans.Text = top[0].Text
	if rs := []rune(ans.Text); len(rs) > r.MaxAnswer {
		ans.Text = strings.TrimRight(string(rs[:r.MaxAnswer]), " \t\n") + "..."
	}
	return ans, nil
}

func (r *Retriever) score(ctx context.Context, a, b string) similarity.Score {
	if c, ok := r.scorer.(interface {
		Compare(ctx context.Context, a, b string) similarity.Score
	}); ok {
		return c.Compare(ctx, a, b)
	}
	return similarity.Score{Value: r.scorer.Similarity(ctx, a, b)}
}

// method labels the answer with the tier that scored the best chunk.
func (r *Retriever) method(m *similarity.Method) similarity.Method {
	if m != nil && *m != "" {
		return *m
	}
	if o, ok := r.scorer.(*similarity.Oracle); ok {
		return o.Status().Method
	}
	return similarity.MethodFallback
}
