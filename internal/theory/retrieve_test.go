package theory

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/smartest/internal/similarity"
)

// keywordScorer scores a chunk by the share of question words it contains.
type keywordScorer struct{}

func (keywordScorer) Similarity(_ context.Context, question, text string) float64 {
	words := strings.Fields(strings.ToLower(question))
	if len(words) == 0 {
		return 0
	}
	hits := 0
	for _, w := range words {
		if strings.Contains(strings.ToLower(text), w) {
			hits++
		}
	}
	return float64(hits) / float64(len(words))
}

type constScorer float64

func (c constScorer) Similarity(context.Context, string, string) float64 { return float64(c) }

func sampleTopics() []Topic {
	return []Topic{
		{
			ID:   "alpha",
			Name: "Alpha Topic",
			Material: Material{
				Definition: "  Alpha  pruning\n skips branches that cannot change the decision.  ",
				KeyConcepts: []Entry{
					{Fields: []Field{{"concept", "Cutoff"}, {"definition", "Stop exploring when alpha >= beta."}}},
					{Text: "too short"},
				},
				Formulas: []Entry{
					{Fields: []Field{{"name", "Perfect ordering"}, {"node_count", "O(b^(d/2)) nodes"}}},
				},
			},
		},
		{
			ID:   "beta",
			Name: "Beta Topic",
			Material: Material{
				Definition: "Constraint propagation removes values without support.",
				Theorems: []Entry{
					{Fields: []Field{{"name", "Arc consistency"}, {"statement", "AC-3 terminates on finite domains."}}},
				},
				Examples: []Entry{
					{Text: "plain example strings are not chunked for examples"},
				},
			},
		},
	}
}

func TestBuildChunks(t *testing.T) {
	chunks := BuildChunks(sampleTopics())
	require.Len(t, chunks, 5)

	assert.Equal(t, Chunk{
		Text:      "Alpha pruning skips branches that cannot change the decision.",
		TopicID:   "alpha",
		TopicName: "Alpha Topic",
		Type:      "definition",
		Title:     "Alpha Topic",
	}, chunks[0])

	assert.Equal(t, "Concept: Cutoff | Definition: Stop exploring when alpha >= beta.", chunks[1].Text)
	assert.Equal(t, "Cutoff", chunks[1].Title)
	assert.Equal(t, "key_concept", chunks[1].Type)

	assert.Equal(t, "Formulas: Perfect ordering | Node Count: O(b^(d/2)) nodes", chunks[2].Text)
	assert.Equal(t, "formulas", chunks[2].Type)

	assert.Equal(t, "theorem", chunks[4].Type)
	assert.Equal(t, "Theorem: Arc consistency | Statement: AC-3 terminates on finite domains.", chunks[4].Text)
}

func TestBuildChunks_DefaultDataset(t *testing.T) {
	topics, err := Load("")
	require.NoError(t, err)
	chunks := BuildChunks(topics)
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.GreaterOrEqual(t, len([]rune(c.Text)), minChunkLen)
		assert.NotContains(t, c.Text, "  ")
		assert.NotEmpty(t, c.Title)
	}
}

func TestAsk_BestChunk(t *testing.T) {
	r := NewRetriever(sampleTopics(), keywordScorer{}, nil)

	ans, err := r.Ask(context.Background(), "alpha beta cutoff", "")
	require.NoError(t, err)
	assert.True(t, ans.Confident)
	assert.Equal(t, "Concept: Cutoff | Definition: Stop exploring when alpha >= beta.", ans.Text)
	assert.InDelta(t, 1.0, ans.Confidence, 1e-9)
	assert.Len(t, ans.Sources, 3)
	assert.Equal(t, "Cutoff", ans.Sources[0].Title)
	assert.Equal(t, string(similarity.MethodFallback), ans.Method)
}

func TestAsk_TopicFilter(t *testing.T) {
	r := NewRetriever(sampleTopics(), keywordScorer{}, nil)

	ans, err := r.Ask(context.Background(), "values support", "beta")
	require.NoError(t, err)
	for _, s := range ans.Sources {
		assert.Equal(t, "beta", s.TopicID)
	}
	assert.Equal(t, "Constraint propagation removes values without support.", ans.Text)
}

func TestAsk_TiesKeepChunkOrder(t *testing.T) {
	r := NewRetriever(sampleTopics(), constScorer(0.5), nil)
	r.Workers = 2

	ans, err := r.Ask(context.Background(), "anything", "")
	require.NoError(t, err)
	chunks := r.Chunks()
	require.Len(t, ans.Sources, 3)
	for i := range ans.Sources {
		assert.Equal(t, chunks[i], ans.Sources[i].Chunk)
	}
}

func TestAsk_BelowThresholdSuggestsTopics(t *testing.T) {
	r := NewRetriever(sampleTopics(), constScorer(0.1), nil)

	ans, err := r.Ask(context.Background(), "what is a kernel", "")
	require.NoError(t, err)
	assert.False(t, ans.Confident)
	assert.Equal(t, []string{"Alpha Topic"}, ans.Suggestions)
	assert.Equal(t, "I'm not sure. Try rephrasing the question or pick a specific topic. Suggestions: Alpha Topic.", ans.Text)
	assert.InDelta(t, 0.1, ans.Confidence, 1e-9)
}

func TestAsk_TruncatesLongAnswers(t *testing.T) {
	long := strings.Repeat("word ", 200)
	r := NewRetriever([]Topic{{ID: "x", Name: "X", Material: Material{Definition: long}}}, constScorer(0.9), nil)

	ans, err := r.Ask(context.Background(), "word", "")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(ans.Text, "..."))
	assert.LessOrEqual(t, len([]rune(ans.Text)), DefaultMaxAnswer+3)
	assert.False(t, strings.HasSuffix(strings.TrimSuffix(ans.Text, "..."), " "))
}

func TestAsk_EmptyQuestion(t *testing.T) {
	r := NewRetriever(sampleTopics(), nil, nil)
	ans, err := r.Ask(context.Background(), "   ", "")
	require.NoError(t, err)
	assert.Equal(t, "Please write a question.", ans.Text)
	assert.Empty(t, ans.Sources)
}

func TestAsk_NoChunks(t *testing.T) {
	r := NewRetriever(sampleTopics(), keywordScorer{}, nil)
	ans, err := r.Ask(context.Background(), "anything", "missing-topic")
	require.NoError(t, err)
	assert.False(t, ans.Confident)
	assert.Empty(t, ans.Sources)
	assert.Equal(t, "I'm not sure. Try rephrasing the question or pick a specific topic.", ans.Text)
}

func TestAsk_CancelledContext(t *testing.T) {
	r := NewRetriever(sampleTopics(), keywordScorer{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Ask(ctx, "alpha", "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAsk_LexicalOracleOnDefaultDataset(t *testing.T) {
	topics, err := Load("")
	require.NoError(t, err)
	r := NewRetriever(topics, similarity.Lexical(), nil)

	ans, err := r.Ask(context.Background(), "Ce este un echilibru Nash?", "nash_equilibrium_basics")
	require.NoError(t, err)
	require.NotEmpty(t, ans.Sources)
	for _, s := range ans.Sources {
		assert.Equal(t, "nash_equilibrium_basics", s.TopicID)
	}
	assert.NotEmpty(t, ans.Method)
}
