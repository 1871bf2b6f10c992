package similarity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"text/template"

	"github.com/abhisek/smartest/internal/llm"
)

// Backend scores meaning-closeness of two texts in [0,1].
type Backend interface {
	Name() string
	ModelID() string
	Score(ctx context.Context, a, b string) (float64, error)
}

// EmbeddingBackend scores by cosine similarity of embedding vectors.
type EmbeddingBackend struct {
	embedder llm.Embedder
}

func NewEmbeddingBackend(e llm.Embedder) *EmbeddingBackend {
	return &EmbeddingBackend{embedder: e}
}

func (b *EmbeddingBackend) Name() string    { return "embedding" }
func (b *EmbeddingBackend) ModelID() string { return b.embedder.ModelID() }

func (b *EmbeddingBackend) Score(ctx context.Context, x, y string) (float64, error) {
	vecs, err := b.embedder.Embed(llm.WithPurpose(ctx, "similarity-embed"), []string{x, y})
	if err != nil {
		return 0, err
	}
	if len(vecs) != 2 {
		return 0, fmt.Errorf("expected 2 vectors, got %d", len(vecs))
	}
	return clamp01(cosine(vecs[0], vecs[1])), nil
}

func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// JudgeBackend asks a chat model to rate similarity under a JSON schema.
type JudgeBackend struct {
	provider llm.Provider
}

func NewJudgeBackend(p llm.Provider) *JudgeBackend {
	return &JudgeBackend{provider: p}
}

func (b *JudgeBackend) Name() string    { return "judge" }
func (b *JudgeBackend) ModelID() string { return b.provider.ModelID() }

// JudgeSchema is the structured output the judge must return.
var JudgeSchema = &llm.Schema{
	Name:        "similarity-judge",
	Description: "Semantic similarity between a student answer and a reference answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"similarity": map[string]any{
				"type":        "number",
				"minimum":     0,
				"maximum":     1,
				"description": "0 means unrelated, 1 means the same meaning",
			},
		},
		"required":             []string{"similarity"},
		"additionalProperties": false,
	},
}

const judgeSystemPrompt = `You compare two short texts written by students and teachers of an artificial intelligence course. Texts may be in Romanian or English.
Rate how close their MEANING is on a scale from 0.0 to 1.0. Ignore spelling, diacritics, word order and language differences.
Return only the similarity score.`

var judgeUserTemplate = template.Must(template.New("judge").Parse(`Text A: {{.A}}
Text B: {{.B}}`))

func (b *JudgeBackend) Score(ctx context.Context, x, y string) (float64, error) {
	var buf bytes.Buffer
	if err := judgeUserTemplate.Execute(&buf, struct{ A, B string }{x, y}); err != nil {
		return 0, fmt.Errorf("build judge prompt: %w", err)
	}

	resp, err := b.provider.Generate(llm.WithPurpose(ctx, "similarity-judge"), llm.Request{
		System:    judgeSystemPrompt,
		Messages:  []llm.Message{{Role: llm.RoleUser, Content: buf.String()}},
		Schema:    JudgeSchema,
		MaxTokens: 32,
	})
	if err != nil {
		return 0, err
	}

	var out struct {
		Similarity float64 `json:"similarity"`
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return 0, &llm.ErrInvalidResponse{Content: resp.Content, Err: err}
	}
	return clamp01(out.Similarity), nil
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
