// Package grading scores a free-text answer against the gold answer
// recomputed from a problem payload. Grading never fails: an answer that
// cannot be read scores 0 with feedback saying what format is expected.
package grading

import (
	"context"
	"fmt"

	"github.com/abhisek/smartest/internal/logger"
	"github.com/abhisek/smartest/internal/problemgen"
	"github.com/abhisek/smartest/internal/similarity"
)

// Result is the outcome of grading one answer.
type Result struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`

	Similarity *float64 `json:"similarity,omitempty"`
	Method     string   `json:"method,omitempty"`

	MainScore          *int `json:"main_score,omitempty"`
	JustificationScore *int `json:"justification_score,omitempty"`

	// Uncertainty is the diagnosis category when it decided the score.
	Uncertainty string   `json:"uncertainty,omitempty"`
	Found       []string `json:"found_keywords,omitempty"`

	Selected string `json:"selected,omitempty"`
	// Pairs are the 1-based equilibrium cells read from a nash answer.
	Pairs [][2]int `json:"pairs,omitempty"`
	// Value and Leaves are what was read from a minmax answer.
	Value  *int `json:"value,omitempty"`
	Leaves *int `json:"leaves,omitempty"`
}

// comparer is implemented by scorers that also report which tier scored.
type comparer interface {
	Compare(ctx context.Context, a, b string) similarity.Score
}

// Grader grades answers for every domain. It is safe for concurrent use
// when its scorer is.
type Grader struct {
	scorer similarity.Scorer
	log    *logger.Logger
}

// New returns a grader. A nil scorer uses the lexical oracle.
func New(scorer similarity.Scorer, log *logger.Logger) *Grader {
	if scorer == nil {
		scorer = similarity.Lexical()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Grader{scorer: scorer, log: log.With("component", "grading")}
}

// Grade scores answer against the gold answer derived from p.
func (g *Grader) Grade(ctx context.Context, p *problemgen.Payload, answer string) Result {
	var res Result
	switch {
	case p == nil:
		res = Result{Feedback: "There is no problem to grade."}
	case p.Domain == problemgen.DomainNash && p.Nash != nil:
		res = GradeNash(p.Nash, answer)
	case p.Domain == problemgen.DomainMinMax && p.MinMax != nil:
		res = GradeMinMax(p.MinMax, answer)
	case p.Domain == problemgen.DomainCSP && p.CSP != nil:
		res = GradeOption(p.CSP.Options, p.CSP.Recommended(), answer)
	case p.Domain == problemgen.DomainStrategy && p.Strategy != nil:
		res = GradeOption(p.Strategy.Options, p.Strategy.Recommended(), answer)
	case p.Domain == problemgen.DomainTheory && p.Theory != nil:
		res = g.GradeTheory(ctx, p.Theory, answer)
	default:
		res = Result{Feedback: fmt.Sprintf("Cannot grade a %q problem without its data.", p.Domain)}
	}
	res.Score = clampScore(res.Score)

	domain := problemgen.Domain("")
	if p != nil {
		domain = p.Domain
	}
	g.log.Debug("graded answer", "domain", domain, "score", res.Score, "method", res.Method)
	return res
}

// similarity scores a against b, reporting the tier when the scorer
// exposes it. ok is false when either text is empty.
func (g *Grader) similarity(ctx context.Context, a, b string) (float64, string, bool) {
	if a == "" || b == "" {
		return 0, "", false
	}
	if c, ok := g.scorer.(comparer); ok {
		s := c.Compare(ctx, a, b)
		return s.Value, string(s.Method), true
	}
	return g.scorer.Similarity(ctx, a, b), "", true
}

func clampScore(s int) int {
	return min(100, max(0, s))
}

func intPtr(v int) *int { return &v }
