package dispatch

import (
	"github.com/abhisek/smartest/internal/grading"
	"github.com/abhisek/smartest/internal/problemgen"
	"github.com/abhisek/smartest/internal/theory"
)

// Kind says which branch of the dispatcher produced a reply.
type Kind string

const (
	KindEmpty    Kind = "empty"
	KindRule     Kind = "rule"
	KindSolve    Kind = "solve"
	KindGenerate Kind = "generate"
	KindGrade    Kind = "grade"
	KindTheory   Kind = "theory"
)

// MethodRuleBased labels replies that did not come from retrieval.
const MethodRuleBased = "Rule-based"

// Reply is the answer to one chat message.
type Reply struct {
	Text        string          `json:"answer"`
	Kind        Kind            `json:"kind"`
	Confidence  float64         `json:"confidence"`
	Method      string          `json:"method"`
	Sources     []theory.Source `json:"sources"`
	Suggestions []string        `json:"suggestions,omitempty"`

	// Problem is the payload that was generated (KindGenerate) or graded
	// (KindGrade).
	Problem *problemgen.Payload `json:"problem,omitempty"`
	Result  *grading.Result     `json:"result,omitempty"`
}

func ruleReply(text string, confidence float64) Reply {
	return Reply{Text: text, Kind: KindRule, Confidence: confidence, Method: MethodRuleBased, Sources: []theory.Source{}}
}
