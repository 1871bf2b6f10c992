package grading

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/abhisek/smartest/internal/diagnosis"
	"github.com/abhisek/smartest/internal/extract"
	"github.com/abhisek/smartest/internal/problemgen"
	"github.com/abhisek/smartest/internal/textnorm"
)

// minSemanticWords is the shortest answer compared by similarity. Shorter
// answers tend to be substrings of the reference and would score 0.9.
const minSemanticWords = 3

var trueFalseQuestionRe = regexp.MustCompile(`\b(?:adevarat|adevarata|fals|falsa|true|false|corect|corecta|gresit|gresita|correct|wrong)\b`)

// verdict is one sub-grader's outcome before it is folded into a Result.
type verdict struct {
	score    int
	feedback string
	found    []string
}

// GradeTheory grades a theory answer. The uncertainty check runs first,
// then justification questions are split and graded in two halves, and
// everything else goes to the grader for its question type.
func (g *Grader) GradeTheory(ctx context.Context, q *problemgen.TheoryQuestion, answer string) Result {
	diag := diagnosis.Classify(answer)
	if diag.ShortCircuits() {
		return uncertainResult(q, answer, diag)
	}

	var res Result
	if q.QuestionType == problemgen.QuestionJustification || extract.AsksForJustification(q.Question) {
		res = g.gradeWithJustification(ctx, q, answer)
	} else {
		v := g.gradeByType(ctx, q, q.QuestionType, answer, &res)
		res.Score, res.Feedback, res.Found = v.score, v.feedback, v.found
	}
	if diag.Category == diagnosis.CategoryPartialKnowledge {
		res.Uncertainty = string(diag.Category)
	}
	if res.Score < 100 && q.Explanation != "" {
		res.Feedback += "\n\n" + q.Explanation
	}
	return res
}

func uncertainResult(q *problemgen.TheoryQuestion, answer string, diag diagnosis.Result) Result {
	res := Result{Uncertainty: string(diag.Category), Method: "uncertainty"}
	if diag.Category == diagnosis.CategoryUnknown {
		ref := strings.TrimRight(q.ReferenceAnswer(), ". ")
		if ref == "" && len(q.Keywords) > 0 {
			ref = "it revolves around " + strings.Join(q.Keywords[:min(3, len(q.Keywords))], ", ")
		}
		res.Feedback = "No problem, that is what practice is for. The answer: " + ref + "."
		if q.Explanation != "" {
			res.Feedback += "\n\n" + q.Explanation
		}
		return res
	}
	found := extract.FoundKeywords(answer, allKeywords(q))
	res.Found = found
	res.Score = 10
	if len(found) > 0 {
		res.Score = min(30, 10*len(found))
	}
	res.Feedback = "You sound unsure. Commit to an answer and explain it; partial credit for what you mentioned."
	if len(found) > 0 {
		res.Feedback += " You did mention: " + strings.Join(found, ", ") + "."
	}
	return res
}

// gradeWithJustification scores the claim and its reasoning separately
// and averages them. The claim is graded as the question text suggests.
func (g *Grader) gradeWithJustification(ctx context.Context, q *problemgen.TheoryQuestion, answer string) Result {
	split := extract.SplitJustification(answer)
	var res Result

	mainType := problemgen.QuestionShortAnswer
	switch {
	case q.CorrectBool != nil && trueFalseQuestionRe.MatchString(textnorm.Fold(q.Question)):
		mainType = problemgen.QuestionTrueFalse
	case len(q.Options) > 0:
		mainType = problemgen.QuestionMultipleChoice
	}
	main := g.gradeByType(ctx, q, mainType, split.Main, &res)

	just := verdict{feedback: "Justification: missing. Explain why your answer holds."}
	if split.Has {
		just = g.justification(ctx, q, split.Justification, &res)
		just.feedback = "Justification: " + just.feedback
	}

	res.MainScore = intPtr(main.score)
	res.JustificationScore = intPtr(just.score)
	res.Score = int(float64(main.score)*0.5 + float64(just.score)*0.5)
	res.Found = mergeFound(main.found, just.found)
	res.Feedback = fmt.Sprintf("Answer: %s\n%s", main.feedback, just.feedback)
	return res
}

func (g *Grader) gradeByType(ctx context.Context, q *problemgen.TheoryQuestion, t problemgen.QuestionType, answer string, res *Result) verdict {
	switch t {
	case problemgen.QuestionMultipleChoice:
		return multipleChoice(q, answer, res)
	case problemgen.QuestionTrueFalse:
		return g.trueFalse(ctx, q, answer, res)
	case problemgen.QuestionFillBlank:
		return g.fillBlank(ctx, q, answer, res)
	case problemgen.QuestionJustification:
		return g.justification(ctx, q, answer, res)
	case problemgen.QuestionExample:
		return g.example(ctx, q, answer, res)
	case problemgen.QuestionComparison:
		return g.comparison(ctx, q, answer, res)
	case problemgen.QuestionDefinition:
		return g.definition(ctx, q, answer, res)
	case problemgen.QuestionCalculation:
		return calculation(q, answer)
	case problemgen.QuestionMatrixAnalysis:
		return matrixAnalysis(q, answer)
	default:
		return g.shortAnswer(ctx, q, answer, res)
	}
}

// semantic returns the similarity of answer to the canonical answer when
// both are long enough to compare, recording it on res.
func (g *Grader) semantic(ctx context.Context, q *problemgen.TheoryQuestion, answer string, res *Result) (float64, bool) {
	if len(strings.Fields(answer)) < minSemanticWords {
		return 0, false
	}
	s, method, ok := g.similarity(ctx, answer, q.CorrectAnswer)
	if !ok {
		return 0, false
	}
	res.Similarity = &s
	if method != "" {
		res.Method = method
	}
	return s, true
}

func allKeywords(q *problemgen.TheoryQuestion) []string {
	out := append([]string(nil), q.Keywords...)
	out = append(out, q.RequiredConcepts...)
	out = append(out, q.DefinitionElements...)
	return dedupe(out)
}

func dedupe(in []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, s := range in {
		k := textnorm.Fold(strings.TrimSpace(s))
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, s)
	}
	return out
}

func mergeFound(a, b []string) []string {
	return dedupe(append(append([]string(nil), a...), b...))
}
