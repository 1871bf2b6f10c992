package grading

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/smartest/internal/problemgen"
)

func nashShortAnswer() *problemgen.TheoryQuestion {
	return &problemgen.TheoryQuestion{
		TopicID:       "nash",
		QuestionType:  problemgen.QuestionShortAnswer,
		Question:      "Ce este un echilibru Nash?",
		CorrectAnswer: "Un profil de strategii in care niciun jucator nu castiga schimband unilateral strategia.",
		Keywords:      []string{"nash", "echilibru", "strategie"},
		MinKeywords:   2,
	}
}

func TestGradeTheory_ScenarioD(t *testing.T) {
	g := New(fixedScorer(0.2), nil)
	res := g.GradeTheory(context.Background(), nashShortAnswer(), "Echilibrul Nash este un punct stabil al jocului")
	assert.GreaterOrEqual(t, res.Score, 75)
	assert.Equal(t, []string{"nash", "echilibru"}, res.Found)
	assert.Contains(t, res.Feedback, "nash, echilibru")
}

func TestGradeTheory_ShortAnswer(t *testing.T) {
	q := nashShortAnswer()
	cases := []struct {
		name   string
		sim    float64
		answer string
		score  int
	}{
		{"all keywords", 0.1, "Echilibrul Nash: fiecare strategie este cel mai bun raspuns", 100},
		{"similarity wins", 0.9, "jucatorii nu au motive sa schimbe alegerea", 100},
		{"similarity band", 0.55, "jucatorii nu au motive sa schimbe alegerea", 75},
		{"band decides before keywords", 0.55, "Echilibrul Nash: fiecare strategie este cel mai bun raspuns", 75},
		{"one keyword", 0.0, "ceva despre nash", 35},
		{"long but off topic", 0.0, "raspunsul meu este despre altceva complet", 15},
		{"too short", 0.9, "ab", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := New(fixedScorer(tc.sim), nil).GradeTheory(context.Background(), q, tc.answer)
			assert.Equal(t, tc.score, res.Score)
		})
	}
}

func TestGradeTheory_KeywordsOnlyBelowFirstBand(t *testing.T) {
	q := nashShortAnswer()
	answer := "Echilibrul Nash: fiecare strategie este cel mai bun raspuns"

	res := New(fixedScorer(0.46), nil).GradeTheory(context.Background(), q, answer)
	assert.Equal(t, 62, res.Score)
	assert.Empty(t, res.Found)
	assert.Contains(t, res.Feedback, "Partial answer")

	res = New(fixedScorer(0.39), nil).GradeTheory(context.Background(), q, answer)
	assert.Equal(t, 100, res.Score)
	assert.Equal(t, []string{"nash", "echilibru", "strategie"}, res.Found)
}

func TestGradeTheory_SimilarityRecorded(t *testing.T) {
	res := New(fixedScorer(0.9), nil).GradeTheory(context.Background(), nashShortAnswer(), "jucatorii nu au motive sa schimbe alegerea")
	require.NotNil(t, res.Similarity)
	assert.InDelta(t, 0.9, *res.Similarity, 1e-9)
}

func TestGradeTheory_Uncertainty(t *testing.T) {
	g := New(fixedScorer(0), nil)
	q := nashShortAnswer()

	res := g.GradeTheory(context.Background(), q, "nu știu")
	assert.Zero(t, res.Score)
	assert.Equal(t, "unknown", res.Uncertainty)
	assert.Contains(t, res.Feedback, q.CorrectAnswer)

	res = g.GradeTheory(context.Background(), q, "cred ca e echilibru nash")
	assert.Equal(t, 20, res.Score)
	assert.Equal(t, "uncertain", res.Uncertainty)

	res = g.GradeTheory(context.Background(), q, "maybe")
	assert.Equal(t, 10, res.Score)
}

func TestGradeTheory_MultipleChoice(t *testing.T) {
	q := &problemgen.TheoryQuestion{
		QuestionType: problemgen.QuestionMultipleChoice,
		Question:     "Ce algoritm foloseste o euristica admisibila?",
		Options:      []string{"A*", "BFS", "DFS", "Greedy"},
		CorrectIndex: ptr(0),
	}
	g := New(fixedScorer(0), nil)
	cases := []struct {
		answer string
		score  int
	}{
		{"1", 100},
		{"2", 0},
		{"a star", 100},
		{"greedy", 0},
		{"nimic", 0},
	}
	for _, tc := range cases {
		res := g.GradeTheory(context.Background(), q, tc.answer)
		assert.Equal(t, tc.score, res.Score, tc.answer)
	}
	res := g.GradeTheory(context.Background(), q, "2")
	assert.Equal(t, "BFS", res.Selected)
	assert.Contains(t, res.Feedback, "You selected BFS, but the correct answer is A*")
}

func TestGradeTheory_TrueFalse(t *testing.T) {
	q := &problemgen.TheoryQuestion{
		QuestionType: problemgen.QuestionTrueFalse,
		Question:     "Alpha-beta schimbă valoarea minimax a rădăcinii. Adevărat sau fals?",
		CorrectBool:  ptr(false),
	}
	g := New(fixedScorer(0), nil)
	assert.Equal(t, 100, g.GradeTheory(context.Background(), q, "Fals").Score)
	assert.Equal(t, 0, g.GradeTheory(context.Background(), q, "adevărat").Score)

	res := g.GradeTheory(context.Background(), q, "banana")
	assert.Zero(t, res.Score)
	assert.Contains(t, res.Feedback, "true or false")
}

func TestGradeTheory_TrueFalseBySimilarity(t *testing.T) {
	q := &problemgen.TheoryQuestion{
		QuestionType:  problemgen.QuestionTrueFalse,
		Question:      "Adevărat sau fals: MRV alege variabila cu cele mai puține valori rămase.",
		CorrectAnswer: "Da, MRV alege variabila cu cele mai putine valori ramase.",
		CorrectBool:   ptr(true),
	}
	res := New(fixedScorer(0.75), nil).GradeTheory(context.Background(), q, "da, alege variabila cea mai constransa")
	assert.Equal(t, 95, res.Score)
}

func TestGradeTheory_Justification(t *testing.T) {
	q := &problemgen.TheoryQuestion{
		QuestionType: problemgen.QuestionTrueFalse,
		Question:     "Alpha-beta poate schimba valoarea rădăcinii? Adevărat sau fals? Justificați.",
		CorrectBool:  ptr(false),
		Keywords:     []string{"pruning", "valoare", "ramuri"},
		MinKeywords:  2,
	}
	g := New(fixedScorer(0), nil)

	res := g.GradeTheory(context.Background(), q, "Fals, deoarece alpha-beta elimina doar ramuri care nu pot schimba valoarea")
	require.NotNil(t, res.MainScore)
	require.NotNil(t, res.JustificationScore)
	assert.Equal(t, 100, *res.MainScore)
	assert.Equal(t, 53, *res.JustificationScore)
	assert.Equal(t, 76, res.Score)

	res = g.GradeTheory(context.Background(), q, "Fals")
	assert.Equal(t, 0, *res.JustificationScore)
	assert.Equal(t, 50, res.Score)
	assert.Contains(t, res.Feedback, "Justification: missing")
}

func TestGradeTheory_FillBlank(t *testing.T) {
	q := &problemgen.TheoryQuestion{
		QuestionType:   problemgen.QuestionFillBlank,
		Question:       "Alpha-beta pornește cu alpha = ___ și beta = ___.",
		CorrectAnswers: problemgen.BlankVariants{{"minus infinit", "plus infinit"}},
	}
	g := New(fixedScorer(0), nil)
	assert.Equal(t, 100, g.GradeTheory(context.Background(), q, "-infinity si +infinity").Score)
	assert.Equal(t, 100, g.GradeTheory(context.Background(), q, "minus infinit, plus infinit").Score)

	res := g.GradeTheory(context.Background(), q, "alpha = -inf")
	assert.Equal(t, 50, res.Score)
	assert.Contains(t, res.Feedback, "Partially correct (1/2)")

	single := &problemgen.TheoryQuestion{
		QuestionType:   problemgen.QuestionFillBlank,
		Question:       "Euristica ___ alege variabila cu cele mai puține valori.",
		CorrectAnswers: problemgen.BlankVariants{{"MRV"}, {"minimum remaining values"}},
	}
	assert.Equal(t, 100, g.GradeTheory(context.Background(), single, "Folosim MRV").Score)
	assert.Equal(t, 0, g.GradeTheory(context.Background(), single, "grad").Score)
}

func TestGradeTheory_Calculation(t *testing.T) {
	q := &problemgen.TheoryQuestion{
		QuestionType:   problemgen.QuestionCalculation,
		Question:       "Câte frunze are un arbore cu adâncimea 2 și factorul de ramificare 2?",
		CorrectNumeric: ptr(4.0),
	}
	g := New(fixedScorer(0), nil)
	assert.Equal(t, 100, g.GradeTheory(context.Background(), q, "Rezultatul este 4.0").Score)
	assert.Equal(t, 50, g.GradeTheory(context.Background(), q, "complexitate exponentiala").Score)
	assert.Equal(t, 0, g.GradeTheory(context.Background(), q, "7").Score)
}

func TestGradeTheory_Comparison(t *testing.T) {
	q := &problemgen.TheoryQuestion{
		QuestionType:      problemgen.QuestionComparison,
		Question:          "Comparați BFS și DFS.",
		ConceptsToCompare: []string{"BFS", "DFS"},
		Keywords:          []string{"coada", "stiva", "memorie"},
	}
	g := New(fixedScorer(0), nil)
	res := g.GradeTheory(context.Background(), q, "BFS foloseste o coada, in timp ce DFS foloseste o stiva si mai putina memorie")
	assert.Equal(t, 100, res.Score)

	res = g.GradeTheory(context.Background(), q, "BFS foloseste o coada")
	assert.Equal(t, 20, res.Score)
	assert.Contains(t, res.Feedback, "both BFS and DFS")
}

func TestGradeTheory_Definition(t *testing.T) {
	q := &problemgen.TheoryQuestion{
		QuestionType:       problemgen.QuestionDefinition,
		Question:           "Definiți o problemă CSP.",
		DefinitionElements: []string{"variabile", "domenii", "constrangeri"},
	}
	g := New(fixedScorer(0), nil)
	assert.Equal(t, 100, g.GradeTheory(context.Background(), q, "O problema CSP are variabile, domenii si constrângeri").Score)
	assert.Equal(t, 23, g.GradeTheory(context.Background(), q, "Are niste variabile").Score)
}

func TestGradeTheory_Example(t *testing.T) {
	q := &problemgen.TheoryQuestion{
		QuestionType:  problemgen.QuestionExample,
		Question:      "Dați un exemplu de joc cu echilibru în strategii dominante.",
		CorrectAnswer: "Jocul dilemei prizonierului are un echilibru in strategii dominante",
	}
	res := New(fixedScorer(0), nil).GradeTheory(context.Background(), q, "De exemplu, dilema prizonierului are un echilibru")
	assert.Equal(t, 40, res.Score)
	assert.Equal(t, []string{"prizonierului", "echilibru"}, res.Found)
}

func TestGradeTheory_MatrixAnalysis(t *testing.T) {
	q := &problemgen.TheoryQuestion{
		QuestionType:  problemgen.QuestionMatrixAnalysis,
		Question:      "Analizați matricea și identificați echilibrul.",
		CorrectAnswer: "(RA,CA)",
		AnalysisType:  "nash",
		Keywords:      []string{"best response", "RA", "CA"},
	}
	g := New(fixedScorer(0), nil)
	assert.Equal(t, 100, g.GradeTheory(context.Background(), q, "(RA,CA)").Score)
	assert.Equal(t, 85, g.GradeTheory(context.Background(), q, "Echilibrul Nash este in celula RA CA unde ambii joaca best response").Score)
}
