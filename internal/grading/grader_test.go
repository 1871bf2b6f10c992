package grading

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/smartest/internal/problemgen"
)

// fixedScorer returns the same similarity for every pair.
type fixedScorer float64

func (f fixedScorer) Similarity(context.Context, string, string) float64 { return float64(f) }

func scenarioAGame() *problemgen.NashGame {
	return problemgen.NewNashGame(
		[][]int{{3, 1}, {0, 2}},
		[][]int{{3, 2}, {1, 0}},
	)
}

func scenarioBTree(t *testing.T) *problemgen.GameTree {
	t.Helper()
	tree, err := problemgen.BuildTree(2, 2, []int{3, 5, 2, 9})
	require.NoError(t, err)
	return tree
}

func TestGradeNash_ScenarioA(t *testing.T) {
	g := scenarioAGame()
	cases := []struct {
		answer string
		score  int
	}{
		{"1 1", 100},
		{"(RA, CA)", 100},
		{"RACA", 100},
		{"none", 0},
		{"2 2", 0},
		{"1 1, 2 2", 90},
	}
	for _, tc := range cases {
		res := GradeNash(g, tc.answer)
		assert.Equal(t, tc.score, res.Score, tc.answer)
		assert.NotEmpty(t, res.Feedback, tc.answer)
	}
}

func TestGradeNash_WrongPairsLowerScore(t *testing.T) {
	g := scenarioAGame()
	answers := []string{"1 1", "1 1; 2 2", "1 1; 2 2; 1 2", "1 1; 2 2; 1 2; 2 1"}
	prev := 101
	for _, a := range answers {
		res := GradeNash(g, a)
		assert.Less(t, res.Score, prev, a)
		prev = res.Score
	}
	res := GradeNash(g, "1 1; 2 2")
	assert.Contains(t, res.Feedback, "Partial: 1/1 correct, 1 wrong, 0 missing")
}

func TestGradeNash_PartialCreditRounds(t *testing.T) {
	coordination := problemgen.NewNashGame(
		[][]int{{2, 0, 0}, {0, 2, 0}, {0, 0, 2}},
		[][]int{{2, 0, 0}, {0, 2, 0}, {0, 0, 2}},
	)
	require.Len(t, coordination.Equilibria(), 3)

	assert.Equal(t, 67, GradeNash(coordination, "1 1; 2 2").Score)
	assert.Equal(t, 33, GradeNash(coordination, "3 3").Score)
	assert.Equal(t, 57, GradeNash(coordination, "1 1; 2 2; 1 2").Score)
}

func TestGradeNash_NoEquilibrium(t *testing.T) {
	pennies := problemgen.NewNashGame(
		[][]int{{1, -1}, {-1, 1}},
		[][]int{{-1, 1}, {1, -1}},
	)
	require.Empty(t, pennies.Equilibria())
	assert.Equal(t, 100, GradeNash(pennies, "nu există").Score)
	assert.Equal(t, 0, GradeNash(pennies, "1 1").Score)
}

func TestGradeNash_Unreadable(t *testing.T) {
	res := GradeNash(scenarioAGame(), "banana")
	assert.Zero(t, res.Score)
	assert.Contains(t, res.Feedback, "could not read")

	res = GradeNash(scenarioAGame(), "RA RB")
	assert.Zero(t, res.Score)
	assert.Contains(t, res.Feedback, "(RA,RB)")
}

func TestGradeMinMax_ScenarioB(t *testing.T) {
	tree := scenarioBTree(t)
	cases := []struct {
		answer string
		score  int
	}{
		{"5 3", 50},
		{"3 3", 100},
		{"3 N2 N3 N5", 75},
		{"valoarea este 3, frunze: 4", 50},
		{"4 -2", 0},
		{"", 0},
	}
	for _, tc := range cases {
		res := GradeMinMax(tree, tc.answer)
		assert.Equal(t, tc.score, res.Score, tc.answer)
		assert.NotEmpty(t, res.Feedback, tc.answer)
	}
}

func TestGradeMinMax_NegativeCount(t *testing.T) {
	res := GradeMinMax(scenarioBTree(t), "valoare=3, frunze=-3")
	assert.Equal(t, 50, res.Score)
	assert.Contains(t, res.Feedback, "not a possible count")
}

func TestGradeOption_ScenarioC(t *testing.T) {
	p, err := problemgen.CSPGenerator{}.Generate(problemgen.Params{"problem_type": "simple", "variables": "4", "constraints": "3"}, ptr(uint64(3)))
	require.NoError(t, err)
	require.Equal(t, problemgen.OptBacktracking, p.CSP.Recommended())

	g := New(nil, nil)
	for i, opt := range p.CSP.Options {
		res := g.Grade(context.Background(), &p, fmt.Sprintf("opțiunea %d", i+1))
		if opt == problemgen.OptBacktracking {
			assert.Equal(t, 100, res.Score)
		} else {
			assert.Equal(t, 0, res.Score)
			assert.Contains(t, res.Feedback, "the correct answer is Backtracking")
		}
		assert.Equal(t, opt, res.Selected)
	}
}

func TestGradeOption_Unparseable(t *testing.T) {
	res := GradeOption([]string{"Backtracking", "MRV"}, "MRV", "habar n-am")
	assert.Zero(t, res.Score)
	assert.Contains(t, res.Feedback, "option number (1-2)")
}

func TestGrade_SolutionRoundTrip(t *testing.T) {
	g := New(nil, nil)
	ctx := context.Background()
	reg := problemgen.DefaultRegistry()
	for seed := uint64(1); seed <= 10; seed++ {
		for _, d := range []problemgen.Domain{problemgen.DomainNash, problemgen.DomainMinMax, problemgen.DomainCSP, problemgen.DomainStrategy} {
			p, err := reg.Generate(d, nil, ptr(seed))
			require.NoError(t, err)

			var answer string
			sol := p.Recompute()
			switch d {
			case problemgen.DomainNash:
				if len(sol.Equilibria) == 0 {
					answer = "none"
				}
				for _, e := range sol.Equilibria {
					answer += fmt.Sprintf("(%d,%d) ", e[0], e[1])
				}
			case problemgen.DomainMinMax:
				answer = fmt.Sprintf("valoare=%d, frunze=%d", *sol.RootValue, *sol.VisitedCount)
			default:
				answer = sol.Answer
			}
			res := g.Grade(ctx, &p, answer)
			assert.Equal(t, 100, res.Score, "%s seed %d answer %q", d, seed, answer)
		}
	}
}

func TestGrade_MissingBody(t *testing.T) {
	g := New(nil, nil)
	res := g.Grade(context.Background(), &problemgen.Payload{Domain: problemgen.DomainNash}, "1 1")
	assert.Zero(t, res.Score)
	assert.NotEmpty(t, res.Feedback)

	res = g.Grade(context.Background(), nil, "1 1")
	assert.Zero(t, res.Score)
}

func ptr[T any](v T) *T { return &v }
