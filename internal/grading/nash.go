package grading

import (
	"fmt"
	"math"
	"strings"

	"github.com/abhisek/smartest/internal/extract"
	"github.com/abhisek/smartest/internal/problemgen"
)

const nashWrongPenalty = 10

// GradeNash compares the equilibria read from answer with the pure Nash
// equilibria of g. Each wrong or invalid pair costs nashWrongPenalty.
func GradeNash(g *problemgen.NashGame, answer string) Result {
	gold := g.Equilibria()
	goldSet := make(map[extract.Pair]bool, len(gold))
	for _, e := range gold {
		goldSet[extract.Pair{Row: e[0], Col: e[1]}] = true
	}
	parsed := extract.NashPairs(answer, g.RowLabels, g.ColLabels)
	res := Result{Method: parsed.Method}
	for _, p := range parsed.Pairs {
		res.Pairs = append(res.Pairs, [2]int{p.Row + 1, p.Col + 1})
	}
	goldText := cellList(g, gold)

	switch {
	case parsed.None && len(gold) == 0:
		res.Score = 100
		res.Feedback = "Correct! The game has no pure Nash equilibrium."
		return res
	case parsed.None:
		res.Feedback = fmt.Sprintf("Incorrect. The game has pure Nash equilibria: %s.", goldText)
		return res
	case len(parsed.Pairs) == 0 && len(parsed.Invalid) > 0:
		res.Feedback = fmt.Sprintf("Invalid pairs %s: a pair needs one row strategy and one column strategy, e.g. (%s,%s).",
			strings.Join(parsed.Invalid, ", "), g.RowLabels[0], g.ColLabels[0])
		return res
	case len(parsed.Pairs) == 0:
		res.Feedback = fmt.Sprintf("I could not read any equilibrium. Write cells as (1,2), as %s%s, or say 'none'.",
			g.RowLabels[0], g.ColLabels[0])
		return res
	case len(gold) == 0:
		res.Feedback = "Incorrect. The game has no pure Nash equilibrium."
		return res
	}

	correct := 0
	for _, p := range parsed.Pairs {
		if goldSet[p] {
			correct++
		}
	}
	wrong := len(parsed.Pairs) - correct + len(parsed.Invalid)
	missing := len(gold) - correct

	if wrong == 0 && missing == 0 {
		res.Score = 100
		res.Feedback = fmt.Sprintf("Correct! The pure Nash equilibria are %s.", goldText)
		return res
	}
	res.Score = max(0, int(math.Round(float64(correct)*100/float64(len(gold))))-nashWrongPenalty*wrong)
	res.Feedback = fmt.Sprintf("Partial: %d/%d correct, %d wrong, %d missing. The pure Nash equilibria are %s.",
		correct, len(gold), wrong, missing, goldText)
	if len(parsed.Invalid) > 0 {
		res.Feedback += fmt.Sprintf(" Invalid pairs: %s.", strings.Join(parsed.Invalid, ", "))
	}
	return res
}

func cellList(g *problemgen.NashGame, cells [][2]int) string {
	if len(cells) == 0 {
		return "none"
	}
	parts := make([]string, len(cells))
	for k, c := range cells {
		parts[k] = fmt.Sprintf("(%s,%s)", g.RowLabels[c[0]], g.ColLabels[c[1]])
	}
	return strings.Join(parts, ", ")
}
