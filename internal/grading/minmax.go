package grading

import (
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/smartest/internal/extract"
	"github.com/abhisek/smartest/internal/problemgen"
)

// GradeMinMax awards half the points for the root value and half for the
// number of leaves alpha-beta visits. Listing exactly the visited leaves
// stands in for the count when the count itself is missing.
func GradeMinMax(t *problemgen.GameTree, answer string) Result {
	sol := t.Solve()
	count := len(sol.VisitedLeaves)
	d := extract.MinMaxAnswer(answer)
	res := Result{Value: d.Value, Leaves: d.Leaves}

	if d.Empty() {
		res.Feedback = "I could not read a root value or a leaf count. Answer like '3 4': the root value, then the number of visited leaves."
		return res
	}

	valueOK := d.Value != nil && *d.Value == sol.RootValue
	negative := d.Leaves != nil && *d.Leaves < 0
	countOK := d.Leaves != nil && !negative && *d.Leaves == count
	leavesListed := d.Leaves == nil && sameSet(d.Nodes, sol.VisitedLeaves)

	var lines []string
	switch {
	case valueOK:
		lines = append(lines, fmt.Sprintf("Root value: correct (%d).", sol.RootValue))
	case d.Value != nil:
		lines = append(lines, fmt.Sprintf("Root value: incorrect, you said %d but it is %d.", *d.Value, sol.RootValue))
	default:
		lines = append(lines, fmt.Sprintf("Root value: missing, it is %d.", sol.RootValue))
	}
	switch {
	case countOK:
		lines = append(lines, fmt.Sprintf("Visited leaves: correct (%d).", count))
	case negative:
		lines = append(lines, fmt.Sprintf("Visited leaves: %d is not a possible count, it is %d.", *d.Leaves, count))
	case d.Leaves != nil:
		lines = append(lines, fmt.Sprintf("Visited leaves: incorrect, you said %d but it is %d.", *d.Leaves, count))
	case leavesListed:
		lines = append(lines, fmt.Sprintf("Visited leaves: you listed the right leaves but not their count (%d).", count))
	default:
		lines = append(lines, fmt.Sprintf("Visited leaves: missing, it is %d.", count))
	}

	switch {
	case valueOK && countOK:
		res.Score = 100
		lines[0] = "Correct! " + lines[0]
	case valueOK && leavesListed:
		res.Score = 75
	default:
		if valueOK {
			res.Score += 50
		}
		if countOK {
			res.Score += 50
		}
	}
	lines = append(lines, fmt.Sprintf("Alpha-beta visits %s.", strings.Join(sol.VisitedLeaves, ", ")))
	res.Feedback = strings.Join(lines, " ")
	return res
}

func sameSet(a, b []string) bool {
	if len(a) == 0 || len(a) != len(b) {
		return false
	}
	x, y := slices.Clone(a), slices.Clone(b)
	slices.Sort(x)
	slices.Sort(y)
	return slices.Equal(x, y)
}
