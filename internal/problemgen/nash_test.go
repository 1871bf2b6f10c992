package problemgen

import (
	"strings"
	"testing"
)

func TestNash_ScenarioAEquilibria(t *testing.T) {
	eq := scenarioAGame().Equilibria()
	if len(eq) != 1 || eq[0] != [2]int{0, 0} {
		t.Fatalf("expected [(0,0)], got %v", eq)
	}
	p := NashPayload("NASH-1", scenarioAGame())
	if len(p.Solution.Equilibria) != 1 || p.Solution.Equilibria[0] != [2]int{1, 1} {
		t.Errorf("expected 1-based [(1,1)], got %v", p.Solution.Equilibria)
	}
}

func TestNash_MultipleEquilibriaInRowMajorOrder(t *testing.T) {
	// Coordination game: both diagonal cells are equilibria.
	g := NewNashGame([][]int{{2, 0}, {0, 1}}, [][]int{{2, 0}, {0, 1}})
	eq := g.Equilibria()
	if len(eq) != 2 || eq[0] != [2]int{0, 0} || eq[1] != [2]int{1, 1} {
		t.Fatalf("unexpected equilibria %v", eq)
	}
}

func TestNash_NoEquilibrium(t *testing.T) {
	// Matching pennies.
	g := NewNashGame([][]int{{1, -1}, {-1, 1}}, [][]int{{-1, 1}, {1, -1}})
	if eq := g.Equilibria(); len(eq) != 0 {
		t.Fatalf("expected none, got %v", eq)
	}
	if !strings.Contains(g.Explanation(), "no pure-strategy Nash equilibrium") {
		t.Error("explanation should state there is no equilibrium")
	}
}

func TestNash_ExplanationMarks(t *testing.T) {
	expl := scenarioAGame().Explanation()
	if !strings.Contains(expl, "RA-CA: (3,3)*^") {
		t.Errorf("expected both-best mark on RA-CA, got:\n%s", expl)
	}
	if !strings.Contains(expl, "RB-CB: (2,0)*") {
		t.Errorf("expected row-best mark on RB-CB, got:\n%s", expl)
	}
}

func TestNash_EnsureModes(t *testing.T) {
	gen := NashGenerator{}
	for _, mode := range []string{EnsureAtLeastOne, EnsureUnique, EnsureNone} {
		p, err := gen.Generate(Params{"ensure": mode, "rows": "3", "cols": "3"}, seedPtr(11))
		if err != nil {
			t.Fatalf("%s: %v", mode, err)
		}
		if !ensureHolds(mode, len(p.Solution.Equilibria)) {
			t.Errorf("%s: got %d equilibria", mode, len(p.Solution.Equilibria))
		}
	}
}

func TestNashLabels(t *testing.T) {
	if got := NashLabels("R", 3); strings.Join(got, ",") != "RA,RB,RC" {
		t.Errorf("got %v", got)
	}
	if got := NashLabels("C", 27); got[0] != "C1" || got[26] != "C27" {
		t.Errorf("got %v", got[:2])
	}
}
