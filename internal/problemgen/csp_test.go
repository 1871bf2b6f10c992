package problemgen

import (
	"slices"
	"testing"
)

func TestCSP_ScenarioCRecommendsBacktracking(t *testing.T) {
	p, err := CSPGenerator{}.Generate(Params{"problem_type": "simple", "variables": "4", "constraints": "3"}, seedPtr(3))
	if err != nil {
		t.Fatal(err)
	}
	if len(p.CSP.Variables) != 4 || len(p.CSP.Constraints) != 3 {
		t.Fatalf("got %d variables, %d constraints", len(p.CSP.Variables), len(p.CSP.Constraints))
	}
	if p.Solution.Answer != OptBacktracking {
		t.Errorf("got %q, want Backtracking", p.Solution.Answer)
	}
	if len(p.CSP.Options) != 4 || !slices.Contains(p.CSP.Options, OptBacktracking) {
		t.Errorf("unexpected options %v", p.CSP.Options)
	}
}

func TestCSP_Rules(t *testing.T) {
	vars := func(n int) []string { return make([]string, n) }
	cons := func(n int) []Constraint { return make([]Constraint, n) }
	edges := func(n int) [][2]string { return make([][2]string, n) }
	cases := []struct {
		name string
		c    CSPProblem
		want string
	}{
		{"small simple", CSPProblem{ProblemType: CSPSimple, Variables: vars(4), Constraints: cons(3)}, OptBacktracking},
		{"four vars many constraints", CSPProblem{ProblemType: CSPSimple, Variables: vars(4), Constraints: cons(5)}, OptForwardChecking},
		{"five vars", CSPProblem{ProblemType: CSPSimple, Variables: vars(5), Constraints: cons(3)}, OptForwardChecking},
		{"dense six", CSPProblem{ProblemType: CSPSimple, Variables: vars(6), Constraints: cons(10)}, OptAC3},
		{"sparse six", CSPProblem{ProblemType: CSPSimple, Variables: vars(6), Constraints: cons(5)}, OptMRV},
		{"small graph", CSPProblem{ProblemType: CSPGraphColoring, Variables: vars(4), Edges: edges(5)}, OptForwardChecking},
		{"dense graph", CSPProblem{ProblemType: CSPGraphColoring, Variables: vars(5), Edges: edges(7)}, OptAC3},
		{"sparse graph", CSPProblem{ProblemType: CSPGraphColoring, Variables: vars(6), Edges: edges(6)}, OptMRV},
		{"sudoku", CSPProblem{ProblemType: CSPSudoku}, OptAC3},
	}
	for _, tc := range cases {
		if got := tc.c.Recommended(); got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestCSP_GraphColoringEdgesAreLocal(t *testing.T) {
	p, err := CSPGenerator{}.Generate(Params{"problem_type": "graph_coloring", "variables": "6"}, seedPtr(9))
	if err != nil {
		t.Fatal(err)
	}
	index := map[string]int{}
	for i, v := range p.CSP.Variables {
		index[v] = i
	}
	for _, e := range p.CSP.Edges {
		if d := index[e[1]] - index[e[0]]; d < 1 || d > 2 {
			t.Errorf("edge %v spans %d vertices", e, d)
		}
	}
}
