package problemgen

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// CSP problem types.
const (
	CSPSimple        = "simple"
	CSPGraphColoring = "graph_coloring"
	CSPSudoku        = "sudoku"
)

// Backtracking optimizations offered as options.
const (
	OptBacktracking    = "Backtracking"
	OptForwardChecking = "Forward Checking"
	OptMRV             = "MRV"
	OptAC3             = "AC-3"
)

var cspOptimizations = []string{OptBacktracking, OptForwardChecking, OptMRV, OptAC3}

var cspNames = map[string]string{
	CSPSimple:        "Simple CSP",
	CSPGraphColoring: "Graph Coloring CSP",
	CSPSudoku:        "Sudoku CSP",
}

var cspExplanations = map[string]string{
	OptBacktracking:    "Plain backtracking explores assignments systematically and backs up when a constraint is violated. It is simple and fast enough for small problems.",
	OptForwardChecking: "Forward Checking prunes inconsistent values from the domains of unassigned variables after each assignment, which cuts the search space considerably.",
	OptMRV:             "Minimum Remaining Values picks the variable with the fewest legal values left. It fails early and reduces backtracking on larger problems.",
	OptAC3:             "Arc Consistency 3 enforces arc consistency to remove inconsistent values before and during search. It pays off when constraints are dense and strong.",
}

// Constraint is a binary constraint between two variables.
type Constraint struct {
	A  string `json:"a"`
	B  string `json:"b"`
	Op string `json:"op"`
}

// CSPProblem asks which backtracking optimization fits an instance best.
type CSPProblem struct {
	ProblemType string           `json:"problem_type"`
	Name        string           `json:"name"`
	Variables   []string         `json:"variables,omitempty"`
	Domains     map[string][]int `json:"domains,omitempty"`
	Constraints []Constraint     `json:"constraints,omitempty"`
	Edges       [][2]string      `json:"edges,omitempty"`
	Colors      int              `json:"colors,omitempty"`
	Size        int              `json:"size,omitempty"`
	Description string           `json:"description"`
	Options     []string         `json:"options"`
}

// Recommended applies the size and density rules to the instance.
func (c *CSPProblem) Recommended() string {
	switch c.ProblemType {
	case CSPSimple:
		vars, cons := len(c.Variables), len(c.Constraints)
		switch {
		case vars <= 4 && cons <= 3:
			return OptBacktracking
		case vars <= 5:
			return OptForwardChecking
		case vars > 0 && float64(cons)/float64(vars) > 1.5:
			return OptAC3
		default:
			return OptMRV
		}
	case CSPGraphColoring:
		vertices := len(c.Variables)
		switch {
		case vertices <= 4:
			return OptForwardChecking
		case vertices > 0 && float64(len(c.Edges))/float64(vertices) > 1.2:
			return OptAC3
		default:
			return OptMRV
		}
	}
	return OptAC3
}

func (c *CSPProblem) QuestionText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "For the %s problem and the instance below:\n%s\n\n", c.Name, c.Description)
	b.WriteString("Which optimization of the backtracking algorithm fits best?\n")
	for i, o := range c.Options {
		fmt.Fprintf(&b, "%d. %s\n", i+1, o)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (c *CSPProblem) Explanation() string {
	correct := c.Recommended()
	return fmt.Sprintf("The correct optimization is '%s'.\n\n%s", correct, cspExplanations[correct])
}

func (c *CSPProblem) Validate() error {
	if _, ok := cspNames[c.ProblemType]; !ok {
		return fmt.Errorf("unknown csp problem type %q", c.ProblemType)
	}
	if len(c.Options) == 0 {
		return fmt.Errorf("csp problem has no options")
	}
	return nil
}

// CSPGenerator draws simple, graph-coloring or sudoku instances.
type CSPGenerator struct{}

func (CSPGenerator) Domain() Domain { return DomainCSP }

func (CSPGenerator) Generate(params Params, seed *uint64) (Payload, error) {
	kind, err := params.Enum("problem_type", CSPSimple, CSPSimple, CSPGraphColoring, CSPSudoku)
	if err != nil {
		return Payload{}, err
	}
	r := NewRand(seed)

	c := &CSPProblem{ProblemType: kind, Name: cspNames[kind]}
	switch kind {
	case CSPSimple:
		vars, err := params.IntOrRandom("variables", r, 4, 6)
		if err != nil {
			return Payload{}, err
		}
		domain := 3 + r.IntN(2)
		cons, err := params.IntOrRandom("constraints", r, 3, 5)
		if err != nil {
			return Payload{}, err
		}
		simpleCSP(r, c, vars, domain, cons)
	case CSPGraphColoring:
		vertices, err := params.IntOrRandom("variables", r, 4, 6)
		if err != nil {
			return Payload{}, err
		}
		graphColoringCSP(r, c, vertices, 3+r.IntN(2))
	case CSPSudoku:
		c.Size = 4
		c.Description = "Solve a 4x4 Sudoku puzzle (simplified) modelled as a CSP: each cell needs a value unique in its row, column and region."
	}

	correct := c.Recommended()
	c.Options = optionSet(r, correct, cspOptimizations)
	return Payload{
		ID:           PayloadID("CSP", r),
		Domain:       DomainCSP,
		QuestionText: c.QuestionText(),
		Solution:     Solution{Answer: correct, Explanation: c.Explanation()},
		CSP:          c,
	}, nil
}

func simpleCSP(r *rand.Rand, c *CSPProblem, vars, domain, cons int) {
	c.Variables = make([]string, vars)
	c.Domains = map[string][]int{}
	for i := range c.Variables {
		name := fmt.Sprintf("X%d", i+1)
		c.Variables[i] = name
		c.Domains[name] = seq(1, domain)
	}
	for range cons {
		i := r.IntN(vars)
		j := r.IntN(vars - 1)
		if j >= i {
			j++
		}
		c.Constraints = append(c.Constraints, Constraint{A: c.Variables[i], B: c.Variables[j], Op: "!="})
	}
	c.Description = fmt.Sprintf("Solve a CSP with %d variables (%s), each with domain {1, ..., %d}, and %d binary constraints.",
		vars, strings.Join(c.Variables, ", "), domain, len(c.Constraints))
}

func graphColoringCSP(r *rand.Rand, c *CSPProblem, vertices, colors int) {
	c.Variables = make([]string, vertices)
	c.Domains = map[string][]int{}
	for i := range c.Variables {
		name := fmt.Sprintf("V%d", i+1)
		c.Variables[i] = name
		c.Domains[name] = seq(1, colors)
	}
	for i := 0; i < vertices; i++ {
		for j := i + 1; j < min(i+3, vertices); j++ {
			if r.Float64() > 0.3 {
				c.Edges = append(c.Edges, [2]string{c.Variables[i], c.Variables[j]})
				c.Constraints = append(c.Constraints, Constraint{A: c.Variables[i], B: c.Variables[j], Op: "!="})
			}
		}
	}
	c.Colors = colors
	c.Description = fmt.Sprintf("Color a graph with %d vertices using %d colors so that adjacent vertices get different colors.", vertices, colors)
}

func seq(lo, hi int) []int {
	out := make([]int, 0, hi-lo+1)
	for v := lo; v <= hi; v++ {
		out = append(out, v)
	}
	return out
}
