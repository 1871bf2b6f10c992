package problemgen

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Strategy problem types.
const (
	ProblemNQueens       = "n-queens"
	ProblemHanoi         = "hanoi"
	ProblemGraphColoring = "graph_coloring"
	ProblemKnightTour    = "knight_tour"
)

var strategyProblemTypes = []string{ProblemNQueens, ProblemHanoi, ProblemGraphColoring, ProblemKnightTour}

type problemInfo struct {
	name       string
	strategies []string
}

var strategyProblems = map[string]problemInfo{
	ProblemNQueens:       {"n-queens", []string{"Backtracking", "Genetic Algorithm", "Simulated Annealing", "Constraint Satisfaction"}},
	ProblemHanoi:         {"generalised Hanoi", []string{"Recursive Backtracking", "Iterative Deepening", "A* Search", "Dynamic Programming"}},
	ProblemGraphColoring: {"graph coloring", []string{"Backtracking", "Greedy Coloring", "Welsh-Powell", "Constraint Satisfaction"}},
	ProblemKnightTour:    {"knight's tour", []string{"Backtracking", "Warnsdorff's Heuristic", "Divide and Conquer", "Neural Network"}},
}

var strategyExplanations = map[string]map[string]string{
	ProblemNQueens: {
		"Backtracking":            "Backtracking explores board configurations systematically and cuts branches that cannot lead to a solution. With strong constraints and a small board it is fast and exact.",
		"Constraint Satisfaction": "n-queens models directly as a CSP (queens must not attack each other), and constraint propagation shrinks the search space for mid-sized boards.",
		"Simulated Annealing":     "Simulated Annealing escapes local minima by lowering a temperature gradually. It converges to a valid placement quickly on large boards where backtracking slows down.",
	},
	ProblemHanoi: {
		"Recursive Backtracking": "Hanoi has a natural recursive structure: each move reduces to a smaller subproblem, so recursive backtracking fits few disks well.",
		"Iterative Deepening":    "Iterative Deepening combines the benefits of BFS and DFS. It explores increasing depths and finds the optimal move sequence with modest memory.",
		"Dynamic Programming":    "Dynamic Programming memoizes solutions to subproblems and avoids recomputing the overlapping ones that many disks produce.",
	},
	ProblemGraphColoring: {
		"Backtracking":            "Backtracking explores color assignments systematically and drops branches that violate a constraint. Small dense graphs are solved exactly.",
		"Constraint Satisfaction": "Graph coloring is a CSP by construction. Forward checking and arc consistency prune small sparse graphs efficiently.",
		"Greedy Coloring":         "Greedy Coloring gives each vertex the first free color. It does not guarantee the minimum number of colors but is very fast on large sparse graphs.",
		"Welsh-Powell":            "Welsh-Powell orders vertices by decreasing degree and then colors greedily, which improves on plain greedy for larger dense graphs.",
	},
	ProblemKnightTour: {
		"Backtracking":           "Backtracking explores every path of the knight and backs up from dead ends. On a small board it finds a complete tour efficiently.",
		"Warnsdorff's Heuristic": "Warnsdorff's Heuristic always moves to the square with the fewest onward moves. It cuts the search space dramatically and finds tours quickly.",
	},
}

// StrategyProblem asks which solving strategy suits a classic search problem.
type StrategyProblem struct {
	ProblemType string   `json:"problem_type"`
	Name        string   `json:"name"`
	N           int      `json:"n,omitempty"`
	Disks       int      `json:"disks,omitempty"`
	Pegs        int      `json:"pegs,omitempty"`
	Vertices    int      `json:"vertices,omitempty"`
	Edges       [][2]int `json:"edges,omitempty"`
	Colors      int      `json:"colors,omitempty"`
	BoardSize   int      `json:"board_size,omitempty"`
	Start       *[2]int  `json:"start,omitempty"`
	Description string   `json:"description"`
	Options     []string `json:"options"`
}

// Recommended applies the size and density rules to the instance.
func (s *StrategyProblem) Recommended() string {
	switch s.ProblemType {
	case ProblemNQueens:
		switch {
		case s.N <= 6:
			return "Backtracking"
		case s.N == 7:
			return "Constraint Satisfaction"
		}
		return "Simulated Annealing"
	case ProblemHanoi:
		switch {
		case s.Disks <= 4:
			return "Recursive Backtracking"
		case s.Disks == 5:
			return "Iterative Deepening"
		}
		return "Dynamic Programming"
	case ProblemGraphColoring:
		density := 0.0
		if s.Vertices > 1 {
			density = float64(len(s.Edges)) / (float64(s.Vertices*(s.Vertices-1)) / 2)
		}
		switch {
		case s.Vertices <= 5 && density > 0.5:
			return "Backtracking"
		case s.Vertices <= 5:
			return "Constraint Satisfaction"
		case density < 0.4:
			return "Greedy Coloring"
		}
		return "Welsh-Powell"
	case ProblemKnightTour:
		if s.BoardSize <= 5 {
			return "Backtracking"
		}
		return "Warnsdorff's Heuristic"
	}
	return ""
}

func (s *StrategyProblem) QuestionText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "For the %s problem and the instance below:\n%s\n\n", s.Name, s.Description)
	b.WriteString("Which solving strategy fits best?\n")
	for i, o := range s.Options {
		fmt.Fprintf(&b, "%d. %s\n", i+1, o)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *StrategyProblem) Explanation() string {
	correct := s.Recommended()
	text, ok := strategyExplanations[s.ProblemType][correct]
	if !ok {
		text = fmt.Sprintf("'%s' is the best fit for this instance of %s.", correct, s.Name)
	}
	return fmt.Sprintf("The correct strategy is '%s'.\n\n%s", correct, text)
}

func (s *StrategyProblem) Validate() error {
	if _, ok := strategyProblems[s.ProblemType]; !ok {
		return fmt.Errorf("unknown strategy problem type %q", s.ProblemType)
	}
	if len(s.Options) == 0 {
		return fmt.Errorf("strategy problem has no options")
	}
	return nil
}

// StrategyGenerator draws an instance of one of the classic search problems.
type StrategyGenerator struct{}

func (StrategyGenerator) Domain() Domain { return DomainStrategy }

func (StrategyGenerator) Generate(params Params, seed *uint64) (Payload, error) {
	kind, err := params.Enum("problem_type", "", strategyProblemTypes...)
	if err != nil {
		return Payload{}, err
	}
	r := NewRand(seed)
	if kind == "" {
		kind = strategyProblemTypes[r.IntN(len(strategyProblemTypes))]
	}

	info := strategyProblems[kind]
	s := &StrategyProblem{ProblemType: kind, Name: info.name}
	switch kind {
	case ProblemNQueens:
		s.N = 4 + r.IntN(5)
		s.Description = fmt.Sprintf("Place %d queens on a %dx%d board so that no two attack each other.", s.N, s.N, s.N)
	case ProblemHanoi:
		s.Disks, s.Pegs = 3+r.IntN(3), 3
		s.Description = fmt.Sprintf("Move %d disks from the first peg to the last one using %d pegs, following the classic rules.", s.Disks, s.Pegs)
	case ProblemGraphColoring:
		s.Vertices = 4 + r.IntN(3)
		s.Colors = 3 + r.IntN(2)
		s.Edges = nearEdges(r, s.Vertices)
		s.Description = fmt.Sprintf("Color a graph with %d vertices and %d edges using at most %d colors so that adjacent vertices differ.",
			s.Vertices, len(s.Edges), s.Colors)
	case ProblemKnightTour:
		s.BoardSize = 5 + r.IntN(2)
		s.Start = &[2]int{r.IntN(s.BoardSize), r.IntN(s.BoardSize)}
		s.Description = fmt.Sprintf("Find a complete knight's tour on a %dx%d board starting from (%d, %d).",
			s.BoardSize, s.BoardSize, s.Start[0], s.Start[1])
	}

	correct := s.Recommended()
	s.Options = optionSet(r, correct, info.strategies)
	return Payload{
		ID:           PayloadID("PROB1", r),
		Domain:       DomainStrategy,
		QuestionText: s.QuestionText(),
		Solution:     Solution{Answer: correct, Explanation: s.Explanation()},
		Strategy:     s,
	}, nil
}

// nearEdges links each vertex to the next two with probability 0.7.
func nearEdges(r *rand.Rand, n int) [][2]int {
	var edges [][2]int
	for i := 0; i < n; i++ {
		for j := i + 1; j < min(i+3, n); j++ {
			if r.Float64() > 0.3 {
				edges = append(edges, [2]int{i, j})
			}
		}
	}
	return edges
}
