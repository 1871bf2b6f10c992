package problemgen

import (
	"fmt"
	"math"
	"strings"
)

// NodeType is MAX, MIN or LEAF.
type NodeType string

const (
	NodeMax  NodeType = "MAX"
	NodeMin  NodeType = "MIN"
	NodeLeaf NodeType = "LEAF"
)

// TreeNode is a game-tree node. IDs are N0, N1, ... in preorder.
type TreeNode struct {
	ID       string      `json:"id"`
	Type     NodeType    `json:"type"`
	Value    *int        `json:"value,omitempty"`
	Children []*TreeNode `json:"children,omitempty"`
}

// GameTree is a uniform minimax tree rooted at a MAX node.
type GameTree struct {
	Depth     int       `json:"depth"`
	Branching int       `json:"branching"`
	MinValue  int       `json:"min_value"`
	MaxValue  int       `json:"max_value"`
	Root      *TreeNode `json:"root"`
}

// TreeSolution is the outcome of left-to-right alpha-beta.
type TreeSolution struct {
	RootValue     int
	VisitedLeaves []string
}

// BuildTree lays out a uniform tree of the given depth and branching with
// leaves filled left to right from values.
func BuildTree(depth, branching int, values []int) (*GameTree, error) {
	want := intPow(branching, depth)
	if len(values) != want {
		return nil, fmt.Errorf("need %d leaf values for depth %d and branching %d, got %d", want, depth, branching, len(values))
	}
	counter, next := 0, 0
	var build func(t NodeType, level int) *TreeNode
	build = func(t NodeType, level int) *TreeNode {
		n := &TreeNode{ID: fmt.Sprintf("N%d", counter)}
		counter++
		if level >= depth {
			n.Type = NodeLeaf
			n.Value = intPtr(values[next])
			next++
			return n
		}
		n.Type = t
		child := NodeMin
		if t == NodeMin {
			child = NodeMax
		}
		for range branching {
			n.Children = append(n.Children, build(child, level+1))
		}
		return n
	}
	return &GameTree{Depth: depth, Branching: branching, MinValue: minOf(values), MaxValue: maxOf(values), Root: build(NodeMax, 0)}, nil
}

// Solve runs alpha-beta left to right and records the leaves it evaluates.
func (t *GameTree) Solve() TreeSolution {
	var visited []string
	var ab func(n *TreeNode, alpha, beta int) int
	ab = func(n *TreeNode, alpha, beta int) int {
		if n.Type == NodeLeaf || len(n.Children) == 0 {
			visited = append(visited, n.ID)
			if n.Value == nil {
				return 0
			}
			return *n.Value
		}
		if n.Type == NodeMax {
			v := math.MinInt
			for _, c := range n.Children {
				v = max(v, ab(c, alpha, beta))
				alpha = max(alpha, v)
				if beta <= alpha {
					break
				}
			}
			return v
		}
		v := math.MaxInt
		for _, c := range n.Children {
			v = min(v, ab(c, alpha, beta))
			beta = min(beta, v)
			if beta <= alpha {
				break
			}
		}
		return v
	}
	root := ab(t.Root, math.MinInt, math.MaxInt)
	return TreeSolution{RootValue: root, VisitedLeaves: visited}
}

// Nodes returns every node in preorder.
func (t *GameTree) Nodes() []*TreeNode {
	var out []*TreeNode
	var walk func(n *TreeNode)
	walk = func(n *TreeNode) {
		if n == nil {
			return
		}
		out = append(out, n)
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(t.Root)
	return out
}

// Validate checks node types and that every leaf carries a value.
func (t *GameTree) Validate() error {
	if t.Root == nil {
		return fmt.Errorf("tree has no root")
	}
	seen := map[string]bool{}
	for _, n := range t.Nodes() {
		if seen[n.ID] {
			return fmt.Errorf("duplicate node id %q", n.ID)
		}
		seen[n.ID] = true
		switch n.Type {
		case NodeLeaf:
			if n.Value == nil {
				return fmt.Errorf("leaf %s has no value", n.ID)
			}
		case NodeMax, NodeMin:
			if len(n.Children) == 0 {
				return fmt.Errorf("inner node %s has no children", n.ID)
			}
		default:
			return fmt.Errorf("node %s has unknown type %q", n.ID, n.Type)
		}
	}
	return nil
}

// ASCII draws the tree with box-drawing connectors.
func (t *GameTree) ASCII() string {
	lines := []string{"Game tree:"}
	var draw func(n *TreeNode, prefix string, last bool)
	draw = func(n *TreeNode, prefix string, last bool) {
		marker := "├── "
		if last {
			marker = "└── "
		}
		if n.Type == NodeLeaf && n.Value != nil {
			lines = append(lines, fmt.Sprintf("%s%s%s (%s): %d", prefix, marker, n.ID, n.Type, *n.Value))
			return
		}
		lines = append(lines, fmt.Sprintf("%s%s%s (%s)", prefix, marker, n.ID, n.Type))
		next := prefix + "│   "
		if last {
			next = prefix + "    "
		}
		for i, c := range n.Children {
			draw(c, next, i == len(n.Children)-1)
		}
	}
	draw(t.Root, "", true)
	return strings.Join(lines, "\n")
}

// Table lists each node with its type, value, parent and children.
func (t *GameTree) Table() string {
	parent := map[string]string{}
	for _, n := range t.Nodes() {
		for _, c := range n.Children {
			parent[c.ID] = n.ID
		}
	}
	lines := []string{
		"Tree structure:",
		"ID    | Type | Value   | Parent  | Children",
		strings.Repeat("-", 50),
	}
	for _, n := range t.Nodes() {
		value := "-"
		if n.Value != nil {
			value = fmt.Sprint(*n.Value)
		}
		p := parent[n.ID]
		if p == "" {
			p = "-"
		}
		children := "-"
		if len(n.Children) > 0 {
			ids := make([]string, len(n.Children))
			for i, c := range n.Children {
				ids[i] = c.ID
			}
			children = strings.Join(ids, ", ")
		}
		lines = append(lines, fmt.Sprintf("%-5s | %-4s | %-7s | %-7s | %s", n.ID, n.Type, value, p, children))
	}
	return strings.Join(lines, "\n")
}

func (t *GameTree) QuestionText() string {
	return strings.Join([]string{
		"Question (MinMax with Alpha-Beta pruning)",
		"",
		"For the tree below, what is the value at the root and how many leaf nodes",
		"are visited when MinMax with Alpha-Beta pruning runs left to right?",
		"",
		t.ASCII(),
		"",
		t.Table(),
		"",
		"Tasks:",
		"1. What is the value at the root?",
		"2. How many leaf nodes are visited?",
		"",
		"Answer format: 'value leaves' (e.g. '5 4' or 'value=5, leaves=4')",
	}, "\n")
}

// Explanation lists the root value and each visited leaf with its value.
func (t *GameTree) Explanation() string {
	sol := t.Solve()
	values := map[string]int{}
	for _, n := range t.Nodes() {
		if n.Value != nil {
			values[n.ID] = *n.Value
		}
	}
	lines := []string{
		"Solution:",
		"",
		fmt.Sprintf("Root value: %d", sol.RootValue),
		fmt.Sprintf("Leaf nodes visited: %d", len(sol.VisitedLeaves)),
		"",
		"Visited leaves:",
	}
	for _, id := range sol.VisitedLeaves {
		lines = append(lines, fmt.Sprintf("  - %s: value %d", id, values[id]))
	}
	lines = append(lines, "",
		"Alpha-Beta skips branches that cannot change the current value,",
		"so fewer nodes are evaluated than with plain MinMax.")
	return strings.Join(lines, "\n")
}

// MinMaxPayload wraps a tree in a payload envelope.
func MinMaxPayload(id string, t *GameTree) Payload {
	sol := t.Solve()
	return Payload{
		ID:           id,
		Domain:       DomainMinMax,
		QuestionText: t.QuestionText(),
		Solution: Solution{
			RootValue:     intPtr(sol.RootValue),
			VisitedLeaves: sol.VisitedLeaves,
			VisitedCount:  intPtr(len(sol.VisitedLeaves)),
			Explanation:   t.Explanation(),
		},
		MinMax: t,
	}
}

// MinMaxGenerator builds uniform trees with random leaf values.
type MinMaxGenerator struct{}

func (MinMaxGenerator) Domain() Domain { return DomainMinMax }

func (MinMaxGenerator) Generate(params Params, seed *uint64) (Payload, error) {
	depth, err := params.Int("depth", 3, 1, 6)
	if err != nil {
		return Payload{}, err
	}
	branching, err := params.Int("branching", 2, 2, 4)
	if err != nil {
		return Payload{}, err
	}
	lo, err := params.Int("min", -10, -99, 99)
	if err != nil {
		return Payload{}, err
	}
	hi, err := params.Int("max", 10, -99, 99)
	if err != nil {
		return Payload{}, err
	}
	if lo > hi {
		return Payload{}, &ParamError{Param: "min", Value: fmt.Sprint(lo), Reason: "must not exceed max"}
	}
	if intPow(branching, depth) > 256 {
		return Payload{}, &ParamError{Param: "depth", Value: fmt.Sprint(depth), Reason: "tree would exceed 256 leaves"}
	}

	r := NewRand(seed)
	values := make([]int, intPow(branching, depth))
	for i := range values {
		values[i] = lo + r.IntN(hi-lo+1)
	}
	t, err := BuildTree(depth, branching, values)
	if err != nil {
		return Payload{}, err
	}
	t.MinValue, t.MaxValue = lo, hi
	return MinMaxPayload(PayloadID("MINMAX", r), t), nil
}

func intPow(b, e int) int {
	out := 1
	for range e {
		out *= b
	}
	return out
}

func minOf(v []int) int {
	if len(v) == 0 {
		return 0
	}
	m := v[0]
	for _, x := range v[1:] {
		m = min(m, x)
	}
	return m
}

func maxOf(v []int) int {
	if len(v) == 0 {
		return 0
	}
	m := v[0]
	for _, x := range v[1:] {
		m = max(m, x)
	}
	return m
}
