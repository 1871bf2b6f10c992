package problemgen

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// NashGame is a two-player normal-form game. A holds the row player's
// payoffs and B the column player's.
type NashGame struct {
	Rows      int      `json:"rows"`
	Cols      int      `json:"cols"`
	A         [][]int  `json:"a"`
	B         [][]int  `json:"b"`
	RowLabels []string `json:"row_labels"`
	ColLabels []string `json:"col_labels"`
}

// Nash ensure modes.
const (
	EnsureAny        = "any"
	EnsureAtLeastOne = "atleast_one"
	EnsureUnique     = "unique"
	EnsureNone       = "none"
)

const (
	nashPayoffMin   = -5
	nashPayoffMax   = 9
	nashMaxAttempts = 5000
)

// rowBest reports whether row i is a best response of player 1 to column j.
func (g *NashGame) rowBest(i, j int) bool {
	for k := 0; k < g.Rows; k++ {
		if g.A[k][j] > g.A[i][j] {
			return false
		}
	}
	return true
}

// colBest reports whether column j is a best response of player 2 to row i.
func (g *NashGame) colBest(i, j int) bool {
	for k := 0; k < g.Cols; k++ {
		if g.B[i][k] > g.B[i][j] {
			return false
		}
	}
	return true
}

// Equilibria returns the 0-based pure-strategy Nash equilibria in
// row-major order.
func (g *NashGame) Equilibria() [][2]int {
	var out [][2]int
	for i := 0; i < g.Rows; i++ {
		for j := 0; j < g.Cols; j++ {
			if g.rowBest(i, j) && g.colBest(i, j) {
				out = append(out, [2]int{i, j})
			}
		}
	}
	return out
}

// Validate checks that dimensions, matrices and labels agree.
func (g *NashGame) Validate() error {
	if g.Rows < 2 || g.Cols < 2 {
		return fmt.Errorf("game must be at least 2x2, got %dx%d", g.Rows, g.Cols)
	}
	if len(g.A) != g.Rows || len(g.B) != g.Rows {
		return fmt.Errorf("payoff matrices must have %d rows", g.Rows)
	}
	for i := 0; i < g.Rows; i++ {
		if len(g.A[i]) != g.Cols || len(g.B[i]) != g.Cols {
			return fmt.Errorf("row %d must have %d columns", i+1, g.Cols)
		}
	}
	if len(g.RowLabels) != g.Rows || len(g.ColLabels) != g.Cols {
		return fmt.Errorf("labels do not match dimensions")
	}
	return nil
}

// QuestionText renders the payoff matrix and the answer instructions.
func (g *NashGame) QuestionText() string {
	var b strings.Builder
	b.WriteString("Question (pure-strategy Nash equilibrium)\n")
	b.WriteString("Game (payoffs (P1,P2)):\n")
	b.WriteString("```\n")
	b.WriteString(strings.Repeat(" ", 9))
	for j := 0; j < g.Cols; j++ {
		fmt.Fprintf(&b, "%9s", g.ColLabels[j])
	}
	b.WriteString("\n")
	for i := 0; i < g.Rows; i++ {
		fmt.Fprintf(&b, "%6s   ", g.RowLabels[i])
		for j := 0; j < g.Cols; j++ {
			fmt.Fprintf(&b, "  (%2d,%2d)", g.A[i][j], g.B[i][j])
		}
		b.WriteString("\n")
	}
	b.WriteString("```\n")
	b.WriteString("Task: does the game have a pure-strategy Nash equilibrium?\n")
	b.WriteString(" - If yes, list every (row, column) pair, e.g. 'R1 C2', '1 2' or '")
	b.WriteString(g.RowLabels[0] + ", " + g.ColLabels[g.Cols-1] + "'.\n")
	b.WriteString(" - If not, answer 'none'.")
	return b.String()
}

// Explanation marks best responses (* for player 1, ^ for player 2, *^
// for both) and lists the equilibria.
func (g *NashGame) Explanation() string {
	var b strings.Builder
	b.WriteString("Steps: (1) mark P1 best responses per column (max in A), ")
	b.WriteString("(2) mark P2 best responses per row (max in B), (3) the intersections are the equilibria.\n")
	b.WriteString("Marks: BR1='*', BR2='^', both='*^'\n\n")
	for i := 0; i < g.Rows; i++ {
		cells := make([]string, g.Cols)
		for j := 0; j < g.Cols; j++ {
			mark := ""
			switch r, c := g.rowBest(i, j), g.colBest(i, j); {
			case r && c:
				mark = "*^"
			case r:
				mark = "*"
			case c:
				mark = "^"
			}
			cells[j] = fmt.Sprintf("%s-%s: (%d,%d)%s", g.RowLabels[i], g.ColLabels[j], g.A[i][j], g.B[i][j], mark)
		}
		b.WriteString("  " + strings.Join(cells, " | ") + "\n")
	}
	eq := g.Equilibria()
	if len(eq) == 0 {
		b.WriteString("\nThere is no pure-strategy Nash equilibrium.")
		return b.String()
	}
	parts := make([]string, len(eq))
	for k, e := range eq {
		parts[k] = fmt.Sprintf("%s with %s (i.e. %d,%d)", g.RowLabels[e[0]], g.ColLabels[e[1]], e[0]+1, e[1]+1)
	}
	b.WriteString("\nEquilibria: " + strings.Join(parts, "; ") + ".")
	return b.String()
}

// NashLabels returns "RA".."RZ" style labels, or "R1".. beyond 26.
func NashLabels(prefix string, n int) []string {
	out := make([]string, n)
	for k := range out {
		if n <= 26 {
			out[k] = prefix + string(rune('A'+k))
		} else {
			out[k] = fmt.Sprintf("%s%d", prefix, k+1)
		}
	}
	return out
}

// NewNashGame builds a game from explicit matrices with default labels.
func NewNashGame(a, b [][]int) *NashGame {
	g := &NashGame{Rows: len(a), A: a, B: b}
	if len(a) > 0 {
		g.Cols = len(a[0])
	}
	g.RowLabels = NashLabels("R", g.Rows)
	g.ColLabels = NashLabels("C", g.Cols)
	return g
}

// NashPayload wraps a game in a payload envelope.
func NashPayload(id string, g *NashGame) Payload {
	eq := g.Equilibria()
	oneBased := make([][2]int, len(eq))
	for k, e := range eq {
		oneBased[k] = [2]int{e[0] + 1, e[1] + 1}
	}
	return Payload{
		ID:           id,
		Domain:       DomainNash,
		QuestionText: g.QuestionText(),
		Solution:     Solution{Equilibria: oneBased, Explanation: g.Explanation()},
		Nash:         g,
	}
}

// NashGenerator draws random payoff matrices until the ensure mode holds.
type NashGenerator struct {
	// Defaults used when params omit a value.
	Rows, Cols int
	Ensure     string
}

func (NashGenerator) Domain() Domain { return DomainNash }

func (gen NashGenerator) Generate(params Params, seed *uint64) (Payload, error) {
	defRows, defCols, defEnsure := gen.Rows, gen.Cols, gen.Ensure
	if defRows == 0 {
		defRows = 3
	}
	if defCols == 0 {
		defCols = 3
	}
	if defEnsure == "" {
		defEnsure = EnsureAtLeastOne
	}
	rows, err := params.Int("rows", defRows, 2, 10)
	if err != nil {
		return Payload{}, err
	}
	cols, err := params.Int("cols", defCols, 2, 10)
	if err != nil {
		return Payload{}, err
	}
	ensure, err := params.Enum("ensure", defEnsure, EnsureAny, EnsureAtLeastOne, EnsureUnique, EnsureNone)
	if err != nil {
		return Payload{}, err
	}

	r := NewRand(seed)
	var g *NashGame
	for attempt := 1; ; attempt++ {
		g = NewNashGame(randomMatrix(r, rows, cols), randomMatrix(r, rows, cols))
		if ensureHolds(ensure, len(g.Equilibria())) || attempt >= nashMaxAttempts {
			break
		}
	}
	return NashPayload(PayloadID("NASH", r), g), nil
}

func randomMatrix(r *rand.Rand, rows, cols int) [][]int {
	m := make([][]int, rows)
	for i := range m {
		m[i] = make([]int, cols)
		for j := range m[i] {
			m[i][j] = nashPayoffMin + r.IntN(nashPayoffMax-nashPayoffMin+1)
		}
	}
	return m
}

func ensureHolds(mode string, n int) bool {
	switch mode {
	case EnsureAtLeastOne:
		return n >= 1
	case EnsureUnique:
		return n == 1
	case EnsureNone:
		return n == 0
	}
	return true
}
