package dispatch

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/abhisek/smartest/internal/problemgen"
	"github.com/abhisek/smartest/internal/textnorm"
)

const (
	maxInlineDim    = 10
	maxInlineLeaves = 256
)

var (
	cellRe     = regexp.MustCompile(`\(\s*([-+]?\d+)\s*,\s*([-+]?\d+)\s*\)`)
	dimsRe     = regexp.MustCompile(`(\d+)\s*x\s*(\d+)`)
	rowSplitRe = regexp.MustCompile(`\]\s*,\s*\[`)

	depthRe  = regexp.MustCompile(`depth\s*[:=]\s*(\d+)`)
	branchRe = regexp.MustCompile(`(?:branching|branch)\s*[:=]\s*(\d+)`)
	leavesRe = regexp.MustCompile(`leaves?\s*[:=]\s*\[([^\]]+)\]`)
	intRe    = regexp.MustCompile(`-?\d+`)
)

// parseNashMatrix reads a bimatrix written as (a,b) cells. The shape comes
// from an "RxC" mention when it matches the cell count, otherwise from
// bracketed rows.
func parseNashMatrix(text string) (*problemgen.NashGame, bool) {
	cells := cellRe.FindAllStringSubmatch(text, -1)
	if len(cells) == 0 {
		return nil, false
	}

	if m := dimsRe.FindStringSubmatch(textnorm.Fold(text)); m != nil {
		rows, _ := strconv.Atoi(m[1])
		cols, _ := strconv.Atoi(m[2])
		if rows > 0 && cols > 0 && rows*cols == len(cells) && rows <= maxInlineDim && cols <= maxInlineDim {
			a, b := make([][]int, rows), make([][]int, rows)
			for i := range rows {
				for j := range cols {
					c := cells[i*cols+j]
					a[i] = append(a[i], atoi(c[1]))
					b[i] = append(b[i], atoi(c[2]))
				}
			}
			return problemgen.NewNashGame(a, b), true
		}
	}

	var rows [][][]string
	for _, part := range rowSplitRe.Split(text, -1) {
		if rc := cellRe.FindAllStringSubmatch(part, -1); len(rc) > 0 {
			rows = append(rows, rc)
		}
	}
	cols := 0
	for _, r := range rows {
		cols = max(cols, len(r))
	}
	if len(rows) == 0 || len(rows) > maxInlineDim || cols > maxInlineDim {
		return nil, false
	}
	a, b := make([][]int, len(rows)), make([][]int, len(rows))
	for i, r := range rows {
		if len(r) < cols {
			return nil, false
		}
		for _, c := range r {
			a[i] = append(a[i], atoi(c[1]))
			b[i] = append(b[i], atoi(c[2]))
		}
	}
	return problemgen.NewNashGame(a, b), true
}

// alphaBetaRequest is an inline "depth=, branching=, leaves=[...]" tree.
type alphaBetaRequest struct {
	Depth, Branching int
	Leaves           []int
}

var errMissingTreeData = errors.New("missing depth, branching or leaves")

func parseAlphaBeta(text string) (alphaBetaRequest, error) {
	folded := textnorm.Fold(text)
	dm := depthRe.FindStringSubmatch(folded)
	bm := branchRe.FindStringSubmatch(folded)
	lm := leavesRe.FindStringSubmatch(folded)
	if dm == nil || bm == nil || lm == nil {
		return alphaBetaRequest{}, errMissingTreeData
	}
	req := alphaBetaRequest{Depth: atoi(dm[1]), Branching: atoi(bm[1])}
	for _, n := range intRe.FindAllString(lm[1], -1) {
		req.Leaves = append(req.Leaves, atoi(n))
	}
	if len(req.Leaves) == 0 {
		return alphaBetaRequest{}, errMissingTreeData
	}
	return req, nil
}

// expectedLeaves is branching^depth, or -1 once it passes the inline cap.
func (r alphaBetaRequest) expectedLeaves() int {
	if r.Depth < 1 || r.Branching < 1 {
		return -1
	}
	n := 1
	for range r.Depth {
		n *= r.Branching
		if n > maxInlineLeaves {
			return -1
		}
	}
	return n
}

func (r alphaBetaRequest) String() string {
	return fmt.Sprintf("depth=%d branching=%d leaves=%d", r.Depth, r.Branching, len(r.Leaves))
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
