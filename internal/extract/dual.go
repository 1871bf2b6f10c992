package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/abhisek/smartest/internal/textnorm"
)

// DualValue is the root value and visited-leaf count read from a minimax
// answer, plus any leaf IDs the student enumerated.
type DualValue struct {
	Value  *int
	Leaves *int
	// Nodes are mentioned node IDs such as "N2", in order of appearance.
	Nodes []string
}

// Empty reports whether nothing usable was read.
func (d DualValue) Empty() bool { return d.Value == nil && d.Leaves == nil && len(d.Nodes) == 0 }

var valuePatterns = compileAll(
	`(?:valoare|value|radacina|root|rezultat)\s*(?:din\s*)?(?:radacina|root)?\s*[=:]\s*(-?\d+)`,
	`(?:valoare|value)\s*(?:este|e|are|in\s*numar)\s*(?:de|este|e)?\s*(-?\d+)`,
	`(?:radacina|root)\s*(?:are|este|e|va\s*fi|is|has)\s*(-?\d+)`,
	`(?:valoarea|value)\s*(?:din\s*)?(?:radacina|root|of\s*the\s*root)\s*(?:este|e|are|va\s*fi|is)\s*(-?\d+)`,
	`(?:valoarea|value)\s*(?:este|e|are)\s*(?:in\s*numar|egala)\s*(?:de|cu)?\s*(-?\d+)`,
	`(?:valoarea|value)\s*(?:este|e|are|is)\s*(-?\d+)`,
)

var leafPatterns = compileAll(
	`(?:numarul|numar|number|count)\s*(?:de\s*|of\s*)?(?:noduri\s*)?(?:frunze|leaves|noduri\s*frunze|leaf\s*nodes)\s*(?:vizitate|visited)?\s*(?:este|e|are|sunt|au\s*fost|vor\s*fi|is)\s*(-?\d+)`,
	`(?:frunze|leaves|noduri\s*frunze|leaf\s*nodes)\s*(?:frunze|vizitate|visited)?\s*[=:]\s*(-?\d+)`,
	`(?:frunze|leaves|noduri)\s*(?:vizitate|visited|au\s*fost|sunt|vor\s*fi)\s*(?:vizitate|visited)?\s*[=:]\s*(-?\d+)`,
	`(?:numarul|numar|number|count)\s*(?:de\s*|of\s*)?(?:frunze|leaves|noduri\s*frunze)\s*(?:vizitate|visited)?\s*[=:]\s*(-?\d+)`,
	`(-?\d+)\s*(?:frunze|leaves|noduri\s*frunze|leaf\s*nodes)\s*(?:vizitate|visited|au\s*fost|sunt|are|were)`,
	`(?:vizitate|visited)\s*(?:au\s*fost|sunt|vor\s*fi)?\s*(-?\d+)\s*(?:frunze|leaves|noduri)`,
	`(?:frunze|leaves)\s*(?:sunt|au\s*fost|vor\s*fi)\s*(?:in\s*numar)\s*(?:de|egal)?\s*(-?\d+)`,
	`(?:cate|how\s*many)\s*(?:frunze|leaves|noduri)\s*(?:frunze|vizitate)?\s*(?:au\s*fost|sunt|vor\s*fi)?\s*(-?\d+)`,
	`(?:numarul|numar|number)\s*(?:de\s*)?(?:frunze|leaves|noduri)\s*(?:frunze|vizitate)?\s*(?:este|e|sunt)\s*(-?\d+)`,
)

var (
	signedNumRe    = regexp.MustCompile(`-?\d+`)
	nodeRefRe      = regexp.MustCompile(`\b(?:nodul|node|nod|n)\s*(\d+)`)
	visitedNodesRe = regexp.MustCompile(`noduri\s*vizitate|nodes\s*visited`)
	leafWordRe     = regexp.MustCompile(`frunze|leaves|leaf|numar|number`)
	valueWordRe    = regexp.MustCompile(`radacina|root|valoare|value`)
	explicitValRe  = regexp.MustCompile(`(?:valoare|value)\s*[=:]\s*(-?\d+)`)
	explicitLeafRe = regexp.MustCompile(`(?:frunze|leaves|noduri\s*frunze)\s*[=:]\s*(\d+)`)
	mentionedRe    = regexp.MustCompile(`(?i)\bn\s*(\d+)`)
)

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

type number struct {
	v          int
	start, end int
}

// MinMaxAnswer reads "value leaves" style answers. Keyword-anchored
// patterns win; bare numbers fill in whatever is still missing.
func MinMaxAnswer(answer string) DualValue {
	s := strings.TrimSpace(textnorm.Fold(answer))
	if s == "" {
		return DualValue{}
	}
	var d DualValue
	d.Nodes = MentionedNodes(answer)

	d.Value = firstPattern(s, valuePatterns, nil)
	d.Leaves = firstPattern(s, leafPatterns, d.Value)

	if d.Value == nil || d.Leaves == nil {
		fillFromNumbers(s, &d)
	}

	if d.Value == nil || d.Leaves == nil {
		if m := explicitValRe.FindStringSubmatch(s); m != nil {
			d.Value = atoiPtr(m[1])
		}
		if m := explicitLeafRe.FindStringSubmatch(s); m != nil {
			d.Leaves = atoiPtr(m[1])
		}
	}
	return d
}

// firstPattern returns the first match over patterns whose value differs
// from exclude.
func firstPattern(s string, patterns []*regexp.Regexp, exclude *int) *int {
	for _, re := range patterns {
		for _, m := range re.FindAllStringSubmatch(s, -1) {
			v := atoiPtr(m[1])
			if v == nil || (exclude != nil && *v == *exclude) {
				continue
			}
			return v
		}
	}
	return nil
}

func fillFromNumbers(s string, d *DualValue) {
	nums := filteredNumbers(s)
	switch {
	case len(nums) >= 2:
		var neg, pos *int
		for _, n := range nums {
			if n.v < 0 && neg == nil {
				neg = intPtr(n.v)
			}
			if n.v > 0 && pos == nil {
				pos = intPtr(n.v)
			}
		}
		if neg != nil && pos != nil {
			if d.Value == nil {
				d.Value = neg
			}
			if d.Leaves == nil {
				d.Leaves = pos
			}
			return
		}
		valueIdx := -1
		for i, n := range nums {
			if d.Value != nil && d.Leaves != nil {
				break
			}
			ctx := around(s, n, 40)
			if d.Value == nil && valueWordRe.MatchString(ctx) {
				d.Value = intPtr(n.v)
				valueIdx = i
				continue
			}
			if d.Leaves == nil && leafWordRe.MatchString(ctx) {
				d.Leaves = intPtr(n.v)
			}
		}
		if d.Value == nil {
			d.Value = intPtr(nums[0].v)
			valueIdx = 0
		}
		if d.Leaves == nil {
			for i, n := range nums {
				// A value read from a keyword pattern has no index here, so
				// skip numbers equal to it instead.
				if i == valueIdx || (valueIdx < 0 && n.v == *d.Value) {
					continue
				}
				d.Leaves = intPtr(n.v)
				break
			}
		}
	case len(nums) == 1:
		if d.Value != nil || d.Leaves != nil {
			return
		}
		n := nums[0]
		ctx := around(s, n, 40)
		switch {
		case leafWordRe.MatchString(ctx):
			d.Leaves = intPtr(n.v)
		case valueWordRe.MatchString(ctx), n.v < 20:
			d.Value = intPtr(n.v)
		default:
			d.Leaves = intPtr(n.v)
		}
	}
}

// filteredNumbers drops digits that belong to node references (N3, nod 3)
// and numbers near "noduri vizitate" that carry no leaf wording.
func filteredNumbers(s string) []number {
	var refs [][]int
	for _, m := range nodeRefRe.FindAllStringSubmatchIndex(s, -1) {
		refs = append(refs, []int{m[2], m[3]})
	}
	var out []number
	for _, loc := range signedNumRe.FindAllStringIndex(s, -1) {
		n := number{start: loc[0], end: loc[1]}
		v, err := strconv.Atoi(s[loc[0]:loc[1]])
		if err != nil {
			continue
		}
		n.v = v
		inRef := false
		for _, r := range refs {
			if n.end > r[0] && n.start < r[1] {
				inRef = true
				break
			}
		}
		if inRef {
			continue
		}
		ctx := around(s, n, 30)
		if visitedNodesRe.MatchString(ctx) && !leafWordRe.MatchString(ctx) {
			continue
		}
		out = append(out, n)
	}
	return out
}

func around(s string, n number, radius int) string {
	return s[max(0, n.start-radius):min(len(s), n.end+radius)]
}

// MentionedNodes returns node IDs written as N<k>, deduplicated.
func MentionedNodes(answer string) []string {
	var out []string
	seen := map[string]bool{}
	for _, m := range mentionedRe.FindAllStringSubmatch(answer, -1) {
		k, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		id := fmt.Sprintf("N%d", k)
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func atoiPtr(s string) *int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

func intPtr(v int) *int { return &v }
