package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/abhisek/smartest/internal/textnorm"
)

// Pair is a 0-based (row, column) cell of a payoff matrix.
type Pair struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Pair) String() string { return fmt.Sprintf("(%d,%d)", p.Row+1, p.Col+1) }

// PairsResult is what NashPairs reads from an answer. None and an empty
// Pairs list are different: None means the student claimed there is no
// equilibrium.
type PairsResult struct {
	None  bool
	Pairs []Pair
	// Invalid lists well-formed pairs that name two rows or two columns.
	Invalid []string
	// Method names the strategy that produced the first pair.
	Method string
}

// Empty reports whether nothing usable was read.
func (r PairsResult) Empty() bool { return !r.None && len(r.Pairs) == 0 }

var noneExact = map[string]bool{
	"none": true, "no": true, "no ne": true, "no nash": true, "no pure ne": true,
	"nu": true, "nu exista": true, "nu sunt": true, "nu avem": true, "lipsa": true,
	"niciun": true, "nici un": true, "zero": true, "0": true, "nimic": true, "fara": true,
	"nu exista echilibru": true, "nu sunt echilibre": true, "nu avem echilibru": true,
	"nu exista nash": true, "nu exista echilibre": true, "nu exista echilibru nash": true,
	"nu exista ne": true, "nu exista nash pur": true, "lipsa echilibrelor": true,
	"fara echilibru": true, "nu se gaseste": true, "nu se gasesc": true, "nu gasim": true,
	"nu gasim echilibru": true, "absent": true, "lipseste": true, "nu e": true,
	"nu este": true, "nu sunt echilibre nash": true, "there is none": true, "no equilibrium": true,
}

var nonePhrases = []string{
	"nu exista", "nu sunt", "niciun echilibru", "nu avem echilibru",
	"nu exista nash", "nu exista ne", "nu exista echilibru", "nu sunt echilibre",
	"lipsa echilibru", "fara echilibru", "no equilibrium", "no pure nash", "there is no",
}

var (
	bracketNumRe   = regexp.MustCompile(`[\(\[\{]\s*(\d+)\s*[,:]\s*(\d+)\s*[\)\]\}]`)
	bracketLabelRe = regexp.MustCompile(`[\(\[\{]\s*([a-z]+)\s*[,:\s]+\s*([a-z]+)\s*[\)\]\}]`)
	rcRe           = regexp.MustCompile(`\br\s*(\d+)\s*c\s*(\d+)`)
	separatorRe    = regexp.MustCompile(`\s*(?:[;\n&|,]|\b(?:si|and|sau|or)\b)\s*`)
	loneNumberRe   = regexp.MustCompile(`^\d+$`)
	digitsRe       = regexp.MustCompile(`\d+`)
	rowColRe       = regexp.MustCompile(`(?:randul|rand|row)\s*(\d+).*?(?:coloana|column|col)\s*(\d+)`)
	colRowRe       = regexp.MustCompile(`(?:coloana|column|col)\s*(\d+).*?(?:randul|rand|row)\s*(\d+)`)
	strategieRe    = regexp.MustCompile(`(?:strategia|strategie|echilibru|ne|nash)\s*(?:la|cu|with)?\s*r\s*(\d+).*?c\s*(\d+)`)
	partCleaner    = strings.NewReplacer("(", "", ")", "", "[", "", "]", "", "{", "", "}", "", "-", " ", "_", " ", ":", " ")
)

type labels struct {
	rows, cols map[string]int
	rowList    []string
	colList    []string
}

func newLabels(rowLabels, colLabels []string) labels {
	l := labels{rows: map[string]int{}, cols: map[string]int{}}
	for i, r := range rowLabels {
		f := textnorm.Fold(r)
		l.rows[f] = i
		l.rowList = append(l.rowList, f)
	}
	for j, c := range colLabels {
		f := textnorm.Fold(c)
		l.cols[f] = j
		l.colList = append(l.colList, f)
	}
	return l
}

// partMatch is a strategy verdict for one answer part. A claimed part
// with reject set is consumed without producing a pair.
type partMatch struct {
	pair   Pair
	reject bool
}

// NashPairs reads the equilibrium cells a student listed. Pairs keep
// discovery order and are deduplicated.
func NashPairs(answer string, rowLabels, colLabels []string) PairsResult {
	folded := strings.TrimSpace(textnorm.Fold(answer))
	if folded == "" {
		return PairsResult{}
	}
	l := newLabels(rowLabels, colLabels)
	res := PairsResult{Invalid: invalidPairs(folded, l)}

	if isNone(folded) {
		res.None = true
		res.Method = "none"
		return res
	}
	if pairs := bracketedPairs(folded, l); len(pairs) > 0 {
		res.Pairs = pairs
		res.Method = "bracketed"
		return res
	}

	strategies := partStrategies(l)
	seen := map[Pair]bool{}
	for _, part := range splitParts(folded) {
		m, name, ok := FirstSuccess(partCleaner.Replace(part), strategies...)
		if !ok || m.reject || seen[m.pair] {
			continue
		}
		seen[m.pair] = true
		res.Pairs = append(res.Pairs, m.pair)
		if res.Method == "" {
			res.Method = name
		}
	}
	return res
}

func isNone(folded string) bool {
	trimmed := strings.Trim(folded, " .!?")
	if noneExact[trimmed] {
		return true
	}
	for _, p := range nonePhrases {
		if textnorm.ContainsWord(folded, p) {
			return true
		}
	}
	return false
}

// bracketedPairs finds (1,2), (RA,CB) and r1c2 forms anywhere in the text.
func bracketedPairs(folded string, l labels) []Pair {
	var out []Pair
	seen := map[Pair]bool{}
	add := func(p Pair) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, m := range bracketNumRe.FindAllStringSubmatch(folded, -1) {
		add(oneBased(m[1], m[2]))
	}
	for _, m := range bracketLabelRe.FindAllStringSubmatch(folded, -1) {
		r, rok := l.rows[m[1]]
		c, cok := l.cols[m[2]]
		if rok && cok {
			add(Pair{Row: r, Col: c})
		}
	}
	for _, m := range rcRe.FindAllStringSubmatch(folded, -1) {
		add(oneBased(m[1], m[2]))
	}
	return out
}

// splitParts splits on separators and joins lone numbers pairwise, so
// "1, 2" reads as one cell.
func splitParts(folded string) []string {
	var parts []string
	for _, p := range separatorRe.Split(folded, -1) {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	var out []string
	for i := 0; i < len(parts); i++ {
		if i+1 < len(parts) && loneNumberRe.MatchString(parts[i]) && loneNumberRe.MatchString(parts[i+1]) {
			out = append(out, parts[i]+" "+parts[i+1])
			i++
			continue
		}
		out = append(out, parts[i])
	}
	return out
}

func partStrategies(l labels) []Strategy[partMatch] {
	regexPair := func(name string, re *regexp.Regexp, swap bool) Strategy[partMatch] {
		return Named(name, func(s string) (partMatch, bool) {
			m := re.FindStringSubmatch(s)
			if m == nil {
				return partMatch{}, false
			}
			if swap {
				return partMatch{pair: oneBased(m[2], m[1])}, true
			}
			return partMatch{pair: oneBased(m[1], m[2])}, true
		})
	}
	return []Strategy[partMatch]{
		regexPair("row-col", rowColRe, false),
		regexPair("col-row", colRowRe, true),
		regexPair("rc", rcRe, false),
		Named("numbers", func(s string) (partMatch, bool) {
			nums := digitsRe.FindAllString(s, -1)
			if len(nums) < 2 {
				return partMatch{}, false
			}
			return partMatch{pair: oneBased(nums[0], nums[1])}, true
		}),
		Named("number-words", func(s string) (partMatch, bool) {
			var vals []int
			for _, w := range textnorm.Words(s) {
				if v, ok := textnorm.NumberWord(w); ok {
					vals = append(vals, v)
				}
			}
			if len(vals) < 2 {
				return partMatch{}, false
			}
			return partMatch{pair: Pair{Row: vals[0] - 1, Col: vals[1] - 1}}, true
		}),
		Named("label-concat", func(s string) (partMatch, bool) {
			for _, tok := range strings.Fields(s) {
				for i, r := range l.rowList {
					for j, c := range l.colList {
						if tok == r+c {
							return partMatch{pair: Pair{Row: i, Col: j}}, true
						}
					}
				}
			}
			return partMatch{}, false
		}),
		Named("label-pair", func(s string) (partMatch, bool) {
			toks := strings.Fields(s)
			if len(toks) < 2 {
				return partMatch{}, false
			}
			r, r1 := l.rows[toks[0]]
			c, c2 := l.cols[toks[1]]
			if r1 && c2 {
				return partMatch{pair: Pair{Row: r, Col: c}}, true
			}
			_, r2 := l.rows[toks[1]]
			_, c1 := l.cols[toks[0]]
			if (r1 && r2) || (c1 && c2) {
				return partMatch{reject: true}, true
			}
			return partMatch{}, false
		}),
		Named("label-search", func(s string) (partMatch, bool) {
			toks := strings.Fields(s)
			if len(toks) < 2 {
				return partMatch{}, false
			}
			row, col := -1, -1
			for _, t := range toks {
				if i, ok := l.rows[t]; ok && row < 0 {
					row = i
				}
				if j, ok := l.cols[t]; ok && col < 0 {
					col = j
				}
			}
			switch {
			case row >= 0 && col >= 0:
				return partMatch{pair: Pair{Row: row, Col: col}}, true
			case row >= 0 || col >= 0:
				return partMatch{reject: true}, true
			}
			return partMatch{}, false
		}),
		regexPair("strategy-phrase", strategieRe, false),
	}
}

// invalidPairs lists row-row and column-column pairs, bracketed or as
// the two leading tokens of a part.
func invalidPairs(folded string, l labels) []string {
	var out []string
	seen := map[string]bool{}
	check := func(a, b string) {
		_, ar := l.rows[a]
		_, br := l.rows[b]
		_, ac := l.cols[a]
		_, bc := l.cols[b]
		if !(ar && br) && !(ac && bc) {
			return
		}
		label := "(" + strings.ToUpper(a) + "," + strings.ToUpper(b) + ")"
		if !seen[label] {
			seen[label] = true
			out = append(out, label)
		}
	}
	for _, m := range bracketLabelRe.FindAllStringSubmatch(folded, -1) {
		check(m[1], m[2])
	}
	for _, part := range separatorRe.Split(folded, -1) {
		toks := strings.Fields(partCleaner.Replace(part))
		if len(toks) >= 2 {
			check(toks[0], toks[1])
		}
	}
	return out
}

func oneBased(a, b string) Pair {
	r, _ := strconv.Atoi(a)
	c, _ := strconv.Atoi(b)
	return Pair{Row: r - 1, Col: c - 1}
}
