package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/abhisek/smartest/internal/textnorm"
)

// Choice is an option picked from a list, 0-based.
type Choice struct {
	Index  int
	Method string
}

type optionAlias struct {
	key     string
	aliases []string
}

// optionAliases maps a fragment of an option name to the abbreviations
// students write for it. Order matters: earlier keys win.
var optionAliases = []optionAlias{
	{"backtracking", []string{"backtracking", "backtrack", "bt", "backtracking de baza"}},
	{"forward", []string{"forward checking", "forward", "fc", "forward check", "verificare inainte"}},
	{"mrv", []string{"mrv", "minimum remaining values", "minimum remaining", "min remaining", "minimum remaining value", "valori minime ramase"}},
	{"ac-3", []string{"ac-3", "ac3", "arc consistency", "arc consistency 3", "ac 3", "arc consist", "consistenta arcului", "consistenta arc"}},
	{"genetic", []string{"genetic", "genetic algorithm", "ga", "genetic algo"}},
	{"simulated", []string{"simulated annealing", "simulated", "annealing", "sa", "simulated anneal"}},
	{"greedy", []string{"greedy", "greedy coloring", "greedy col"}},
	{"welsh", []string{"welsh-powell", "welsh", "powell", "welsh powell", "wp"}},
	{"warnsdorff", []string{"warnsdorff", "warnsdorff's", "warnsdorffs", "warnsdorff heuristic"}},
	{"recursive", []string{"recursive", "recursive backtracking", "recursive bt", "rec bt"}},
	{"iterative", []string{"iterative deepening", "iterative", "iterative deep", "id", "ids"}},
	{"a*", []string{"a*", "a star", "astar", "a-star", "a star search"}},
	{"dynamic", []string{"dynamic programming", "dp", "dynamic prog", "memoization"}},
	{"constraint", []string{"constraint satisfaction", "csp", "constraint", "constraint sat"}},
	{"divide", []string{"divide and conquer", "divide", "divide conquer", "d&c", "d and c"}},
	{"neural", []string{"neural network", "neural", "nn", "neural net", "deep learning"}},
}

var overlapStopWords = map[string]bool{
	"the": true, "and": true, "or": true, "of": true, "for": true,
	"with": true, "algorithm": true, "method": true, "search": true,
}

var (
	digitAliasRe    = regexp.MustCompile(`\bac\s*-?\s*3\b|\barc consistency 3\b`)
	prefixedIndexRe = regexp.MustCompile(`\b(?:optiunea|optiune|varianta|aleg|alegerea|numarul|numar|option|choice|answer)\s*(?:nr\.?|no\.?|#)?\s*(\d+)`)
	indexDigitsRe   = regexp.MustCompile(`\d+`)
)

// OptionChoice picks the option an answer refers to: by number, by name,
// by a known abbreviation, or by word overlap.
func OptionChoice(answer string, options []string) (Choice, bool) {
	folded := strings.TrimSpace(textnorm.Fold(answer))
	if folded == "" || len(options) == 0 {
		return Choice{}, false
	}
	opts := make([]string, len(options))
	for i, o := range options {
		opts[i] = textnorm.Fold(o)
	}
	idx, method, ok := FirstSuccess(folded,
		Named("index", func(s string) (int, bool) { return optionIndex(s, len(opts)) }),
		Named("text", func(s string) (int, bool) { return optionText(s, opts) }),
		Named("keyword", func(s string) (int, bool) { return optionKeyword(s, opts) }),
		Named("overlap", func(s string) (int, bool) { return optionOverlap(s, opts) }),
	)
	if !ok {
		return Choice{}, false
	}
	return Choice{Index: idx, Method: method}, true
}

func optionIndex(s string, n int) (int, bool) {
	s = digitAliasRe.ReplaceAllString(s, " ")
	if m := prefixedIndexRe.FindStringSubmatch(s); m != nil {
		if k, err := strconv.Atoi(m[1]); err == nil && k >= 1 && k <= n {
			return k - 1, true
		}
	}
	for _, loc := range indexDigitsRe.FindAllStringIndex(s, -1) {
		if !standaloneNumber(s, loc[0], loc[1]) {
			continue
		}
		if k, err := strconv.Atoi(s[loc[0]:loc[1]]); err == nil && k >= 1 && k <= n {
			return k - 1, true
		}
	}
	return 0, false
}

// standaloneNumber rejects digits glued to letters or joined by - or /,
// as in "n3", "ac-3" or "d/2".
func standaloneNumber(s string, start, end int) bool {
	if start > 0 {
		switch c := s[start-1]; {
		case c == '-' || c == '/' || c == '_' || c == '.':
			return false
		case c >= 'a' && c <= 'z':
			return false
		}
	}
	if end < len(s) {
		switch c := s[end]; {
		case c == '-' || c == '/' || c == '_':
			return false
		case c >= 'a' && c <= 'z':
			return false
		}
	}
	return true
}

func optionText(s string, opts []string) (int, bool) {
	for i, o := range opts {
		if s == o {
			return i, true
		}
	}
	for i, o := range opts {
		if o != "" && textnorm.ContainsWord(s, o) {
			return i, true
		}
	}
	if len(s) >= 3 {
		for i, o := range opts {
			if strings.Contains(o, s) {
				return i, true
			}
		}
	}
	return 0, false
}

func optionKeyword(s string, opts []string) (int, bool) {
	for i, o := range opts {
		for _, entry := range optionAliases {
			if !strings.Contains(o, entry.key) {
				continue
			}
			for _, alias := range entry.aliases {
				if textnorm.ContainsWord(s, alias) {
					return i, true
				}
			}
		}
	}
	return 0, false
}

func optionOverlap(s string, opts []string) (int, bool) {
	best, bestScore := -1, 0.0
	for i, o := range opts {
		var sig []string
		for _, w := range textnorm.Words(o) {
			if len(w) >= 3 && !overlapStopWords[w] {
				sig = append(sig, w)
			}
		}
		if len(sig) == 0 {
			continue
		}
		hits := 0
		for _, w := range sig {
			if strings.Contains(s, w) {
				hits++
			}
		}
		score := float64(hits) / float64(len(sig))
		if score >= 0.5 && score > bestScore {
			best, bestScore = i, score
		}
	}
	return best, best >= 0
}
