package similarity

import (
	"sort"
	"strings"

	"github.com/agext/levenshtein"
)

var levParams = levenshtein.NewParams()

// ratio is the normalized edit similarity of a and b in [0,1].
func ratio(a, b string) float64 {
	return levenshtein.Similarity(a, b, levParams)
}

// partialRatio slides the shorter string over the longer one and keeps
// the best window ratio.
func partialRatio(a, b string) float64 {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		if len(long) == 0 {
			return 1
		}
		return 0
	}

	best := 0.0
	s := string(short)
	for i := 0; i+len(short) <= len(long); i++ {
		r := ratio(s, string(long[i:i+len(short)]))
		if r > best {
			best = r
			if best == 1 {
				break
			}
		}
	}
	return best
}

// tokenSortRatio compares the words of a and b after sorting them.
func tokenSortRatio(a, b string) float64 {
	return ratio(sortedTokens(a), sortedTokens(b))
}

func sortedTokens(s string) string {
	words := strings.Fields(s)
	sort.Strings(words)
	return strings.Join(words, " ")
}

// fuzzyScore blends the three edit-distance ratios.
func fuzzyScore(a, b string) float64 {
	return 0.3*ratio(a, b) + 0.4*partialRatio(a, b) + 0.3*tokenSortRatio(a, b)
}

// positionalScore is the dependency-free last resort: the share of rune
// positions that hold the same character, over the longer length.
func positionalScore(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	longest := max(len(ra), len(rb))
	if longest == 0 {
		return 1
	}
	same := 0
	for i := range min(len(ra), len(rb)) {
		if ra[i] == rb[i] {
			same++
		}
	}
	return float64(same) / float64(longest)
}
