package extract

import (
	"strings"

	"github.com/abhisek/smartest/internal/textnorm"
)

// FoundKeywords returns the keywords present in answer, in keyword order.
// A keyword matches as a folded substring, or by its first word's 4-char
// stem when that word is at least 4 characters long.
func FoundKeywords(answer string, keywords []string) []string {
	folded := textnorm.Fold(answer)
	words := textnorm.Words(folded)
	var out []string
	for _, k := range keywords {
		if keywordMatch(folded, words, k) {
			out = append(out, k)
		}
	}
	return out
}

// HasKeyword reports whether a single keyword matches answer.
func HasKeyword(answer, keyword string) bool {
	folded := textnorm.Fold(answer)
	return keywordMatch(folded, textnorm.Words(folded), keyword)
}

func keywordMatch(folded string, words []string, keyword string) bool {
	k := strings.TrimSpace(textnorm.Fold(keyword))
	if k == "" {
		return false
	}
	if strings.Contains(folded, k) {
		return true
	}
	kw := textnorm.Words(k)
	if len(kw) == 0 || len([]rune(kw[0])) < 4 {
		return false
	}
	first := kw[0]
	stem := string([]rune(first)[:4])
	for _, w := range words {
		if len([]rune(w)) >= len([]rune(first)) && strings.HasPrefix(w, stem) {
			return true
		}
	}
	return false
}
