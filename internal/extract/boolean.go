package extract

import (
	"regexp"
	"strings"

	"github.com/abhisek/smartest/internal/textnorm"
)

var (
	trueWords  = []string{"true", "adevarat", "adevarata", "da", "yes", "1", "corect", "correct", "valid", "valida"}
	falseWords = []string{"false", "fals", "falsa", "nu", "no", "0", "gresit", "incorrect", "wrong", "invalid", "invalida"}

	// Short lists used when the answer is also compared by similarity.
	coreTrueWords  = []string{"true", "adevarat", "da", "yes", "1", "corect"}
	coreFalseWords = []string{"false", "fals", "nu", "no", "0", "gresit"}

	truePhraseRe  = regexp.MustCompile(`\b(?:este|is|e)\s+(?:adevarat|adevarata|true|corect|correct|da)\b|\braspunsul\s+(?:este|e)\s+(?:adevarat|da|corect)\b|\bafirmatia\s+(?:este|e)\s+adevarata\b`)
	falsePhraseRe = regexp.MustCompile(`\b(?:este|is|e)\s+(?:fals|falsa|false|gresit|gresita|incorrect|wrong)\b|\braspunsul\s+(?:este|e)\s+(?:fals|nu|gresit)\b|\bafirmatia\s+(?:este|e)\s+falsa\b`)
)

// Boolean reads a true/false verdict. True vocabulary is checked before
// false, so an answer that mentions both reads as true.
func Boolean(answer string) (bool, bool) {
	s := strings.TrimSpace(textnorm.Fold(answer))
	if s == "" {
		return false, false
	}
	if truePhraseRe.MatchString(s) || anyWord(s, trueWords) {
		return true, true
	}
	if falsePhraseRe.MatchString(s) || anyWord(s, falseWords) {
		return false, true
	}
	// Glued or inflected forms such as "adevaratul". Short words are
	// skipped here since "da" and "no" occur inside too many others.
	for _, w := range trueWords {
		if len(w) >= 4 && strings.Contains(s, w) {
			return true, true
		}
	}
	for _, w := range falseWords {
		if len(w) >= 4 && strings.Contains(s, w) {
			return false, true
		}
	}
	return false, false
}

// CoreBoolean is Boolean restricted to the basic yes/no vocabulary.
func CoreBoolean(answer string) (bool, bool) {
	s := strings.TrimSpace(textnorm.Fold(answer))
	switch {
	case s == "":
		return false, false
	case anyWord(s, coreTrueWords):
		return true, true
	case anyWord(s, coreFalseWords):
		return false, true
	}
	return false, false
}

func anyWord(s string, words []string) bool {
	for _, w := range words {
		if textnorm.ContainsWord(s, w) {
			return true
		}
	}
	return false
}
