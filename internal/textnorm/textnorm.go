// Package textnorm holds the small text helpers shared by the extractors,
// graders and the similarity oracle: diacritic folding, tokenizing and
// bilingual number words.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize trims and lowercases s.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Fold lowercases s and strips combining marks, so "Rădăcină" and
// "radacina" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(out)
}

var (
	wordRe  = regexp.MustCompile(`[\p{L}\p{N}]+`)
	spaceRe = regexp.MustCompile(`\s+`)
)

// Words returns the letter/digit runs of s, lowercased.
func Words(s string) []string {
	return wordRe.FindAllString(strings.ToLower(s), -1)
}

// CollapseSpace replaces every whitespace run with a single space.
func CollapseSpace(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// ContainsWord reports whether needle occurs in haystack delimited by
// non-word characters on both sides. Both are compared as given, callers
// fold beforehand when diacritics should not matter.
func ContainsWord(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	from := 0
	for {
		idx := strings.Index(haystack[from:], needle)
		if idx < 0 {
			return false
		}
		start := from + idx
		end := start + len(needle)
		if boundaryBefore(haystack, start) && boundaryAfter(haystack, end) {
			return true
		}
		from = start + 1
		if from >= len(haystack) {
			return false
		}
	}
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r := lastRune(s[:i])
	return !isWordRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r := []rune(s[i:])[0]
	return !isWordRune(r)
}

func lastRune(s string) rune {
	rs := []rune(s)
	return rs[len(rs)-1]
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// Truncate cuts s to at most n runes, appending "..." when it was cut.
func Truncate(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n]) + "..."
}

// numberWords maps Romanian and English number words (folded) to values.
var numberWords = map[string]int{
	"unu": 1, "una": 1, "one": 1, "first": 1, "primul": 1, "prima": 1, "intai": 1,
	"doi": 2, "doua": 2, "doilea": 2, "two": 2, "second": 2,
	"trei": 3, "treia": 3, "treilea": 3, "three": 3, "third": 3,
	"patru": 4, "patra": 4, "patrulea": 4, "four": 4, "fourth": 4,
	"cinci": 5, "cincea": 5, "cincilea": 5, "five": 5, "fifth": 5,
	"sase": 6, "sasea": 6, "saselea": 6, "six": 6, "sixth": 6,
	"sapte": 7, "saptea": 7, "saptelea": 7, "seven": 7, "seventh": 7,
	"opt": 8, "opta": 8, "optulea": 8, "eight": 8, "eighth": 8,
	"noua": 9, "noualea": 9, "nine": 9, "ninth": 9,
	"zece": 10, "zecea": 10, "zecelea": 10, "ten": 10, "tenth": 10,
}

// NumberWord returns the value of a single number word, diacritics ignored.
func NumberWord(w string) (int, bool) {
	v, ok := numberWords[Fold(strings.TrimSpace(w))]
	return v, ok
}
