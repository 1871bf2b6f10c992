package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/abhisek/smartest/internal/textnorm"
)

// Split is an answer cut into its main claim and the reasoning behind it.
// Both parts are folded.
type Split struct {
	Main          string
	Justification string
	// Has is set when the justification is long enough to grade.
	Has bool
	// Separator is what the answer was split on, or "implicit".
	Separator string
}

var justificationSeparators = compileAll(
	`\bdeoarece\b`,
	`\bpentru ca\b`,
	`\bbecause\b`,
	`\bmotivul este\b`,
	`\bthe reason is\b`,
	`\bexplicatia este\b`,
	`\bthe explanation is\b`,
	`\bjustificarea este\b`,
	`\bthe justification is\b`,
	`\bsince\b`,
	`\bintrucat\b`,
	`\bmotiv\b`,
	`\bmotivul\b`,
	`\breason\b`,
	`\bexplicatie\b`,
	`\bexplanation\b`,
	`\bjustificare\b`,
	`\bjustification\b`,
	`\s*:\s*`,
	`\s+-\s*|\b-\s+`,
	`\s*,\s*si\s+`,
	`\s*,\s+and\s+`,
)

var (
	leadingJunkRe = regexp.MustCompile(`^[:\-,\s]+`)

	shortLeads = map[string]bool{
		"da": true, "nu": true, "yes": true, "no": true, "true": true, "false": true,
		"adevarat": true, "fals": true, "corect": true, "gresit": true, "correct": true,
		"wrong": true, "incorrect": true, "este": true, "is": true,
	}
	shortLeadPhrases = []string{"nu este", "nu e", "is not", "isn't"}

	justifyIndicatorRe = regexp.MustCompile(`justifica|justify|\bsi explica|\band explain|explica de ce|explain why|de ce.*explica|why.*explain|motiv.*explica|reason.*explain|ratiune|rationale|argumenteaza|\bargue|demonstreaza|demonstrate|prezinta (?:ratiunea|motivul)`)
)

const minJustification = 10

// SplitJustification separates the answer from its justification. The
// first separator in list order decides; a separator at the very start
// of the answer means no explicit split.
func SplitJustification(answer string) Split {
	s := strings.TrimSpace(textnorm.Fold(answer))
	if s == "" {
		return Split{}
	}
	for _, re := range justificationSeparators {
		loc := re.FindStringIndex(s)
		if loc == nil {
			continue
		}
		if loc[0] > 0 {
			return newSplit(s[:loc[0]], s[loc[1]:], strings.TrimSpace(s[loc[0]:loc[1]]))
		}
		break
	}
	if sp, ok := implicitSplit(s); ok {
		return sp
	}
	return Split{Main: s}
}

func newSplit(main, just, sep string) Split {
	just = strings.TrimSpace(leadingJunkRe.ReplaceAllString(just, ""))
	return Split{
		Main:          strings.TrimRight(strings.TrimSpace(main), " ,;:-"),
		Justification: just,
		Has:           len(just) > minJustification,
		Separator:     sep,
	}
}

// implicitSplit handles "da, algoritmul ..." style answers with no
// connective, and long answers whose first sentence is the claim.
func implicitSplit(s string) (Split, bool) {
	words := strings.Fields(s)
	if len(words) <= 5 {
		return Split{}, false
	}
	if leadsShort(words) {
		cut := 1
		for i := 0; i < 5 && i < len(words); i++ {
			w := strings.Trim(words[i], ".,;:!?")
			if shortLeads[w] || isNumeric(w) {
				cut = i + 1
				break
			}
		}
		return newSplit(strings.Join(words[:cut], " "), strings.Join(words[cut:], " "), "implicit"), true
	}
	if len(words) > 8 {
		for i := 3; i < len(words)-3; i++ {
			if strings.HasSuffix(words[i], ".") || strings.HasSuffix(words[i], "?") || strings.HasSuffix(words[i], "!") {
				return newSplit(strings.Join(words[:i+1], " "), strings.Join(words[i+1:], " "), "implicit"), true
			}
		}
	}
	return Split{}, false
}

func leadsShort(words []string) bool {
	head := words[:min(3, len(words))]
	for _, w := range head {
		if shortLeads[strings.Trim(w, ".,;:!?")] {
			return true
		}
	}
	joined := strings.Join(head, " ")
	for _, p := range shortLeadPhrases {
		if strings.Contains(joined, p) {
			return true
		}
	}
	for _, w := range words[:min(2, len(words))] {
		if isNumeric(strings.Trim(w, ".,;:!?")) {
			return true
		}
	}
	return false
}

func isNumeric(w string) bool {
	_, err := strconv.ParseFloat(w, 64)
	return err == nil
}

// AsksForJustification reports whether a question text asks the student
// to justify or explain the answer.
func AsksForJustification(question string) bool {
	return justifyIndicatorRe.MatchString(textnorm.Fold(question))
}
