// Package diagnosis reads the student's stance toward an answer (does not
// know, is unsure, knows part of it) and the intent behind a chat message.
// Both are ordered rule chains where the first match wins.
package diagnosis

import (
	"strings"

	"github.com/abhisek/smartest/internal/textnorm"
)

// Classifier is a rule-based uncertainty classifier. It returns a category
// and confidence, or ("", 0) when the rule does not apply.
type Classifier interface {
	Name() string
	Classify(input *ClassifyInput) (Category, float64)
}

// DefaultClassifiers returns classifiers in priority order. A message
// that admits ignorance outranks hedging, which outranks "I know part".
func DefaultClassifiers() []Classifier {
	return []Classifier{
		&phraseClassifier{name: "unknown", category: CategoryUnknown, confidence: 0.95, phrases: unknownPhrases, unless: partialPhrases},
		&phraseClassifier{name: "uncertain", category: CategoryUncertain, confidence: 0.8, phrases: uncertainPhrases, leading: uncertainLeading, unless: partialPhrases},
		&phraseClassifier{name: "partial-knowledge", category: CategoryPartialKnowledge, confidence: 0.7, phrases: partialPhrases},
	}
}

// RunClassifiers executes classifiers in order and returns the first match,
// or ("", 0, "") when none apply.
func RunClassifiers(classifiers []Classifier, input *ClassifyInput) (Category, float64, string) {
	for _, c := range classifiers {
		cat, conf := c.Classify(input)
		if cat != "" {
			return cat, conf, c.Name()
		}
	}
	return "", 0, ""
}

// Classify runs the default chain over a raw answer. Answers that match
// nothing are CategoryConfident.
func Classify(answer string) Result {
	input := &ClassifyInput{Answer: answer, Folded: textnorm.Fold(strings.TrimSpace(answer))}
	chain := DefaultClassifiers()
	cat, conf, name := RunClassifiers(chain, input)
	if cat == "" {
		return Result{Category: CategoryConfident, Confidence: 1, ClassifierName: "none"}
	}
	res := Result{Category: cat, Confidence: conf, ClassifierName: name}
	for _, c := range chain {
		if pc, ok := c.(*phraseClassifier); ok && c.Name() == name {
			res.Matched = pc.match(input.Folded)
			break
		}
	}
	return res
}

type phraseClassifier struct {
	name       string
	category   Category
	confidence float64
	phrases    []string
	// leading phrases only count at the very start of the answer
	leading []string
	// unless suppresses the rule when a more specific phrase is present,
	// so "nu stiu tot" reads as partial knowledge rather than ignorance
	unless []string
}

func (c *phraseClassifier) Name() string { return c.name }

func (c *phraseClassifier) Classify(input *ClassifyInput) (Category, float64) {
	folded := input.Folded
	if folded == "" && input.Answer != "" {
		folded = textnorm.Fold(input.Answer)
	}
	if c.match(folded) != "" {
		return c.category, c.confidence
	}
	return "", 0
}

func (c *phraseClassifier) match(folded string) string {
	for _, p := range c.unless {
		if textnorm.ContainsWord(folded, p) {
			return ""
		}
	}
	for _, p := range c.phrases {
		if textnorm.ContainsWord(folded, p) {
			return p
		}
	}
	for _, p := range c.leading {
		if folded == p || strings.HasPrefix(folded, p+" ") || strings.HasPrefix(folded, p+",") {
			return p
		}
	}
	return ""
}

// Phrase lists are folded: no diacritics, lowercase.
var unknownPhrases = []string{
	"nu stiu", "nu cunosc", "nu am idee", "habar nu am", "nu am nici o idee", "nu am nicio idee",
	"don't know", "dont know", "do not know", "no idea", "no clue", "have no idea",
	"clueless", "no knowledge",
}

var uncertainPhrases = []string{
	"nu sunt sigur", "nu sunt sigura", "not sure", "possibly", "maybe", "perhaps",
	"probabil", "probably", "cred ca", "presupun", "assume", "guess", "not convinced",
	"poate ca", "partial",
}

// "poate" also means "can", so alone it only hedges at the start.
var uncertainLeading = []string{"poate"}

var partialPhrases = []string{
	"stiu doar", "know only", "only know", "stiu partial", "partial knowledge",
	"nu stiu tot", "don't know everything", "am o idee", "have an idea", "stiu ceva",
}
