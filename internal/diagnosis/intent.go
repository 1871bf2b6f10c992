package diagnosis

import (
	"regexp"
	"strings"

	"github.com/abhisek/smartest/internal/textnorm"
)

// Intent is what a chat message asks for.
type Intent string

const (
	IntentNone           Intent = ""
	IntentEmpty          Intent = "empty"
	IntentGreeting       Intent = "greeting"
	IntentHowAreYou      Intent = "how_are_you"
	IntentPurpose        Intent = "purpose"
	IntentThanks         Intent = "thanks"
	IntentShowTable      Intent = "show_table"
	IntentSolveNash      Intent = "solve_nash"
	IntentSolveAlphaBeta Intent = "solve_alpha_beta"
	IntentGenerate       Intent = "generate"
	IntentVerbHint       Intent = "verb_hint"
)

// IntentResult carries the detected intent and, for generate and hint
// intents, the exercise family it names.
type IntentResult struct {
	Intent Intent
	Domain string
	Rule   string
}

// IntentRule recognizes one intent from folded text.
type IntentRule interface {
	Name() string
	Match(folded string) (IntentResult, bool)
}

// DefaultIntentRules returns the chat rules in priority order.
func DefaultIntentRules() []IntentRule {
	return []IntentRule{
		greetingRule{},
		phraseRule{name: "how-are-you", intent: IntentHowAreYou, phrases: []string{"ce faci", "cum esti", "how are you"}},
		phraseRule{name: "purpose", intent: IntentPurpose, phrases: []string{"scopul tau", "ce poti face", "what can you do", "who are you", "cine esti"}},
		phraseRule{name: "thanks", intent: IntentThanks, phrases: []string{"multumesc", "mersi", "thanks", "thank you"}},
		phraseRule{name: "show-table", intent: IntentShowTable, phrases: []string{"arata tabelul", "detalii arbore", "tabel minmax", "show table", "show the table"}},
		inlineNashRule{},
		inlineAlphaBetaRule{},
		domainRule{name: "generate", intent: IntentGenerate, triggers: generateTriggers},
		domainRule{name: "verb-hint", intent: IntentVerbHint, triggers: verbTriggers},
	}
}

// DetectIntent folds text and runs the default rules.
func DetectIntent(text string) IntentResult {
	folded := textnorm.Fold(strings.TrimSpace(text))
	if folded == "" {
		return IntentResult{Intent: IntentEmpty, Rule: "empty"}
	}
	for _, r := range DefaultIntentRules() {
		if res, ok := r.Match(folded); ok {
			res.Rule = r.Name()
			return res
		}
	}
	return IntentResult{Intent: IntentNone}
}

// DetectDomain returns the exercise family named in folded text, or "".
func DetectDomain(folded string) string {
	switch {
	case textnorm.ContainsWord(folded, "nash"):
		return "nash"
	case alphaBetaWordRe.MatchString(folded):
		return "minmax"
	case textnorm.ContainsWord(folded, "csp"):
		return "csp"
	case strategyWordRe.MatchString(folded):
		return "strategy"
	}
	return ""
}

var (
	alphaBetaWordRe = regexp.MustCompile(`\b(alpha[\s-]*beta|alfa[\s-]*beta|minmax|minimax|min-max)\b`)
	strategyWordRe  = regexp.MustCompile(`\b(strategie|strategia|strategy|strategii)\b`)
)

var generateTriggers = []string{
	"da-mi", "dami", "da mi", "genereaza", "generate", "give me", "vreau o problema", "new problem",
}

var verbTriggers = []string{
	"calculeaza", "determina", "rezolva", "gaseste", "afla", "problema", "exercitiu",
	"calculate", "determine", "solve", "find", "compute",
}

type greetingRule struct{}

func (greetingRule) Name() string { return "greeting" }

func (greetingRule) Match(folded string) (IntentResult, bool) {
	words := textnorm.Words(folded)
	if len(words) == 0 || len(words) > 3 {
		return IntentResult{}, false
	}
	for _, w := range words {
		switch w {
		case "salut", "buna", "hello", "hi", "hey", "ceau", "hei", "servus":
			return IntentResult{Intent: IntentGreeting}, true
		}
	}
	return IntentResult{}, false
}

type phraseRule struct {
	name    string
	intent  Intent
	phrases []string
}

func (r phraseRule) Name() string { return r.name }

func (r phraseRule) Match(folded string) (IntentResult, bool) {
	for _, p := range r.phrases {
		if textnorm.ContainsWord(folded, p) {
			return IntentResult{Intent: r.intent}, true
		}
	}
	return IntentResult{}, false
}

var nashCellRe = regexp.MustCompile(`\(\s*[-+]?\d+\s*,\s*[-+]?\d+\s*\)`)

// inlineNashRule matches "payoff nash ..." messages that carry a matrix.
type inlineNashRule struct{}

func (inlineNashRule) Name() string { return "inline-nash" }

func (inlineNashRule) Match(folded string) (IntentResult, bool) {
	mentions := (strings.Contains(folded, "payoff") && strings.Contains(folded, "nash")) ||
		strings.Contains(folded, "matricea nash") || strings.Contains(folded, "matrice nash")
	if mentions && (nashCellRe.MatchString(folded) || strings.Contains(folded, "[[")) {
		return IntentResult{Intent: IntentSolveNash, Domain: "nash"}, true
	}
	return IntentResult{}, false
}

var (
	depthParamRe  = regexp.MustCompile(`depth\s*[:=]`)
	branchParamRe = regexp.MustCompile(`(branching|branch)\s*[:=]`)
	leavesParamRe = regexp.MustCompile(`leaves?\s*[:=]\s*\[`)
	abWordRe      = regexp.MustCompile(`alpha|beta|alfa|minmax|minimax`)
)

type inlineAlphaBetaRule struct{}

func (inlineAlphaBetaRule) Name() string { return "inline-alpha-beta" }

func (inlineAlphaBetaRule) Match(folded string) (IntentResult, bool) {
	if abWordRe.MatchString(folded) && depthParamRe.MatchString(folded) &&
		branchParamRe.MatchString(folded) && leavesParamRe.MatchString(folded) {
		return IntentResult{Intent: IntentSolveAlphaBeta, Domain: "minmax"}, true
	}
	return IntentResult{}, false
}

// domainRule fires when a trigger phrase and an exercise family co-occur.
type domainRule struct {
	name     string
	intent   Intent
	triggers []string
}

func (r domainRule) Name() string { return r.name }

func (r domainRule) Match(folded string) (IntentResult, bool) {
	domain := DetectDomain(folded)
	if domain == "" {
		return IntentResult{}, false
	}
	for _, t := range r.triggers {
		if textnorm.ContainsWord(folded, t) {
			return IntentResult{Intent: r.intent, Domain: domain}, true
		}
	}
	return IntentResult{}, false
}
