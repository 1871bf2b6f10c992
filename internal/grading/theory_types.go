package grading

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/abhisek/smartest/internal/extract"
	"github.com/abhisek/smartest/internal/problemgen"
	"github.com/abhisek/smartest/internal/textnorm"
)

var (
	justificationWords = []string{
		"deoarece", "pentru ca", "because", "since", "motiv", "ratiune", "justificare",
		"justification", "reason", "explicatie", "explanation", "cauza",
	}
	exampleIndicators = []string{
		"exemplu", "example", "instanta", "instance", "caz", "case", "situatie",
		"situation", "de exemplu", "for example", "e.g.", "ex:", "cum ar fi",
	}
	comparisonWords = []string{
		"while", "whereas", "unlike", "compared", "both", "than", "but", "however",
		"in timp ce", "spre deosebire", "comparativ", "ambele", "decat", "dar", "insa", "difera", "differ",
	}
	calculationWords = []string{
		"complexitate", "complexity", "o(", "big o", "theta", "omega", "exponential",
		"exponentiala", "polynomial", "polinomial", "logarithmic", "logaritmic", "linear",
		"liniar", "constant", "patratic", "quadratic",
	}
	nashConcepts = []string{"nash", "echilibru", "equilibrium", "best response", "cel mai bun raspuns"}

	negInfinity = []string{"minus infinit", "-infinit", "-inf", "negative infinity", "minus infinity", "-∞"}
	posInfinity = []string{"plus infinit", "+infinit", "+inf", "positive infinity", "plus infinity", "+∞", "infinit", "infinity", "∞"}

	numberRe = regexp.MustCompile(`-?\d+(?:[.,]\d+)?`)
)

// shortStair maps similarity to a score for free-text answers.
func shortStair(s float64) int {
	switch {
	case s >= 0.80:
		return 100
	case s >= 0.65:
		return min(100, int(85+(s-0.65)*100))
	case s >= 0.50:
		return min(85, int(70+(s-0.5)*100))
	case s >= 0.40:
		return min(70, int(50+(s-0.4)*200))
	}
	return 0
}

func compareStair(s float64) int {
	switch {
	case s >= 0.80:
		return 100
	case s >= 0.65:
		return int(85 + (s-0.65)/0.15*15)
	case s >= 0.50:
		return int(70 + (s-0.5)/0.15*15)
	}
	return 0
}

func definitionStair(s float64) int {
	if s >= 0.40 && s < 0.50 {
		return int(50 + (s-0.4)/0.1*20)
	}
	return compareStair(s)
}

// blankStair serves fill-in-the-blank and example answers.
func blankStair(s float64) int {
	switch {
	case s >= 0.70:
		return min(100, int(70+s*30))
	case s >= 0.50:
		return int(50 + (s-0.5)*100)
	}
	return 0
}

func ratio(f, n int) float64 {
	if n == 0 {
		return 1
	}
	return float64(f) / float64(n)
}

func minKeywords(q *problemgen.TheoryQuestion, def, n int) int {
	if q.MinKeywords > 0 {
		return min(q.MinKeywords, n)
	}
	return min(def, n)
}

func anyPhrase(folded string, phrases []string) bool {
	for _, p := range phrases {
		p = textnorm.Fold(p)
		if strings.ContainsAny(p, ".:(") {
			if strings.Contains(folded, p) {
				return true
			}
			continue
		}
		if textnorm.ContainsWord(folded, p) {
			return true
		}
	}
	return false
}

func coverage(found []string, keywords []string) string {
	var missing []string
	have := map[string]bool{}
	for _, f := range found {
		have[f] = true
	}
	for _, k := range keywords {
		if !have[k] {
			missing = append(missing, k)
		}
	}
	var b strings.Builder
	if len(found) > 0 {
		fmt.Fprintf(&b, " You covered: %s.", strings.Join(found, ", "))
	}
	if len(missing) > 0 {
		fmt.Fprintf(&b, " Also relevant: %s.", strings.Join(missing, ", "))
	}
	return b.String()
}

// semanticVerdict scores an answer whose similarity reached the first
// band. Keyword coverage is only consulted below it.
func semanticVerdict(score int) verdict {
	var fb string
	switch {
	case score >= 100:
		fb = "Excellent! Your answer is correct in meaning."
	case score >= 85:
		fb = "Correct! Your answer expresses the main idea."
	case score >= 70:
		fb = "Good answer. It is partly correct in meaning."
	default:
		fb = "Partial answer. It makes sense but is not complete."
	}
	return verdict{score: score, feedback: fb}
}

func scoreFeedback(score int) string {
	switch {
	case score >= 100:
		return "Excellent answer!"
	case score >= 75:
		return "Good answer."
	case score >= 50:
		return "Partially correct."
	case score > 0:
		return "Your answer touches the topic but misses key points."
	}
	return "Incorrect."
}

func multipleChoice(q *problemgen.TheoryQuestion, answer string, res *Result) verdict {
	opts := q.Options
	correctIdx := -1
	if q.CorrectIndex != nil && *q.CorrectIndex >= 0 && *q.CorrectIndex < len(opts) {
		correctIdx = *q.CorrectIndex
	} else {
		for i, o := range opts {
			if textnorm.Fold(o) == textnorm.Fold(q.CorrectAnswer) {
				correctIdx = i
				break
			}
		}
	}
	correctText := q.CorrectAnswer
	if correctIdx >= 0 {
		correctText = opts[correctIdx]
	}
	a := strings.TrimSpace(textnorm.Fold(answer))
	c := strings.TrimSpace(textnorm.Fold(correctText))
	right := verdict{score: 100, feedback: fmt.Sprintf("Correct! The answer is %s.", correctText)}
	pick := func(i int) verdict {
		res.Selected = opts[i]
		if i == correctIdx {
			return right
		}
		return verdict{feedback: fmt.Sprintf("You selected %s, but the correct answer is %s.", opts[i], correctText)}
	}

	if n, err := strconv.Atoi(strings.Trim(a, ".)")); err == nil && n >= 1 && n <= len(opts) {
		return pick(n - 1)
	}
	switch {
	case a == "":
		return verdict{feedback: fmt.Sprintf("Answer with the option number (1-%d) or its text.", len(opts))}
	case a == c:
		return right
	case len(c) >= 3 && strings.Contains(a, c):
		return right
	}
	if len(c) > 5 {
		words := textnorm.Words(c)
		hits := 0
		for _, w := range words {
			if textnorm.ContainsWord(a, w) {
				hits++
			}
		}
		if len(words) > 0 && float64(hits) >= 0.7*float64(len(words)) {
			return verdict{score: 85, feedback: fmt.Sprintf("Almost exactly right. The answer is %s.", correctText)}
		}
	}
	if choice, ok := extract.OptionChoice(answer, opts); ok {
		return pick(choice.Index)
	}
	if len(a) >= 3 && strings.Contains(c, a) {
		return verdict{score: 75, feedback: fmt.Sprintf("On the right track. The full answer is %s.", correctText)}
	}
	if found := extract.FoundKeywords(answer, q.Keywords); len(found) > 0 {
		return verdict{score: 20, found: found, feedback: fmt.Sprintf("You mention relevant ideas, but the answer is %s.", correctText)}
	}
	return verdict{feedback: fmt.Sprintf("Incorrect. The correct answer is %s.", correctText)}
}

func (g *Grader) trueFalse(ctx context.Context, q *problemgen.TheoryQuestion, answer string, res *Result) verdict {
	if q.CorrectBool == nil {
		return g.shortAnswer(ctx, q, answer, res)
	}
	want := *q.CorrectBool
	label := map[bool]string{true: "True", false: "False"}[want]

	if s, ok := g.semantic(ctx, q, answer, res); ok && s >= 0.60 {
		if b, ok := extract.CoreBoolean(answer); ok && b == want {
			return verdict{score: min(100, int(80+s*20)), feedback: fmt.Sprintf("Correct! The statement is %s.", label)}
		}
	}
	b, ok := extract.Boolean(answer)
	switch {
	case !ok:
		return verdict{feedback: "I could not tell whether you meant true or false. Answer with true/false (adevărat/fals)."}
	case b == want:
		return verdict{score: 100, feedback: fmt.Sprintf("Correct! The statement is %s.", label)}
	}
	return verdict{feedback: fmt.Sprintf("Incorrect. The statement is %s.", label)}
}

func (g *Grader) fillBlank(ctx context.Context, q *problemgen.TheoryQuestion, answer string, res *Result) verdict {
	if len(q.CorrectAnswers) == 0 {
		return verdict{feedback: "This question has no accepted answers configured."}
	}
	norm := func(s string) string {
		if q.CaseSensitive {
			return strings.TrimSpace(s)
		}
		return strings.TrimSpace(textnorm.Fold(s))
	}
	a := norm(answer)
	first := strings.Join(q.CorrectAnswers[0], ", ")
	if a == "" {
		return verdict{feedback: "Fill in the blank. The answer is " + first + "."}
	}

	for _, variant := range q.CorrectAnswers {
		if len(variant) == 1 {
			v := norm(variant[0])
			if a == v || blankPresent(a, v) {
				return verdict{score: 100, feedback: "Correct!"}
			}
			continue
		}
		all := true
		for _, v := range variant {
			if !blankPresent(a, norm(v)) {
				all = false
				break
			}
		}
		if all {
			return verdict{score: 100, feedback: "Correct!"}
		}
	}

	if s, ok := g.semantic(ctx, q, answer, res); ok {
		if score := blankStair(s); score > 0 {
			return verdict{score: score, feedback: fmt.Sprintf("Close. The expected answer is %s.", first)}
		}
	}

	best, total := 0, 0
	for _, variant := range q.CorrectAnswers {
		if len(variant) < 2 {
			continue
		}
		m := 0
		for _, v := range variant {
			if blankPresent(a, norm(v)) {
				m++
			}
		}
		if m > best {
			best, total = m, len(variant)
		}
	}
	if best > 0 {
		return verdict{
			score:    best * 100 / total,
			feedback: fmt.Sprintf("Partially correct (%d/%d). The full answer is %s.", best, total, first),
		}
	}
	return verdict{feedback: "Incorrect. The answer is " + first + "."}
}

// blankPresent reports whether value v is in answer a, accepting the
// usual spellings of infinity.
func blankPresent(a, v string) bool {
	if v == "" {
		return false
	}
	if strings.Contains(a, v) {
		return true
	}
	for _, forms := range [][]string{negInfinity, posInfinity} {
		if !containsString(forms, v) {
			continue
		}
		for _, f := range forms {
			if strings.Contains(a, f) {
				return true
			}
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

func hasContent(answer string) bool {
	t := strings.TrimSpace(answer)
	if len(t) < 3 {
		return false
	}
	for _, r := range t {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func (g *Grader) shortAnswer(ctx context.Context, q *problemgen.TheoryQuestion, answer string, res *Result) verdict {
	if len(q.Keywords) == 0 && q.CorrectAnswer == "" {
		return verdict{feedback: "This question has no reference answer configured."}
	}
	if !hasContent(answer) {
		return verdict{feedback: "Your answer is too short to grade. Write a sentence or two."}
	}
	if s, ok := g.semantic(ctx, q, answer, res); ok {
		if score := shortStair(s); score > 0 {
			return semanticVerdict(score)
		}
	}

	found := extract.FoundKeywords(answer, q.Keywords)
	n, f := len(q.Keywords), len(found)
	need := minKeywords(q, 2, n)
	kw := 0
	switch {
	case n > 0 && f == n:
		kw = 100
	case n > 0 && f >= need:
		kw = max(75, int(ratio(f, n)*100))
	case f > 0:
		kw = int(float64(f) / float64(max(1, need)) * 70)
	case len(strings.Fields(answer)) >= 5:
		kw = 15
	}
	score := kw
	return verdict{score: score, found: found, feedback: scoreFeedback(score) + coverage(found, q.Keywords)}
}

func (g *Grader) justification(ctx context.Context, q *problemgen.TheoryQuestion, answer string, res *Result) verdict {
	if !hasContent(answer) {
		return verdict{feedback: "too short to grade."}
	}
	if s, ok := g.semantic(ctx, q, answer, res); ok {
		if score := shortStair(s); score > 0 {
			return semanticVerdict(score)
		}
	}
	all := dedupe(append(append([]string(nil), q.Keywords...), q.RequiredConcepts...))
	found := extract.FoundKeywords(answer, all)
	n, f := len(all), len(found)
	need := minKeywords(q, 2, n)
	kw := 0
	if n > 0 {
		reasoned := anyPhrase(textnorm.Fold(answer), justificationWords)
		switch {
		case reasoned && f >= need:
			kw = min(85, max(60, int(ratio(f, n)*85)))
		case f >= need:
			kw = int(ratio(f, n) * 80)
		case f > 0:
			kw = int(float64(f) / float64(max(1, need)) * 60)
		}
	}
	score := kw
	return verdict{score: score, found: found, feedback: scoreFeedback(score) + coverage(found, all)}
}

func (g *Grader) example(ctx context.Context, q *problemgen.TheoryQuestion, answer string, res *Result) verdict {
	if !hasContent(answer) {
		return verdict{feedback: "Your answer is too short to grade. Describe a concrete example."}
	}
	if s, ok := g.semantic(ctx, q, answer, res); ok {
		if score := blankStair(s); score > 0 {
			return semanticVerdict(score)
		}
	}
	keywords := q.Keywords
	if len(keywords) == 0 {
		keywords = derivedKeywords(q.CorrectAnswer)
	}
	found := extract.FoundKeywords(answer, keywords)
	n, f := len(keywords), len(found)
	need := minKeywords(q, 2, n)
	kw := 0
	if n > 0 {
		indicated := anyPhrase(textnorm.Fold(answer), append(exampleIndicators, q.ExampleTypes...))
		switch {
		case indicated && f >= need:
			kw = min(100, int(ratio(f, n)*100))
		case f >= need:
			kw = int(ratio(f, n) * 75)
		case f > 0:
			kw = int(float64(f) / float64(max(1, need)) * 50)
		}
	}
	score := kw
	return verdict{score: score, found: found, feedback: scoreFeedback(score) + coverage(found, keywords)}
}

// derivedKeywords picks the first five long words of the reference answer.
func derivedKeywords(reference string) []string {
	var out []string
	seen := map[string]bool{}
	for _, w := range textnorm.Words(textnorm.Fold(reference)) {
		if len([]rune(w)) <= 4 || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
		if len(out) == 5 {
			break
		}
	}
	return out
}

func (g *Grader) comparison(ctx context.Context, q *problemgen.TheoryQuestion, answer string, res *Result) verdict {
	if len(q.ConceptsToCompare) < 2 {
		return g.shortAnswer(ctx, q, answer, res)
	}
	if !hasContent(answer) {
		return verdict{feedback: "Your answer is too short to grade. Compare both concepts."}
	}
	if s, ok := g.semantic(ctx, q, answer, res); ok {
		if score := compareStair(s); score > 0 {
			return semanticVerdict(score)
		}
	}
	a, b := q.ConceptsToCompare[0], q.ConceptsToCompare[1]
	hasA, hasB := extract.HasKeyword(answer, a), extract.HasKeyword(answer, b)
	compares := anyPhrase(textnorm.Fold(answer), append(comparisonWords, q.ComparisonKeywords...))

	found := extract.FoundKeywords(answer, q.Keywords)
	n, f := len(q.Keywords), len(found)
	need := minKeywords(q, 3, n)
	kw := 0
	switch {
	case hasA && hasB && compares && f >= need:
		kw = min(100, int(ratio(f, n)*100))
	case hasA && hasB && f >= need:
		kw = int(ratio(f, n) * 80)
	case (hasA || hasB) && f > 0:
		kw = int(float64(f) / float64(max(1, need)) * 60)
	}
	score := kw
	fb := scoreFeedback(score)
	if !hasA || !hasB {
		fb += fmt.Sprintf(" Make sure you discuss both %s and %s.", a, b)
	}
	return verdict{score: score, found: found, feedback: fb + coverage(found, q.Keywords)}
}

func (g *Grader) definition(ctx context.Context, q *problemgen.TheoryQuestion, answer string, res *Result) verdict {
	if !hasContent(answer) {
		return verdict{feedback: "Your answer is too short to grade. Give a full definition."}
	}
	if s, ok := g.semantic(ctx, q, answer, res); ok {
		if score := definitionStair(s); score > 0 {
			return semanticVerdict(score)
		}
	}
	all := dedupe(append(append([]string(nil), q.Keywords...), q.DefinitionElements...))
	found := extract.FoundKeywords(answer, all)
	n, f := len(all), len(found)
	need := minKeywords(q, 3, n)
	kw := 0
	if n > 0 {
		switch {
		case f >= need:
			kw = int(ratio(f, n) * 100)
			if kw >= 90 {
				kw = 100
			}
		case f > 0:
			kw = int(float64(f) / float64(max(1, need)) * 70)
		}
	}
	score := kw
	return verdict{score: score, found: found, feedback: scoreFeedback(score) + coverage(found, all)}
}

func calculation(q *problemgen.TheoryQuestion, answer string) verdict {
	a := strings.TrimSpace(textnorm.Fold(answer))
	ref := q.ReferenceAnswer()
	right := verdict{score: 100, feedback: "Correct!"}
	if q.CorrectNumeric != nil {
		want := *q.CorrectNumeric
		for _, m := range numberRe.FindAllString(a, -1) {
			x, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", "."), 64)
			if err != nil {
				continue
			}
			if r := q.AcceptableRange; r != nil && x >= r[0] && x <= r[1] {
				return right
			}
			if math.Abs(x-want) <= 0.01 {
				return right
			}
		}
		if ref == "" {
			ref = strconv.FormatFloat(want, 'f', -1, 64)
		}
	}
	c := strings.TrimSpace(textnorm.Fold(q.CorrectAnswer))
	if c != "" && len(a) >= 2 && (strings.Contains(a, c) || strings.Contains(c, a)) {
		return right
	}
	if anyPhrase(a, calculationWords) {
		return verdict{score: 50, feedback: "You are reasoning about the right quantity, but the result is off. The answer is " + ref + "."}
	}
	return verdict{feedback: "Incorrect. The answer is " + ref + "."}
}

func matrixAnalysis(q *problemgen.TheoryQuestion, answer string) verdict {
	a := strings.TrimSpace(textnorm.Fold(answer))
	c := strings.TrimSpace(textnorm.Fold(q.CorrectAnswer))
	if c != "" && len(a) >= 3 && (strings.Contains(a, c) || strings.Contains(c, a)) {
		return verdict{score: 100, feedback: "Correct!"}
	}
	found := extract.FoundKeywords(answer, q.Keywords)
	n, f := len(q.Keywords), len(found)
	if strings.Contains(textnorm.Fold(q.AnalysisType), "nash") && anyPhrase(a, nashConcepts) {
		if f >= 2 {
			return verdict{score: 85, found: found, feedback: "Good analysis of the equilibrium." + coverage(found, q.Keywords)}
		}
		return verdict{score: 70, found: found, feedback: "You identify the equilibrium idea but the analysis is thin." + coverage(found, q.Keywords)}
	}
	score := 0
	switch {
	case n > 0 && float64(f) >= 0.7*float64(n):
		score = 80
	case f > 0:
		score = int(ratio(f, n) * 60)
	}
	return verdict{score: score, found: found, feedback: scoreFeedback(score) + coverage(found, q.Keywords)}
}
