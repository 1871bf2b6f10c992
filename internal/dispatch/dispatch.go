// Package dispatch routes one chat message to a canned reply, an inline
// solver, a problem generator, the grader for the pending problem, or the
// theory retriever.
package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/smartest/internal/diagnosis"
	"github.com/abhisek/smartest/internal/extract"
	"github.com/abhisek/smartest/internal/grading"
	"github.com/abhisek/smartest/internal/logger"
	"github.com/abhisek/smartest/internal/problemgen"
	"github.com/abhisek/smartest/internal/session"
	"github.com/abhisek/smartest/internal/similarity"
	"github.com/abhisek/smartest/internal/textnorm"
	"github.com/abhisek/smartest/internal/theory"
)

const maxExplanation = 700

// Dispatcher holds the collaborators of Dispatch. It keeps no per-session
// data; callers pass the State in and store the State that comes out.
type Dispatcher struct {
	registry  *problemgen.Registry
	chatNash  problemgen.Generator
	grader    *grading.Grader
	retriever *theory.Retriever
	log       *logger.Logger

	// Seed supplies the generator seed for each request. Nil draws a fresh
	// random problem every time.
	Seed func() *uint64
}

// New wires a dispatcher. A nil registry uses problemgen.DefaultRegistry.
func New(registry *problemgen.Registry, grader *grading.Grader, retriever *theory.Retriever, log *logger.Logger) *Dispatcher {
	if registry == nil {
		registry = problemgen.DefaultRegistry()
	}
	if log == nil {
		log = logger.Nop()
	}
	if grader == nil {
		grader = grading.New(nil, log)
	}
	if retriever == nil {
		retriever = theory.NewRetriever(nil, nil, log)
	}
	return &Dispatcher{
		registry:  registry,
		chatNash:  problemgen.ChatNash(),
		grader:    grader,
		retriever: retriever,
		log:       log.With("component", "dispatch"),
	}
}

// Dispatch answers input given the session state and returns the state to
// keep. Only generating a problem or grading the pending one changes it.
func (d *Dispatcher) Dispatch(ctx context.Context, input string, st session.State) (Reply, session.State) {
	return d.DispatchTopic(ctx, input, "", st)
}

// DispatchTopic is Dispatch with theory lookups limited to topicID.
func (d *Dispatcher) DispatchTopic(ctx context.Context, input, topicID string, st session.State) (Reply, session.State) {
	intent := diagnosis.DetectIntent(input)
	d.log.Debug("dispatch", "intent", intent.Intent, "rule", intent.Rule, "awaiting", st.Awaiting())

	switch intent.Intent {
	case diagnosis.IntentEmpty:
		r := ruleReply("Please write a question.", 0)
		r.Kind = KindEmpty
		return r, st
	case diagnosis.IntentGreeting:
		return ruleReply("Hi! I can help with the course theory. Ask me about Nash equilibria, MinMax, CSP or heuristics, or ask for a problem to solve.", 1), st
	case diagnosis.IntentHowAreYou:
		return ruleReply("I'm fine, thanks! Tell me what I can help you with from the AI theory.", 1), st
	case diagnosis.IntentPurpose:
		return ruleReply("I explain AI theory concepts and help with Nash, MinMax, CSP, heuristics and search strategies. I can also give you problems and grade your answers.", 1), st
	case diagnosis.IntentThanks:
		return ruleReply("You're welcome! Ask again whenever you need.", 1), st
	case diagnosis.IntentShowTable:
		return d.showTable(st), st
	case diagnosis.IntentSolveNash:
		return d.solveNash(input), st
	case diagnosis.IntentSolveAlphaBeta:
		return d.solveAlphaBeta(input), st
	case diagnosis.IntentGenerate:
		if r, next, ok := d.generate(intent.Domain, st); ok {
			return r, next
		}
	case diagnosis.IntentVerbHint:
		return ruleReply(verbHints[intent.Domain], 0.8), st
	}

	if !st.Idle() && answerLike(input, st.Pending) {
		return d.grade(ctx, input, st)
	}
	return d.ask(ctx, input, topicID), st
}

func (d *Dispatcher) showTable(st session.State) Reply {
	if st.Awaiting() != problemgen.DomainMinMax || st.Pending.MinMax == nil {
		return ruleReply("There is no active MinMax problem. Ask for an Alpha-Beta/MinMax problem first.", 0.7)
	}
	return ruleReply("Tree details (table):\n"+st.Pending.MinMax.Table(), 1)
}

func (d *Dispatcher) solveNash(input string) Reply {
	g, ok := parseNashMatrix(input)
	if !ok {
		return ruleReply("I understand you want a Nash equilibrium. Send the payoff matrix with one (a,b) cell per strategy pair, e.g. 2x2 (3,3) (0,5) (5,0) (1,1).", 0.7)
	}
	var text string
	if eq := g.Equilibria(); len(eq) > 0 {
		cells := make([]string, len(eq))
		for i, e := range eq {
			cells[i] = fmt.Sprintf("(%d,%d)", e[0]+1, e[1]+1)
		}
		text = fmt.Sprintf("Pure-strategy Nash equilibria: %s.", strings.Join(cells, ", "))
	} else {
		text = "There is no pure-strategy Nash equilibrium."
	}
	r := ruleReply(text+"\n\n"+textnorm.Truncate(g.Explanation(), maxExplanation), 0.9)
	r.Kind = KindSolve
	return r
}

func (d *Dispatcher) solveAlphaBeta(input string) Reply {
	req, err := parseAlphaBeta(input)
	if err != nil {
		return ruleReply("Send the tree as depth=D, branching=B, leaves=[v1, v2, ...].", 0.7)
	}
	want := req.expectedLeaves()
	if want < 0 {
		return ruleReply(fmt.Sprintf("Trees are limited to %d leaves; depth=%d and branching=%d is too large.", maxInlineLeaves, req.Depth, req.Branching), 0.7)
	}
	if len(req.Leaves) != want {
		return ruleReply(fmt.Sprintf("For depth=%d and branching=%d you need %d leaves. You sent %d.", req.Depth, req.Branching, want, len(req.Leaves)), 0.7)
	}
	t, err := problemgen.BuildTree(req.Depth, req.Branching, req.Leaves)
	if err != nil {
		d.log.Warn("inline tree rejected", "request", req.String(), "error", err)
		return ruleReply(err.Error(), 0.7)
	}
	sol := t.Solve()
	r := ruleReply(fmt.Sprintf("Root value: %d | Leaves visited: %d\n\n%s",
		sol.RootValue, len(sol.VisitedLeaves), textnorm.Truncate(t.Explanation(), maxExplanation)), 0.9)
	r.Kind = KindSolve
	return r
}

func (d *Dispatcher) generate(domain string, st session.State) (Reply, session.State, bool) {
	var seed *uint64
	if d.Seed != nil {
		seed = d.Seed()
	}

	var (
		p   problemgen.Payload
		err error
	)
	switch problemgen.Domain(domain) {
	case problemgen.DomainNash:
		p, err = d.chatNash.Generate(nil, seed)
	case problemgen.DomainMinMax, problemgen.DomainCSP, problemgen.DomainStrategy:
		p, err = d.registry.Generate(problemgen.Domain(domain), nil, seed)
	default:
		return Reply{}, st, false
	}
	if err != nil {
		d.log.Error("chat generation failed", "domain", domain, "error", err)
		return ruleReply("I could not generate that problem right now. Try again.", 0.5), st, true
	}

	r := ruleReply(p.Text()+"\n\n"+answerPrompts[p.Domain], 1)
	r.Kind = KindGenerate
	r.Problem = &p
	return r, session.State{Pending: &p}, true
}

func (d *Dispatcher) grade(ctx context.Context, input string, st session.State) (Reply, session.State) {
	p := st.Pending
	res := d.grader.Grade(ctx, p, input)
	r := ruleReply(fmt.Sprintf("%s evaluation: %s\nScore: %d%%", domainTitles[p.Domain], res.Feedback, res.Score), float64(res.Score)/100)
	r.Kind = KindGrade
	r.Problem = p
	r.Result = &res
	return r, session.State{}
}

func (d *Dispatcher) ask(ctx context.Context, input, topicID string) Reply {
	a, err := d.retriever.Ask(ctx, input, topicID)
	if err != nil {
		d.log.Warn("theory lookup interrupted", "error", err)
		return Reply{Text: "The request was interrupted. Please try again.", Kind: KindTheory, Method: string(similarity.MethodFallback), Sources: []theory.Source{}}
	}
	sources := a.Sources
	if sources == nil {
		sources = []theory.Source{}
	}
	return Reply{
		Text:        a.Text,
		Kind:        KindTheory,
		Confidence:  a.Confidence,
		Method:      a.Method,
		Sources:     sources,
		Suggestions: a.Suggestions,
	}
}

var noneMarkers = []string{"none", "nu exista", "niciunul", "niciun"}

// answerLike reports whether input reads as an answer to p rather than a
// new question.
func answerLike(input string, p *problemgen.Payload) bool {
	folded := textnorm.Fold(strings.TrimSpace(input))
	if strings.ContainsAny(folded, "0123456789") {
		return true
	}
	for _, m := range noneMarkers {
		if textnorm.ContainsWord(folded, m) {
			return true
		}
	}
	switch p.Domain {
	case problemgen.DomainCSP, problemgen.DomainStrategy:
		_, ok := extract.OptionChoice(input, p.Options())
		return ok
	case problemgen.DomainTheory:
		return !strings.HasSuffix(folded, "?")
	}
	return false
}

var domainTitles = map[problemgen.Domain]string{
	problemgen.DomainNash:     "Nash",
	problemgen.DomainMinMax:   "MinMax",
	problemgen.DomainCSP:      "CSP",
	problemgen.DomainStrategy: "Strategy",
	problemgen.DomainTheory:   "Theory",
}

var answerPrompts = map[problemgen.Domain]string{
	problemgen.DomainNash:     "Send your answer (e.g. 'R1 C2', '1 2' or 'none').",
	problemgen.DomainMinMax:   "Send your answer (e.g. '5 4' or 'value=5, leaves=4').",
	problemgen.DomainCSP:      "Send your answer (option number or name).",
	problemgen.DomainStrategy: "Send your answer (option number or name).",
}

var verbHints = map[string]string{
	"nash": "To compute a Nash equilibrium I need the payoff matrix for both players. Send it as (a,b) cells.\n" +
		"Steps once I have it:\n" +
		"1) Mark the best responses of each player.\n" +
		"2) Intersect the best responses.\n" +
		"3) Report the pure Nash equilibria, if any.",
	"minmax": "For Alpha-Beta/MinMax I need the game tree: leaf values, child order and who maximizes at each level. Send depth=, branching= and leaves=[...].\n" +
		"Steps once I have it:\n" +
		"1) Apply MinMax from the leaves up to the root.\n" +
		"2) Prune with Alpha-Beta where possible.\n" +
		"3) Report the root value and the optimal move.",
	"csp": "For a CSP I need the variables, their domains and the constraints between them.\n" +
		"Steps once I have them:\n" +
		"1) Pick a variable (e.g. MRV).\n" +
		"2) Run backtracking with checks (e.g. Forward Checking / AC-3).\n" +
		"3) Build the solution or show none exists.",
	"strategy": "To pick a strategy I need the game matrix or a description of the strategies and payoffs.\n" +
		"Steps once I have it:\n" +
		"1) Look at each player's options.\n" +
		"2) Find dominant strategies, if any.\n" +
		"3) Conclude the recommended strategy.",
}
