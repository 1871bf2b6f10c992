package problemgen

// Domain names an exercise family.
type Domain string

const (
	DomainNash     Domain = "nash"
	DomainMinMax   Domain = "minmax"
	DomainCSP      Domain = "csp"
	DomainStrategy Domain = "strategy"
	DomainTheory   Domain = "theory"
)

// Payload is a generated problem: a common envelope plus exactly one
// domain body. Payloads are immutable once built.
type Payload struct {
	// ID is the display identifier, e.g. "NASH-482913".
	ID string `json:"id"`

	Domain Domain `json:"domain"`

	// QuestionText is informational. Graders never read it; use
	// Payload.Text() to get the text derived from the instance.
	QuestionText string `json:"question_text"`

	Solution Solution `json:"solution"`

	Nash     *NashGame        `json:"nash,omitempty"`
	MinMax   *GameTree        `json:"minmax,omitempty"`
	CSP      *CSPProblem      `json:"csp,omitempty"`
	Strategy *StrategyProblem `json:"strategy,omitempty"`
	Theory   *TheoryQuestion  `json:"theory,omitempty"`
}

// Solution is the reference answer shipped with a payload. Fields are
// filled per domain; graders recompute instead of trusting them.
type Solution struct {
	Explanation string `json:"explanation"`

	// Equilibria are 1-based (row, col) pairs.
	Equilibria [][2]int `json:"equilibria,omitempty"`

	RootValue     *int     `json:"root_value,omitempty"`
	VisitedLeaves []string `json:"visited_leaves,omitempty"`
	VisitedCount  *int     `json:"visited_count,omitempty"`

	// Answer is the correct option (csp, strategy) or canonical answer
	// text (theory).
	Answer string `json:"answer,omitempty"`
}

// Text re-derives the question text from the domain body.
func (p *Payload) Text() string {
	switch p.Domain {
	case DomainNash:
		if p.Nash != nil {
			return p.Nash.QuestionText()
		}
	case DomainMinMax:
		if p.MinMax != nil {
			return p.MinMax.QuestionText()
		}
	case DomainCSP:
		if p.CSP != nil {
			return p.CSP.QuestionText()
		}
	case DomainStrategy:
		if p.Strategy != nil {
			return p.Strategy.QuestionText()
		}
	case DomainTheory:
		if p.Theory != nil {
			return p.Theory.QuestionText()
		}
	}
	return ""
}

// Options returns the selectable options for option-style payloads.
func (p *Payload) Options() []string {
	switch {
	case p.CSP != nil:
		return p.CSP.Options
	case p.Strategy != nil:
		return p.Strategy.Options
	case p.Theory != nil:
		return p.Theory.Options
	}
	return nil
}

func intPtr(v int) *int { return &v }

// Recompute derives the solution from the domain body. Theory payloads
// carry their answer in the question itself, so the shipped solution is
// kept and only gaps are filled.
func (p *Payload) Recompute() Solution {
	switch {
	case p.Nash != nil:
		return NashPayload(p.ID, p.Nash).Solution
	case p.MinMax != nil:
		return MinMaxPayload(p.ID, p.MinMax).Solution
	case p.CSP != nil:
		return Solution{Answer: p.CSP.Recommended(), Explanation: p.CSP.Explanation()}
	case p.Strategy != nil:
		return Solution{Answer: p.Strategy.Recommended(), Explanation: p.Strategy.Explanation()}
	case p.Theory != nil:
		sol := p.Solution
		if sol.Answer == "" {
			sol.Answer = p.Theory.ReferenceAnswer()
		}
		if sol.Explanation == "" {
			sol.Explanation = p.Theory.Explanation
		}
		return sol
	}
	return p.Solution
}
