package problemgen

import (
	"fmt"
	"slices"
)

const maxQuestionText = 20000

// StructuralValidator checks that the envelope is well formed and that
// exactly one domain body, matching the domain, is present and valid.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(p *Payload) *ValidationError {
	fail := func(format string, args ...any) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf(format, args...)}
	}
	if p == nil {
		return fail("payload is nil")
	}
	bodies := 0
	for _, present := range []bool{p.Nash != nil, p.MinMax != nil, p.CSP != nil, p.Strategy != nil, p.Theory != nil} {
		if present {
			bodies++
		}
	}
	if bodies != 1 {
		return fail("payload must carry exactly one domain body, found %d", bodies)
	}

	var err error
	switch p.Domain {
	case DomainNash:
		if p.Nash == nil {
			return fail("nash payload has no game")
		}
		err = p.Nash.Validate()
	case DomainMinMax:
		if p.MinMax == nil {
			return fail("minmax payload has no tree")
		}
		err = p.MinMax.Validate()
	case DomainCSP:
		if p.CSP == nil {
			return fail("csp payload has no problem")
		}
		err = p.CSP.Validate()
	case DomainStrategy:
		if p.Strategy == nil {
			return fail("strategy payload has no problem")
		}
		err = p.Strategy.Validate()
	case DomainTheory:
		if p.Theory == nil {
			return fail("theory payload has no question")
		}
		err = p.Theory.Validate()
	default:
		return fail("unknown domain %q", p.Domain)
	}
	if err != nil {
		return fail("%v", err)
	}
	if len(p.Text()) > maxQuestionText {
		return fail("question text exceeds %d characters", maxQuestionText)
	}
	return nil
}

// SolutionValidator checks that the shipped solution agrees with the one
// recomputed from the instance. A failure means the generator is broken,
// so it is not retryable.
type SolutionValidator struct{}

func (v *SolutionValidator) Name() string { return "solution" }

func (v *SolutionValidator) Validate(p *Payload) *ValidationError {
	fail := func(format string, args ...any) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf(format, args...)}
	}
	if p.Solution.Explanation == "" {
		return fail("explanation is empty")
	}
	switch {
	case p.Nash != nil:
		var want [][2]int
		for _, e := range p.Nash.Equilibria() {
			want = append(want, [2]int{e[0] + 1, e[1] + 1})
		}
		if !slices.Equal(want, p.Solution.Equilibria) {
			return fail("equilibria %v do not match recomputed %v", p.Solution.Equilibria, want)
		}
	case p.MinMax != nil:
		sol := p.MinMax.Solve()
		if p.Solution.RootValue == nil || *p.Solution.RootValue != sol.RootValue {
			return fail("root value does not match recomputed %d", sol.RootValue)
		}
		if !slices.Equal(p.Solution.VisitedLeaves, sol.VisitedLeaves) {
			return fail("visited leaves %v do not match recomputed %v", p.Solution.VisitedLeaves, sol.VisitedLeaves)
		}
	case p.CSP != nil:
		if want := p.CSP.Recommended(); p.Solution.Answer != want || !slices.Contains(p.CSP.Options, want) {
			return fail("answer %q does not match recommended %q or is not offered", p.Solution.Answer, want)
		}
	case p.Strategy != nil:
		if want := p.Strategy.Recommended(); p.Solution.Answer != want || !slices.Contains(p.Strategy.Options, want) {
			return fail("answer %q does not match recommended %q or is not offered", p.Solution.Answer, want)
		}
	case p.Theory != nil:
		if idx := p.Theory.CorrectIndex; idx != nil && (*idx < 0 || *idx >= len(p.Theory.Options)) {
			return fail("correct index %d is out of range", *idx)
		}
	}
	return nil
}
