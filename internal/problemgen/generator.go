package problemgen

import (
	"fmt"
	"slices"
)

// Generator produces problem payloads for one domain.
type Generator interface {
	// Domain reports which domain this generator serves.
	Domain() Domain

	// Generate draws a payload. A nil seed draws a fresh random seed; a
	// given seed makes the result byte-identical across runs. Structurally
	// invalid params produce a *ParamError.
	Generate(params Params, seed *uint64) (Payload, error)
}

// Registry maps domains to generators and runs the validator chain on
// every payload it hands out.
type Registry struct {
	cfg  Config
	gens map[Domain]Generator
}

// NewRegistry registers gens under their domains. Later generators
// replace earlier ones for the same domain.
func NewRegistry(cfg Config, gens ...Generator) *Registry {
	r := &Registry{cfg: cfg, gens: make(map[Domain]Generator, len(gens))}
	for _, g := range gens {
		r.Register(g)
	}
	return r
}

// DefaultRegistry serves the four computed domains with HTTP defaults.
func DefaultRegistry() *Registry {
	return NewRegistry(DefaultConfig(),
		NashGenerator{},
		MinMaxGenerator{},
		CSPGenerator{},
		StrategyGenerator{},
	)
}

// ChatNash is the Nash generator used for chat requests: small games with
// exactly one equilibrium.
func ChatNash() NashGenerator {
	return NashGenerator{Rows: 2, Cols: 2, Ensure: EnsureUnique}
}

func (r *Registry) Register(g Generator) {
	r.gens[g.Domain()] = g
}

// Lookup returns the generator for domain or ErrUnknownDomain.
func (r *Registry) Lookup(domain Domain) (Generator, error) {
	g, ok := r.gens[domain]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDomain, domain)
	}
	return g, nil
}

// Domains lists the registered domains in a stable order.
func (r *Registry) Domains() []Domain {
	out := make([]Domain, 0, len(r.gens))
	for d := range r.gens {
		out = append(out, d)
	}
	slices.Sort(out)
	return out
}

// Generate draws a payload for domain and validates it. Unseeded draws
// that fail a retryable validator are redrawn up to MaxAttempts times.
func (r *Registry) Generate(domain Domain, params Params, seed *uint64) (Payload, error) {
	g, err := r.Lookup(domain)
	if err != nil {
		return Payload{}, err
	}
	attempts := max(1, r.cfg.MaxAttempts)
	if seed != nil {
		attempts = 1
	}
	var lastErr error
	for range attempts {
		p, err := g.Generate(params, seed)
		if err != nil {
			return Payload{}, err
		}
		verr := r.validate(&p)
		if verr == nil {
			return p, nil
		}
		lastErr = verr
		if !verr.Retryable {
			break
		}
	}
	return Payload{}, fmt.Errorf("generating %s problem: %w", domain, lastErr)
}

func (r *Registry) validate(p *Payload) *ValidationError {
	for _, v := range r.cfg.Validators {
		if verr := v.Validate(p); verr != nil {
			return verr
		}
	}
	return nil
}
