package problemgen

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
)

// ErrUnknownDomain is returned when no generator is registered for a domain.
var ErrUnknownDomain = errors.New("unknown domain")

// ParamError reports a structurally invalid generator parameter.
type ParamError struct {
	Param  string
	Value  string
	Reason string
	Err    error
}

func (e *ParamError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid parameter %q: %s", e.Param, e.Reason)
	}
	return fmt.Sprintf("invalid parameter %q=%q: %s", e.Param, e.Value, e.Reason)
}

func (e *ParamError) Unwrap() error { return e.Err }

// Params are generator parameters as they arrive from a query string or
// CLI flags. Missing keys take the generator's default.
type Params map[string]string

// Int returns the integer value of key, def when absent, or a ParamError
// when the value is not an integer in [lo, hi].
func (p Params) Int(key string, def, lo, hi int) (int, error) {
	raw, ok := p[key]
	if !ok || strings.TrimSpace(raw) == "" {
		return def, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &ParamError{Param: key, Value: raw, Reason: "not an integer", Err: err}
	}
	if v < lo || v > hi {
		return 0, &ParamError{Param: key, Value: raw, Reason: fmt.Sprintf("must be between %d and %d", lo, hi)}
	}
	return v, nil
}

// IntOrRandom is Int with a default drawn from r in [lo, hi].
func (p Params) IntOrRandom(key string, r *rand.Rand, lo, hi int) (int, error) {
	if _, ok := p[key]; ok {
		return p.Int(key, lo, lo, hi)
	}
	return lo + r.IntN(hi-lo+1), nil
}

// Enum returns the value of key, def when absent, or a ParamError when the
// value is not one of allowed.
func (p Params) Enum(key, def string, allowed ...string) (string, error) {
	raw, ok := p[key]
	if !ok || strings.TrimSpace(raw) == "" {
		return def, nil
	}
	v := strings.ToLower(strings.TrimSpace(raw))
	for _, a := range allowed {
		if v == a {
			return v, nil
		}
	}
	return "", &ParamError{Param: key, Value: raw, Reason: "must be one of " + strings.Join(allowed, ", ")}
}

// NewRand returns a PCG source for seed, or for a fresh random seed when
// seed is nil. Seeded runs are reproducible.
func NewRand(seed *uint64) *rand.Rand {
	s := rand.Uint64()
	if seed != nil {
		s = *seed
	}
	return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
}

// PayloadID builds a display ID such as "NASH-482913".
func PayloadID(prefix string, r *rand.Rand) string {
	return fmt.Sprintf("%s-%06d", prefix, 100000+r.IntN(900000))
}

// shuffle permutes s in place using r.
func shuffle[T any](r *rand.Rand, s []T) {
	r.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
}

// optionSet returns the correct option plus up to three distinct wrong ones
// from all, shuffled.
func optionSet(r *rand.Rand, correct string, all []string) []string {
	var wrong []string
	for _, o := range all {
		if o != correct {
			wrong = append(wrong, o)
		}
	}
	shuffle(r, wrong)
	if len(wrong) > 3 {
		wrong = wrong[:3]
	}
	opts := append([]string{correct}, wrong...)
	shuffle(r, opts)
	return opts
}
