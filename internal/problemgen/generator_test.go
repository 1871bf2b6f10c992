package problemgen

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func seedPtr(s uint64) *uint64 { return &s }

func TestRegistry_SeededGenerationIsByteIdentical(t *testing.T) {
	reg := DefaultRegistry()
	for _, d := range reg.Domains() {
		a, err := reg.Generate(d, Params{}, seedPtr(42))
		if err != nil {
			t.Fatalf("%s: %v", d, err)
		}
		b, err := reg.Generate(d, Params{}, seedPtr(42))
		if err != nil {
			t.Fatalf("%s: %v", d, err)
		}
		ja, _ := json.Marshal(a)
		jb, _ := json.Marshal(b)
		if !bytes.Equal(ja, jb) {
			t.Errorf("%s: seeded payloads differ", d)
		}
	}
}

func TestRegistry_IDPrefixes(t *testing.T) {
	reg := DefaultRegistry()
	prefixes := map[Domain]string{
		DomainNash:     "NASH-",
		DomainMinMax:   "MINMAX-",
		DomainCSP:      "CSP-",
		DomainStrategy: "PROB1-",
	}
	for d, prefix := range prefixes {
		p, err := reg.Generate(d, Params{}, seedPtr(7))
		if err != nil {
			t.Fatalf("%s: %v", d, err)
		}
		if !strings.HasPrefix(p.ID, prefix) || len(p.ID) != len(prefix)+6 {
			t.Errorf("%s: unexpected id %q", d, p.ID)
		}
		if p.QuestionText != p.Text() {
			t.Errorf("%s: question text does not match the instance", d)
		}
	}
}

func TestRegistry_UnknownDomain(t *testing.T) {
	_, err := DefaultRegistry().Generate("chess", Params{}, nil)
	if !errors.Is(err, ErrUnknownDomain) {
		t.Fatalf("expected ErrUnknownDomain, got %v", err)
	}
}

func TestRegistry_ParamErrors(t *testing.T) {
	reg := DefaultRegistry()
	cases := []struct {
		domain Domain
		params Params
		param  string
	}{
		{DomainNash, Params{"rows": "x"}, "rows"},
		{DomainNash, Params{"cols": "11"}, "cols"},
		{DomainNash, Params{"ensure": "maybe"}, "ensure"},
		{DomainMinMax, Params{"depth": "0"}, "depth"},
		{DomainMinMax, Params{"depth": "6", "branching": "4"}, "depth"},
		{DomainMinMax, Params{"min": "5", "max": "1"}, "min"},
		{DomainCSP, Params{"problem_type": "kakuro"}, "problem_type"},
		{DomainCSP, Params{"variables": "12"}, "variables"},
		{DomainStrategy, Params{"problem_type": "sokoban"}, "problem_type"},
	}
	for _, tc := range cases {
		_, err := reg.Generate(tc.domain, tc.params, seedPtr(1))
		var perr *ParamError
		if !errors.As(err, &perr) {
			t.Errorf("%s %v: expected ParamError, got %v", tc.domain, tc.params, err)
			continue
		}
		if perr.Param != tc.param {
			t.Errorf("%s %v: expected param %q, got %q", tc.domain, tc.params, tc.param, perr.Param)
		}
	}
}

func TestParams_EnumIsCaseInsensitive(t *testing.T) {
	v, err := Params{"ensure": " Unique "}.Enum("ensure", EnsureAny, EnsureAny, EnsureUnique)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != EnsureUnique {
		t.Errorf("got %q, want %q", v, EnsureUnique)
	}
}

func TestParamError_Unwrap(t *testing.T) {
	_, err := Params{"rows": "abc"}.Int("rows", 3, 2, 10)
	var perr *ParamError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParamError, got %v", err)
	}
	if perr.Unwrap() == nil {
		t.Error("expected wrapped strconv error")
	}
	if !strings.Contains(err.Error(), `"rows"="abc"`) {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestChatNash_UniqueEquilibrium(t *testing.T) {
	for seed := range uint64(20) {
		p, err := ChatNash().Generate(Params{}, seedPtr(seed))
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if p.Nash.Rows != 2 || p.Nash.Cols != 2 {
			t.Fatalf("seed %d: expected 2x2, got %dx%d", seed, p.Nash.Rows, p.Nash.Cols)
		}
		if n := len(p.Solution.Equilibria); n != 1 {
			t.Errorf("seed %d: expected 1 equilibrium, got %d", seed, n)
		}
	}
}
