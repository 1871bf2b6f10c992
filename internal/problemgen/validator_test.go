package problemgen

import (
	"errors"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Validator: "test-validator",
		Message:   "something went wrong",
		Retryable: true,
	}
	expected := `validator "test-validator": something went wrong`
	if err.Error() != expected {
		t.Errorf("got %q, want %q", err.Error(), expected)
	}
}

func TestDefaultConfig_ValidatorChain(t *testing.T) {
	cfg := DefaultConfig()
	if len(cfg.Validators) != 2 {
		t.Fatalf("expected 2 validators, got %d", len(cfg.Validators))
	}
	names := []string{"structural", "solution"}
	for i, v := range cfg.Validators {
		if v.Name() != names[i] {
			t.Errorf("validator %d: expected %q, got %q", i, names[i], v.Name())
		}
	}
	if cfg.MaxAttempts != 3 {
		t.Errorf("expected MaxAttempts 3, got %d", cfg.MaxAttempts)
	}
}

func TestCheck_ReturnsFirstFailure(t *testing.T) {
	p := scenarioBPayload(t)
	p.Solution.Explanation = ""
	p.MinMax = nil

	err := Check(&p)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Validator != "structural" {
		t.Errorf("expected structural to fail first, got %q", verr.Validator)
	}
}

func TestCheck_ValidPayload(t *testing.T) {
	p := scenarioBPayload(t)
	if err := Check(&p); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
