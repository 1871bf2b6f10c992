package problemgen

import "fmt"

// Validator checks a generated or client-supplied payload.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier for this validator (for error messages
	// and logging), e.g. "structural", "solution".
	Name() string

	// Validate returns nil if the payload passes, or a ValidationError
	// describing the first problem found.
	Validate(p *Payload) *ValidationError
}

// ValidationError describes why a payload failed validation.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
	Retryable bool   // Whether drawing a new instance is likely to fix this
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// Check runs validators in order and returns the first failure.
func Check(p *Payload, validators ...Validator) error {
	if len(validators) == 0 {
		validators = DefaultConfig().Validators
	}
	for _, v := range validators {
		if verr := v.Validate(p); verr != nil {
			return verr
		}
	}
	return nil
}
