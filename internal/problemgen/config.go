package problemgen

// Config controls how a Registry validates what its generators produce.
type Config struct {
	// Validators is the ordered list of validators to run on every
	// generated payload. They execute in order; the first failure
	// stops the pipeline.
	Validators []Validator

	// MaxAttempts bounds how many seeds are tried when a validator
	// reports a retryable failure. Seeded requests are tried once.
	MaxAttempts int
}

// DefaultConfig returns a Config with the standard validator chain.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&SolutionValidator{},
		},
		MaxAttempts: 3,
	}
}
