package theory

import "github.com/abhisek/smartest/internal/problemgen"

// Generator serves the theory domain from a Bank so theory payloads can
// come out of a problemgen.Registry like the computed domains.
type Generator struct {
	Bank *Bank
}

func (Generator) Domain() problemgen.Domain { return problemgen.DomainTheory }

// Generate reads the topic_id and question_type params.
func (g Generator) Generate(params problemgen.Params, seed *uint64) (problemgen.Payload, error) {
	return g.Bank.Generate(params["topic_id"], params["question_type"], seed)
}
