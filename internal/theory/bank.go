package theory

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/abhisek/smartest/internal/problemgen"
)

// defaultMinKeywords is how many keywords a type needs when the template
// does not say.
var defaultMinKeywords = map[problemgen.QuestionType]int{
	problemgen.QuestionShortAnswer:   2,
	problemgen.QuestionJustification: 2,
	problemgen.QuestionExample:       2,
	problemgen.QuestionComparison:    3,
	problemgen.QuestionDefinition:    3,
}

// Bank answers topic lookups and builds questions from templates. It is
// read-only after construction.
type Bank struct {
	topics []Topic
	byID   map[string]int
}

func NewBank(topics []Topic) *Bank {
	b := &Bank{topics: topics, byID: make(map[string]int, len(topics))}
	for i, t := range topics {
		b.byID[t.ID] = i
	}
	return b
}

// LoadBank loads file (or the built-in topics when empty) into a Bank.
func LoadBank(file string) (*Bank, error) {
	topics, err := Load(file)
	if err != nil {
		return nil, err
	}
	return NewBank(topics), nil
}

// Topics lists the topics in file order.
func (b *Bank) Topics() []Summary {
	out := make([]Summary, len(b.topics))
	for i, t := range b.topics {
		out[i] = Summary{ID: t.ID, Name: t.Name, Difficulty: t.Difficulty, Category: t.Category}
	}
	return out
}

// Topic returns the topic with id or ErrTopicNotFound.
func (b *Bank) Topic(id string) (*Topic, error) {
	i, ok := b.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTopicNotFound, id)
	}
	return &b.topics[i], nil
}

// Generate builds a question payload. An empty topicID or qtype is drawn
// at random; a given seed makes the draw reproducible.
func (b *Bank) Generate(topicID, qtype string, seed *uint64) (problemgen.Payload, error) {
	r := problemgen.NewRand(seed)

	var topic *Topic
	switch {
	case topicID != "":
		t, err := b.Topic(topicID)
		if err != nil {
			return problemgen.Payload{}, err
		}
		topic = t
	case len(b.topics) == 0:
		return problemgen.Payload{}, fmt.Errorf("%w: no topics loaded", ErrTopicNotFound)
	default:
		topic = &b.topics[r.IntN(len(b.topics))]
	}

	templates := topic.Templates
	if len(templates) == 0 {
		return problemgen.Payload{}, fmt.Errorf("%w for topic %q", ErrNoTemplates, topic.ID)
	}
	if qtype != "" {
		t := problemgen.QuestionType(strings.ToLower(strings.TrimSpace(qtype)))
		if !t.Valid() {
			return problemgen.Payload{}, fmt.Errorf("%w: %q", ErrUnknownQuestionType, qtype)
		}
		var matching []Template
		for _, tpl := range templates {
			if tpl.Type == t {
				matching = append(matching, tpl)
			}
		}
		if len(matching) == 0 {
			return problemgen.Payload{}, fmt.Errorf("%w of type %s for topic %q", ErrNoTemplates, t, topic.ID)
		}
		templates = matching
	}

	tpl := templates[r.IntN(len(templates))]
	q, err := buildQuestion(r, topic, &tpl)
	if err != nil {
		return problemgen.Payload{}, fmt.Errorf("topic %q: %w", topic.ID, err)
	}
	return problemgen.Payload{
		ID:           problemgen.PayloadID("THEORY", r),
		Domain:       problemgen.DomainTheory,
		QuestionText: q.QuestionText(),
		Theory:       q,
		Solution: problemgen.Solution{
			Answer:      q.ReferenceAnswer(),
			Explanation: q.Explanation,
		},
	}, nil
}

func buildQuestion(r *rand.Rand, topic *Topic, t *Template) (*problemgen.TheoryQuestion, error) {
	q := &problemgen.TheoryQuestion{
		TopicID:      topic.ID,
		TopicName:    topic.Name,
		Difficulty:   t.Difficulty,
		QuestionType: t.Type,
		Question:     t.Template,
		Explanation:  t.Explanation,

		CorrectAnswer:    t.answerText(),
		Keywords:         t.CorrectKeywords,
		RequiredConcepts: t.RequiredConcepts,
		MinKeywords:      defaultMinKeywords[t.Type],
	}
	if q.Difficulty == "" {
		q.Difficulty = topic.Difficulty
	}
	if t.MinKeywords != nil {
		q.MinKeywords = *t.MinKeywords
	}
	if b, ok := t.answerBool(); ok && (t.Type == problemgen.QuestionTrueFalse || t.Type == problemgen.QuestionJustification) {
		q.CorrectBool = &b
		q.CorrectAnswer = t.ReferenceAnswer
	}

	switch t.Type {
	case problemgen.QuestionMultipleChoice, problemgen.QuestionJustification:
		if len(t.Distractors) > 0 && q.CorrectAnswer != "" {
			q.Options, q.CorrectIndex = shuffledOptions(r, q.CorrectAnswer, t.Distractors)
		}
	case problemgen.QuestionFillBlank:
		q.CorrectAnswers = t.CorrectAnswers
		q.CaseSensitive = t.CaseSensitive
	case problemgen.QuestionExample:
		q.ExampleTypes = t.ExampleTypes
	case problemgen.QuestionComparison:
		q.ConceptsToCompare = t.ConceptsToCompare
		q.ComparisonKeywords = t.ComparisonKeywords
		if len(q.Keywords) == 0 {
			q.Keywords = t.ComparisonKeywords
		}
	case problemgen.QuestionDefinition:
		q.DefinitionElements = t.DefinitionElements
	case problemgen.QuestionCalculation:
		q.CorrectNumeric = t.CorrectNumeric
		q.AcceptableRange = t.AcceptableRange
		q.CalculationSteps = t.CalculationSteps
	case problemgen.QuestionMatrixAnalysis:
		q.MatrixData = t.MatrixData
		q.AnalysisType = t.AnalysisType
		if q.AnalysisType == "" {
			q.AnalysisType = "nash_equilibrium"
		}
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

// shuffledOptions mixes correct in with the distractors and reports where
// it landed.
func shuffledOptions(r *rand.Rand, correct string, distractors []string) ([]string, *int) {
	opts := append([]string{correct}, distractors...)
	r.Shuffle(len(opts), func(i, j int) { opts[i], opts[j] = opts[j], opts[i] })
	for i, o := range opts {
		if o == correct {
			return opts, &i
		}
	}
	return opts, nil
}
