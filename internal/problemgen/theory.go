package problemgen

import (
	"encoding/json"
	"fmt"
	"strings"
)

// QuestionType selects how a theory answer is graded.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionTrueFalse      QuestionType = "true_false"
	QuestionFillBlank      QuestionType = "fill_blank"
	QuestionShortAnswer    QuestionType = "short_answer"
	QuestionJustification  QuestionType = "justification"
	QuestionExample        QuestionType = "example"
	QuestionComparison     QuestionType = "comparison"
	QuestionDefinition     QuestionType = "definition"
	QuestionCalculation    QuestionType = "calculation"
	QuestionMatrixAnalysis QuestionType = "matrix_analysis"
)

// QuestionTypes lists every supported theory question type.
var QuestionTypes = []QuestionType{
	QuestionMultipleChoice, QuestionTrueFalse, QuestionFillBlank, QuestionShortAnswer,
	QuestionJustification, QuestionExample, QuestionComparison, QuestionDefinition,
	QuestionCalculation, QuestionMatrixAnalysis,
}

// Valid reports whether t is a known question type.
func (t QuestionType) Valid() bool {
	for _, q := range QuestionTypes {
		if q == t {
			return true
		}
	}
	return false
}

// BlankVariants are the accepted fills of a fill-in-the-blank question.
// Each variant lists one value per blank. In JSON a variant may be a
// plain string for single-blank questions.
type BlankVariants [][]string

func (b *BlankVariants) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(BlankVariants, 0, len(raw))
	for _, r := range raw {
		var s string
		if err := json.Unmarshal(r, &s); err == nil {
			out = append(out, []string{s})
			continue
		}
		var list []string
		if err := json.Unmarshal(r, &list); err != nil {
			return fmt.Errorf("blank variant must be a string or a list of strings: %w", err)
		}
		out = append(out, list)
	}
	*b = out
	return nil
}

// TheoryQuestion is a question built from a theory topic template. Only
// the fields its type needs are set.
type TheoryQuestion struct {
	TopicID      string       `json:"topic_id"`
	TopicName    string       `json:"topic_name"`
	Difficulty   string       `json:"difficulty,omitempty"`
	QuestionType QuestionType `json:"question_type"`
	Question     string       `json:"question"`

	Options      []string `json:"options,omitempty"`
	CorrectIndex *int     `json:"correct_index,omitempty"`

	// CorrectAnswer is the canonical answer text. For true_false it is
	// the reference sentence compared by similarity.
	CorrectAnswer string `json:"correct_answer,omitempty"`
	CorrectBool   *bool  `json:"correct_bool,omitempty"`

	CorrectAnswers BlankVariants `json:"correct_answers,omitempty"`
	CaseSensitive  bool          `json:"case_sensitive,omitempty"`

	Keywords           []string `json:"keywords,omitempty"`
	MinKeywords        int      `json:"min_keywords,omitempty"`
	RequiredConcepts   []string `json:"required_concepts,omitempty"`
	ExampleTypes       []string `json:"example_types,omitempty"`
	ConceptsToCompare  []string `json:"concepts_to_compare,omitempty"`
	ComparisonKeywords []string `json:"comparison_keywords,omitempty"`
	DefinitionElements []string `json:"definition_elements,omitempty"`

	CorrectNumeric   *float64    `json:"correct_numeric,omitempty"`
	AcceptableRange  *[2]float64 `json:"acceptable_range,omitempty"`
	CalculationSteps []string    `json:"calculation_steps,omitempty"`

	MatrixData   [][]string `json:"matrix_data,omitempty"`
	AnalysisType string     `json:"analysis_type,omitempty"`

	Explanation string `json:"explanation,omitempty"`
}

// QuestionText renders the question and, for multiple choice, the
// numbered options.
func (q *TheoryQuestion) QuestionText() string {
	if len(q.Options) == 0 || q.QuestionType != QuestionMultipleChoice {
		return q.Question
	}
	var b strings.Builder
	b.WriteString(q.Question)
	b.WriteString("\n")
	for i, o := range q.Options {
		fmt.Fprintf(&b, "%d. %s\n", i+1, o)
	}
	return strings.TrimRight(b.String(), "\n")
}

// ReferenceAnswer is the best human-readable statement of the answer.
func (q *TheoryQuestion) ReferenceAnswer() string {
	switch {
	case q.CorrectAnswer != "" && q.QuestionType != QuestionTrueFalse:
		return q.CorrectAnswer
	case q.CorrectBool != nil:
		if *q.CorrectBool {
			return "True"
		}
		return "False"
	case len(q.CorrectAnswers) > 0:
		return strings.Join(q.CorrectAnswers[0], ", ")
	}
	return ""
}

func (q *TheoryQuestion) Validate() error {
	if !q.QuestionType.Valid() {
		return fmt.Errorf("unknown question type %q", q.QuestionType)
	}
	if strings.TrimSpace(q.Question) == "" {
		return fmt.Errorf("theory question has no text")
	}
	switch q.QuestionType {
	case QuestionMultipleChoice:
		if len(q.Options) < 2 {
			return fmt.Errorf("multiple choice question needs at least 2 options")
		}
	case QuestionTrueFalse:
		if q.CorrectBool == nil {
			return fmt.Errorf("true/false question has no correct value")
		}
	case QuestionFillBlank:
		if len(q.CorrectAnswers) == 0 {
			return fmt.Errorf("fill-in-the-blank question has no accepted answers")
		}
	}
	return nil
}
