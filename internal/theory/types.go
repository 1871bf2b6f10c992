// Package theory holds the theory topics: their reference material, the
// question templates built from them, and retrieval over the material for
// free-form questions.
package theory

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/abhisek/smartest/internal/problemgen"
)

var (
	ErrTopicNotFound       = errors.New("topic not found")
	ErrNoTemplates         = errors.New("no question templates")
	ErrUnknownQuestionType = errors.New("unknown question type")
)

// Topic is one unit of theory with its question templates.
type Topic struct {
	ID         string     `json:"topic_id"`
	Name       string     `json:"topic_name"`
	Difficulty string     `json:"difficulty,omitempty"`
	Category   string     `json:"category,omitempty"`
	Material   Material   `json:"theory"`
	Templates  []Template `json:"question_templates"`
}

// Summary is the listing view of a topic.
type Summary struct {
	ID         string `json:"topic_id"`
	Name       string `json:"topic_name"`
	Difficulty string `json:"difficulty"`
	Category   string `json:"category"`
}

// Material is the reference text of a topic.
type Material struct {
	Definition       string  `json:"definition,omitempty"`
	KeyConcepts      []Entry `json:"key_concepts,omitempty"`
	Theorems         []Entry `json:"theorems,omitempty"`
	Examples         []Entry `json:"examples,omitempty"`
	Algorithms       []Entry `json:"algorithms,omitempty"`
	Steps            []Entry `json:"steps,omitempty"`
	OptimizationTips []Entry `json:"optimization_tips,omitempty"`
	CommonMistakes   []Entry `json:"common_mistakes,omitempty"`
	Applications     []Entry `json:"applications,omitempty"`
	Formulas         []Entry `json:"formulas,omitempty"`
}

// Field is one key of an Entry, kept in file order.
type Field struct {
	Key   string
	Value string
}

// Entry is an item of a material list: either plain text or an object
// with scalar fields.
type Entry struct {
	Text   string
	Fields []Field
}

// Get returns the value of key, or "".
func (e Entry) Get(key string) string {
	for _, f := range e.Fields {
		if f.Key == key {
			return f.Value
		}
	}
	return ""
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &e.Text)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("entry must be a string or an object")
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if v, ok := scalar(raw); ok {
			e.Fields = append(e.Fields, Field{Key: key, Value: v})
		}
	}
	_, err = dec.Token()
	return err
}

func (e Entry) MarshalJSON() ([]byte, error) {
	if len(e.Fields) == 0 {
		return json.Marshal(e.Text)
	}
	var b bytes.Buffer
	b.WriteByte('{')
	for i, f := range e.Fields {
		if i > 0 {
			b.WriteByte(',')
		}
		k, _ := json.Marshal(f.Key)
		v, _ := json.Marshal(f.Value)
		b.Write(k)
		b.WriteByte(':')
		b.Write(v)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// scalar renders strings and numbers. Nested values and empty or false
// scalars are skipped.
func scalar(raw json.RawMessage) (string, bool) {
	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return "", false
	}
	switch x := v.(type) {
	case string:
		return x, x != ""
	case json.Number:
		return x.String(), x.String() != "0"
	case bool:
		return strconv.FormatBool(x), x
	}
	return "", false
}

// Template describes how to build one question. Which fields matter
// depends on Type.
type Template struct {
	Type        problemgen.QuestionType `json:"type"`
	Template    string                  `json:"template"`
	Difficulty  string                  `json:"difficulty,omitempty"`
	Explanation string                  `json:"explanation,omitempty"`

	// CorrectAnswer is a string for most types and a boolean for
	// true_false.
	CorrectAnswer   json.RawMessage `json:"correct_answer,omitempty"`
	ReferenceAnswer string          `json:"reference_answer,omitempty"`
	Distractors     []string        `json:"distractors,omitempty"`

	CorrectAnswers problemgen.BlankVariants `json:"correct_answers,omitempty"`
	CaseSensitive  bool                     `json:"case_sensitive,omitempty"`

	CorrectKeywords    []string `json:"correct_keywords,omitempty"`
	MinKeywords        *int     `json:"min_keywords,omitempty"`
	RequiredConcepts   []string `json:"required_concepts,omitempty"`
	ExampleTypes       []string `json:"example_types,omitempty"`
	ConceptsToCompare  []string `json:"concepts_to_compare,omitempty"`
	ComparisonKeywords []string `json:"comparison_keywords,omitempty"`
	DefinitionElements []string `json:"definition_elements,omitempty"`

	CorrectNumeric   *float64    `json:"correct_answer_numeric,omitempty"`
	AcceptableRange  *[2]float64 `json:"acceptable_range,omitempty"`
	CalculationSteps []string    `json:"calculation_steps,omitempty"`

	MatrixData   [][]string `json:"matrix_data,omitempty"`
	AnalysisType string     `json:"analysis_type,omitempty"`
}

// answerText returns correct_answer when it is a string.
func (t *Template) answerText() string {
	var s string
	if len(t.CorrectAnswer) > 0 && json.Unmarshal(t.CorrectAnswer, &s) == nil {
		return s
	}
	return ""
}

// answerBool returns correct_answer when it is a boolean or a true/false
// word.
func (t *Template) answerBool() (bool, bool) {
	var b bool
	if len(t.CorrectAnswer) > 0 && json.Unmarshal(t.CorrectAnswer, &b) == nil {
		return b, true
	}
	switch strings.ToLower(strings.TrimSpace(t.answerText())) {
	case "true", "adevarat":
		return true, true
	case "false", "fals":
		return false, true
	}
	return false, false
}
