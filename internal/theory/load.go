package theory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/smartest/data"
	"github.com/abhisek/smartest/internal/problemgen"
)

// fileSchema is the shape every theory file must have.
var fileSchema = map[string]any{
	"type":     "object",
	"required": []any{"topics"},
	"properties": map[string]any{
		"topics": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"topic_id", "topic_name"},
				"properties": map[string]any{
					"topic_id":   map[string]any{"type": "string", "minLength": 1},
					"topic_name": map[string]any{"type": "string", "minLength": 1},
					"difficulty": map[string]any{"type": "string"},
					"category":   map[string]any{"type": "string"},
					"theory":     map[string]any{"type": "object"},
					"question_templates": map[string]any{
						"type":  "array",
						"items": templateSchema(),
					},
				},
			},
		},
	},
}

func templateSchema() map[string]any {
	types := make([]any, len(problemgen.QuestionTypes))
	for i, t := range problemgen.QuestionTypes {
		types[i] = string(t)
	}
	strList := map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
	return map[string]any{
		"type":     "object",
		"required": []any{"type", "template"},
		"properties": map[string]any{
			"type":             map[string]any{"enum": types},
			"template":         map[string]any{"type": "string", "minLength": 1},
			"correct_answer":   map[string]any{"type": []any{"string", "boolean", "number"}},
			"distractors":      strList,
			"correct_keywords": strList,
			"min_keywords":     map[string]any{"type": "integer", "minimum": 0},
			"acceptable_range": map[string]any{
				"type": "array", "minItems": 2, "maxItems": 2,
				"items": map[string]any{"type": "number"},
			},
			"correct_answer_numeric": map[string]any{"type": "number"},
		},
	}
}

var (
	schemaOnce sync.Once
	compiled   *jsonschema.Schema
	schemaErr  error
)

func theorySchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		raw, err := json.Marshal(fileSchema)
		if err != nil {
			schemaErr = err
			return
		}
		def, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
		if err != nil {
			schemaErr = fmt.Errorf("parse theory schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("schema://theory.json", def); err != nil {
			schemaErr = fmt.Errorf("add theory schema: %w", err)
			return
		}
		compiled, schemaErr = c.Compile("schema://theory.json")
	})
	return compiled, schemaErr
}

// Load reads a theory file. An empty path loads the built-in topics.
func Load(file string) ([]Topic, error) {
	if file == "" {
		return Parse(data.DefaultTheory)
	}
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading theory file: %w", err)
	}
	topics, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return topics, nil
}

// Parse validates raw against the theory schema and decodes its topics.
func Parse(raw []byte) ([]Topic, error) {
	schema, err := theorySchema()
	if err != nil {
		return nil, err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("theory file does not match schema: %w", err)
	}

	var file struct {
		Topics []Topic `json:"topics"`
	}
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decoding topics: %w", err)
	}
	seen := make(map[string]bool, len(file.Topics))
	for i := range file.Topics {
		t := &file.Topics[i]
		if seen[t.ID] {
			return nil, fmt.Errorf("duplicate topic_id %q", t.ID)
		}
		seen[t.ID] = true
		if t.Difficulty == "" {
			t.Difficulty = "medium"
		}
		if t.Category == "" {
			t.Category = "general"
		}
	}
	return file.Topics, nil
}
