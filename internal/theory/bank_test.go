package theory

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/smartest/internal/problemgen"
)

func defaultBank(t *testing.T) *Bank {
	t.Helper()
	b, err := LoadBank("")
	require.NoError(t, err)
	return b
}

func seed(v uint64) *uint64 { return &v }

func TestLoad_Default(t *testing.T) {
	topics, err := Load("")
	require.NoError(t, err)
	require.NotEmpty(t, topics)

	types := map[problemgen.QuestionType]bool{}
	for _, topic := range topics {
		assert.NotEmpty(t, topic.ID)
		assert.NotEmpty(t, topic.Name)
		assert.NotEmpty(t, topic.Material.Definition, topic.ID)
		for _, tpl := range topic.Templates {
			types[tpl.Type] = true
		}
	}
	for _, qt := range problemgen.QuestionTypes {
		assert.True(t, types[qt], "no template of type %s", qt)
	}
}

func TestParse_Defaults(t *testing.T) {
	topics, err := Parse([]byte(`{"topics":[{"topic_id":"t1","topic_name":"One"}]}`))
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.Equal(t, "medium", topics[0].Difficulty)
	assert.Equal(t, "general", topics[0].Category)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{topics`},
		{"no topics", `{"items":[]}`},
		{"missing name", `{"topics":[{"topic_id":"t1"}]}`},
		{"bad type", `{"topics":[{"topic_id":"t1","topic_name":"One","question_templates":[{"type":"essay","template":"x"}]}]}`},
		{"no template text", `{"topics":[{"topic_id":"t1","topic_name":"One","question_templates":[{"type":"short_answer"}]}]}`},
		{"duplicate id", `{"topics":[{"topic_id":"t1","topic_name":"One"},{"topic_id":"t1","topic_name":"Two"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/theory.json")
	assert.Error(t, err)
}

func TestEntry_KeepsFieldOrder(t *testing.T) {
	var entries []Entry
	raw := `["plain text", {"name": "AC-3", "complexity": "O(ed^3)", "steps": ["a"], "weight": 2, "draft": false}]`
	require.NoError(t, json.Unmarshal([]byte(raw), &entries))
	require.Len(t, entries, 2)

	assert.Equal(t, "plain text", entries[0].Text)
	assert.Nil(t, entries[0].Fields)

	assert.Equal(t, []Field{{"name", "AC-3"}, {"complexity", "O(ed^3)"}, {"weight", "2"}}, entries[1].Fields)
	assert.Equal(t, "AC-3", entries[1].Get("name"))
	assert.Equal(t, "", entries[1].Get("steps"))
}

func TestTopics(t *testing.T) {
	b := defaultBank(t)
	list := b.Topics()
	require.NotEmpty(t, list)
	assert.Equal(t, "nash_equilibrium_basics", list[0].ID)
	assert.Equal(t, "game_theory", list[0].Category)
	for _, s := range list {
		assert.NotEmpty(t, s.Difficulty)
	}
}

func TestGenerate_Errors(t *testing.T) {
	b := defaultBank(t)

	_, err := b.Generate("no_such_topic", "", seed(1))
	assert.ErrorIs(t, err, ErrTopicNotFound)

	_, err = b.Generate("csp_backtracking", "essay", seed(1))
	assert.ErrorIs(t, err, ErrUnknownQuestionType)

	_, err = b.Generate("csp_backtracking", "matrix_analysis", seed(1))
	assert.ErrorIs(t, err, ErrNoTemplates)

	empty := NewBank([]Topic{{ID: "bare", Name: "Bare"}})
	_, err = empty.Generate("bare", "", seed(1))
	assert.ErrorIs(t, err, ErrNoTemplates)

	_, err = NewBank(nil).Generate("", "", seed(1))
	assert.ErrorIs(t, err, ErrTopicNotFound)
}

func TestGenerate_Reproducible(t *testing.T) {
	b := defaultBank(t)
	for s := uint64(1); s <= 20; s++ {
		p1, err := b.Generate("", "", seed(s))
		require.NoError(t, err)
		p2, err := b.Generate("", "", seed(s))
		require.NoError(t, err)

		j1, _ := json.Marshal(p1)
		j2, _ := json.Marshal(p2)
		assert.JSONEq(t, string(j1), string(j2), "seed %d", s)
		assert.True(t, strings.HasPrefix(p1.ID, "THEORY-"), p1.ID)
		assert.Equal(t, problemgen.DomainTheory, p1.Domain)
	}
}

func TestGenerate_EveryType(t *testing.T) {
	b := defaultBank(t)
	for _, qt := range problemgen.QuestionTypes {
		t.Run(string(qt), func(t *testing.T) {
			var p problemgen.Payload
			var err error
			for _, s := range b.Topics() {
				p, err = b.Generate(s.ID, string(qt), seed(3))
				if err == nil {
					break
				}
			}
			require.NoError(t, err)
			q := p.Theory
			require.NotNil(t, q)
			assert.Equal(t, qt, q.QuestionType)
			assert.NoError(t, q.Validate())
			assert.NotEmpty(t, p.QuestionText)
			assert.Equal(t, q.ReferenceAnswer(), p.Solution.Answer)
		})
	}
}

func TestGenerate_MultipleChoiceOptions(t *testing.T) {
	b := defaultBank(t)
	positions := map[int]bool{}
	for s := uint64(1); s <= 30; s++ {
		p, err := b.Generate("search_strategies", "multiple_choice", seed(s))
		require.NoError(t, err)
		q := p.Theory
		require.Len(t, q.Options, 4)
		require.NotNil(t, q.CorrectIndex)
		assert.Equal(t, "BFS", q.Options[*q.CorrectIndex])
		assert.Contains(t, p.QuestionText, "1. ")
		positions[*q.CorrectIndex] = true
	}
	assert.Greater(t, len(positions), 1, "correct option never moves")
}

func TestGenerate_TemplateMapping(t *testing.T) {
	b := defaultBank(t)

	p, err := b.Generate("nash_equilibrium_basics", "true_false", seed(1))
	require.NoError(t, err)
	require.NotNil(t, p.Theory.CorrectBool)
	assert.False(t, *p.Theory.CorrectBool)
	assert.Contains(t, p.Theory.CorrectAnswer, "strategii mixte")
	assert.Equal(t, "False", p.Solution.Answer)

	p, err = b.Generate("search_strategies", "true_false", seed(1))
	require.NoError(t, err)
	require.NotNil(t, p.Theory.CorrectBool)
	assert.False(t, *p.Theory.CorrectBool)

	p, err = b.Generate("nash_equilibrium_basics", "comparison", seed(1))
	require.NoError(t, err)
	assert.Equal(t, 3, p.Theory.MinKeywords)
	assert.Equal(t, []string{"pur", "mixt"}, p.Theory.ConceptsToCompare)

	p, err = b.Generate("csp_backtracking", "comparison", seed(1))
	require.NoError(t, err)
	assert.Equal(t, 2, p.Theory.MinKeywords)
	assert.Equal(t, p.Theory.ComparisonKeywords, p.Theory.Keywords)

	p, err = b.Generate("minimax_alpha_beta", "calculation", seed(1))
	require.NoError(t, err)
	require.NotNil(t, p.Theory.CorrectNumeric)
	assert.Equal(t, 9.0, *p.Theory.CorrectNumeric)

	p, err = b.Generate("nash_equilibrium_basics", "matrix_analysis", seed(1))
	require.NoError(t, err)
	assert.Equal(t, "nash_equilibrium", p.Theory.AnalysisType)
	assert.Len(t, p.Theory.MatrixData, 2)

	p, err = b.Generate("minimax_alpha_beta", "fill_blank", seed(1))
	require.NoError(t, err)
	assert.Equal(t, []string{"-infinit", "+infinit"}, p.Theory.CorrectAnswers[0])
}

func TestGenerator_ServesRegistry(t *testing.T) {
	reg := problemgen.DefaultRegistry()
	reg.Register(Generator{Bank: defaultBank(t)})

	p, err := reg.Generate(problemgen.DomainTheory, problemgen.Params{
		"topic_id":      "heuristics",
		"question_type": "definition",
	}, seed(5))
	require.NoError(t, err)
	assert.Equal(t, "heuristics", p.Theory.TopicID)
	assert.Equal(t, problemgen.QuestionDefinition, p.Theory.QuestionType)

	_, err = reg.Generate(problemgen.DomainTheory, problemgen.Params{"topic_id": "nope"}, seed(5))
	assert.ErrorIs(t, err, ErrTopicNotFound)
}
