package theory

import (
	"strings"

	"github.com/abhisek/smartest/internal/textnorm"
)

// minChunkLen drops fragments too short to answer anything.
const minChunkLen = 20

// Chunk is a retrievable piece of a topic's material.
type Chunk struct {
	Text      string `json:"text"`
	TopicID   string `json:"topic_id"`
	TopicName string `json:"topic_name"`
	Type      string `json:"type"`
	Title     string `json:"title"`
}

// labelled lists of the generic sections, in the order they are chunked
type section struct {
	key   string
	label string
	items func(*Material) []Entry
}

var genericSections = []section{
	{"algorithms", "Algorithms", func(m *Material) []Entry { return m.Algorithms }},
	{"steps", "Steps", func(m *Material) []Entry { return m.Steps }},
	{"optimization_tips", "Optimization Tips", func(m *Material) []Entry { return m.OptimizationTips }},
	{"common_mistakes", "Common Mistakes", func(m *Material) []Entry { return m.CommonMistakes }},
	{"applications", "Applications", func(m *Material) []Entry { return m.Applications }},
	{"formulas", "Formulas", func(m *Material) []Entry { return m.Formulas }},
}

// BuildChunks splits every topic's material into chunks: the definition,
// then key concepts, theorems, examples and the generic sections.
func BuildChunks(topics []Topic) []Chunk {
	var out []Chunk
	for i := range topics {
		t := &topics[i]
		add := func(text, typ, title string) {
			text = textnorm.CollapseSpace(text)
			if len([]rune(text)) < minChunkLen {
				return
			}
			if title == "" {
				title = t.Name
			}
			if title == "" {
				title = typ
			}
			out = append(out, Chunk{Text: text, TopicID: t.ID, TopicName: t.Name, Type: typ, Title: title})
		}
		m := &t.Material

		add(m.Definition, "definition", "")
		for _, e := range m.KeyConcepts {
			if e.Fields == nil {
				add(e.Text, "key_concept", "")
				continue
			}
			title := e.Get("concept")
			if title == "" {
				title = e.Get("name")
			}
			add(labelled(e, [][2]string{
				{"concept", "Concept"}, {"definition", "Definition"}, {"formula", "Formula"}, {"example", "Example"},
			}), "key_concept", title)
		}
		for _, e := range m.Theorems {
			if e.Fields == nil {
				continue
			}
			add(labelled(e, [][2]string{
				{"name", "Theorem"}, {"statement", "Statement"}, {"importance", "Importance"},
			}), "theorem", e.Get("name"))
		}
		for _, e := range m.Examples {
			if e.Fields == nil {
				continue
			}
			add(labelled(e, [][2]string{
				{"name", "Example"}, {"description", "Description"}, {"lesson", "Lesson"},
			}), "example", e.Get("name"))
		}
		for _, s := range genericSections {
			for _, e := range s.items(m) {
				if e.Fields == nil {
					add(e.Text, s.key, "")
					continue
				}
				name := firstOf(e, "name", "title", "concept")
				var parts []string
				if name != "" {
					parts = append(parts, s.label+": "+name)
				}
				for _, f := range e.Fields {
					switch f.Key {
					case "name", "title", "concept":
						continue
					}
					parts = append(parts, titleCase(f.Key)+": "+f.Value)
				}
				add(strings.Join(parts, " | "), s.key, name)
			}
		}
	}
	return out
}

// labelled renders the listed keys of e as "Label: value" joined by " | ".
func labelled(e Entry, keys [][2]string) string {
	var parts []string
	for _, k := range keys {
		if v := e.Get(k[0]); v != "" {
			parts = append(parts, k[1]+": "+v)
		}
	}
	return strings.Join(parts, " | ")
}

func firstOf(e Entry, keys ...string) string {
	for _, k := range keys {
		if v := e.Get(k); v != "" {
			return v
		}
	}
	return ""
}

func titleCase(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
