// Package extract recovers structured answers from free text: coordinate
// pairs, a root value with a leaf count, an option choice, a boolean,
// keyword hits and a main/justification split. Extractors never fail; an
// unreadable answer yields an empty result.
package extract

// Strategy is one named way of reading a T out of free text.
type Strategy[T any] interface {
	Name() string
	Try(text string) (T, bool)
}

type funcStrategy[T any] struct {
	name string
	try  func(string) (T, bool)
}

func (s funcStrategy[T]) Name() string              { return s.name }
func (s funcStrategy[T]) Try(text string) (T, bool) { return s.try(text) }

// Named wraps fn as a Strategy.
func Named[T any](name string, fn func(string) (T, bool)) Strategy[T] {
	return funcStrategy[T]{name: name, try: fn}
}

// FirstSuccess runs strategies in order and returns the first value found
// together with the name of the strategy that produced it.
func FirstSuccess[T any](text string, strategies ...Strategy[T]) (T, string, bool) {
	for _, s := range strategies {
		if v, ok := s.Try(text); ok {
			return v, s.Name(), true
		}
	}
	var zero T
	return zero, "", false
}
