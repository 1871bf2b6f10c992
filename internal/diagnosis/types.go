package diagnosis

// Category classifies how sure the student sounds about an answer.
type Category string

const (
	CategoryUnknown          Category = "unknown"
	CategoryUncertain        Category = "uncertain"
	CategoryPartialKnowledge Category = "partial_knowledge"
	CategoryConfident        Category = "confident"
)

// ClassifyInput holds the text under classification. Folded is the
// lowercased, diacritic-free form that all pattern lists are written in.
type ClassifyInput struct {
	Answer string
	Folded string
}

// Result is the outcome of running the uncertainty chain.
type Result struct {
	Category       Category
	Confidence     float64
	ClassifierName string
	// Matched is the phrase that triggered the classifier.
	Matched string
}

// ShortCircuits reports whether grading should stop at the uncertainty
// verdict instead of scoring the content.
func (r Result) ShortCircuits() bool {
	return r.Category == CategoryUnknown || r.Category == CategoryUncertain
}
