package grading

import (
	"fmt"

	"github.com/abhisek/smartest/internal/extract"
)

// GradeOption scores an answer that should pick correct out of options.
func GradeOption(options []string, correct, answer string) Result {
	choice, ok := extract.OptionChoice(answer, options)
	if !ok {
		return Result{Feedback: fmt.Sprintf(
			"I could not tell which option you chose. Answer with the option number (1-%d) or its name.", len(options))}
	}
	selected := options[choice.Index]
	res := Result{Selected: selected, Method: choice.Method}
	if selected == correct {
		res.Score = 100
		res.Feedback = fmt.Sprintf("Correct! %s is the right choice.", correct)
		return res
	}
	res.Feedback = fmt.Sprintf("You selected %s, but the correct answer is %s.", selected, correct)
	return res
}
