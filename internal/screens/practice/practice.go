// Package practice is the TUI drill loop: generate a problem, read the
// answer, grade it and show the reference solution.
package practice

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/smartest/internal/grading"
	"github.com/abhisek/smartest/internal/problemgen"
	"github.com/abhisek/smartest/internal/scoreboard"
	"github.com/abhisek/smartest/internal/screen"
	"github.com/abhisek/smartest/internal/ui/components"
	"github.com/abhisek/smartest/internal/ui/layout"
	"github.com/abhisek/smartest/internal/ui/theme"
)

// GenerateFunc produces the next problem.
type GenerateFunc func() (problemgen.Payload, error)

type problemMsg struct {
	payload problemgen.Payload
	err     error
}

type gradedMsg struct {
	result grading.Result
}

var titles = map[problemgen.Domain]string{
	problemgen.DomainNash:     "Nash",
	problemgen.DomainMinMax:   "MinMax",
	problemgen.DomainCSP:      "CSP",
	problemgen.DomainStrategy: "Strategy",
	problemgen.DomainTheory:   "Theory",
}

var answerHints = map[problemgen.Domain]string{
	problemgen.DomainNash:   `e.g. "1 2" or "(1,2) (2,1)", or "none"`,
	problemgen.DomainMinMax: `e.g. "value=3 leaves=5"`,
}

type PracticeScreen struct {
	domain    problemgen.Domain
	generate  GenerateFunc
	grader    *grading.Grader
	board     *scoreboard.Board

	payload *problemgen.Payload
	input   components.TextInput
	choice  components.MultiChoice
	answer  string
	result  *grading.Result
	grading bool
	errMsg  string
	solved  int
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)

// New builds a practice screen. board may be nil; answers are then not
// tallied.
func New(domain problemgen.Domain, generate GenerateFunc, grader *grading.Grader, board *scoreboard.Board) *PracticeScreen {
	if grader == nil {
		grader = grading.New(nil, nil)
	}
	return &PracticeScreen{
		domain:   domain,
		generate: generate,
		grader:   grader,
		board:    board,
		input:    components.NewTextInput("Type your answer...", 500),
	}
}

func (s *PracticeScreen) Init() tea.Cmd {
	return tea.Batch(s.next(), s.input.Init())
}

func (s *PracticeScreen) Title() string {
	return "Practice: " + titles[s.domain]
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	if s.result != nil || s.errMsg != "" {
		return []layout.KeyHint{
			{Key: "N", Description: "Next problem"},
			{Key: "Esc", Description: "Back"},
		}
	}
	if s.hasOptions() {
		return []layout.KeyHint{
			{Key: "↑↓/1-9", Description: "Choose"},
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Submit"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *PracticeScreen) hasOptions() bool {
	return s.payload != nil && len(options(s.payload)) > 0
}

// options lists what the picker offers. Theory questions only use it when
// they are multiple choice.
func options(p *problemgen.Payload) []string {
	if p.Theory != nil && p.Theory.QuestionType != problemgen.QuestionMultipleChoice {
		return nil
	}
	return p.Options()
}

// correctOption is the option to highlight after grading.
func correctOption(p *problemgen.Payload) string {
	if q := p.Theory; q != nil && q.CorrectIndex != nil && *q.CorrectIndex >= 0 && *q.CorrectIndex < len(q.Options) {
		return q.Options[*q.CorrectIndex]
	}
	return p.Recompute().Answer
}

// stem drops the numbered option lines that close a question text.
func stem(text string, opts []string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i := len(opts); i >= 1 && len(lines) > 1; i-- {
		if lines[len(lines)-1] != fmt.Sprintf("%d. %s", i, opts[i-1]) {
			break
		}
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// next asks for a new problem.
func (s *PracticeScreen) next() tea.Cmd {
	gen := s.generate
	return func() tea.Msg {
		p, err := gen()
		return problemMsg{payload: p, err: err}
	}
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case problemMsg:
		s.result, s.answer, s.errMsg = nil, "", ""
		if msg.err != nil {
			s.payload = nil
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.payload = &msg.payload
		s.choice = components.NewMultiChoice(options(&msg.payload))
		s.input.Model.Reset()
		return s, nil

	case gradedMsg:
		s.grading = false
		s.result = &msg.result
		if msg.result.Score >= 100 {
			s.solved++
		}
		return s, nil

	case tea.KeyMsg:
		if s.result != nil || s.errMsg != "" {
			if msg.String() == "n" {
				return s, s.next()
			}
			return s, nil
		}
		if s.payload == nil || s.grading {
			return s, nil
		}
		if s.hasOptions() {
			var cmd tea.Cmd
			s.choice, cmd = s.choice.Update(msg)
			if s.choice.Submitted {
				return s, s.submit(s.choice.Choice())
			}
			return s, cmd
		}
		if msg.String() == "enter" {
			if answer := s.input.Take(); answer != "" {
				return s, s.submit(answer)
			}
			return s, nil
		}
	}

	if s.payload != nil && s.result == nil && !s.hasOptions() {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

// submit grades answer and tallies it on the board.
func (s *PracticeScreen) submit(answer string) tea.Cmd {
	s.answer = answer
	s.grading = true

	p := *s.payload
	grader, board := s.grader, s.board
	return func() tea.Msg {
		res := grader.Grade(context.Background(), &p, answer)
		if board != nil {
			board.Record(scoreboard.Entry{
				Domain:    string(p.Domain),
				ProblemID: p.ID,
				Answer:    answer,
				Score:     res.Score,
				Method:    res.Method,
			})
		}
		return gradedMsg{result: res}
	}
}

func (s *PracticeScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	if s.errMsg != "" {
		return center.Foreground(theme.Error).Render("\n\nCould not generate a problem: " + s.errMsg)
	}
	if s.payload == nil {
		return center.Foreground(theme.TextDim).Render("\n\n  Generating problem...")
	}

	textWidth := min(width-8, 90)
	block := lipgloss.NewStyle().Width(textWidth)

	var b strings.Builder

	info := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(fmt.Sprintf("  %s", s.payload.ID))
	solved := lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("solved %d", s.solved))
	if pad := width - lipgloss.Width(info) - lipgloss.Width(solved) - 4; pad > 0 {
		info += strings.Repeat(" ", pad) + solved
	}
	b.WriteString(info + "\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	question := s.payload.Text()
	if s.hasOptions() {
		question = stem(question, options(s.payload))
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, block.Foreground(theme.Text).Render(question)))
	b.WriteString("\n\n")

	switch {
	case s.result != nil:
		b.WriteString(s.renderResult(width, textWidth))
	case s.hasOptions():
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, block.Render(s.choice.View(""))))
	default:
		b.WriteString(center.Render("Answer: " + s.input.View()))
		if hint, ok := answerHints[s.domain]; ok {
			b.WriteString("\n" + theme.Hint.Width(width).Align(lipgloss.Center).Render(hint))
		}
	}
	if s.grading {
		b.WriteString("\n" + center.Foreground(theme.TextDim).Render("Grading..."))
	}
	return b.String()
}

func (s *PracticeScreen) renderResult(width, textWidth int) string {
	res := s.result
	block := lipgloss.NewStyle().Width(textWidth).Foreground(theme.Text)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).
		Render(theme.ScoreStyle(res.Score).Render(fmt.Sprintf("Score: %d%%", res.Score))))
	b.WriteString("\n\n")

	if s.hasOptions() {
		correct := correctOption(s.payload)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, block.Render(s.choice.View(correct))))
		b.WriteString("\n")
	} else {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Hint.Width(textWidth).Render("Your answer: "+s.answer)))
		b.WriteString("\n\n")
	}

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, block.Render(res.Feedback)))
	b.WriteString("\n\n")

	if exp := s.payload.Recompute().Explanation; exp != "" {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Card.Width(textWidth).Foreground(theme.TextDim).Render(exp)))
	}
	return b.String()
}
