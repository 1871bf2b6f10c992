// Package stats shows per-domain grading totals and the latest answers
// graded since the TUI started.
package stats

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/smartest/internal/scoreboard"
	"github.com/abhisek/smartest/internal/screen"
	"github.com/abhisek/smartest/internal/textnorm"
	"github.com/abhisek/smartest/internal/ui/components"
	"github.com/abhisek/smartest/internal/ui/layout"
	"github.com/abhisek/smartest/internal/ui/theme"
)

const recentLimit = 20

type StatsScreen struct {
	board    *scoreboard.Board
	domains  []scoreboard.DomainStats
	selected int
	expanded map[int]bool
}

var _ screen.Screen = (*StatsScreen)(nil)
var _ screen.KeyHintProvider = (*StatsScreen)(nil)

func New(board *scoreboard.Board) *StatsScreen {
	return &StatsScreen{board: board, expanded: make(map[int]bool)}
}

// Init snapshots the board; totals do not change while the screen is up.
func (s *StatsScreen) Init() tea.Cmd {
	if s.board != nil {
		s.domains = s.board.Stats()
	}
	return nil
}

func (s *StatsScreen) Title() string {
	return "Stats"
}

func (s *StatsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Answers"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *StatsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.domains)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *StatsScreen) View(width, height int) string {
	if len(s.domains) == 0 {
		return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).
			Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No answers graded yet. Start practicing!")
	}

	cw := min(width-8, 70)
	var b strings.Builder
	b.WriteString("\n")

	for i, d := range s.domains {
		avg := components.NewProgressBar("", d.AverageScore/100, true, 24).View()
		line := fmt.Sprintf("%-10s %4d answers  %3d perfect  %s", d.Domain, d.Answers, d.Perfect, avg)

		style := theme.Unselected
		prefix := "  "
		if i == s.selected {
			style = theme.Selected
			prefix = "▸ "
		}
		b.WriteString(prefix + style.Render(line) + "\n")

		if s.expanded[i] {
			b.WriteString(s.renderAnswers(d.Domain, cw))
		}
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}

// renderAnswers lists the latest answers for one domain.
func (s *StatsScreen) renderAnswers(domain string, width int) string {
	entries := s.board.Recent(domain, recentLimit)
	if len(entries) == 0 {
		return theme.Hint.Render("      No recent answers.") + "\n"
	}

	var b strings.Builder
	for _, e := range entries {
		score := theme.ScoreStyle(e.Score).Render(fmt.Sprintf("%3d%%", e.Score))
		text := textnorm.Truncate(textnorm.CollapseSpace(e.Answer), max(width-30, 10))
		fmt.Fprintf(&b, "      %s  %s  %s\n",
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(e.At.Format("15:04")),
			score,
			lipgloss.NewStyle().Foreground(theme.Text).Render(text))
	}
	return b.String()
}
