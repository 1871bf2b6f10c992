package stats

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/smartest/internal/scoreboard"
)

func TestSnapshotAndExpand(t *testing.T) {
	board := scoreboard.New()
	board.Record(scoreboard.Entry{Domain: "minmax", Answer: "5 3", Score: 50})
	board.Record(scoreboard.Entry{Domain: "nash", Answer: "1 1", Score: 100})

	s := New(board)
	s.Init()

	view := s.View(100, 30)
	if !strings.Contains(view, "minmax") || !strings.Contains(view, "nash") {
		t.Fatalf("view misses domains:\n%s", view)
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !s.expanded[1] {
		t.Fatal("nash row not expanded")
	}
	view = s.View(100, 30)
	if !strings.Contains(view, "1 1") {
		t.Error("expanded row does not list the answer")
	}
	if strings.Contains(view, "5 3") {
		t.Error("collapsed minmax row lists its answers")
	}

	// Answers graded after Init show up only on the next visit.
	board.Record(scoreboard.Entry{Domain: "csp", Score: 0})
	if strings.Contains(s.View(100, 30), "csp") {
		t.Error("snapshot changed while the screen is up")
	}
}

func TestEmptyBoard(t *testing.T) {
	for _, s := range []*StatsScreen{New(scoreboard.New()), New(nil)} {
		s.Init()
		if !strings.Contains(s.View(80, 20), "No answers graded yet") {
			t.Error("expected empty state")
		}
		s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	}
}
