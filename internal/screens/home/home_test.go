package home

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/smartest/internal/problemgen"
	"github.com/abhisek/smartest/internal/router"
	"github.com/abhisek/smartest/internal/scoreboard"
	"github.com/abhisek/smartest/internal/screens/practice"
)

func TestMenuDisablesMissingServices(t *testing.T) {
	h := New(Deps{Registry: problemgen.DefaultRegistry()})
	disabled := h.menu.DisabledSet()
	labels := h.menu.Labels()
	for i, label := range labels {
		want := label == "ASK THE TUTOR" || label == "THEORY QUIZ" || label == "STATS"
		if disabled[i] != want {
			t.Errorf("%s disabled = %v, want %v", label, disabled[i], want)
		}
	}
	if labels[h.menu.Selected] != "NASH" {
		t.Errorf("first enabled item = %q, want NASH", labels[h.menu.Selected])
	}
}

func TestEnterPushesPractice(t *testing.T) {
	h := New(Deps{Registry: problemgen.DefaultRegistry()})
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter produced no command")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("enter did not push a screen")
	}
	if _, ok := push.Screen.(*practice.PracticeScreen); !ok {
		t.Errorf("pushed %T", push.Screen)
	}
	if push.Screen.Title() != "Practice: Nash" {
		t.Errorf("title = %q", push.Screen.Title())
	}
}

func TestStatsBarShowsBoardTotals(t *testing.T) {
	board := scoreboard.New()
	for _, score := range []int{100, 100, 100} {
		board.Record(scoreboard.Entry{Domain: "nash", Score: score})
	}
	board.Record(scoreboard.Entry{Domain: "minmax", Score: 0})

	h := New(Deps{Registry: problemgen.DefaultRegistry(), Board: board})
	view := h.View(120, 40)
	for _, want := range []string{"4 ANSWERED", "3 PERFECT", "75% AVG"} {
		if !strings.Contains(view, want) {
			t.Errorf("stats bar missing %q", want)
		}
	}
}
