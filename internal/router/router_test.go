package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/smartest/internal/screen"
)

type stubScreen struct {
	title   string
	initRan bool
	got     []tea.Msg
}

type pingMsg struct{}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}

func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.got = append(s.got, msg)
	return s, nil
}

func (s *stubScreen) View(int, int) string { return s.title }
func (s *stubScreen) Title() string        { return s.title }

func TestPushAndPop(t *testing.T) {
	home := &stubScreen{title: "home"}
	r := New(home)

	chat := &stubScreen{title: "chat"}
	r.Update(PushScreenMsg{Screen: chat})
	if r.Depth() != 2 || r.Active().Title() != "chat" {
		t.Fatalf("after push: depth %d, active %q", r.Depth(), r.Active().Title())
	}
	if !chat.initRan {
		t.Error("pushed screen was not initialised")
	}

	r.Update(PopScreenMsg{})
	if r.Depth() != 1 || r.Active().Title() != "home" {
		t.Fatalf("after pop: depth %d, active %q", r.Depth(), r.Active().Title())
	}

	r.Pop()
	if r.Depth() != 1 {
		t.Errorf("last screen was popped")
	}
}

func TestReplaceKeepsDepth(t *testing.T) {
	r := New(&stubScreen{title: "home"})
	r.Push(&stubScreen{title: "nash"})

	next := &stubScreen{title: "minmax"}
	r.Update(ReplaceScreenMsg{Screen: next})

	if r.Depth() != 2 {
		t.Errorf("depth = %d, want 2", r.Depth())
	}
	if r.Active().Title() != "minmax" {
		t.Errorf("active = %q, want minmax", r.Active().Title())
	}
	if !next.initRan {
		t.Error("replacement was not initialised")
	}
}

func TestUpdateForwardsToActive(t *testing.T) {
	home := &stubScreen{title: "home"}
	top := &stubScreen{title: "top"}
	r := New(home)
	r.Push(top)

	r.Update(pingMsg{})
	if len(top.got) != 1 || len(home.got) != 0 {
		t.Errorf("messages: top %d, home %d", len(top.got), len(home.got))
	}
	if got := r.View(80, 24); got != "top" {
		t.Errorf("View = %q", got)
	}
}

func TestCommandHelpers(t *testing.T) {
	s := &stubScreen{title: "x"}
	if msg, ok := Push(s)().(PushScreenMsg); !ok || msg.Screen != s {
		t.Errorf("Push() produced %#v", msg)
	}
	if _, ok := Pop().(PopScreenMsg); !ok {
		t.Error("Pop() did not produce PopScreenMsg")
	}
}
