package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/smartest/internal/dispatch"
	"github.com/abhisek/smartest/internal/grading"
	"github.com/abhisek/smartest/internal/problemgen"
	"github.com/abhisek/smartest/internal/scoreboard"
	"github.com/abhisek/smartest/internal/theory"
)

type fakeService struct {
	inputs []string
	resets int
	err    error
}

func (f *fakeService) Handle(_ context.Context, sessionID, input string) (dispatch.Reply, error) {
	f.inputs = append(f.inputs, sessionID+"|"+input)
	if f.err != nil {
		return dispatch.Reply{}, f.err
	}
	return dispatch.Reply{
		Text:       "reply to " + input,
		Kind:       dispatch.KindTheory,
		Method:     "fuzzy",
		Confidence: 0.5,
		Sources:    []theory.Source{{Chunk: theory.Chunk{TopicName: "Nash"}}},
	}, nil
}

func (f *fakeService) Reset(context.Context, string) error {
	f.resets++
	return nil
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func send(t *testing.T, s *ChatScreen, text string) {
	t.Helper()
	s.input.Model.SetValue(text)
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("enter produced no command")
	}
	if !s.busy {
		t.Error("screen should be busy while waiting")
	}
	s.Update(cmd())
}

func TestSendAndReply(t *testing.T) {
	svc := &fakeService{}
	s := New(svc, nil, "tui-1")

	send(t, s, "what is a nash equilibrium?")

	if len(svc.inputs) != 1 || svc.inputs[0] != "tui-1|what is a nash equilibrium?" {
		t.Fatalf("service got %v", svc.inputs)
	}
	if s.busy {
		t.Error("screen still busy after reply")
	}
	last := s.log[len(s.log)-1]
	if last.role != roleTutor || !strings.Contains(last.text, "reply to") {
		t.Fatalf("last entry = %+v", last)
	}
	if !strings.Contains(last.meta, "confidence 50%") || !strings.Contains(last.meta, "source: Nash") {
		t.Errorf("meta = %q", last.meta)
	}
	if s.input.Value() != "" {
		t.Error("input was not cleared")
	}
}

func TestEmptyInputIsIgnored(t *testing.T) {
	svc := &fakeService{}
	s := New(svc, nil, "tui-1")
	s.input.Model.SetValue("   ")
	if _, cmd := s.Update(specialKey(tea.KeyEnter)); cmd != nil {
		t.Error("empty input should not be sent")
	}
}

func TestServiceErrorIsShown(t *testing.T) {
	s := New(&fakeService{err: errors.New("store down")}, nil, "tui-1")
	send(t, s, "hello")
	last := s.log[len(s.log)-1]
	if last.role != roleSystem || !strings.Contains(last.text, "store down") {
		t.Errorf("last entry = %+v", last)
	}
}

func TestCtrlRResets(t *testing.T) {
	svc := &fakeService{}
	s := New(svc, nil, "tui-1")
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("ctrl+r produced no command")
	}
	s.Update(cmd())
	if svc.resets != 1 {
		t.Errorf("resets = %d", svc.resets)
	}
	if !strings.Contains(s.log[len(s.log)-1].text, "No problem is pending") {
		t.Errorf("missing reset notice")
	}
}

func TestViewKeepsNewestLines(t *testing.T) {
	s := New(&fakeService{}, nil, "tui-1")
	for i := 0; i < 30; i++ {
		s.log = append(s.log, entry{role: roleUser, text: "message"})
	}
	s.log = append(s.log, entry{role: roleTutor, text: "newest"})
	view := s.View(80, 12)
	if !strings.Contains(view, "newest") {
		t.Error("newest message not visible")
	}
	if strings.Contains(view, greeting) {
		t.Error("oldest message should have scrolled away")
	}
}

type gradingService struct{ fakeService }

func (g *gradingService) Handle(_ context.Context, _, input string) (dispatch.Reply, error) {
	return dispatch.Reply{
		Text:    "Score: 100%",
		Kind:    dispatch.KindGrade,
		Problem: &problemgen.Payload{ID: "NASH-7", Domain: problemgen.DomainNash},
		Result:  &grading.Result{Score: 100, Feedback: "Correct!"},
	}, nil
}

func TestGradedRepliesAreTallied(t *testing.T) {
	board := scoreboard.New()
	s := New(&gradingService{}, board, "tui-1")
	send(t, s, "(1,1)")

	recent := board.Recent("", 0)
	if len(recent) != 1 {
		t.Fatalf("tallied %d answers", len(recent))
	}
	if e := recent[0]; e.ProblemID != "NASH-7" || e.Answer != "(1,1)" || e.Score != 100 {
		t.Errorf("entry = %+v", e)
	}

	// Theory replies are not answers.
	send(t, New(&fakeService{}, board, "tui-1"), "what is nash")
	if n := board.Totals().Answers; n != 1 {
		t.Errorf("answers = %d", n)
	}
}
