// Package chat is the TUI conversation with the tutor. It goes through the
// same dispatch.Service as the HTTP and Telegram front ends, so pending
// problems live in the shared session store.
package chat

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/smartest/internal/dispatch"
	"github.com/abhisek/smartest/internal/scoreboard"
	"github.com/abhisek/smartest/internal/screen"
	"github.com/abhisek/smartest/internal/ui/components"
	"github.com/abhisek/smartest/internal/ui/layout"
	"github.com/abhisek/smartest/internal/ui/theme"
)

// Service is the part of *dispatch.Service the screen uses.
type Service interface {
	Handle(ctx context.Context, sessionID, input string) (dispatch.Reply, error)
	Reset(ctx context.Context, sessionID string) error
}

type role int

const (
	roleUser role = iota
	roleTutor
	roleSystem
)

type entry struct {
	role role
	text string
	meta string
}

type replyMsg struct {
	input string
	reply dispatch.Reply
	err   error
}

type resetMsg struct {
	err error
}

const greeting = "Ask a question, or ask for a problem, e.g. \"give me a nash problem\"."

type ChatScreen struct {
	svc       Service
	board     *scoreboard.Board
	sessionID string
	input     components.TextInput
	log       []entry
	busy      bool
}

var _ screen.Screen = (*ChatScreen)(nil)
var _ screen.KeyHintProvider = (*ChatScreen)(nil)

// New builds the chat screen. Graded answers are tallied on board when it
// is not nil.
func New(svc Service, board *scoreboard.Board, sessionID string) *ChatScreen {
	return &ChatScreen{
		svc:       svc,
		board:     board,
		sessionID: sessionID,
		input:     components.NewTextInput("Type a message...", 500),
		log:       []entry{{role: roleSystem, text: greeting}},
	}
}

func (s *ChatScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *ChatScreen) Title() string {
	return "Chat"
}

func (s *ChatScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "Ctrl+R", Description: "Drop problem"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case replyMsg:
		s.busy = false
		if msg.err != nil {
			s.log = append(s.log, entry{role: roleSystem, text: "Error: " + msg.err.Error()})
			return s, nil
		}
		s.log = append(s.log, entry{role: roleTutor, text: msg.reply.Text, meta: replyMeta(msg.reply)})
		s.tally(msg.input, msg.reply)
		return s, nil

	case resetMsg:
		text := "Done. No problem is pending now."
		if msg.err != nil {
			text = "Error: " + msg.err.Error()
		}
		s.log = append(s.log, entry{role: roleSystem, text: text})
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return s, s.send()
		case "ctrl+r":
			return s, s.reset()
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *ChatScreen) send() tea.Cmd {
	if s.busy {
		return nil
	}
	text := s.input.Take()
	if text == "" {
		return nil
	}
	s.log = append(s.log, entry{role: roleUser, text: text})
	s.busy = true

	svc, id := s.svc, s.sessionID
	return func() tea.Msg {
		reply, err := svc.Handle(context.Background(), id, text)
		return replyMsg{input: text, reply: reply, err: err}
	}
}

func (s *ChatScreen) tally(input string, r dispatch.Reply) {
	if s.board == nil || r.Kind != dispatch.KindGrade || r.Problem == nil || r.Result == nil {
		return
	}
	s.board.Record(scoreboard.Entry{
		Domain:    string(r.Problem.Domain),
		ProblemID: r.Problem.ID,
		Answer:    input,
		Score:     r.Result.Score,
		Method:    r.Result.Method,
	})
}

func (s *ChatScreen) reset() tea.Cmd {
	svc, id := s.svc, s.sessionID
	return func() tea.Msg {
		return resetMsg{err: svc.Reset(context.Background(), id)}
	}
}

// replyMeta is the dim line under a tutor reply.
func replyMeta(r dispatch.Reply) string {
	var parts []string
	if r.Method != "" {
		parts = append(parts, r.Method)
	}
	if r.Kind == dispatch.KindTheory {
		parts = append(parts, fmt.Sprintf("confidence %.0f%%", r.Confidence*100))
		for _, src := range r.Sources {
			parts = append(parts, "source: "+src.TopicName)
		}
	}
	return strings.Join(parts, " · ")
}

func (s *ChatScreen) View(width, height int) string {
	inner := max(width-6, 20)

	var blocks []string
	for _, e := range s.log {
		blocks = append(blocks, renderEntry(e, inner))
	}
	if s.busy {
		blocks = append(blocks, theme.Hint.Render("  thinking..."))
	}

	// Keep the newest lines that fit above the input.
	lines := strings.Split(strings.Join(blocks, "\n\n"), "\n")
	room := max(height-3, 1)
	if len(lines) > room {
		lines = lines[len(lines)-room:]
	}

	input := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(inner).
		Render("> " + s.input.View())

	return lipgloss.NewStyle().Padding(0, 2).Render(
		lipgloss.NewStyle().Height(room).Render(strings.Join(lines, "\n")) + "\n" + input,
	)
}

func renderEntry(e entry, width int) string {
	body := lipgloss.NewStyle().Width(width).Foreground(theme.Text)
	switch e.role {
	case roleUser:
		return theme.UserLabel.Render("You") + "\n" + body.Render(e.text)
	case roleTutor:
		out := theme.TutorLabel.Render("Tutor") + "\n" + body.Render(e.text)
		if e.meta != "" {
			out += "\n" + theme.Hint.Width(width).Render(e.meta)
		}
		return out
	default:
		return theme.Hint.Width(width).Render(e.text)
	}
}
