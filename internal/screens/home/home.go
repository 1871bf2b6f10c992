// Package home is the TUI start screen: a menu into chat, practice and
// stats.
package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/smartest/internal/dispatch"
	"github.com/abhisek/smartest/internal/grading"
	"github.com/abhisek/smartest/internal/problemgen"
	"github.com/abhisek/smartest/internal/router"
	"github.com/abhisek/smartest/internal/scoreboard"
	"github.com/abhisek/smartest/internal/screen"
	"github.com/abhisek/smartest/internal/screens/chat"
	"github.com/abhisek/smartest/internal/screens/practice"
	"github.com/abhisek/smartest/internal/screens/stats"
	"github.com/abhisek/smartest/internal/theory"
	"github.com/abhisek/smartest/internal/ui/components"
	"github.com/abhisek/smartest/internal/ui/layout"
)

// Deps are the services the screens reachable from home need. Chat, Bank
// and Board are optional; their menu entries are disabled without them.
type Deps struct {
	Chat      *dispatch.Service
	Registry  *problemgen.Registry
	Grader    *grading.Grader
	Bank      *theory.Bank
	Board     *scoreboard.Board
	SessionID string
}

type HomeScreen struct {
	deps Deps
	menu components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)

func New(deps Deps) *HomeScreen {
	h := &HomeScreen{deps: deps}

	practiceItem := func(label string, d problemgen.Domain) components.MenuItem {
		return components.MenuItem{Label: label, Action: func() tea.Cmd {
			gen := func() (problemgen.Payload, error) {
				return deps.Registry.Generate(d, nil, nil)
			}
			return router.Push(practice.New(d, gen, deps.Grader, deps.Board))
		}}
	}

	items := []components.MenuItem{
		{Label: "ASK THE TUTOR", Disabled: deps.Chat == nil, Action: func() tea.Cmd {
			return router.Push(chat.New(deps.Chat, deps.Board, deps.SessionID))
		}},
		practiceItem("NASH", problemgen.DomainNash),
		practiceItem("MINMAX", problemgen.DomainMinMax),
		practiceItem("CSP", problemgen.DomainCSP),
		practiceItem("STRATEGY", problemgen.DomainStrategy),
		{Label: "THEORY QUIZ", Disabled: deps.Bank == nil, Action: func() tea.Cmd {
			gen := func() (problemgen.Payload, error) {
				return deps.Bank.Generate("", "", nil)
			}
			return router.Push(practice.New(problemgen.DomainTheory, gen, deps.Grader, deps.Board))
		}},
		{Label: "STATS", Disabled: deps.Board == nil, Action: func() tea.Cmd {
			return router.Push(stats.New(deps.Board))
		}},
		{Label: "EXIT", Action: func() tea.Cmd { return tea.Quit }},
	}
	h.menu = components.NewMenu(items)
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; add back header and footer.
	compact := layout.IsCompact(width, height+6)
	buttons := !compact && height >= 3*len(h.menu.Items)+12

	cw := components.ContentWidth(width)

	sections := []string{
		renderTitle(cw, compact),
		renderStatsBar(h.deps.Board, cw, compact),
		renderMenu(h.menu.Labels(), h.menu.Selected, cw, h.menu.DisabledSet(), !buttons),
	}
	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
