package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/smartest/internal/scoreboard"
	"github.com/abhisek/smartest/internal/ui/components"
	"github.com/abhisek/smartest/internal/ui/theme"
)

const titleFull = `╔═╗╔╦╗╔═╗╦═╗╔╦╗╔═╗╔═╗╔╦╗
╚═╗║║║╠═╣╠╦╝ ║ ║╣ ╚═╗ ║ 
╚═╝╩ ╩╩ ╩╩╚═ ╩ ╚═╝╚═╝ ╩ `

const titleCompact = "S · M · A · R · T · E · S · T"

const tagline = "game theory · search · constraints"

func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	center := lipgloss.NewStyle().Width(cw).Align(lipgloss.Center)

	if compact {
		return center.Render(style.Render(titleCompact))
	}
	return center.Render(style.Render(titleFull)) + "\n" +
		center.Render(lipgloss.NewStyle().Foreground(theme.TextDim).Render(tagline))
}

// renderStatsBar shows the answers graded since the TUI started.
func renderStatsBar(board *scoreboard.Board, cw int, compact bool) string {
	answered := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	perfect := lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
	avg := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true)

	var stats string
	if board == nil {
		stats = lipgloss.NewStyle().Foreground(theme.TextDim).Render("no scoreboard")
	} else {
		t := board.Totals()
		if compact {
			stats = fmt.Sprintf("%s %s %s",
				answered.Render(fmt.Sprintf("✎%d", t.Answers)),
				perfect.Render(fmt.Sprintf("★%d", t.Perfect)),
				avg.Render(fmt.Sprintf("⌀%.0f%%", t.AverageScore)),
			)
		} else {
			stats = fmt.Sprintf("%s  %s  %s",
				answered.Render(fmt.Sprintf("✎ %d ANSWERED", t.Answers)),
				perfect.Render(fmt.Sprintf("★ %d PERFECT", t.Perfect)),
				avg.Render(fmt.Sprintf("⌀ %.0f%% AVG", t.AverageScore)),
			)
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 22

func renderMenu(labels []string, selected, cw int, disabled map[int]bool, compact bool) string {
	var rows []string
	for i, label := range labels {
		if compact {
			rows = append(rows, compactRow(label, i == selected, disabled[i]))
			continue
		}
		rows = append(rows, components.ArcadeButton(label, i == selected, disabled[i], buttonWidth))
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(rows, "\n"))
}

// compactRow renders a borderless menu line for small terminals.
func compactRow(label string, selected, disabled bool) string {
	switch {
	case disabled:
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render("   " + label)
	case selected:
		return lipgloss.NewStyle().
			Foreground(theme.BgDark).
			Background(theme.ArcadeYellow).
			Bold(true).
			Render(" ▸ " + label + " ")
	default:
		return lipgloss.NewStyle().Foreground(theme.Text).Render("   " + label)
	}
}
