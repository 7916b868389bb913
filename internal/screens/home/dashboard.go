package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/englishbuddy/internal/ui/components"
	"github.com/abhisek/englishbuddy/internal/ui/theme"
)

const (
	bannerSmall = "E N G L I S H · B U D D Y"
	bannerLarge = `╔═╗┌┐┌┌─┐┬  ┬┌─┐┬ ┬  ╔╗ ┬ ┬┌┬┐┌┬┐┬ ┬
║╣ ││││ ┬│  │└─┐├─┤  ╠╩╗│ │ ││ ││└┬┘
╚═╝┘└┘└─┘┴─┘┴└─┘┴ ┴  ╚═╝└─┘─┴┘─┴┘ ┴ `

	buttonWidth = 24
)

// stats is what the dashboard tells about the library.
type stats struct {
	Lessons int
	Words   int
	Pending int
}

// dashboard lays the home screen out in one column cw wide.
type dashboard struct {
	cw      int
	compact bool
}

func newDashboard(frameWidth int, compact bool) dashboard {
	return dashboard{cw: min(max(frameWidth-6, 20), 60), compact: compact}
}

func (d dashboard) center(s string) string {
	return lipgloss.NewStyle().Width(d.cw).Align(lipgloss.Center).Render(s)
}

func (d dashboard) banner() string {
	art := bannerLarge
	if d.compact {
		art = bannerSmall
	}
	return d.center(theme.Title.Render(art))
}

func (d dashboard) statsBar(s stats) string {
	count := func(c lipgloss.Style, icon string, n int, label string) string {
		if d.compact {
			return c.Render(fmt.Sprintf("%s%d", icon, n))
		}
		return c.Render(fmt.Sprintf("%s %d %s", icon, n, label))
	}
	parts := []string{
		count(theme.Heading, "▤", s.Lessons, "LESSONS"),
		count(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true), "✎", s.Words, "WORDS"),
	}
	if !d.compact {
		if s.Pending > 0 {
			parts = append(parts, theme.Selected.Render(fmt.Sprintf("… %d LOOKING UP", s.Pending)))
		} else {
			parts = append(parts, theme.Subtitle.Render("✓ ALL DEFINED"))
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(d.cw-2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(strings.Join(parts, "  "))
}

// menu draws full-size buttons, or a plain list when space is short.
func (d dashboard) menu(items []components.MenuItem, selected int) string {
	button := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Foreground(theme.Text)
	active := button.Bold(true).Background(theme.Primary).BorderForeground(theme.Primary)

	rows := make([]string, len(items))
	for i, it := range items {
		on := i == selected && !it.Disabled
		switch {
		case d.compact && on:
			rows[i] = theme.Selected.Render(" ▸ " + it.Label + " ")
		case d.compact && it.Disabled:
			rows[i] = theme.Subtitle.Render("   " + it.Label)
		case d.compact:
			rows[i] = theme.Unselected.Render("   " + it.Label)
		case on:
			rows[i] = active.Render("▸ " + it.Label)
		case it.Disabled:
			rows[i] = button.Foreground(theme.TextDim).Render(it.Label)
		default:
			rows[i] = button.Render(it.Label)
		}
	}
	return d.center(strings.Join(rows, "\n"))
}

func (d dashboard) notice(text string) string {
	return d.center(theme.Notice.Render("⚠ " + text))
}

func (d dashboard) offline() string {
	return d.center(lipgloss.NewStyle().Foreground(theme.Accent).
		Render("No API key: lessons can be read, nothing new can be generated"))
}
