// Package layout draws the chrome around every screen: the header bar with
// the library status, the key hint footer and the too-small notice.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/englishbuddy/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24

	HeaderHeight = 3
	FooterHeight = 3

	// Screens switch to a condensed rendering below these.
	CompactWidthThreshold  = 100
	CompactHeightThreshold = 30
)

// KeyHint is one key binding shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// HeaderStatus is the right-hand side of the header bar.
type HeaderStatus struct {
	Lessons int
	Online  bool
}

// IsTooSmall reports whether the terminal is below the minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the user to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	lines := []string{
		lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("EnglishBuddy needs more room"),
		"",
		theme.Body.Render(fmt.Sprintf("Resize to at least %d x %d", MinWidth, MinHeight)),
		theme.Hint.Render(fmt.Sprintf("now %d x %d", width, height)),
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, lines...))
}

func bar(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}

// RenderHeader draws the app name on the left, the screen title in the
// middle and the lesson count with the key state on the right.
func RenderHeader(title string, status HeaderStatus, width int) string {
	left := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  EnglishBuddy")
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(title)

	key := lipgloss.NewStyle().Foreground(theme.TextDim).Render("○ offline")
	if status.Online {
		key = lipgloss.NewStyle().Foreground(theme.Success).Render("● key set")
	}
	right := lipgloss.NewStyle().Foreground(theme.Accent).
		Render(fmt.Sprintf("▤ %d lessons", status.Lessons)) + "   " + key + "  "

	inner := max(width-4, 0)
	lw, cw, rw := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)

	// Center the title on the bar, not on the space left over.
	leftGap := max((inner-cw)/2-lw, 1)
	rightGap := max(inner-lw-leftGap-cw-rw, 1)

	return bar(width).Render(left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right)
}

// RenderFooter draws the key hints. Hints that don't fit are dropped from
// the end.
func RenderFooter(hints []KeyHint, width int) string {
	keyStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	line := " "
	for _, h := range hints {
		part := "  " + keyStyle.Render(h.Key) + " " + descStyle.Render(h.Description)
		if lipgloss.Width(line+part) > width-4 {
			break
		}
		line += part
	}
	return bar(width).Render(line)
}

// RenderFrame stacks header, content and footer, padding the content to
// fill the rest of the terminal.
func RenderFrame(header, content, footer string, width, height int) string {
	contentHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(contentHeight).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
