package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/englishbuddy/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for centered panels.
// All boxes are rendered at this width so they visually align.
func ContentWidth(frameWidth int) int {
	// Leave room for frame border (2) + inner padding (4)
	w := frameWidth - 6
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Card wraps content in a rounded-border card at the given content width.
func Card(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw-2).
		Padding(0, 1).
		Render(content)
}

// Panel is a titled card, left aligned, used for the reader panes.
func Panel(title, content string, width, height int, focused bool) string {
	border := theme.Border
	if focused {
		border = theme.Primary
	}
	heading := theme.Heading.Render(title)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(width).
		Height(height).
		Padding(0, 1).
		Render(heading + "\n\n" + content)
}
