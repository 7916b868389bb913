package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/englishbuddy/internal/ui/theme"
)

// Button is a styled action label. A disabled button renders dimmed and
// its key hint is hidden.
type Button struct {
	Key      string
	Label    string
	Disabled bool
}

// NewButton creates a new button bound to key.
func NewButton(key, label string) Button {
	return Button{Key: key, Label: label}
}

// View renders the button.
func (b Button) View() string {
	if b.Disabled {
		return theme.ButtonInactive.
			Foreground(theme.TextDim).
			Render(b.Label)
	}
	key := lipgloss.NewStyle().Foreground(theme.Accent).Render("[" + b.Key + "] ")
	return theme.ButtonActive.Render(key + b.Label)
}

// ButtonRow renders buttons side by side.
func ButtonRow(buttons ...Button) string {
	views := make([]string, 0, len(buttons)*2)
	for i, b := range buttons {
		if i > 0 {
			views = append(views, "  ")
		}
		views = append(views, b.View())
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, views...)
}
