package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/englishbuddy/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle    MascotVariant = iota // Logged in, nothing to report
	MascotOffline                      // No key: sleeping
	MascotAlert                        // A notice is showing
)

const mascotIdle = ` ,___,
 (O,O)
 /)__)
 -"-"-`

const mascotOffline = ` ,___,
 (-,-) z
 /)__)
 -"-"-`

const mascotAlert = ` ,___,
 (O,O) !
 /)__)
 -"-"-`

// RenderMascot returns the owl for the given variant.
func RenderMascot(variant MascotVariant) string {
	art, fg := mascotIdle, theme.Primary
	switch variant {
	case MascotOffline:
		art, fg = mascotOffline, theme.TextDim
	case MascotAlert:
		art, fg = mascotAlert, theme.Accent
	}
	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}

func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}
