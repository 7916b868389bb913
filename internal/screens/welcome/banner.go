package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/englishbuddy/internal/ui/theme"
)

const bannerArt = `
 ███████╗███╗   ██╗ ██████╗ ██╗     ██╗███████╗██╗  ██╗
 ██╔════╝████╗  ██║██╔════╝ ██║     ██║██╔════╝██║  ██║
 █████╗  ██╔██╗ ██║██║  ███╗██║     ██║███████╗███████║
 ██╔══╝  ██║╚██╗██║██║   ██║██║     ██║╚════██║██╔══██║
 ███████╗██║ ╚████║╚██████╔╝███████╗██║███████║██║  ██║
 ╚══════╝╚═╝  ╚═══╝ ╚═════╝ ╚══════╝╚═╝╚══════╝╚═╝  ╚═╝
                       B U D D Y`

const bannerCompact = "E N G L I S H  B U D D Y"

// RenderBanner returns the EnglishBuddy banner styled in the primary color.
// Uses a compact fallback for terminals narrower than 60 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 60 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
