package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyzone/internal/ui/theme"
)

const bannerArt = `
███████╗████████╗██╗   ██╗██████╗ ██╗   ██╗
██╔════╝╚══██╔══╝██║   ██║██╔══██╗╚██╗ ██╔╝
███████╗   ██║   ██║   ██║██║  ██║ ╚████╔╝
╚════██║   ██║   ██║   ██║██║  ██║  ╚██╔╝
███████║   ██║   ╚██████╔╝██████╔╝   ██║
╚══════╝   ╚═╝    ╚═════╝ ╚═════╝    ╚═╝`

const bannerCompact = "S T U D Y   Z O N E"

// RenderBanner returns the STUDY banner styled in the primary color, with
// the "Z O N E" line under it. Uses a compact fallback for terminals
// narrower than 48 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 48 {
		return style.Render(bannerCompact)
	}
	zone := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render("Z  O  N  E")
	return lipgloss.JoinVertical(lipgloss.Center, style.Render(bannerArt), "", zone)
}
