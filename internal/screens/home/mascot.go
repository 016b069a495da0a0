package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyzone/internal/ui/theme"
)

// MascotVariant selects which Ms. Tammy art to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota // No finished quiz yet
	MascotCheering                         // Last score 80% or more
	MascotEncouraging                      // Last score below 60%
)

const mascotIdle = `┌───────┐
│ ◕   ◕ │
│   ‿   │
│ A B C │
└───────┘`

const mascotCheering = `┌───────┐
│ ★   ★ │
│   ▽   │
│ A B C │
└─╥───╥─┘
  ╚═══╝`

const mascotEncouraging = `┌───────┐
│ ◕   ◕ │ ♥
│   ‿   │
│ A B C │
└───────┘`

// RenderMascot returns the mascot art for the given variant.
func RenderMascot(v MascotVariant) string {
	art := mascotIdle
	fg := theme.Primary

	switch v {
	case MascotCheering:
		art = mascotCheering
		fg = theme.Success
	case MascotEncouraging:
		art = mascotEncouraging
		fg = theme.Accent
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}

// mascotFor picks the variant from the last finished score.
func mascotFor(last *int) MascotVariant {
	switch {
	case last == nil:
		return MascotIdle
	case *last >= 80:
		return MascotCheering
	case *last < 60:
		return MascotEncouraging
	default:
		return MascotIdle
	}
}

// mascotLine is Ms. Tammy's greeting for the variant.
func mascotLine(v MascotVariant, name string) string {
	switch v {
	case MascotCheering:
		return "Amazing work last time, " + name + "! Keep it up!"
	case MascotEncouraging:
		return "Every mistake helps you learn, " + name + ". Let's try again!"
	default:
		return "Hello, " + name + "! What shall we practice today?"
	}
}
