package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyzone/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for centered cards so
// that stacked boxes line up.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Card wraps content in a rounded-border box at content width cw.
func Card(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Padding(0, 2).
		Render(content)
}

// TitledCard is a Card with a heading line in the secondary color.
func TitledCard(title, content string, cw int) string {
	return Card(theme.Heading.Render(title)+"\n\n"+content, cw)
}

// Center places content in the middle of a width x height area.
func Center(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
