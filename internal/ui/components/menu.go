package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studyzone/internal/ui/theme"
)

// MenuItem represents a single item in a navigation menu.
type MenuItem struct {
	Label string
	// Hint is shown dimmed after the label.
	Hint     string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical navigation menu. The cursor wraps at both ends and
// never rests on a disabled item.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a new menu with the cursor on the first enabled item.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items, Selected: -1}
	m.Selected = m.step(-1, 1)
	return m
}

func (m Menu) Init() tea.Cmd {
	return nil
}

// step returns the next enabled index from 'from' in direction dir, or
// Selected when nothing else is enabled.
func (m Menu) step(from, dir int) int {
	n := len(m.Items)
	for k := 1; k <= n; k++ {
		i := ((from+dir*k)%n + n) % n
		if !m.Items[i].Disabled {
			return i
		}
	}
	return max(m.Selected, 0)
}

// Update handles keyboard navigation.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		m.Selected = m.step(m.Selected, -1)
	case "down", "j", "tab":
		m.Selected = m.step(m.Selected, 1)
	case "home":
		m.Selected = m.step(-1, 1)
	case "end":
		m.Selected = m.step(len(m.Items), -1)
	case "enter":
		if m.Selected >= 0 && m.Selected < len(m.Items) {
			item := m.Items[m.Selected]
			if item.Action != nil && !item.Disabled {
				return m, item.Action()
			}
		}
	}

	return m, nil
}

func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		switch {
		case item.Disabled:
			b.WriteString(theme.Disabled.Render("    " + item.Label))
		case i == m.Selected:
			b.WriteString(theme.Selected.Render("  ▸ " + item.Label))
		default:
			b.WriteString(theme.Unselected.Render("    " + item.Label))
		}
		if item.Hint != "" {
			b.WriteString(theme.Hint.Render("  " + item.Hint))
		}
		b.WriteString("\n")
	}
	return b.String()
}
