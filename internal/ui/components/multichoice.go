package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyzone/internal/ui/theme"
)

// OptionLabel is the letter shown before option i: A, B, C and so on.
func OptionLabel(i int) string {
	return string(rune('A' + i))
}

// MultiChoice is a single-choice option list. The cursor moves over the
// enabled options; Enter or a letter key picks one. It never grades
// anything itself: Reveal marks the options once the caller has checked
// the answer.
type MultiChoice struct {
	Options  []string
	Disabled []bool // padded options that cannot be picked
	Cursor   int
	Chosen   int // -1 when nothing is picked

	revealed bool
	correct  int // -1 when the key is unknown
}

// NewMultiChoice creates a selector over options. chosen is the index of an
// already recorded answer or -1.
func NewMultiChoice(options []string, disabled []bool, chosen int) MultiChoice {
	m := MultiChoice{
		Options:  options,
		Disabled: disabled,
		Chosen:   -1,
		correct:  -1,
	}
	if chosen >= 0 && chosen < len(options) && !m.disabled(chosen) {
		m.Chosen = chosen
		m.Cursor = chosen
	} else {
		m.Cursor = m.next(-1, 1)
	}
	return m
}

// Picked is emitted when an option is chosen.
type Picked struct {
	Index int
}

// Init returns nil.
func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Update handles cursor movement and picking.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		m.Cursor = m.next(m.Cursor, -1)
		return m, nil
	case "down", "j":
		m.Cursor = m.next(m.Cursor, 1)
		return m, nil
	case "enter", "space", " ":
		return m.pick(m.Cursor)
	}

	if len(key) == 1 {
		c := key[0]
		switch {
		case c >= 'a' && c <= 'z':
			return m.pick(int(c - 'a'))
		case c >= '1' && c <= '9':
			return m.pick(int(c - '1'))
		}
	}
	return m, nil
}

func (m MultiChoice) pick(i int) (MultiChoice, tea.Cmd) {
	if i < 0 || i >= len(m.Options) || m.disabled(i) {
		return m, nil
	}
	m.Cursor = i
	m.Chosen = i
	m.revealed = false
	return m, func() tea.Msg { return Picked{Index: i} }
}

// Reveal marks the correct option (or none, when correct is -1) and the
// chosen one in the next View.
func (m *MultiChoice) Reveal(correct int) {
	m.revealed = true
	m.correct = correct
}

// Revealed reports whether Reveal has been called since the last pick.
func (m MultiChoice) Revealed() bool {
	return m.revealed
}

func (m MultiChoice) disabled(i int) bool {
	return i < len(m.Disabled) && m.Disabled[i]
}

// next returns the nearest enabled index from i in direction dir, or i
// when there is none.
func (m MultiChoice) next(i, dir int) int {
	for j := i + dir; j >= 0 && j < len(m.Options); j += dir {
		if !m.disabled(j) {
			return j
		}
	}
	if i < 0 {
		return 0
	}
	return i
}

// View renders the option list.
func (m MultiChoice) View() string {
	var b strings.Builder
	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Cursor && !m.revealed {
			prefix = "▸ "
		}
		mark := "○"
		if i == m.Chosen {
			mark = "●"
		}
		line := fmt.Sprintf("%s%s %s)  %s", prefix, mark, OptionLabel(i), opt)

		var style lipgloss.Style
		switch {
		case m.disabled(i):
			style = theme.Disabled
		case m.revealed && i == m.correct:
			style = theme.Correct
		case m.revealed && i == m.Chosen:
			style = theme.Incorrect
		case m.revealed:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Cursor:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
