package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestOptionLabel(t *testing.T) {
	assert.Equal(t, "A", OptionLabel(0))
	assert.Equal(t, "D", OptionLabel(3))
}

func TestMultiChoice_SkipsDisabled(t *testing.T) {
	m := NewMultiChoice([]string{"go", "N/A", "went", "N/A"}, []bool{false, true, false, true}, -1)
	assert.Equal(t, 0, m.Cursor)

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 2, m.Cursor, "cursor jumps over padded options")

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 2, m.Cursor, "no enabled option below")

	m, cmd := m.Update(keyPress('b'))
	assert.Nil(t, cmd, "padded options cannot be picked")
	assert.Equal(t, -1, m.Chosen)
}

func TestMultiChoice_PickByLetterAndEnter(t *testing.T) {
	m := NewMultiChoice([]string{"a", "b", "c", "d"}, nil, -1)

	m, cmd := m.Update(keyPress('c'))
	require.NotNil(t, cmd)
	assert.Equal(t, Picked{Index: 2}, cmd())
	assert.Equal(t, 2, m.Chosen)

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	m, cmd = m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, Picked{Index: 1}, cmd())
}

func TestMultiChoice_PickByNumber(t *testing.T) {
	m := NewMultiChoice([]string{"a", "b"}, nil, -1)
	_, cmd := m.Update(keyPress('2'))
	require.NotNil(t, cmd)
	assert.Equal(t, Picked{Index: 1}, cmd())

	_, cmd = m.Update(keyPress('9'))
	assert.Nil(t, cmd)
}

func TestMultiChoice_RestoresChosen(t *testing.T) {
	m := NewMultiChoice([]string{"a", "b", "c"}, nil, 1)
	assert.Equal(t, 1, m.Chosen)
	assert.Equal(t, 1, m.Cursor)
	assert.Contains(t, m.View(), "● B)")
}

func TestMultiChoice_RevealClearsOnPick(t *testing.T) {
	m := NewMultiChoice([]string{"a", "b"}, nil, 0)
	m.Reveal(1)
	assert.True(t, m.Revealed())

	m, _ = m.Update(keyPress('b'))
	assert.False(t, m.Revealed())
}

func TestMenu_SkipsDisabled(t *testing.T) {
	var picked string
	action := func(name string) func() tea.Cmd {
		return func() tea.Cmd { picked = name; return nil }
	}
	m := NewMenu([]MenuItem{
		{Label: "Quiz", Action: action("quiz")},
		{Label: "Reading", Disabled: true},
		{Label: "Quit", Action: action("quit")},
	})

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 2, m.Selected)
	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Equal(t, "quit", picked)
	assert.True(t, strings.Contains(m.View(), "▸ Quit"))
}

func TestMenu_WrapsAndJumps(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "Off", Disabled: true},
		{Label: "Quiz"},
		{Label: "History", Hint: "past attempts"},
		{Label: "Quit"},
	})
	assert.Equal(t, 1, m.Selected, "starts on the first enabled item")

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	assert.Equal(t, 3, m.Selected, "up from the top wraps past disabled items")
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 1, m.Selected)

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyEnd})
	assert.Equal(t, 3, m.Selected)
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyHome})
	assert.Equal(t, 1, m.Selected)
	assert.Contains(t, ansi.Strip(m.View()), "History  past attempts")
}

func TestScoreBar(t *testing.T) {
	bar := NewScoreBar("Score", 0.5, 40)
	assert.Contains(t, bar.View(), "50%")
	assert.Contains(t, bar.WithDetail("%d/%d", 2, 4).View(), "2/4")
	assert.NotContains(t, bar.WithDetail("%d/%d", 2, 4).View(), "50%")

	assert.Equal(t, ScoreColor(0.9), ScoreColor(0.8))
	assert.NotEqual(t, ScoreColor(0.8), ScoreColor(0.59))
}

func TestTextInputValueTrimmed(t *testing.T) {
	ti := NewTextInput("", false, 10)
	ti.Model.SetValue("  42 ")
	assert.Equal(t, "42", ti.Value())
	n, err := ti.NumericValue()
	require.NoError(t, err)
	assert.Equal(t, 42, n)
}

func TestTextInputNumericOnly(t *testing.T) {
	ti := NewTextInput("", true, 4)
	ti, _ = ti.Update(keyPress('x'))
	ti, _ = ti.Update(keyPress('7'))
	assert.Equal(t, "7", ti.Value())
}

func TestScrollView_KeepsFocusVisible(t *testing.T) {
	lines := make([]string, 30)
	for i := range lines {
		lines[i] = "line"
	}
	content := strings.Join(lines, "\n")

	var sv ScrollView
	sv.Render(content, 20, 10, 25)
	assert.Equal(t, 16, sv.Offset)

	sv.Render(content, 20, 10, 3)
	assert.Equal(t, 3, sv.Offset)

	sv.Down(100)
	sv.Render(content, 20, 10, -1)
	assert.Equal(t, 20, sv.Offset, "clamped to the last full window")

	sv.Up(50)
	assert.Zero(t, sv.Offset)
}
