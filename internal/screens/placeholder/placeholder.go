package placeholder

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyzone/internal/screen"
	"github.com/abhisek/studyzone/internal/ui/layout"
	"github.com/abhisek/studyzone/internal/ui/theme"
)

// PlaceholderScreen stands in for a practice task that has no content yet.
type PlaceholderScreen struct {
	title string
	blurb string
}

var _ screen.Screen = (*PlaceholderScreen)(nil)
var _ screen.KeyHintProvider = (*PlaceholderScreen)(nil)

// New creates a new PlaceholderScreen with the given title. blurb describes
// what the task will cover and may be empty.
func New(title, blurb string) *PlaceholderScreen {
	return &PlaceholderScreen{title: title, blurb: blurb}
}

func (p *PlaceholderScreen) Init() tea.Cmd {
	return nil
}

func (p *PlaceholderScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	return p, nil
}

func (p *PlaceholderScreen) View(width, height int) string {
	text := "╌╌ Coming Soon ╌╌\n\n" + p.title + " practice is being prepared.\nCheck back later!"
	if p.blurb != "" {
		text += "\n\n" + theme.Hint.Render(p.blurb)
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Render(text)
}

func (p *PlaceholderScreen) Title() string {
	return p.title
}

func (p *PlaceholderScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}
