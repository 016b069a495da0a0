package summary

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyzone/internal/router"
	"github.com/abhisek/studyzone/internal/screen"
	"github.com/abhisek/studyzone/internal/session"
	"github.com/abhisek/studyzone/internal/ui/components"
	"github.com/abhisek/studyzone/internal/ui/feedback"
	"github.com/abhisek/studyzone/internal/ui/layout"
	"github.com/abhisek/studyzone/internal/ui/theme"
)

// RetakeMsg is delivered to the screen below the summary after it pops,
// asking it to start a fresh attempt.
type RetakeMsg struct{}

// SummaryScreen shows the score for a finished quiz and every question's
// result.
type SummaryScreen struct {
	title   string
	summary session.Summary
	scroll  components.ScrollView
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(title string, sum session.Summary) *SummaryScreen {
	return &SummaryScreen{title: title, summary: sum}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return s.title
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "R", Description: "Retake"},
		{Key: "Esc", Description: "Review"},
		{Key: "Enter", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "enter":
		return s, func() tea.Msg { return router.PopToRootMsg{} }
	case "r", "R":
		return s, tea.Sequence(
			func() tea.Msg { return router.PopScreenMsg{} },
			func() tea.Msg { return RetakeMsg{} },
		)
	case "up", "k":
		s.scroll.Up(1)
	case "down", "j":
		s.scroll.Down(1)
	case "pgup":
		s.scroll.Up(10)
	case "pgdown":
		s.scroll.Down(10)
	}
	return s, nil
}

// bandColor maps a score band to its headline color.
func bandColor(b session.Band) color.Color {
	switch b {
	case session.BandExcellent:
		return theme.Success
	case session.BandGood:
		return theme.Primary
	default:
		return theme.Warning
	}
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	cw := components.ContentWidth(width)
	center := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str)
	}

	var b strings.Builder
	b.WriteString(center(lipgloss.NewStyle().
		Foreground(bandColor(sum.Band)).
		Bold(true).
		Render(sum.Headline())))
	b.WriteString("\n\n")

	stats := fmt.Sprintf("Questions: %d      Answered: %d      Correct: %d",
		sum.Total, sum.Answered, sum.Correct)
	b.WriteString(center(theme.Body.Render(stats)))
	b.WriteString("\n")

	note := "Score counts every question in the set."
	if sum.Basis == session.BasisAnswered {
		note = "Score counts answered questions only."
	}
	if sum.Unverifiable > 0 {
		note += fmt.Sprintf(" %d could not be verified.", sum.Unverifiable)
	}
	b.WriteString(center(theme.Hint.Render(note)))
	b.WriteString("\n\n")

	bar := components.NewScoreBar("Score", float64(sum.Percent)/100, cw)
	b.WriteString(center(bar.View()))
	b.WriteString("\n\n")
	b.WriteString(center(layout.Divider(cw)))
	b.WriteString("\n")

	header := b.String()
	listHeight := height - lipgloss.Height(header)
	if listHeight < 3 {
		listHeight = 3
	}

	items := make([]string, len(sum.Items))
	for i, fb := range sum.Items {
		items[i] = feedback.Item(i+1, fb, cw)
	}
	list := lipgloss.NewStyle().Width(cw).Render(strings.Join(items, "\n\n"))
	list = lipgloss.PlaceHorizontal(width, lipgloss.Center, list)

	return header + s.scroll.Render(list, width, listHeight, -1)
}
