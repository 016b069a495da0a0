package history

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyzone/internal/screen"
	"github.com/abhisek/studyzone/internal/store"
	"github.com/abhisek/studyzone/internal/ui/components"
	"github.com/abhisek/studyzone/internal/ui/layout"
	"github.com/abhisek/studyzone/internal/ui/theme"
)

// RecentLimit is how many finished attempts are listed.
const RecentLimit = 20

type historyLoadedMsg struct {
	Quizzes []store.QuizEvent
	Stats   []store.CategoryStat
	Err     error
}

// HistoryScreen displays a student's finished attempts and their accuracy
// per error type.
type HistoryScreen struct {
	eventRepo store.EventRepo
	studentID string
	quizzes   []store.QuizEvent
	stats     []store.CategoryStat
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(eventRepo store.EventRepo, studentID string) *HistoryScreen {
	return &HistoryScreen{
		eventRepo: eventRepo,
		studentID: studentID,
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	if s.eventRepo == nil {
		s.loaded = true
		return nil
	}
	return func() tea.Msg {
		ctx := context.Background()

		quizzes, err := s.eventRepo.RecentQuizzes(ctx, s.studentID, RecentLimit)
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		stats, err := s.eventRepo.CategoryAccuracy(ctx, s.studentID)
		if err != nil {
			return historyLoadedMsg{Quizzes: quizzes}
		}
		return historyLoadedMsg{Quizzes: quizzes, Stats: stats}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.quizzes = msg.Quizzes
			s.stats = msg.Stats
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.quizzes)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	center := func(style lipgloss.Style, text string) string {
		return style.Width(width).Align(lipgloss.Center).Render(text)
	}
	if s.errMsg != "" {
		return center(lipgloss.NewStyle().Foreground(theme.Error), fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return center(lipgloss.NewStyle().Foreground(theme.TextDim), "\n\n  Loading history...")
	}
	if len(s.quizzes) == 0 {
		return center(lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true),
			"\n\n  No finished quizzes yet. Let's practice!")
	}

	cw := components.ContentWidth(width)
	var b strings.Builder
	b.WriteString(theme.Heading.Render("Recent attempts"))
	b.WriteString("\n\n")

	for i, q := range s.quizzes {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "> "
			style = style.Foreground(theme.Primary).Bold(true)
		}
		line := fmt.Sprintf("%s%s  %-18s %3d%%  %d/%d correct",
			prefix, q.Timestamp.Format("Jan 02 15:04"), filepath.Base(q.Bank), q.Percent, q.Correct, q.Total)
		b.WriteString(style.Render(line))
		b.WriteString("\n")

		if s.expanded[i] {
			mins, secs := q.DurationSecs/60, q.DurationSecs%60
			detail := fmt.Sprintf("    %s · %s mode · answered %d · score over %s · %d:%02d",
				q.Selector, q.Mode, q.Answered, q.Basis, mins, secs)
			b.WriteString(theme.Hint.Render(detail))
			b.WriteString("\n")
		}
	}

	if len(s.stats) > 0 {
		b.WriteString("\n")
		b.WriteString(theme.Heading.Render("By error type"))
		b.WriteString("\n\n")
		for _, st := range s.stats {
			label := fmt.Sprintf("%-16s", feedbackLabel(st.Category))
			bar := components.NewScoreBar(label, st.Accuracy(), cw).
				WithDetail("%d/%d  %3.0f%%", st.Correct, st.Attempts, st.Accuracy()*100)
			b.WriteString(bar.View())
			b.WriteString("\n")
		}
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, lipgloss.NewStyle().Width(cw).Render(b.String()))
}

func feedbackLabel(category string) string {
	if category == "" {
		return "Uncategorized"
	}
	return category
}
