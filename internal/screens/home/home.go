package home

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/studyzone/internal/account"
	"github.com/abhisek/studyzone/internal/bank"
	"github.com/abhisek/studyzone/internal/diagnosis"
	"github.com/abhisek/studyzone/internal/progress"
	"github.com/abhisek/studyzone/internal/router"
	"github.com/abhisek/studyzone/internal/screen"
	"github.com/abhisek/studyzone/internal/screens/flyer"
	"github.com/abhisek/studyzone/internal/screens/history"
	"github.com/abhisek/studyzone/internal/screens/placeholder"
	"github.com/abhisek/studyzone/internal/screens/practice"
	"github.com/abhisek/studyzone/internal/screens/quiz"
	"github.com/abhisek/studyzone/internal/session"
	"github.com/abhisek/studyzone/internal/store"
	"github.com/abhisek/studyzone/internal/ui/components"
	"github.com/abhisek/studyzone/internal/ui/feedback"
	"github.com/abhisek/studyzone/internal/ui/layout"
	"github.com/abhisek/studyzone/internal/ui/theme"
)

// Records is a loaded flat question bank, or the error that stopped it.
type Records struct {
	Name    string
	Records []bank.Record
	Err     error
}

// Passages is a loaded passage bank, or the error that stopped it.
type Passages struct {
	Name     string
	Passages []bank.Passage
	Err      error
}

// Deps carries everything the home menu hands to the task screens.
type Deps struct {
	Student account.Account
	Log     *zap.Logger
	Basis   session.Basis

	Quiz     Records
	Flyer    Passages
	Practice Records

	Events     store.EventRepo
	Snapshots  store.SnapshotRepo
	ResumeKeep int

	Diagnosis      *diagnosis.Service
	ExplainTimeout time.Duration
}

type statsLoadedMsg struct {
	Attempts int
	Last     *int
}

// HomeScreen is the main menu shown after login.
type HomeScreen struct {
	deps     Deps
	recorder *progress.Recorder
	menu     components.Menu
	attempts int
	last     *int
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.Resumer = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps Deps) *HomeScreen {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	h := &HomeScreen{
		deps: deps,
		recorder: progress.NewRecorder(deps.Events, deps.Snapshots, deps.Student.StudentID,
			progress.WithLogger(deps.Log), progress.WithKeep(deps.ResumeKeep)),
	}

	push := func(build func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: build()} }
		}
	}

	items := []components.MenuItem{
		{Label: "English Quiz", Action: push(func() screen.Screen {
			return quiz.New(quiz.Options{
				Records:        deps.Quiz.Records,
				LoadErr:        deps.Quiz.Err,
				BankName:       deps.Quiz.Name,
				Basis:          deps.Basis,
				Recorder:       h.recorder,
				Diagnosis:      deps.Diagnosis,
				ExplainTimeout: deps.ExplainTimeout,
				Log:            deps.Log,
			})
		})},
		{Label: "Flyer Completion", Action: push(func() screen.Screen {
			return flyer.New(flyer.Options{
				Passages: deps.Flyer.Passages,
				LoadErr:  deps.Flyer.Err,
				BankName: deps.Flyer.Name,
				Basis:    deps.Basis,
				Recorder: h.recorder,
				Log:      deps.Log,
			})
		})},
		{Label: "Practice Flyer", Action: push(func() screen.Screen {
			return practice.New(practice.Options{
				Records:  deps.Practice.Records,
				LoadErr:  deps.Practice.Err,
				BankName: deps.Practice.Name,
				Basis:    deps.Basis,
				Recorder: h.recorder,
				Log:      deps.Log,
			})
		})},
		{Label: "History", Action: push(func() screen.Screen {
			return history.New(deps.Events, deps.Student.StudentID)
		})},
		{Label: "Reading Practice", Hint: "coming soon", Action: push(func() screen.Screen {
			return placeholder.New("Reading", "Short stories with comprehension questions.")
		})},
		{Label: "Listening Practice", Hint: "coming soon", Action: push(func() screen.Screen {
			return placeholder.New("Listening", "Audio clips with gap-fill questions.")
		})},
		{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	}
	h.menu = components.NewMenu(items)
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadStats()
}

func (h *HomeScreen) loadStats() tea.Cmd {
	if h.deps.Events == nil {
		return nil
	}
	events, student, log := h.deps.Events, h.deps.Student.StudentID, h.deps.Log
	return func() tea.Msg {
		quizzes, err := events.RecentQuizzes(context.Background(), student, 0)
		if err != nil {
			log.Warn("load home stats", zap.Error(err))
			return statsLoadedMsg{}
		}
		msg := statsLoadedMsg{Attempts: len(quizzes)}
		if len(quizzes) > 0 {
			p := quizzes[0].Percent
			msg.Last = &p
		}
		return msg
	}
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if m, ok := msg.(statsLoadedMsg); ok {
		h.attempts = m.Attempts
		h.last = m.Last
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

// Resume reloads the stats when a task screen is closed.
func (h *HomeScreen) Resume() tea.Cmd {
	return h.loadStats()
}

// warnings lists the banks that failed to load.
func (h *HomeScreen) warnings() []string {
	var out []string
	for _, err := range []error{h.deps.Quiz.Err, h.deps.Flyer.Err, h.deps.Practice.Err} {
		if err != nil {
			out = append(out, feedback.FromError(err).View())
		}
	}
	return out
}

func (h *HomeScreen) renderStats(cw int) string {
	var stats string
	switch {
	case h.attempts == 0:
		stats = theme.Hint.Render("No finished quizzes yet")
	case h.last != nil:
		stats = fmt.Sprintf("%s   %s",
			theme.Info.Render(fmt.Sprintf("✎ %d finished", h.attempts)),
			lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(fmt.Sprintf("★ last score %d%%", *h.last)))
	}
	return components.Card(layout.Centered(cw-6, lipgloss.NewStyle(), stats), cw)
}

func (h *HomeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	compact := layout.IsCompactHeight(height+layout.HeaderHeight+layout.FooterHeight) || layout.IsCompactWidth(width)
	variant := mascotFor(h.last)

	name := h.deps.Student.FullName
	if name == "" {
		name = "friend"
	}

	var sections []string
	if !compact {
		sections = append(sections, RenderMascot(variant))
	}
	sections = append(sections, theme.Subtitle.Render(mascotLine(variant, name)))
	if w := h.warnings(); len(w) > 0 {
		sections = append(sections, lipgloss.NewStyle().Width(cw).Render(strings.Join(w, "\n")))
	}
	sections = append(sections, h.renderStats(cw))
	sections = append(sections, components.Card(h.menu.View(), cw))

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return components.Center(content, width, height)
}
