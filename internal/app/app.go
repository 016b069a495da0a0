package app

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/studyzone/internal/account"
	"github.com/abhisek/studyzone/internal/router"
	"github.com/abhisek/studyzone/internal/screen"
	"github.com/abhisek/studyzone/internal/screens/home"
	"github.com/abhisek/studyzone/internal/screens/login"
	"github.com/abhisek/studyzone/internal/screens/welcome"
	"github.com/abhisek/studyzone/internal/ui/layout"
)

// Options are the services the app hands to its screens.
type Options struct {
	Accounts login.Authenticator
	// DevMode skips the login form and studies as the guest account.
	DevMode bool
	// Home is copied for each login with Student filled in.
	Home home.Deps
	Log  *zap.Logger
}

// state is shared by the model copies Bubble Tea passes around.
type state struct {
	student string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	state  *state
	log    *zap.Logger
	width  int
	height int
}

// newAppModel creates a new AppModel starting at the welcome screen.
func newAppModel(opts Options) AppModel {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	st := &state{}

	homeFor := func(a account.Account) screen.Screen {
		st.student = a.FullName
		opts.Log.Info("student started studying", zap.String("student_id", a.StudentID))
		deps := opts.Home
		deps.Student = a
		if deps.Log == nil {
			deps.Log = opts.Log
		}
		return home.New(deps)
	}
	next := func() screen.Screen {
		if opts.DevMode || opts.Accounts == nil {
			return homeFor(account.Guest())
		}
		return login.New(opts.Accounts, homeFor, opts.Log)
	}

	return AppModel{
		router: router.New(welcome.New(next)),
		state:  st,
		log:    opts.Log,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if bh, ok := m.router.Active().(screen.BackHandler); ok && bh.HandlesBack() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.frame())
	return v
}

// frame renders the header, active screen and footer at the window size.
func (m AppModel) frame() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.state.student, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if p, ok := active.(screen.KeyHintProvider); ok {
		return p.KeyHints()
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program and blocks until it exits or ctx is
// canceled.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(newAppModel(opts), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}
