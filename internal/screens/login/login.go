// Package login is the sign-in and sign-up form shown before the home menu.
package login

import (
	"context"
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/studyzone/internal/account"
	"github.com/abhisek/studyzone/internal/router"
	"github.com/abhisek/studyzone/internal/screen"
	"github.com/abhisek/studyzone/internal/ui/components"
	"github.com/abhisek/studyzone/internal/ui/layout"
	"github.com/abhisek/studyzone/internal/ui/theme"
)

// Authenticator is the part of the account store the form needs.
type Authenticator interface {
	Login(ctx context.Context, studentID, password string) (account.Account, error)
	Signup(ctx context.Context, studentID, fullName, password string) (account.Account, error)
}

type mode int

const (
	modeLogin mode = iota
	modeSignup
)

const (
	fieldID = iota
	fieldName
	fieldPassword
)

// authResultMsg carries the outcome of a login or signup attempt.
type authResultMsg struct {
	mode    mode
	account account.Account
	err     error
}

// LoginScreen is a two-mode form. Login needs a student ID and password;
// signup also asks for the full name.
type LoginScreen struct {
	auth    Authenticator
	onLogin func(account.Account) screen.Screen
	log     *zap.Logger

	mode   mode
	fields []components.TextInput
	focus  int
	busy   bool

	notice      string
	noticeStyle lipgloss.Style
}

var _ screen.Screen = (*LoginScreen)(nil)
var _ screen.KeyHintProvider = (*LoginScreen)(nil)

// New creates the form. onLogin builds the screen that replaces the form
// once a student is signed in.
func New(auth Authenticator, onLogin func(account.Account) screen.Screen, log *zap.Logger) *LoginScreen {
	if log == nil {
		log = zap.NewNop()
	}
	s := &LoginScreen{
		auth:    auth,
		onLogin: onLogin,
		log:     log,
		fields: []components.TextInput{
			components.NewField("Student ID", "e.g. hs001", 32),
			components.NewField("Full name", "Your name", 64),
			components.NewPasswordInput("Password", 64),
		},
	}
	s.fields[fieldID].Focus()
	return s
}

func (s *LoginScreen) Init() tea.Cmd {
	return s.fields[fieldID].Init()
}

func (s *LoginScreen) Title() string {
	if s.mode == modeSignup {
		return "Sign Up"
	}
	return "Log In"
}

func (s *LoginScreen) KeyHints() []layout.KeyHint {
	switchLabel := "Create account"
	if s.mode == modeSignup {
		switchLabel = "Have an account"
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Submit"},
		{Key: "Ctrl+S", Description: switchLabel},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// visible lists the field indexes shown in the current mode.
func (s *LoginScreen) visible() []int {
	if s.mode == modeSignup {
		return []int{fieldID, fieldName, fieldPassword}
	}
	return []int{fieldID, fieldPassword}
}

func (s *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case authResultMsg:
		return s.handleResult(msg)

	case tea.KeyMsg:
		if s.busy {
			return s, nil
		}
		switch msg.String() {
		case "tab", "down":
			return s, s.moveFocus(1)
		case "shift+tab", "up":
			return s, s.moveFocus(-1)
		case "ctrl+s":
			return s, s.switchMode()
		case "enter":
			vis := s.visible()
			if s.focus != vis[len(vis)-1] {
				return s, s.moveFocus(1)
			}
			return s, s.submit()
		}
	}

	var cmd tea.Cmd
	s.fields[s.focus], cmd = s.fields[s.focus].Update(msg)
	return s, cmd
}

func (s *LoginScreen) moveFocus(dir int) tea.Cmd {
	vis := s.visible()
	pos := 0
	for i, f := range vis {
		if f == s.focus {
			pos = i
		}
	}
	pos = (pos + dir + len(vis)) % len(vis)
	return s.setFocus(vis[pos])
}

func (s *LoginScreen) setFocus(f int) tea.Cmd {
	for i := range s.fields {
		s.fields[i].Blur()
	}
	s.focus = f
	return s.fields[f].Focus()
}

func (s *LoginScreen) switchMode() tea.Cmd {
	if s.mode == modeLogin {
		s.mode = modeSignup
	} else {
		s.mode = modeLogin
	}
	s.fields[fieldPassword].Reset()
	s.notice = ""
	return s.setFocus(fieldID)
}

func (s *LoginScreen) submit() tea.Cmd {
	id := s.fields[fieldID].Value()
	name := s.fields[fieldName].Value()
	password := s.fields[fieldPassword].Value()
	m := s.mode

	if id == "" || password == "" || (m == modeSignup && name == "") {
		s.warn("Please fill in every field.")
		return nil
	}

	s.busy = true
	s.notice = ""
	auth := s.auth
	return func() tea.Msg {
		ctx := context.Background()
		var (
			acct account.Account
			err  error
		)
		if m == modeSignup {
			acct, err = auth.Signup(ctx, id, name, password)
		} else {
			acct, err = auth.Login(ctx, id, password)
		}
		return authResultMsg{mode: m, account: acct, err: err}
	}
}

func (s *LoginScreen) handleResult(msg authResultMsg) (screen.Screen, tea.Cmd) {
	s.busy = false
	if msg.err != nil {
		s.fields[fieldPassword].Reset()
		s.warn(describe(msg.err))
		s.log.Info("authentication rejected",
			zap.String("mode", msg.mode.String()),
			zap.Error(msg.err))
		return s, s.setFocus(fieldPassword)
	}

	if msg.mode == modeSignup {
		s.log.Info("account created", zap.String("student_id", msg.account.StudentID))
		s.mode = modeLogin
		s.fields[fieldPassword].Reset()
		s.fields[fieldName].Reset()
		s.notice = "Account created. Please log in."
		s.noticeStyle = theme.Correct
		return s, s.setFocus(fieldPassword)
	}

	s.log.Info("student logged in", zap.String("student_id", msg.account.StudentID))
	next := s.onLogin(msg.account)
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *LoginScreen) warn(text string) {
	s.notice = text
	s.noticeStyle = theme.Incorrect
}

func (m mode) String() string {
	if m == modeSignup {
		return "signup"
	}
	return "login"
}

func describe(err error) string {
	var ve *account.ValidationError
	switch {
	case errors.As(err, &ve):
		msg := ve.Error()
		return strings.ToUpper(msg[:1]) + msg[1:] + "."
	case errors.Is(err, account.ErrDuplicateID):
		return "That student ID is already registered."
	case errors.Is(err, account.ErrInvalidCredentials):
		return "Student ID or password is incorrect."
	default:
		return "Something went wrong: " + err.Error()
	}
}

func (s *LoginScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	if cw > 56 {
		cw = 56
	}

	var b strings.Builder
	for _, f := range s.visible() {
		b.WriteString(s.fields[f].View())
		b.WriteString("\n\n")
	}

	label := "Log in"
	if s.mode == modeSignup {
		label = "Create account"
	}
	b.WriteString(components.NewButton(label, !s.busy).View())

	if s.busy {
		b.WriteString("\n\n" + theme.Hint.Render("Checking..."))
	} else if s.notice != "" {
		b.WriteString("\n\n" + s.noticeStyle.Render(s.notice))
	}

	heading := "Welcome back!"
	if s.mode == modeSignup {
		heading = "New student"
	}
	card := components.TitledCard(heading, b.String(), cw)

	title := theme.Title.Width(cw).Render(layout.AppName)
	return components.Center(lipgloss.JoinVertical(lipgloss.Center, title, "", card), width, height)
}
