// Package practice is the practice flyer: every question must be answered
// before the whole set is submitted and scored at once.
package practice

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/studyzone/internal/bank"
	"github.com/abhisek/studyzone/internal/progress"
	"github.com/abhisek/studyzone/internal/router"
	"github.com/abhisek/studyzone/internal/screen"
	"github.com/abhisek/studyzone/internal/screens/summary"
	"github.com/abhisek/studyzone/internal/session"
	"github.com/abhisek/studyzone/internal/ui/components"
	"github.com/abhisek/studyzone/internal/ui/feedback"
	"github.com/abhisek/studyzone/internal/ui/layout"
	"github.com/abhisek/studyzone/internal/ui/theme"
)

// Options are the practice screen's collaborators.
type Options struct {
	Records  []bank.Record
	LoadErr  error
	BankName string
	Basis    session.Basis
	Recorder *progress.Recorder
	Log      *zap.Logger
}

// PracticeScreen implements screen.Screen for the batch practice set.
type PracticeScreen struct {
	opts   Options
	sess   *session.Session
	choice components.MultiChoice
	jump   *components.TextInput
	notice feedback.Notice
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)
var _ screen.BackHandler = (*PracticeScreen)(nil)

// New creates the practice screen, restoring saved answers if any.
func New(opts Options) *PracticeScreen {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Recorder == nil {
		opts.Recorder = progress.NewRecorder(nil, nil, "")
	}
	s := &PracticeScreen{opts: opts}
	if len(opts.Records) == 0 {
		err := opts.LoadErr
		if err == nil {
			err = session.ErrNoQuestions
		}
		s.notice = feedback.FromError(err)
		return s
	}
	s.sess = session.New(opts.Records, s.config())
	if opts.Recorder.Resume(context.Background(), s.sess, opts.BankName) {
		s.notice = feedback.Info("Welcome back! You have answered %d of %d questions.", s.sess.AnsweredCount(), s.sess.Count())
	}
	s.syncChoice()
	return s
}

func (s *PracticeScreen) config() session.Config {
	return session.Config{Mode: session.ModeBatch, RequireComplete: true, Basis: s.opts.Basis}
}

func (s *PracticeScreen) Init() tea.Cmd {
	if s.sess != nil {
		s.opts.Recorder.Start(context.Background(), s.sess, s.opts.BankName)
	}
	return nil
}

func (s *PracticeScreen) Title() string {
	return "Practice Flyer"
}

func (s *PracticeScreen) HandlesBack() bool {
	return s.jump != nil
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	if s.jump != nil {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Go"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	if s.sess == nil {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	return []layout.KeyHint{
		{Key: "A-D", Description: "Answer"},
		{Key: "←→", Description: "Move"},
		{Key: "G", Description: "Jump"},
		{Key: "S", Description: "Submit all"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case components.Picked:
		s.pick(msg.Index)
		return s, nil
	case summary.RetakeMsg:
		s.retake()
		return s, nil
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	if s.jump != nil {
		var cmd tea.Cmd
		*s.jump, cmd = s.jump.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *PracticeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.jump != nil {
		switch msg.String() {
		case "esc":
			s.jump = nil
			return s, nil
		case "enter":
			s.submitJump()
			return s, nil
		}
		var cmd tea.Cmd
		*s.jump, cmd = s.jump.Update(msg)
		return s, cmd
	}
	if s.sess == nil {
		return s, nil
	}

	switch msg.String() {
	case "right", "n", "N":
		s.move(s.sess.Advance())
		return s, nil
	case "left", "p", "P":
		s.move(s.sess.Retreat())
		return s, nil
	case "g", "G":
		in := components.NewTextInput("number", true, 4)
		s.jump = &in
		return s, s.jump.Init()
	case "s", "S":
		return s, s.submit()
	}

	var cmd tea.Cmd
	s.choice, cmd = s.choice.Update(msg)
	return s, cmd
}

func (s *PracticeScreen) pick(i int) {
	if err := s.sess.SelectIndex(i); err != nil {
		s.notice = feedback.FromError(err)
		return
	}
	s.notice = feedback.Notice{}
	s.syncChoice()
	s.opts.Recorder.Checkpoint(context.Background(), s.sess, s.opts.BankName)
}

func (s *PracticeScreen) move(moved bool) {
	if !moved {
		return
	}
	s.notice = feedback.Notice{}
	s.syncChoice()
	s.opts.Recorder.Checkpoint(context.Background(), s.sess, s.opts.BankName)
}

func (s *PracticeScreen) submitJump() {
	n, err := s.jump.NumericValue()
	s.jump = nil
	if err != nil || s.sess.JumpTo(n-1) != nil {
		s.notice = feedback.Warn("Pick a question from 1 to %d.", s.sess.Count())
		return
	}
	s.move(true)
}

func (s *PracticeScreen) submit() tea.Cmd {
	items, err := s.sess.Submit()
	if err != nil {
		s.notice = feedback.FromError(err)
		return nil
	}
	ctx := context.Background()
	sum := s.sess.Summary()
	s.opts.Recorder.Graded(ctx, s.sess, items)
	s.opts.Recorder.Finish(ctx, s.sess, s.opts.BankName, sum)
	s.opts.Log.Info("practice submitted",
		zap.String("session_id", s.sess.ID),
		zap.Int("correct", sum.Correct),
		zap.Int("total", sum.Total))

	res := summary.New("Practice Results", sum)
	return func() tea.Msg { return router.PushScreenMsg{Screen: res} }
}

func (s *PracticeScreen) retake() {
	if s.sess == nil {
		return
	}
	s.sess = session.New(s.opts.Records, s.config())
	s.opts.Recorder.Start(context.Background(), s.sess, s.opts.BankName)
	s.notice = feedback.Info("New attempt started. Good luck!")
	s.syncChoice()
}

func (s *PracticeScreen) syncChoice() {
	rec, ok := s.sess.Current()
	if !ok {
		s.choice = components.MultiChoice{}
		return
	}
	disabled := make([]bool, len(rec.Options))
	chosen := -1
	answer, answered := s.sess.Answer(rec.ID)
	for i, o := range rec.Options {
		disabled[i] = rec.IsPlaceholder(i)
		if answered && !disabled[i] && strings.TrimSpace(o) == answer {
			chosen = i
		}
	}
	s.choice = components.NewMultiChoice(rec.Options, disabled, chosen)
}

// questionMap renders one marker per question: filled when answered,
// bracketed for the current one.
func (s *PracticeScreen) questionMap(cw int) string {
	var parts []string
	for i, rec := range s.sess.Records() {
		mark := "○"
		style := theme.Hint
		if _, ok := s.sess.Answer(rec.ID); ok {
			mark = "●"
			style = theme.Info
		}
		cell := fmt.Sprintf("%d%s", i+1, mark)
		if i == s.sess.Index() {
			cell = "[" + cell + "]"
			style = theme.Selected
		}
		parts = append(parts, style.Render(cell))
	}
	return lipgloss.NewStyle().Width(cw).Render(strings.Join(parts, " "))
}

func (s *PracticeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	if s.sess == nil {
		return components.Center(components.Card(s.notice.View(), cw), width, height)
	}
	rec, ok := s.sess.Current()
	if !ok {
		return components.Center(s.notice.View(), width, height)
	}

	var b strings.Builder
	b.WriteString(theme.Heading.Render(fmt.Sprintf("Question %d of %d", s.sess.Index()+1, s.sess.Count())))
	b.WriteString("   ")
	b.WriteString(theme.Hint.Render(fmt.Sprintf("Answered %d/%d", s.sess.AnsweredCount(), s.sess.Count())))
	b.WriteString("\n")
	b.WriteString(s.questionMap(cw))
	b.WriteString("\n")
	b.WriteString(layout.Divider(cw))
	b.WriteString("\n\n")
	if rec.Topic != "" {
		b.WriteString(theme.Subtitle.Render(rec.Topic))
		b.WriteString("\n")
	}
	b.WriteString(theme.Body.Width(cw).Render(rec.Prompt))
	b.WriteString("\n\n")
	b.WriteString(s.choice.View())
	if s.jump != nil {
		fmt.Fprintf(&b, "\nGo to question (1-%d): %s\n", s.sess.Count(), s.jump.View())
	}
	if !s.notice.Empty() {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(cw).Render(s.notice.View()))
	}
	return components.Center(b.String(), width, height)
}
