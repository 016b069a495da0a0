// Package flyer is the flyer-completion task: a reading passage with
// numbered blanks, answered together and graded per passage.
package flyer

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

// Options are the flyer screen's collaborators.
type Options struct {
	Passages []bank.Passage
	LoadErr  error
	BankName string
	Basis    session.Basis
	Recorder *progress.Recorder
	Log      *zap.Logger
}

// FlyerScreen implements screen.Screen for passage gap-fill tasks.
type FlyerScreen struct {
	opts    Options
	set     *session.PassageSet
	started map[string]bool // session IDs with a start event

	choice components.MultiChoice
	scroll components.ScrollView
	follow bool // keep the focused blank on screen
	notice feedback.Notice
}

var _ screen.Screen = (*FlyerScreen)(nil)
var _ screen.KeyHintProvider = (*FlyerScreen)(nil)

// New creates the flyer screen.
func New(opts Options) *FlyerScreen {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Recorder == nil {
		opts.Recorder = progress.NewRecorder(nil, nil, "")
	}
	s := &FlyerScreen{opts: opts, started: make(map[string]bool)}
	if len(opts.Passages) == 0 {
		err := opts.LoadErr
		if err == nil {
			err = session.ErrNoQuestions
		}
		s.notice = feedback.FromError(err)
		return s
	}
	s.set = session.NewPassageSet(opts.Passages, session.Config{Basis: opts.Basis})
	s.syncChoice()
	return s
}

func (s *FlyerScreen) Init() tea.Cmd {
	s.startCurrent()
	return nil
}

func (s *FlyerScreen) Title() string {
	return "Flyer Completion"
}

func (s *FlyerScreen) KeyHints() []layout.KeyHint {
	if s.set == nil {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next blank"},
		{Key: "A-D", Description: "Answer"},
		{Key: "S", Description: "Submit"},
		{Key: "←→", Description: "Passage"},
		{Key: "R", Description: "Retry"},
		{Key: "X", Description: "Finish"},
	}
}

func (s *FlyerScreen) startCurrent() {
	_, sess, ok := s.current()
	if !ok || s.started[sess.ID] {
		return
	}
	s.started[sess.ID] = true
	s.opts.Recorder.Start(context.Background(), sess, s.opts.BankName)
}

func (s *FlyerScreen) current() (bank.Passage, *session.Session, bool) {
	if s.set == nil {
		return bank.Passage{}, nil, false
	}
	return s.set.Current()
}

func (s *FlyerScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
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
	return s, nil
}

func (s *FlyerScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	_, sess, ok := s.current()
	if !ok || sess.Count() == 0 {
		return s, nil
	}

	switch msg.String() {
	case "tab":
		if sess.Advance() {
			s.notice = feedback.Notice{}
			s.syncChoice()
		}
		return s, nil
	case "shift+tab":
		if sess.Retreat() {
			s.notice = feedback.Notice{}
			s.syncChoice()
		}
		return s, nil
	case "pgdown":
		s.follow = false
		s.scroll.Down(5)
		return s, nil
	case "pgup":
		s.follow = false
		s.scroll.Up(5)
		return s, nil
	case "s", "S":
		s.submit(sess)
		return s, nil
	case "right", "n", "N":
		s.movePassage(s.set.Next, "This is the last passage. Press X to see your overall score.")
		return s, nil
	case "left", "p", "P":
		s.movePassage(s.set.Prev, "This is the first passage.")
		return s, nil
	case "r", "R":
		s.set.Retry()
		s.opts.Recorder.Reset(context.Background(), sess, s.opts.BankName)
		s.notice = feedback.Info("Answers cleared. Try this passage again!")
		s.scroll.Top()
		s.syncChoice()
		return s, nil
	case "x", "X":
		return s, s.finish()
	}

	var cmd tea.Cmd
	s.choice, cmd = s.choice.Update(msg)
	return s, cmd
}

func (s *FlyerScreen) pick(i int) {
	_, sess, ok := s.current()
	if !ok {
		return
	}
	if err := sess.SelectIndex(i); err != nil {
		s.notice = feedback.FromError(err)
		return
	}
	s.notice = feedback.Notice{}
	// Move on to the next blank once this one is answered.
	if sess.Index() < sess.Count()-1 {
		sess.Advance()
	}
	s.syncChoice()
}

func (s *FlyerScreen) submit(sess *session.Session) {
	items, err := sess.Submit()
	if err != nil {
		s.notice = feedback.FromError(err)
		return
	}
	ctx := context.Background()
	sum := sess.Summary()
	s.opts.Recorder.Graded(ctx, sess, items)
	s.opts.Recorder.Finish(ctx, sess, s.opts.BankName, sum)
	// A finished session gets a new start event if the student keeps going.
	delete(s.started, sess.ID)

	level := feedback.LevelSuccess
	if sum.Percent < 60 {
		level = feedback.LevelWarning
	}
	s.notice = feedback.Notice{Level: level, Text: fmt.Sprintf("Score: %d/%d", sum.Correct, sum.Denominator())}
	s.scroll.Top()
	s.syncChoice()
}

func (s *FlyerScreen) movePassage(step func() bool, edge string) {
	if !step() {
		s.notice = feedback.Info("%s", edge)
		return
	}
	s.notice = feedback.Notice{}
	s.scroll.Top()
	s.startCurrent()
	s.syncChoice()
}

func (s *FlyerScreen) finish() tea.Cmd {
	sum := s.set.Summary(s.opts.Basis)
	if sum.Answered == 0 {
		s.notice = feedback.Warn("Answer at least one blank before finishing.")
		return nil
	}
	s.opts.Log.Info("flyer finished",
		zap.Int("passages", s.set.Count()),
		zap.Int("correct", sum.Correct),
		zap.Int("total", sum.Total))
	res := summary.New("Flyer Results", sum)
	return func() tea.Msg { return router.PushScreenMsg{Screen: res} }
}

func (s *FlyerScreen) retake() {
	if s.set == nil {
		return
	}
	s.set = session.NewPassageSet(s.opts.Passages, session.Config{Basis: s.opts.Basis})
	s.started = make(map[string]bool)
	s.notice = feedback.Info("New attempt started. Good luck!")
	s.scroll.Top()
	s.startCurrent()
	s.syncChoice()
}

func (s *FlyerScreen) syncChoice() {
	_, sess, ok := s.current()
	if !ok {
		return
	}
	rec, ok := sess.Current()
	if !ok {
		s.choice = components.MultiChoice{}
		return
	}
	s.follow = true
	disabled := make([]bool, len(rec.Options))
	chosen := -1
	answer, answered := sess.Answer(rec.ID)
	for i, o := range rec.Options {
		disabled[i] = rec.IsPlaceholder(i)
		if answered && !disabled[i] && strings.TrimSpace(o) == answer {
			chosen = i
		}
	}
	s.choice = components.NewMultiChoice(rec.Options, disabled, chosen)
}

func (s *FlyerScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	p, sess, ok := s.current()
	if !ok {
		return components.Center(components.Card(s.notice.View(), cw), width, height)
	}

	var b strings.Builder
	title := p.Topic
	if title == "" {
		title = "Flyer"
	}
	fmt.Fprintf(&b, "%s\n", theme.Heading.Render(fmt.Sprintf("Passage %d of %d · %s", s.set.Index()+1, s.set.Count(), title)))
	b.WriteString(theme.Hint.Render(fmt.Sprintf("Answered %d/%d blanks", sess.AnsweredCount(), sess.Count())))
	b.WriteString("\n")
	b.WriteString(layout.Divider(cw))
	b.WriteString("\n\n")
	if p.Text != "" {
		b.WriteString(components.Card(p.Text, cw))
		b.WriteString("\n\n")
	}
	if !s.notice.Empty() {
		b.WriteString(s.notice.View())
		b.WriteString("\n\n")
	}

	focusLine := -1
	if sess.Submitted() {
		for i, fb := range sess.Feedback() {
			b.WriteString(feedback.Item(i+1, fb, cw))
			b.WriteString("\n\n")
		}
	} else {
		for i, rec := range sess.Records() {
			label := theme.Subtitle.Render(fmt.Sprintf("Blank %d", i+1))
			if i == sess.Index() {
				focusLine = lipgloss.Height(b.String()) - 1
				fmt.Fprintf(&b, "%s  %s\n", label, theme.Body.Render(rec.Prompt))
				b.WriteString(s.choice.View())
				b.WriteString("\n")
				focusLine += lipgloss.Height(s.choice.View()) + 1
				continue
			}
			answer, ok := sess.Answer(rec.ID)
			if !ok {
				answer = "____"
			}
			fmt.Fprintf(&b, "%s  %s  %s\n", label, theme.Hint.Render(feedback.Truncate(rec.Prompt, cw/2)), answer)
		}
	}

	content := lipgloss.NewStyle().Width(cw).Render(b.String())
	content = lipgloss.PlaceHorizontal(width, lipgloss.Center, content)
	if lipgloss.Height(content) <= height {
		return content
	}
	if !s.follow {
		focusLine = -1
	}
	return s.scroll.Render(content, width, height, focusLine)
}
