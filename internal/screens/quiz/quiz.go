// Package quiz is the per-question English quiz: pick an error-type
// filter, answer one question at a time, submit for instant feedback and
// Ms. Tammy's diagnosis, then finish for a score.
package quiz

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/studyzone/internal/bank"
	"github.com/abhisek/studyzone/internal/diagnosis"
	"github.com/abhisek/studyzone/internal/progress"
	"github.com/abhisek/studyzone/internal/router"
	"github.com/abhisek/studyzone/internal/screen"
	"github.com/abhisek/studyzone/internal/screens/summary"
	"github.com/abhisek/studyzone/internal/session"
	"github.com/abhisek/studyzone/internal/ui/components"
	"github.com/abhisek/studyzone/internal/ui/feedback"
	"github.com/abhisek/studyzone/internal/ui/layout"
)

// DefaultExplainTimeout bounds the wait for an LLM explanation.
const DefaultExplainTimeout = 30 * time.Second

// Options are the quiz screen's collaborators.
type Options struct {
	Records  []bank.Record
	LoadErr  error // shown instead of the quiz when the bank failed to load
	BankName string
	Basis    session.Basis

	Recorder       *progress.Recorder
	Diagnosis      *diagnosis.Service
	ExplainTimeout time.Duration
	Log            *zap.Logger
}

// QuizScreen implements screen.Screen for the per-question quiz.
type QuizScreen struct {
	opts Options
	sess *session.Session

	choice    components.MultiChoice
	selectors []bank.Selector
	picker    *components.Menu
	jump      *components.TextInput
	scroll    components.ScrollView

	notice feedback.Notice

	// Diagnosis for the submitted question. explanations caches LLM results
	// by record and choice so that resubmitting does not ask again.
	diag         *diagnosis.Result
	explanation  *diagnosis.Result
	explaining   bool
	explanations map[string]*diagnosis.Result
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.BackHandler = (*QuizScreen)(nil)

// New creates the quiz. Saved progress for the bank is restored when the
// recorder has any.
func New(opts Options) *QuizScreen {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Recorder == nil {
		opts.Recorder = progress.NewRecorder(nil, nil, "")
	}
	if opts.Diagnosis == nil {
		opts.Diagnosis = diagnosis.NewService(nil)
	}
	if opts.ExplainTimeout <= 0 {
		opts.ExplainTimeout = DefaultExplainTimeout
	}

	s := &QuizScreen{
		opts:         opts,
		explanations: make(map[string]*diagnosis.Result),
	}
	if len(opts.Records) == 0 {
		err := opts.LoadErr
		if err == nil {
			err = session.ErrNoQuestions
		}
		s.notice = feedback.FromError(err)
		return s
	}

	s.sess = session.New(opts.Records, s.config())
	s.selectors = bank.Selectors(opts.Records)
	if opts.Recorder.Resume(context.Background(), s.sess, opts.BankName) {
		s.notice = feedback.Info("Welcome back! Your answers from last time are restored.")
	}
	s.syncChoice()
	return s
}

func (s *QuizScreen) config() session.Config {
	return session.Config{Mode: session.ModePerQuestion, Basis: s.opts.Basis}
}

func (s *QuizScreen) Init() tea.Cmd {
	if s.sess != nil {
		s.opts.Recorder.Start(context.Background(), s.sess, s.opts.BankName)
	}
	return nil
}

func (s *QuizScreen) Title() string {
	return "English Quiz"
}

func (s *QuizScreen) HandlesBack() bool {
	return s.picker != nil || s.jump != nil
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.picker != nil:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Choose"},
			{Key: "Enter", Description: "Apply"},
			{Key: "Esc", Description: "Cancel"},
		}
	case s.jump != nil:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Go"},
			{Key: "Esc", Description: "Cancel"},
		}
	case s.sess == nil:
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	return []layout.KeyHint{
		{Key: "A-D", Description: "Answer"},
		{Key: "S", Description: "Submit"},
		{Key: "←→", Description: "Move"},
		{Key: "F", Description: "Filter"},
		{Key: "G", Description: "Jump"},
		{Key: "R", Description: "Reset"},
		{Key: "X", Description: "Finish"},
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case explanationMsg:
		s.handleExplanation(msg)
		return s, nil

	case explanationTimeoutMsg:
		if s.isCurrent(msg.SessionID, msg.RecordID) {
			s.explaining = false
		}
		return s, nil

	case filterChosenMsg:
		s.applyFilter(msg.Index)
		return s, nil

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

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.picker != nil {
		if key == "esc" {
			s.picker = nil
			return s, nil
		}
		var cmd tea.Cmd
		*s.picker, cmd = s.picker.Update(msg)
		return s, cmd
	}

	if s.jump != nil {
		switch key {
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

	switch key {
	case "pgdown":
		s.scroll.Down(5)
		return s, nil
	case "pgup":
		s.scroll.Up(5)
		return s, nil
	case "f", "F":
		s.openPicker()
		return s, nil
	case "r", "R":
		s.reset()
		return s, nil
	}

	if s.sess.Count() == 0 {
		return s, nil
	}

	switch key {
	case "s", "S":
		return s, s.submit()
	case "right", "n", "N":
		s.move(s.sess.Advance, "This is the last question. Press X to see your score.")
		return s, nil
	case "left", "p", "P":
		s.move(s.sess.Retreat, "This is the first question.")
		return s, nil
	case "g", "G":
		in := components.NewTextInput("number", true, 4)
		s.jump = &in
		return s, s.jump.Init()
	case "x", "X":
		return s, s.finish()
	}

	var cmd tea.Cmd
	s.choice, cmd = s.choice.Update(msg)
	return s, cmd
}

func (s *QuizScreen) pick(i int) {
	if err := s.sess.SelectIndex(i); err != nil {
		s.notice = feedback.FromError(err)
		return
	}
	s.notice = feedback.Notice{}
	s.clearDiagnosis()
	s.syncChoice()
	s.opts.Recorder.Checkpoint(context.Background(), s.sess, s.opts.BankName)
}

func (s *QuizScreen) submit() tea.Cmd {
	items, err := s.sess.Submit()
	if err != nil {
		s.notice = feedback.FromError(err)
		return nil
	}
	s.notice = feedback.Notice{}
	fb := items[0]
	rec, _ := s.sess.Current()

	ctx := context.Background()
	s.opts.Recorder.Graded(ctx, s.sess, items)
	s.choice.Reveal(correctIndex(rec, fb))

	if fb.Outcome != session.OutcomeIncorrect {
		s.clearDiagnosis()
		return nil
	}
	return s.diagnose(rec, fb)
}

// diagnose shows the rule-based note now and, when an LLM is configured,
// returns a command that waits for the longer explanation.
func (s *QuizScreen) diagnose(rec bank.Record, fb session.Feedback) tea.Cmd {
	svc := s.opts.Diagnosis
	in := diagnosis.Input{
		SessionID:   s.sess.ID,
		StudentID:   s.opts.Recorder.StudentID(),
		Record:      rec,
		Chosen:      fb.Chosen,
		CorrectText: fb.CorrectText,
	}
	key := explanationKey(rec.ID, fb.Chosen)
	cached, ok := s.explanations[key]
	if ok || !svc.Explains() {
		s.diag = svc.Diagnose(context.Background(), in, nil)
		s.explanation = cached
		s.explaining = false
		return nil
	}

	ch := make(chan *diagnosis.Result, 1)
	s.diag = svc.Diagnose(context.Background(), in, func(r *diagnosis.Result) { ch <- r })
	s.explanation = nil
	s.explaining = true
	return waitForExplanation(ch, s.sess.ID, rec.ID, fb.Chosen, s.opts.ExplainTimeout)
}

func waitForExplanation(ch <-chan *diagnosis.Result, sessionID, recordID, chosen string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		select {
		case r := <-ch:
			return explanationMsg{SessionID: sessionID, RecordID: recordID, Chosen: chosen, Result: r}
		case <-time.After(timeout):
			return explanationTimeoutMsg{SessionID: sessionID, RecordID: recordID}
		}
	}
}

func (s *QuizScreen) handleExplanation(msg explanationMsg) {
	if msg.Result == nil {
		return
	}
	s.explanations[explanationKey(msg.RecordID, msg.Chosen)] = msg.Result
	if s.isCurrent(msg.SessionID, msg.RecordID) && s.sess.Submitted() {
		s.explanation = msg.Result
		s.explaining = false
	}
}

func explanationKey(recordID, chosen string) string {
	return recordID + "\x00" + chosen
}

func (s *QuizScreen) isCurrent(sessionID, recordID string) bool {
	if s.sess == nil || s.sess.ID != sessionID {
		return false
	}
	rec, ok := s.sess.Current()
	return ok && rec.ID == recordID
}

func (s *QuizScreen) move(step func() bool, edge string) {
	if !step() {
		s.notice = feedback.Info("%s", edge)
		return
	}
	s.notice = feedback.Notice{}
	s.afterMove()
}

func (s *QuizScreen) submitJump() {
	n, err := s.jump.NumericValue()
	s.jump = nil
	if err != nil {
		s.notice = feedback.Warn("Type a question number from 1 to %d.", s.sess.Count())
		return
	}
	if err := s.sess.JumpTo(n - 1); err != nil {
		s.notice = feedback.Warn("There is no question %d. Pick 1 to %d.", n, s.sess.Count())
		return
	}
	s.notice = feedback.Notice{}
	s.afterMove()
}

func (s *QuizScreen) afterMove() {
	s.clearDiagnosis()
	s.scroll.Top()
	s.syncChoice()
	s.opts.Recorder.Checkpoint(context.Background(), s.sess, s.opts.BankName)
}

func (s *QuizScreen) openPicker() {
	if len(s.selectors) <= 1 {
		s.notice = feedback.Info("This question bank has no error types to filter by.")
		return
	}
	items := make([]components.MenuItem, len(s.selectors))
	for i, sel := range s.selectors {
		idx := i
		items[i] = components.MenuItem{
			Label: sel.Label(),
			Action: func() tea.Cmd {
				return func() tea.Msg { return filterChosenMsg{Index: idx} }
			},
		}
	}
	m := components.NewMenu(items)
	for i, sel := range s.selectors {
		if sel == s.sess.Selector() {
			m.Selected = i
		}
	}
	s.picker = &m
}

func (s *QuizScreen) applyFilter(i int) {
	s.picker = nil
	if s.sess == nil || i < 0 || i >= len(s.selectors) {
		return
	}
	sel := s.selectors[i]
	if s.sess.SetFilter(sel) {
		s.opts.Recorder.Discard(context.Background(), s.opts.BankName)
		s.opts.Log.Debug("quiz filter changed",
			zap.String("session_id", s.sess.ID),
			zap.String("selector", sel.Label()),
			zap.Int("questions", s.sess.Count()))
	}
	if s.sess.Count() == 0 {
		s.notice = feedback.FromError(session.ErrNoQuestions)
	} else {
		s.notice = feedback.Info("Showing %d questions: %s", s.sess.Count(), sel.Label())
	}
	s.afterMove()
}

func (s *QuizScreen) reset() {
	s.sess.ResetProgress()
	s.opts.Recorder.Reset(context.Background(), s.sess, s.opts.BankName)
	s.notice = feedback.Info("Progress reset. Starting again from question 1.")
	s.afterMove()
}

// retake starts a fresh attempt with the same filter after the summary.
func (s *QuizScreen) retake() {
	if s.sess == nil {
		return
	}
	sel := s.sess.Selector()
	s.sess = session.New(s.opts.Records, s.config())
	s.sess.SetFilter(sel)
	s.opts.Recorder.Start(context.Background(), s.sess, s.opts.BankName)
	s.notice = feedback.Info("New attempt started. Good luck!")
	s.afterMove()
}

func (s *QuizScreen) finish() tea.Cmd {
	if s.sess.AnsweredCount() == 0 {
		s.notice = feedback.Warn("Answer at least one question before finishing.")
		return nil
	}
	sum := s.sess.Summary()
	s.opts.Recorder.Finish(context.Background(), s.sess, s.opts.BankName, sum)
	s.opts.Log.Info("quiz finished",
		zap.String("session_id", s.sess.ID),
		zap.String("selector", s.sess.Selector().Label()),
		zap.Int("correct", sum.Correct),
		zap.Int("total", sum.Total),
		zap.Int("percent", sum.Percent))

	res := summary.New("Quiz Results", sum)
	return func() tea.Msg { return router.PushScreenMsg{Screen: res} }
}

func (s *QuizScreen) clearDiagnosis() {
	s.diag = nil
	s.explanation = nil
	s.explaining = false
}

// syncChoice rebuilds the option list for the current question.
func (s *QuizScreen) syncChoice() {
	rec, ok := s.sess.Current()
	if !ok {
		s.choice = components.MultiChoice{}
		return
	}
	disabled := make([]bool, len(rec.Options))
	for i := range rec.Options {
		disabled[i] = rec.IsPlaceholder(i)
	}
	chosen := -1
	if a, ok := s.sess.Answer(rec.ID); ok {
		chosen = optionIndex(rec, a)
	}
	s.choice = components.NewMultiChoice(rec.Options, disabled, chosen)
	if fb := s.sess.Feedback(); s.sess.Submitted() && len(fb) > 0 {
		s.choice.Reveal(correctIndex(rec, fb[0]))
	}
}

func optionIndex(rec bank.Record, text string) int {
	text = strings.TrimSpace(text)
	for i, o := range rec.Options {
		if !rec.IsPlaceholder(i) && strings.TrimSpace(o) == text {
			return i
		}
	}
	return -1
}

// correctIndex is the option to highlight as the key, or -1 when the
// question cannot be verified.
func correctIndex(rec bank.Record, fb session.Feedback) int {
	if fb.Outcome == session.OutcomeUnverifiable {
		return -1
	}
	return optionIndex(rec, fb.CorrectText)
}
