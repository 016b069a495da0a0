package quiz

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyzone/internal/bank"
	"github.com/abhisek/studyzone/internal/diagnosis"
	"github.com/abhisek/studyzone/internal/llm"
	"github.com/abhisek/studyzone/internal/progress"
	"github.com/abhisek/studyzone/internal/router"
	"github.com/abhisek/studyzone/internal/screens/summary"
	"github.com/abhisek/studyzone/internal/store"
)

func testRecords() []bank.Record {
	return []bank.Record{
		{ID: "q1", Topic: "Past simple", Prompt: "Yesterday I ___ to school.", Options: []string{"go", "went", "gone", "going"}, Indicator: "B", HasIndicator: true, Category: "Tense"},
		{ID: "q2", Prompt: "She ___ tea every day.", Options: []string{"drink", "drinks", bank.Placeholder, bank.Placeholder}, Padded: []bool{false, false, true, true}, Indicator: "drinks", HasIndicator: true, Category: "Agreement"},
		{ID: "q3", Prompt: "We ___ dinner now.", Options: []string{"are having", "have", "had", "has"}, Indicator: "A", HasIndicator: true, Category: "Tense"},
	}
}

func openStore(t *testing.T) *store.Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := store.Open(fmt.Sprintf("file:quiz_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newQuiz(t *testing.T, opts Options) *QuizScreen {
	t.Helper()
	if opts.Records == nil && opts.LoadErr == nil {
		opts.Records = testRecords()
	}
	if opts.BankName == "" {
		opts.BankName = "de_thi.csv"
	}
	q := New(opts)
	q.Init()
	return q
}

// key sends a key press and feeds any resulting component message back in,
// the way the program loop would.
func key(q *QuizScreen, r rune) tea.Cmd {
	_, cmd := q.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if _, ok := msg.(router.PushScreenMsg); ok {
		return func() tea.Msg { return msg }
	}
	_, next := q.Update(msg)
	return next
}

func special(q *QuizScreen, code rune) tea.Cmd {
	_, cmd := q.Update(tea.KeyPressMsg{Code: code})
	if cmd == nil {
		return nil
	}
	_, next := q.Update(cmd())
	return next
}

func TestQuiz_CorrectAnswer(t *testing.T) {
	q := newQuiz(t, Options{})
	key(q, 'b')
	ans, ok := q.sess.Answer("q1")
	require.True(t, ok)
	assert.Equal(t, "went", ans)

	key(q, 's')
	assert.True(t, q.sess.Submitted())
	assert.True(t, q.choice.Revealed())
	assert.Contains(t, q.View(80, 40), "Excellent! Your answer is correct!")
	assert.Nil(t, q.diag, "correct answers are not diagnosed")
}

func TestQuiz_IncorrectShowsRuleDiagnosis(t *testing.T) {
	q := newQuiz(t, Options{})
	key(q, 'a')
	cmd := key(q, 's')
	assert.Nil(t, cmd, "no LLM is configured")

	require.NotNil(t, q.diag)
	assert.Equal(t, diagnosis.SourceRule, q.diag.Source)
	view := q.View(80, 40)
	assert.Contains(t, view, "Incorrect! The correct answer is went.")
	assert.Contains(t, view, "Ms. Tammy's Diagnosis")
}

func TestQuiz_WaitingPanelBeforeSubmit(t *testing.T) {
	q := newQuiz(t, Options{})
	assert.Contains(t, q.View(80, 40), "Waiting for your answer to analyze...")

	key(q, 'a')
	key(q, 's')
	key(q, 'b')
	assert.False(t, q.sess.Submitted(), "changing the answer hides old feedback")
	assert.Contains(t, q.View(80, 40), "Waiting for your answer to analyze...")
}

func TestQuiz_SubmitWithoutAnswer(t *testing.T) {
	q := newQuiz(t, Options{})
	key(q, 's')
	assert.False(t, q.sess.Submitted())
	assert.Contains(t, q.View(80, 40), "Please choose an answer first.")
}

func TestQuiz_PlaceholderOptionsCannotBePicked(t *testing.T) {
	q := newQuiz(t, Options{})
	key(q, 'n')
	require.Equal(t, 1, q.sess.Index())

	assert.Nil(t, key(q, 'c'))
	_, ok := q.sess.Answer("q2")
	assert.False(t, ok)
}

func TestQuiz_Navigation(t *testing.T) {
	q := newQuiz(t, Options{})
	key(q, 'p')
	assert.Equal(t, 0, q.sess.Index())
	assert.Contains(t, q.View(80, 40), "This is the first question.")

	special(q, tea.KeyRight)
	assert.Equal(t, 1, q.sess.Index())
	assert.Contains(t, q.View(80, 40), "Question 2 of 3")

	key(q, 'n')
	key(q, 'n')
	assert.Equal(t, 2, q.sess.Index())
	assert.Contains(t, q.View(80, 40), "This is the last question.")

	special(q, tea.KeyLeft)
	assert.Equal(t, 1, q.sess.Index())
}

func TestQuiz_Jump(t *testing.T) {
	q := newQuiz(t, Options{})
	q.Update(tea.KeyPressMsg{Code: 'g', Text: "g"})
	require.NotNil(t, q.jump)
	assert.True(t, q.HandlesBack())

	q.Update(tea.KeyPressMsg{Code: '3', Text: "3"})
	q.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Nil(t, q.jump)
	assert.Equal(t, 2, q.sess.Index())

	q.Update(tea.KeyPressMsg{Code: 'g', Text: "g"})
	q.Update(tea.KeyPressMsg{Code: '9', Text: "9"})
	q.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Equal(t, 2, q.sess.Index())
	assert.Contains(t, q.View(80, 40), "There is no question 9")

	q.Update(tea.KeyPressMsg{Code: 'g', Text: "g"})
	q.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Nil(t, q.jump)
	assert.False(t, q.HandlesBack())
}

func TestQuiz_Filter(t *testing.T) {
	q := newQuiz(t, Options{})
	key(q, 'b')

	key(q, 'f')
	require.NotNil(t, q.picker)
	assert.Contains(t, q.View(80, 40), "Choose an error type")

	q.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	special(q, tea.KeyEnter)

	assert.Nil(t, q.picker)
	assert.Equal(t, "Agreement", q.sess.Selector().Category)
	assert.Equal(t, 1, q.sess.Count())
	assert.Equal(t, 0, q.sess.AnsweredCount(), "changing the filter clears answers")
	assert.Contains(t, q.View(80, 40), "Showing 1 questions: Agreement")
}

func TestQuiz_EmptyFilterShowsNotice(t *testing.T) {
	q := newQuiz(t, Options{})
	q.selectors = append(q.selectors, bank.ForCategory("Spelling"))
	q.Update(filterChosenMsg{Index: len(q.selectors) - 1})

	assert.Equal(t, 0, q.sess.Count())
	view := q.View(80, 40)
	assert.Contains(t, view, "No questions available for the selected error type.")
	assert.Nil(t, key(q, 's'))
}

func TestQuiz_LoadErrorShowsNotice(t *testing.T) {
	q := newQuiz(t, Options{LoadErr: &bank.SourceError{Path: "de_thi.csv", Kind: bank.ErrSourceUnavailable}})
	assert.Nil(t, q.sess)
	assert.Contains(t, q.View(80, 24), "de_thi.csv file not found")
	assert.Nil(t, key(q, 'a'))
}

func TestQuiz_LLMExplanation(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"explanation":"'Yesterday' tells us the action is finished.","tip":"Look for time words."}`),
	})
	svc := diagnosis.NewService(mock)
	t.Cleanup(svc.Close)

	q := newQuiz(t, Options{Diagnosis: svc, ExplainTimeout: 2 * time.Second})
	key(q, 'a')
	_, cmd := q.Update(tea.KeyPressMsg{Code: 's', Text: "s"})
	require.NotNil(t, cmd)
	assert.True(t, q.explaining)
	assert.Contains(t, q.View(80, 40), "Ms. Tammy is thinking...")

	msg := cmd()
	require.IsType(t, explanationMsg{}, msg)
	q.Update(msg)
	assert.False(t, q.explaining)
	assert.Contains(t, q.View(80, 50), "Ms. Tammy says:")

	// Resubmitting the same answer reuses the cached explanation.
	key(q, 'b')
	key(q, 'a')
	assert.Nil(t, key(q, 's'))
	require.NotNil(t, q.explanation)
	assert.Equal(t, 1, mock.CallCount())
}

func TestQuiz_StaleExplanationIgnored(t *testing.T) {
	q := newQuiz(t, Options{})
	key(q, 'a')
	key(q, 's')
	key(q, 'n')

	q.Update(explanationMsg{SessionID: q.sess.ID, RecordID: "q1", Chosen: "go", Result: &diagnosis.Result{Explanation: "late"}})
	assert.Nil(t, q.explanation, "the student moved on")
	q.Update(explanationTimeoutMsg{SessionID: "other", RecordID: "q2"})
}

func TestQuiz_ResumeFromCheckpoint(t *testing.T) {
	st := openStore(t)
	rec := progress.NewRecorder(st.EventRepo(), st.SnapshotRepo(), "hs001")

	first := newQuiz(t, Options{Recorder: rec})
	key(first, 'b')
	key(first, 'n')

	second := newQuiz(t, Options{Recorder: rec})
	assert.Equal(t, 1, second.sess.Index())
	ans, ok := second.sess.Answer("q1")
	require.True(t, ok)
	assert.Equal(t, "went", ans)
	assert.Contains(t, second.View(80, 40), "Welcome back!")
}

func TestQuiz_FinishPushesSummary(t *testing.T) {
	st := openStore(t)
	rec := progress.NewRecorder(st.EventRepo(), st.SnapshotRepo(), "hs001")
	q := newQuiz(t, Options{Recorder: rec})

	assert.Nil(t, key(q, 'x'))
	assert.Contains(t, q.View(80, 40), "Answer at least one question")

	key(q, 'b')
	cmd := key(q, 'x')
	require.NotNil(t, cmd)
	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	require.IsType(t, &summary.SummaryScreen{}, push.Screen)
	assert.Contains(t, push.Screen.View(80, 40), "Score: 1/3 (33%)")

	quizzes, err := st.EventRepo().RecentQuizzes(context.Background(), "hs001", 10)
	require.NoError(t, err)
	require.Len(t, quizzes, 1)
	assert.Equal(t, 1, quizzes[0].Correct)

	resumed := newQuiz(t, Options{Recorder: rec})
	assert.Equal(t, 0, resumed.sess.AnsweredCount(), "finishing discards the checkpoint")
}

func TestQuiz_RetakeStartsNewSession(t *testing.T) {
	q := newQuiz(t, Options{})
	key(q, 'b')
	id := q.sess.ID

	q.Update(summary.RetakeMsg{})
	assert.NotEqual(t, id, q.sess.ID)
	assert.Equal(t, 0, q.sess.AnsweredCount())
	assert.Equal(t, 0, q.sess.Index())
}

func TestQuiz_Reset(t *testing.T) {
	q := newQuiz(t, Options{})
	key(q, 'b')
	key(q, 'n')
	key(q, 'r')
	assert.Equal(t, 0, q.sess.Index())
	assert.Equal(t, 0, q.sess.AnsweredCount())
	assert.Contains(t, q.View(80, 40), "Progress reset.")
}
