package flyer

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyzone/internal/bank"
	"github.com/abhisek/studyzone/internal/progress"
	"github.com/abhisek/studyzone/internal/router"
	"github.com/abhisek/studyzone/internal/store"
)

func testPassages() []bank.Passage {
	rec := func(id, prompt, ind string, opts ...string) bank.Record {
		return bank.Record{ID: id, Prompt: prompt, Options: opts, Indicator: ind, HasIndicator: true, Category: "Word Form"}
	}
	return []bank.Passage{
		{
			Topic: "School Fair",
			Text:  "Come to our school fair! There (1) ___ games and (2) ___ food.",
			Questions: []bank.Record{
				rec("p1-1", "There (1) ___ games", "B", "is", "are", "be", "been"),
				rec("p1-2", "(2) ___ food", "A", "delicious", "deliciously", "delicacy", "delight"),
			},
		},
		{
			Topic: "Library",
			Text:  "The library (1) ___ at 8 a.m.",
			Questions: []bank.Record{
				rec("p2-1", "The library (1) ___", "C", "open", "opening", "opens", "opened"),
			},
		},
	}
}

func newFlyer(t *testing.T, rec *progress.Recorder) *FlyerScreen {
	t.Helper()
	s := New(Options{Passages: testPassages(), BankName: "flyer.json", Recorder: rec})
	s.Init()
	return s
}

func press(s *FlyerScreen, msg tea.KeyPressMsg) tea.Cmd {
	_, cmd := s.Update(msg)
	if cmd == nil {
		return nil
	}
	out := cmd()
	if _, ok := out.(router.PushScreenMsg); ok {
		return func() tea.Msg { return out }
	}
	_, next := s.Update(out)
	return next
}

func letter(s *FlyerScreen, r rune) tea.Cmd {
	return press(s, tea.KeyPressMsg{Code: r, Text: string(r)})
}

func TestFlyer_PickAdvancesToNextBlank(t *testing.T) {
	s := newFlyer(t, nil)
	_, sess, _ := s.set.Current()

	letter(s, 'b')
	assert.Equal(t, 1, sess.Index(), "answering moves to the next blank")
	ans, _ := sess.Answer("p1-1")
	assert.Equal(t, "are", ans)

	press(s, tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	assert.Equal(t, 0, sess.Index())
	press(s, tea.KeyPressMsg{Code: tea.KeyTab})
	assert.Equal(t, 1, sess.Index())
}

func TestFlyer_SubmitShowsPerBlankFeedback(t *testing.T) {
	s := newFlyer(t, nil)
	letter(s, 'b')
	letter(s, 'b')
	letter(s, 's')

	_, sess, _ := s.set.Current()
	require.True(t, sess.Submitted())
	view := s.View(80, 60)
	assert.Contains(t, view, "Score: 1/2")
	assert.Contains(t, view, "Correct answer: delicious")
	assert.Contains(t, view, "Error type: Word Form")
}

func TestFlyer_PartialSubmitAllowed(t *testing.T) {
	s := newFlyer(t, nil)
	letter(s, 'b')
	letter(s, 's')
	assert.Contains(t, s.View(80, 60), "Score: 1/2")
}

func TestFlyer_PassageNavigationKeepsAnswers(t *testing.T) {
	s := newFlyer(t, nil)
	letter(s, 'b')

	letter(s, 'n')
	assert.Equal(t, 1, s.set.Index())
	assert.Contains(t, s.View(80, 40), "Passage 2 of 2")
	letter(s, 'n')
	assert.Contains(t, s.View(80, 40), "This is the last passage.")

	letter(s, 'p')
	_, sess, _ := s.set.Current()
	ans, ok := sess.Answer("p1-1")
	require.True(t, ok)
	assert.Equal(t, "are", ans)
}

func TestFlyer_RetryClearsCurrentPassageOnly(t *testing.T) {
	s := newFlyer(t, nil)
	letter(s, 'b')
	letter(s, 'n')
	letter(s, 'c')
	letter(s, 'p')
	letter(s, 'r')

	_, first, _ := s.set.Current()
	assert.Equal(t, 0, first.AnsweredCount())
	s.set.Next()
	_, second, _ := s.set.Current()
	assert.Equal(t, 1, second.AnsweredCount())
}

func TestFlyer_FinishPushesOverallSummary(t *testing.T) {
	s := newFlyer(t, nil)
	assert.Nil(t, letter(s, 'x'))

	letter(s, 'b')
	letter(s, 'a')
	letter(s, 'n')
	letter(s, 'c')
	cmd := letter(s, 'x')
	require.NotNil(t, cmd)
	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	assert.Contains(t, push.Screen.View(80, 40), "Score: 3/3 (100%)")
}

func TestFlyer_SubmitRecordsEvents(t *testing.T) {
	name := strings.ReplaceAll(t.Name(), "/", "_")
	st, err := store.Open(fmt.Sprintf("file:flyer_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	s := newFlyer(t, progress.NewRecorder(st.EventRepo(), st.SnapshotRepo(), "hs001"))
	letter(s, 'b')
	letter(s, 'a')
	letter(s, 's')

	quizzes, err := st.EventRepo().RecentQuizzes(context.Background(), "hs001", 5)
	require.NoError(t, err)
	require.Len(t, quizzes, 1)
	assert.Equal(t, 2, quizzes[0].Correct)
	assert.Equal(t, "flyer.json", quizzes[0].Bank)
}

func TestFlyer_LoadError(t *testing.T) {
	s := New(Options{LoadErr: &bank.SourceError{Path: "flyer.json", Kind: bank.ErrSourceUnavailable}})
	assert.Contains(t, s.View(80, 24), "flyer.json file not found")
	assert.Nil(t, letter(s, 's'))
}
