package history

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyzone/internal/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	s, err := store.Open(fmt.Sprintf("file:history_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func load(t *testing.T, s *HistoryScreen) {
	t.Helper()
	cmd := s.Init()
	require.NotNil(t, cmd)
	s.Update(cmd())
}

func TestHistory_Empty(t *testing.T) {
	s := New(openStore(t).EventRepo(), "hs001")
	assert.Contains(t, s.View(80, 24), "Loading history...")
	load(t, s)
	assert.Contains(t, s.View(80, 24), "No finished quizzes yet")
}

func TestHistory_ListsAttemptsAndCategories(t *testing.T) {
	st := openStore(t)
	repo := st.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendQuizEvent(ctx, store.QuizEventData{
		SessionID: "s1", StudentID: "hs001", Action: store.ActionEnd, Mode: "per-question",
		Selector: "All Questions", Bank: "data/de_thi.csv", Total: 5, Answered: 5, Correct: 4, Percent: 80, Basis: "all",
		DurationSecs: 75,
	}))
	require.NoError(t, repo.AppendAnswerEvent(ctx, store.AnswerEventData{
		SessionID: "s1", StudentID: "hs001", RecordID: "q1", Category: "Tense", Outcome: "correct", Correct: true,
	}))
	require.NoError(t, repo.AppendAnswerEvent(ctx, store.AnswerEventData{
		SessionID: "s1", StudentID: "hs001", RecordID: "q2", Category: "Tense", Outcome: "incorrect",
	}))
	// Another student's attempt is not shown.
	require.NoError(t, repo.AppendQuizEvent(ctx, store.QuizEventData{
		SessionID: "s2", StudentID: "hs002", Action: store.ActionEnd, Bank: "other.csv", Total: 1,
	}))

	s := New(repo, "hs001")
	load(t, s)
	view := s.View(100, 40)
	assert.Contains(t, view, "de_thi.csv")
	assert.Contains(t, view, "4/5 correct")
	assert.NotContains(t, view, "other.csv")
	assert.Contains(t, view, "Tense")
	assert.Contains(t, view, "1/2   50%")

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Contains(t, s.View(100, 40), "1:15")
}

func TestHistory_NilRepo(t *testing.T) {
	s := New(nil, "guest")
	assert.Nil(t, s.Init())
	assert.Contains(t, s.View(80, 24), "No finished quizzes yet")
}
