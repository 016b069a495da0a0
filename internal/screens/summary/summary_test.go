package summary

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyzone/internal/bank"
	"github.com/abhisek/studyzone/internal/router"
	"github.com/abhisek/studyzone/internal/session"
)

func testSummary() session.Summary {
	records := []bank.Record{
		{ID: "q1", Prompt: "She ___ tea.", Options: []string{"drink", "drinks"}, Indicator: "B", HasIndicator: true, Category: "Agreement"},
		{ID: "q2", Prompt: "I ___ home.", Options: []string{"go", "goes"}, Indicator: "A", HasIndicator: true, Category: "Agreement"},
		{ID: "q3", Prompt: "They ___ late.", Options: []string{"was", "were"}, Indicator: "B", HasIndicator: true, Category: "Agreement"},
	}
	return session.Summarize(records, map[string]string{"q1": "drinks", "q2": "goes"}, session.BasisAll)
}

func TestSummaryScreen_Title(t *testing.T) {
	s := New("Quiz Results", testSummary())
	assert.Equal(t, "Quiz Results", s.Title())
}

func TestSummaryScreen_Display(t *testing.T) {
	s := New("Quiz Results", testSummary())
	view := s.View(80, 40)
	assert.Contains(t, view, "Keep practicing!")
	assert.Contains(t, view, "Score: 1/3 (33%)")
	assert.Contains(t, view, "Score counts every question")
	assert.Contains(t, view, "Q1")
	assert.Contains(t, view, "Not answered")
}

func TestSummaryScreen_AnsweredBasisNote(t *testing.T) {
	sum := testSummary()
	sum.Basis = session.BasisAnswered
	view := New("Quiz Results", sum).View(80, 40)
	assert.Contains(t, view, "answered questions only")
}

func TestSummaryScreen_EnterReturnsHome(t *testing.T) {
	s := New("Quiz Results", testSummary())
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	_, ok := cmd().(router.PopToRootMsg)
	assert.True(t, ok)
}

func TestSummaryScreen_RetakeReturnsCommand(t *testing.T) {
	s := New("Quiz Results", testSummary())
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	assert.NotNil(t, cmd)
}

func TestSummaryScreen_ScrollClamps(t *testing.T) {
	s := New("Quiz Results", testSummary())
	for range 50 {
		s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	s.View(80, 20)
	assert.GreaterOrEqual(t, s.scroll.Offset, 0)

	for range 100 {
		s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	}
	assert.Equal(t, 0, s.scroll.Offset)
}
