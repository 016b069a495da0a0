package diagnosis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyzone/internal/llm"
	"github.com/abhisek/studyzone/internal/store"
)

const explanationJSON = `{"explanation":"'Yesterday' means the past, so we need 'went'.","tip":"Look for time words."}`

func wrongAnswer() Input {
	return Input{SessionID: "sess", StudentID: "s1", Record: testRecord(), Chosen: "going", CorrectText: "went"}
}

func TestService_RulesOnly(t *testing.T) {
	svc := NewService(nil)
	defer svc.Close()

	assert.False(t, svc.Explains())
	res := svc.Diagnose(context.Background(), wrongAnswer(), func(*Result) { t.Error("callback without provider") })
	assert.Equal(t, SourceRule, res.Source)
	assert.Equal(t, "Word Form", res.Category)
}

func TestService_NoRuleApplies(t *testing.T) {
	svc := NewService(nil)
	defer svc.Close()

	in := wrongAnswer()
	in.Record.Category = ""
	in.Record.Distractors = nil
	res := svc.Diagnose(context.Background(), in, nil)
	assert.Equal(t, SourceNone, res.Source)
	assert.True(t, res.Empty())
}

func TestService_LLMExplanation(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(explanationJSON)})
	svc := NewService(mock)
	defer svc.Close()

	got := make(chan *Result, 1)
	res := svc.Diagnose(context.Background(), wrongAnswer(), func(r *Result) { got <- r })
	assert.Equal(t, SourceRule, res.Source, "the rule result is returned synchronously")

	select {
	case r := <-got:
		assert.Equal(t, SourceLLM, r.Source)
		assert.Equal(t, "q7", r.RecordID)
		assert.Equal(t, "Word Form", r.Category)
		assert.Contains(t, r.Explanation, "went")
		assert.Equal(t, "Look for time words.", r.Tip)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for explanation")
	}

	require.Equal(t, 1, mock.CallCount())
	call := mock.Calls[0]
	assert.Equal(t, ExplanationSchema, call.Schema)
	prompt := call.Messages[0].Content
	assert.Contains(t, prompt, "Question: Yesterday I ___ to school by bus.")
	assert.Contains(t, prompt, "Student's answer: going")
	assert.Contains(t, prompt, "Correct answer: went")
	assert.Contains(t, prompt, "Error type: Word Form")
}

func TestService_LLMFailureSkipsCallback(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: errors.New("boom")})
	svc := NewService(mock)

	called := false
	var mu sync.Mutex
	svc.Diagnose(context.Background(), wrongAnswer(), func(*Result) {
		mu.Lock()
		called = true
		mu.Unlock()
	})

	require.Eventually(t, func() bool { return mock.CallCount() == 1 }, 2*time.Second, 5*time.Millisecond)
	svc.Close()
	mu.Lock()
	defer mu.Unlock()
	assert.False(t, called)
}

type blockingProvider struct {
	release chan struct{}
	mu      sync.Mutex
	calls   int
}

func (b *blockingProvider) Generate(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
	select {
	case <-b.release:
		return &llm.Response{Content: json.RawMessage(explanationJSON)}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (b *blockingProvider) ModelID() string { return "blocking" }

func (b *blockingProvider) callCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

func TestService_DropsWhenQueueFull(t *testing.T) {
	p := &blockingProvider{release: make(chan struct{})}
	svc := NewService(p)
	defer svc.Close()

	var mu sync.Mutex
	delivered := 0
	cb := func(*Result) {
		mu.Lock()
		delivered++
		mu.Unlock()
	}

	// The first job occupies the worker.
	svc.Diagnose(context.Background(), wrongAnswer(), cb)
	require.Eventually(t, func() bool { return p.callCount() == 1 }, 2*time.Second, 5*time.Millisecond)

	for range QueueSize + 10 {
		svc.Diagnose(context.Background(), wrongAnswer(), cb)
	}
	close(p.release)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return delivered == QueueSize+1
	}, 5*time.Second, 5*time.Millisecond)

	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, QueueSize+1, delivered, "jobs past the queue bound are dropped")
	mu.Unlock()
}

func TestService_CloseCancelsInFlight(t *testing.T) {
	p := &blockingProvider{release: make(chan struct{})}
	svc := NewService(p)

	svc.Diagnose(context.Background(), wrongAnswer(), func(*Result) { t.Error("canceled job delivered") })
	require.Eventually(t, func() bool { return p.callCount() == 1 }, 2*time.Second, 5*time.Millisecond)

	done := make(chan struct{})
	go func() {
		svc.Close()
		svc.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not return")
	}

	// Dispatch after Close is a no-op.
	svc.Diagnose(context.Background(), wrongAnswer(), func(*Result) { t.Error("delivered after close") })
}

func TestService_RecordsEvents(t *testing.T) {
	name := strings.ReplaceAll(t.Name(), "/", "_")
	s, err := store.Open("file:" + name + "?mode=memory&cache=shared")
	require.NoError(t, err)
	defer s.Close()

	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(explanationJSON)})
	svc := NewService(mock, WithEvents(s.EventRepo()))

	got := make(chan *Result, 1)
	svc.Diagnose(context.Background(), wrongAnswer(), func(r *Result) { got <- r })
	select {
	case <-got:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for explanation")
	}
	svc.Close()

	rows, err := s.DB().Query("SELECT source, category FROM diagnosis_events ORDER BY sequence")
	require.NoError(t, err)
	defer rows.Close()
	var sources []string
	for rows.Next() {
		var src, cat string
		require.NoError(t, rows.Scan(&src, &cat))
		assert.Equal(t, "Word Form", cat)
		sources = append(sources, src)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{SourceRule, SourceLLM}, sources)
}
