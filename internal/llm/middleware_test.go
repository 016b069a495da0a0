package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/studyzone/internal/store"
)

func fastRetry() RetryConfig {
	return RetryConfig{MaxAttempts: 3, InitialWait: time.Millisecond, MaxWait: 5 * time.Millisecond, Multiplier: 2}
}

func unavailable() MockResponse {
	return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}}
}

func TestRetry(t *testing.T) {
	ok := MockResponse{Content: json.RawMessage(`{"ok":true}`)}
	invalid := MockResponse{Err: &ErrInvalidResponse{Err: errors.New("bad")}}

	tests := []struct {
		name      string
		responses []MockResponse
		wantErr   bool
		wantCalls int
	}{
		{"first attempt", []MockResponse{ok}, false, 1},
		{"transient then success", []MockResponse{unavailable(), ok}, false, 2},
		{"all attempts fail", []MockResponse{unavailable(), unavailable(), unavailable(), ok}, true, 3},
		{"rate limit retried", []MockResponse{{Err: &ErrRateLimit{RetryAfter: time.Millisecond}}, ok}, false, 2},
		{"invalid response retried once", []MockResponse{invalid, invalid, ok}, true, 2},
		{"max tokens not retried", []MockResponse{{Err: &ErrMaxTokensExceeded{}}, ok}, true, 1},
		{"cancellation not retried", []MockResponse{{Err: context.Canceled}, ok}, true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.responses...)
			_, err := WithRetry(mock, fastRetry()).Generate(context.Background(), Request{})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalls, mock.CallCount())
		})
	}
}

func TestRetry_StopsOnContextDone(t *testing.T) {
	mock := NewMockProvider(unavailable(), unavailable(), unavailable())
	cfg := RetryConfig{MaxAttempts: 3, InitialWait: time.Hour, MaxWait: time.Hour, Multiplier: 1}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := WithRetry(mock, cfg).Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_Backoff(t *testing.T) {
	r := &RetryProvider{config: RetryConfig{InitialWait: 100 * time.Millisecond, MaxWait: 300 * time.Millisecond, Multiplier: 2}}

	assert.Equal(t, 2*time.Second, r.backoff(0, &ErrRateLimit{RetryAfter: 2 * time.Second}))

	for attempt, base := range []time.Duration{100, 200, 300, 300} {
		base *= time.Millisecond
		got := r.backoff(attempt, errors.New("x"))
		assert.InDelta(t, float64(base), float64(got), float64(base)*0.2+1, "attempt %d", attempt)
	}
}

func TestRecording_AppendsEvents(t *testing.T) {
	s, err := store.Open("file:llm_recording?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	events := s.EventRepo()

	core, logs := observer.New(zapcore.DebugLevel)
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{}`), Usage: usage(12, 4)},
		MockResponse{Err: errors.New("boom")},
	)
	p := WithRecording(mock, ProviderMock, events, zap.New(core))
	ctx := WithPurpose(context.Background(), "diagnosis")

	_, err = p.Generate(ctx, Request{})
	require.NoError(t, err)
	_, err = p.Generate(ctx, Request{})
	require.Error(t, err)

	u, err := events.LLMUsage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, store.LLMUsage{Requests: 2, Failures: 1, InputTokens: 12, OutputTokens: 4}, u)

	warn := logs.FilterMessage("llm request failed").All()
	require.Len(t, warn, 1)
	assert.Equal(t, "diagnosis", warn[0].ContextMap()["purpose"])
	assert.Equal(t, "mock", p.ModelID())
}

func TestRecording_NilRepo(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	_, err := WithRecording(mock, ProviderMock, nil, nil).Generate(context.Background(), Request{})
	assert.NoError(t, err)
}

func TestNewProvider(t *testing.T) {
	_, err := NewProvider(context.Background(), DefaultConfig(), nil, zap.NewNop())
	assert.ErrorIs(t, err, ErrDisabled)

	_, err = NewProvider(context.Background(), Config{Provider: ProviderOpenAI}, nil, zap.NewNop())
	assert.Error(t, err)

	cfg := DefaultConfig()
	cfg.Provider = ProviderMock
	p, err := NewProvider(context.Background(), cfg, nil, zap.NewNop())
	require.NoError(t, err)
	resp, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Contains(t, string(resp.Content), "explanation")

	cfg.Provider = ProviderOpenRouter
	cfg.OpenRouter.APIKey = "sk-or-test"
	p, err = NewProvider(context.Background(), cfg, nil, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "google/gemini-2.0-flash-001", p.ModelID())
}
