package provider

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"pregnancy-nutrition-be/pkg/answer"
	"pregnancy-nutrition-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	text  string
	err   error
	delay time.Duration
	calls atomic.Int32
	last  []llm.Message
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, _ ...llm.Option) (string, error) {
	f.calls.Add(1)
	f.last = history
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.text, f.err
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

type warmingProvider struct {
	fakeProvider
	warmErr   error
	warmCalls atomic.Int32
}

func (w *warmingProvider) WarmUp(context.Context) error {
	w.warmCalls.Add(1)
	return w.warmErr
}

func query(t *testing.T, text string, ctx answer.Context) answer.Query {
	t.Helper()
	q, err := answer.NewQuery(text, ctx, "client")
	require.NoError(t, err)
	return q
}

func TestLLMAdapter_Answered(t *testing.T) {
	fp := &fakeProvider{text: "Fully cooked mutton is safe."}
	a := NewLLMAdapter("gemini", fp)

	att := a.Ask(context.Background(), query(t, "can i eat mutton", answer.Context{}))

	require.Equal(t, answer.StatusAnswered, att.Status)
	require.NotNil(t, att.Candidate)
	assert.Equal(t, "Fully cooked mutton is safe.", att.Candidate.Text)
	assert.Equal(t, "gemini", att.Candidate.Provider)
	assert.Equal(t, int32(1), fp.calls.Load())
	require.Len(t, fp.last, 2)
	assert.Equal(t, "system", fp.last[0].Role)
}

func TestLLMAdapter_NotConfigured(t *testing.T) {
	a := NewLLMAdapter("solar", nil)

	att := a.Ask(context.Background(), query(t, "dates", answer.Context{}))

	assert.Equal(t, answer.StatusUnavailable, att.Status)
	assert.Equal(t, "not configured", att.Reason)
	assert.False(t, a.Configured())
	assert.ErrorIs(t, a.WarmUp(context.Background()), llm.ErrNotConfigured)
}

func TestLLMAdapter_ColdAdapterWarmsOnDemand(t *testing.T) {
	wp := &warmingProvider{fakeProvider: fakeProvider{text: "ok"}}
	a := NewLLMAdapter("gemini", wp)
	assert.False(t, a.Ready())

	att := a.Ask(context.Background(), query(t, "dates", answer.Context{}))

	assert.Equal(t, answer.StatusAnswered, att.Status)
	assert.True(t, a.Ready())
	assert.Equal(t, int32(1), wp.warmCalls.Load())

	_ = a.Ask(context.Background(), query(t, "dates", answer.Context{}))
	assert.Equal(t, int32(1), wp.warmCalls.Load(), "a ready adapter is not warmed again")
}

func TestLLMAdapter_FailedWarmUpStaysUnavailable(t *testing.T) {
	wp := &warmingProvider{warmErr: errors.New("bad key")}
	a := NewLLMAdapter("gemini", wp)

	assert.Error(t, a.WarmUp(context.Background()))
	assert.False(t, a.Ready())
}

func TestLLMAdapter_RetriesFailedWarmUpOnDemand(t *testing.T) {
	wp := &warmingProvider{fakeProvider: fakeProvider{text: "ok"}, warmErr: errors.New("dns lookup failed")}
	a := NewLLMAdapter("gemini", wp, WithRewarmInterval(time.Hour))
	require.Error(t, a.WarmUp(context.Background()))

	// the backend comes back after startup
	wp.warmErr = nil

	att := a.Ask(context.Background(), query(t, "dates", answer.Context{}))
	assert.Equal(t, answer.StatusAnswered, att.Status)
	assert.True(t, a.Ready())
	assert.Equal(t, int32(2), wp.warmCalls.Load())
}

func TestLLMAdapter_WarmUpRetryIsThrottled(t *testing.T) {
	wp := &warmingProvider{fakeProvider: fakeProvider{text: "ok"}, warmErr: errors.New("bad key")}
	a := NewLLMAdapter("gemini", wp, WithRewarmInterval(time.Hour))
	require.Error(t, a.WarmUp(context.Background()))

	for i := 0; i < 5; i++ {
		att := a.Ask(context.Background(), query(t, "dates", answer.Context{}))
		assert.Equal(t, "warming up", att.Reason)
	}
	assert.Equal(t, int32(2), wp.warmCalls.Load(), "one retry per interval")
	assert.Equal(t, int32(0), wp.calls.Load())
}

func TestLLMAdapter_TimeoutNoRetry(t *testing.T) {
	fp := &fakeProvider{text: "late", delay: time.Second}
	a := NewLLMAdapter("gemini", fp, WithTimeout(20*time.Millisecond))

	start := time.Now()
	att := a.Ask(context.Background(), query(t, "dates", answer.Context{}))

	assert.Equal(t, answer.StatusUnavailable, att.Status)
	assert.Equal(t, "timeout", att.Reason)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, int32(1), fp.calls.Load())
}

func TestLLMAdapter_ErrorsBecomeUnavailable(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		reason string
	}{
		{name: "quota", err: errors.New("googleapi: Error 429: RESOURCE_EXHAUSTED"), reason: "quota exhausted"},
		{name: "status 429", err: &llm.StatusError{Provider: "solar", StatusCode: 429}, reason: "quota exhausted"},
		{name: "backend", err: errors.New("connection refused"), reason: "backend error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewLLMAdapter("solar", &fakeProvider{err: tt.err})
			att := a.Ask(context.Background(), query(t, "dates", answer.Context{}))
			assert.Equal(t, answer.StatusUnavailable, att.Status)
			assert.Equal(t, tt.reason, att.Reason)
			assert.Nil(t, att.Candidate)
		})
	}
}

func TestLLMAdapter_LocalQuota(t *testing.T) {
	fp := &fakeProvider{text: "ok"}
	a := NewLLMAdapter("gemini", fp, WithMaxRPM(2))
	q := query(t, "dates", answer.Context{})

	assert.Equal(t, answer.StatusAnswered, a.Ask(context.Background(), q).Status)
	assert.Equal(t, answer.StatusAnswered, a.Ask(context.Background(), q).Status)
	att := a.Ask(context.Background(), q)
	assert.Equal(t, "local quota exhausted", att.Reason)
	assert.Equal(t, int32(2), fp.calls.Load())
}

func TestLLMAdapter_CallerCancel(t *testing.T) {
	fp := &fakeProvider{text: "late", delay: time.Second}
	a := NewLLMAdapter("gemini", fp)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	att := a.Ask(ctx, query(t, "dates", answer.Context{}))

	assert.Equal(t, answer.StatusUnavailable, att.Status)
	assert.Equal(t, "canceled", att.Reason)
}

func TestBuildPrompt(t *testing.T) {
	ctx := answer.Context{
		Trimester: answer.TrimesterT3,
		Region:    answer.RegionSouth,
		Diet:      answer.DietVegetarian,
		Condition: answer.ConditionAnemia,
	}

	prompt := BuildPrompt(query(t, "What should I eat for iron?", ctx))

	assert.Contains(t, prompt, "Trimester: 3")
	assert.Contains(t, prompt, "Region: south India")
	assert.Contains(t, prompt, "Diet: vegetarian")
	assert.Contains(t, prompt, "Health condition: anaemia")
	assert.Contains(t, prompt, "Question: What should I eat for iron?")

	assert.Equal(t, "Question: dates", BuildPrompt(query(t, "dates", answer.Context{})))
}
