package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"pregnancy-nutrition-be/internal/dto"
	"pregnancy-nutrition-be/internal/pkg/logger"
	"pregnancy-nutrition-be/pkg/answer"
	"pregnancy-nutrition-be/pkg/answer/resolver"
	"pregnancy-nutrition-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	result resolver.Result
	err    error
	last   resolver.Request
}

func (f *fakeResolver) Resolve(_ context.Context, req resolver.Request) (resolver.Result, error) {
	f.last = req
	return f.result, f.err
}

func (f *fakeResolver) Providers() []resolver.ProviderStatus {
	return []resolver.ProviderStatus{{Name: "gemini", Tier: answer.TierAIPrimary}}
}

type fakeBudget struct{}

func (fakeBudget) Limit() int              { return 20 }
func (fakeBudget) Remaining(string) int    { return 0 }
func (fakeBudget) Len(context.Context) int { return 3 }

type fakeMirror struct {
	published chan events.Event
}

func (m *fakeMirror) Publish(_ context.Context, e events.Event) error {
	m.published <- e
	return nil
}

type logLine struct {
	module  string
	message string
	details map[string]interface{}
}

type recordingLogger struct {
	mu    sync.Mutex
	lines []logLine
}

func (l *recordingLogger) record(module, message string, details map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, logLine{module: module, message: message, details: details})
}

func (l *recordingLogger) Debug(module, message string, details map[string]interface{}) {
	l.record(module, message, details)
}
func (l *recordingLogger) Info(module, message string, details map[string]interface{}) {
	l.record(module, message, details)
}
func (l *recordingLogger) Warn(module, message string, details map[string]interface{}) {
	l.record(module, message, details)
}
func (l *recordingLogger) Error(module, message string, details map[string]interface{}) {
	l.record(module, message, details)
}
func (l *recordingLogger) Sync() error { return nil }

func (l *recordingLogger) snapshot() []logLine {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]logLine(nil), l.lines...)
}

func newChatbot(r Resolver) IChatbotService {
	return NewChatbotService(r, fakeBudget{}, fakeBudget{}, 13, NewStatsService(), logger.NewNopLogger())
}

func TestChatbotService_Ask(t *testing.T) {
	r := &fakeResolver{result: resolver.Result{Response: answer.Response{
		AnswerText: "Cooked chicken is safe.",
		SourceTier: answer.TierRuleBased,
		Disclaimer: true,
		Elapsed:    12 * time.Millisecond,
		RequestID:  "req-1",
	}}}

	resp, err := newChatbot(r).Ask(context.Background(), "c1", &dto.AskRequest{Question: "  chicken?  ", Trimester: "2"})

	require.NoError(t, err)
	assert.Equal(t, "chicken?", r.last.Question)
	assert.Equal(t, "2", r.last.Context.Trimester)
	assert.Equal(t, "c1", r.last.ClientID)
	assert.Equal(t, "rule_based", resp.SourceTier)
	assert.Equal(t, answer.MedicalDisclaimer, resp.DisclaimerText)
	assert.Equal(t, int64(12), resp.ElapsedMs)
}

func TestChatbotService_AskCarriesGuidance(t *testing.T) {
	r := &fakeResolver{result: resolver.Result{Response: answer.Response{
		AnswerText: "Eggs are safe when fully cooked.",
		SourceTier: answer.TierDataset,
		Provider:   "dataset:eggs",
		Guidance: answer.Guidance{
			Intent:          "safety_check",
			Keywords:        []string{"eggs"},
			QueryReflection: "You're asking about the safety of Eggs during pregnancy",
			Dos:             []string{"Cook eggs until firm"},
			Donts:           []string{"Eat raw or runny eggs"},
		},
	}}}

	resp, err := newChatbot(r).Ask(context.Background(), "c1", &dto.AskRequest{Question: "Can I eat eggs?"})

	require.NoError(t, err)
	assert.Equal(t, "safety_check", resp.Intent)
	assert.Equal(t, []string{"eggs"}, resp.Keywords)
	assert.Equal(t, "You're asking about the safety of Eggs during pregnancy", resp.QueryReflection)
	assert.Equal(t, []string{"Cook eggs until firm"}, resp.Dos)
	assert.Equal(t, []string{"Eat raw or runny eggs"}, resp.Donts)
}

func TestChatbotService_AskRateLimited(t *testing.T) {
	r := &fakeResolver{result: resolver.Result{RateLimited: true}, err: answer.ErrRateLimited}

	_, err := newChatbot(r).Ask(context.Background(), "c1", &dto.AskRequest{Question: "chicken?"})

	var rl *dto.RateLimitedError
	require.ErrorAs(t, err, &rl)
	assert.ErrorIs(t, err, answer.ErrRateLimited)
	assert.Equal(t, 20, rl.Limit)
}

func TestChatbotService_AskEmptyTerminalReturnsApology(t *testing.T) {
	r := &fakeResolver{
		result: resolver.Result{Response: answer.Response{AnswerText: "Sorry", SourceTier: answer.TierRuleBased}},
		err:    answer.ErrEmptyTerminalAnswer,
	}

	resp, err := newChatbot(r).Ask(context.Background(), "c1", &dto.AskRequest{Question: "chicken?"})

	require.NoError(t, err)
	assert.Equal(t, "Sorry", resp.Answer)
}

func TestChatbotService_Suggestions(t *testing.T) {
	svc := newChatbot(&fakeResolver{})

	resp, err := svc.Suggestions(context.Background(), "3", "west")
	require.NoError(t, err)
	assert.Equal(t, "T3", resp.Trimester)
	assert.Len(t, resp.Suggestions, 8)

	_, err = svc.Suggestions(context.Background(), "9", "")
	assert.ErrorIs(t, err, answer.ErrMalformedContext)
}

func TestChatbotService_Health(t *testing.T) {
	h := newChatbot(&fakeResolver{}).Health(context.Background())

	assert.Equal(t, "ok", h.Status)
	assert.Equal(t, 13, h.DatasetRecords)
	assert.Equal(t, 3, h.CacheEntries)
	assert.Len(t, h.Providers, 1)
}

func TestStatsService(t *testing.T) {
	s := NewStatsService()
	s.Record(events.AnswerResolved{SourceTier: "dataset", ElapsedMs: 10})
	s.Record(events.AnswerResolved{SourceTier: "ai_primary", ElapsedMs: 30})
	s.Record(events.AnswerResolved{SourceTier: "dataset", ElapsedMs: 2, CacheHit: true})
	s.Record(events.AnswerResolved{RateLimited: true})

	snap := s.Snapshot()

	assert.Equal(t, int64(4), snap.TotalRequests)
	assert.Equal(t, int64(3), snap.Answered)
	assert.Equal(t, int64(1), snap.RateLimited)
	assert.Equal(t, int64(1), snap.CacheHits)
	assert.Equal(t, map[string]int64{"dataset": 2, "ai_primary": 1}, snap.ByTier)
	assert.InDelta(t, 14.0, snap.AvgLatencyMs, 1e-9)
	assert.Equal(t, int64(2), snap.MinLatencyMs)
	assert.Equal(t, int64(30), snap.MaxLatencyMs)
}

func TestPublisherAndConsumer(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	stats := NewStatsService()
	interactions := &recordingLogger{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, NewConsumerService(pubSub, "answers", stats, interactions, logger.NewNopLogger()).Consume(ctx))

	mirror := &fakeMirror{published: make(chan events.Event, 1)}
	pub := NewPublisherService("answers", pubSub, mirror, logger.NewNopLogger())

	pub.Observe(ctx, resolver.Outcome{
		RequestID: "req-1",
		ClientID:  "c1",
		Response:  answer.Response{SourceTier: answer.TierDataset, Elapsed: 5 * time.Millisecond},
	})

	assert.Eventually(t, func() bool {
		return stats.Snapshot().TotalRequests == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, int64(1), stats.Snapshot().ByTier["dataset"])

	assert.Eventually(t, func() bool {
		return len(interactions.snapshot()) == 1
	}, time.Second, 10*time.Millisecond)
	line := interactions.snapshot()[0]
	assert.Equal(t, "INTERACTION", line.module)
	assert.Equal(t, "req-1", line.details["request_id"])
	assert.Equal(t, "dataset", line.details["source_tier"])

	select {
	case e := <-mirror.published:
		assert.Equal(t, events.TypeAnswerResolved, e.EventType())
		assert.Equal(t, "req-1", e.Payload()["request_id"])
	case <-time.After(time.Second):
		t.Fatal("event was not mirrored")
	}
}
