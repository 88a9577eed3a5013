package provider

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"pregnancy-nutrition-be/internal/pkg/logger"
	"pregnancy-nutrition-be/pkg/answer"
	"pregnancy-nutrition-be/pkg/llm"

	"golang.org/x/time/rate"
)

const (
	DefaultTimeout   = 2500 * time.Millisecond
	DefaultMaxTokens = 300
	DefaultMaxRPM    = 60

	DefaultRewarmInterval = 10 * time.Second
)

// Adapter is the uniform contract every AI backend is wrapped in.
// Ask never returns an error: every failure becomes an Unavailable attempt.
type Adapter interface {
	Name() string
	Ask(ctx context.Context, q answer.Query) answer.Attempt
	WarmUp(ctx context.Context) error
}

// LLMAdapter wraps exactly one llm.LLMProvider
type LLMAdapter struct {
	name      string
	provider  llm.LLMProvider
	timeout   time.Duration
	maxTokens int
	quota     *rate.Limiter
	rewarm    *rate.Limiter
	ready     atomic.Bool
	logger    logger.ILogger
}

var _ Adapter = &LLMAdapter{}

type Option func(*LLMAdapter)

func WithTimeout(d time.Duration) Option {
	return func(a *LLMAdapter) {
		if d > 0 {
			a.timeout = d
		}
	}
}

func WithMaxTokens(n int) Option {
	return func(a *LLMAdapter) {
		if n > 0 {
			a.maxTokens = n
		}
	}
}

// WithMaxRPM caps calls per minute before the remote quota is hit. Zero or less means unlimited.
func WithMaxRPM(rpm int) Option {
	return func(a *LLMAdapter) {
		if rpm <= 0 {
			a.quota = rate.NewLimiter(rate.Inf, 0)
			return
		}
		a.quota = rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), rpm)
	}
}

// WithRewarmInterval spaces out the on-demand retries of a failed warm-up
func WithRewarmInterval(d time.Duration) Option {
	return func(a *LLMAdapter) {
		if d > 0 {
			a.rewarm = rate.NewLimiter(rate.Every(d), 1)
		}
	}
}

func WithLogger(l logger.ILogger) Option {
	return func(a *LLMAdapter) {
		a.logger = l
	}
}

// NewLLMAdapter accepts a nil provider for a backend without credentials;
// such an adapter stays in the chain and always reports Unavailable.
func NewLLMAdapter(name string, p llm.LLMProvider, opts ...Option) *LLMAdapter {
	a := &LLMAdapter{
		name:      name,
		provider:  p,
		timeout:   DefaultTimeout,
		maxTokens: DefaultMaxTokens,
		rewarm:    rate.NewLimiter(rate.Every(DefaultRewarmInterval), 1),
		logger:    logger.NewNopLogger(),
	}
	WithMaxRPM(DefaultMaxRPM)(a)
	for _, opt := range opts {
		opt(a)
	}

	if _, needsWarmUp := p.(llm.Warmer); p != nil && !needsWarmUp {
		a.ready.Store(true)
	}
	return a
}

func (a *LLMAdapter) Name() string {
	return a.name
}

func (a *LLMAdapter) Configured() bool {
	return a.provider != nil
}

func (a *LLMAdapter) Ready() bool {
	return a.ready.Load()
}

// WarmUp prepares the backend client. Until it succeeds the adapter reports Unavailable.
// Ask also runs it on demand for a cold adapter, at most once per rewarm interval.
func (a *LLMAdapter) WarmUp(ctx context.Context) error {
	if a.provider == nil {
		return llm.ErrNotConfigured
	}
	if w, ok := a.provider.(llm.Warmer); ok {
		if err := w.WarmUp(ctx); err != nil {
			a.logger.Warn("PROVIDER", "Warm-up failed", map[string]interface{}{
				"provider": a.name,
				"error":    err.Error(),
			})
			return err
		}
	}
	a.ready.Store(true)
	a.logger.Info("PROVIDER", "Provider ready", map[string]interface{}{"provider": a.name})
	return nil
}

// warmOnDemand runs the warm-up inside the caller's budget, so a failed or still pending
// background warm-up does not keep the adapter out of the chain
func (a *LLMAdapter) warmOnDemand(ctx context.Context) bool {
	if !a.rewarm.Allow() {
		return false
	}
	warmCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	return a.WarmUp(warmCtx) == nil
}

type callResult struct {
	text string
	err  error
}

func (a *LLMAdapter) Ask(ctx context.Context, q answer.Query) answer.Attempt {
	switch {
	case a.provider == nil:
		return a.unavailable("not configured", nil)
	case !a.ready.Load() && !a.warmOnDemand(ctx):
		return a.unavailable("warming up", nil)
	case !a.quota.Allow():
		return a.unavailable("local quota exhausted", nil)
	}

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	results := make(chan callResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				results <- callResult{err: fmt.Errorf("provider panic: %v", r)}
			}
		}()
		text, err := a.provider.Chat(callCtx, BuildMessages(q),
			llm.WithMaxTokens(a.maxTokens),
			llm.WithTemperature(0.7),
		)
		results <- callResult{text: text, err: err}
	}()

	select {
	case res := <-results:
		if res.err != nil {
			if errors.Is(ctx.Err(), context.Canceled) {
				return a.unavailable("canceled", ctx.Err())
			}
			if llm.IsRateLimitError(res.err) {
				return a.unavailable("quota exhausted", res.err)
			}
			if errors.Is(res.err, context.DeadlineExceeded) {
				return a.unavailable("timeout", res.err)
			}
			return a.unavailable("backend error", res.err)
		}
		return answer.Answered(answer.Candidate{
			Text:     res.text,
			Provider: a.name,
			Latency:  time.Since(start),
		})
	case <-callCtx.Done():
		if errors.Is(ctx.Err(), context.Canceled) {
			return a.unavailable("canceled", ctx.Err())
		}
		return a.unavailable("timeout", callCtx.Err())
	}
}

func (a *LLMAdapter) unavailable(reason string, cause error) answer.Attempt {
	details := map[string]interface{}{
		"provider": a.name,
		"reason":   reason,
	}
	if cause == nil {
		a.logger.Debug("PROVIDER", "Provider skipped", details)
		return answer.Unavailable(reason)
	}
	details["error"] = fmt.Errorf("%w: %v", answer.ErrProviderUnavailable, cause).Error()
	a.logger.Warn("PROVIDER", "Provider unavailable", details)
	return answer.Unavailable(reason)
}
