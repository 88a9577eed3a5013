package resolver

import (
	"context"
	"strings"
	"time"

	"pregnancy-nutrition-be/internal/pkg/logger"
	"pregnancy-nutrition-be/pkg/answer"
	"pregnancy-nutrition-be/pkg/answer/provider"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultResolveTimeout = 3 * time.Second
	DefaultAITimeout      = provider.DefaultTimeout

	apologyText = "Sorry, we could not prepare an answer right now. Please try again shortly or ask your doctor."
)

type RateLimiter interface {
	Allow(clientID string) bool
}

type Cache interface {
	Get(ctx context.Context, key string) (answer.Response, bool)
	Put(ctx context.Context, key string, resp answer.Response, ttl time.Duration)
}

type DatasetSource interface {
	Lookup(q answer.Query) (answer.Candidate, bool)
}

// Evaluator returns an empty verdict for an acceptable candidate, otherwise the rejection reason
type Evaluator interface {
	Verdict(c answer.Candidate) string
}

// Annotator attaches structured guidance to the accepted candidate
type Annotator interface {
	Annotate(q answer.Query, c answer.Candidate) answer.Guidance
}

// Terminal is the last tier; it must always produce text
type Terminal interface {
	Answer(q answer.Query) answer.Candidate
}

// Observer is told about every finished resolution, including rate-limited ones
type Observer interface {
	Observe(ctx context.Context, o Outcome)
}

type Config struct {
	ResolveTimeout time.Duration
	AITimeout      time.Duration
	CacheTTL       time.Duration
}

type Deps struct {
	Limiter   RateLimiter
	Cache     Cache
	Dataset   DatasetSource
	Adapters  []provider.Adapter
	Evaluator Evaluator
	Terminal  Terminal
	Annotator Annotator
	Logger    logger.ILogger
}

type Request struct {
	Question string
	Context  answer.RawContext
	ClientID string
}

type Result struct {
	Response    answer.Response
	RateLimited bool
}

// Step records what one tier did, in order
type Step struct {
	Tier     answer.Tier   `json:"tier"`
	Provider string        `json:"provider,omitempty"`
	Status   answer.Status `json:"status"`
	Reason   string        `json:"reason,omitempty"`
}

type Outcome struct {
	RequestID   string
	ClientID    string
	Question    string
	Response    answer.Response
	RateLimited bool
	Steps       []Step
}

type ProviderStatus struct {
	Name       string      `json:"name"`
	Tier       answer.Tier `json:"tier"`
	Configured bool        `json:"configured"`
	Ready      bool        `json:"ready"`
}

// Engine runs the tier state machine. It holds no per-request state and is safe for concurrent use.
type Engine struct {
	deps      Deps
	cfg       Config
	tracer    trace.Tracer
	newID     func() string
	observers []Observer
}

type Option func(*Engine)

func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) {
		e.tracer = t
	}
}

func WithRequestIDs(newID func() string) Option {
	return func(e *Engine) {
		e.newID = newID
	}
}

func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observers = append(e.observers, o)
	}
}

func NewEngine(deps Deps, cfg Config, opts ...Option) *Engine {
	if cfg.ResolveTimeout <= 0 {
		cfg.ResolveTimeout = DefaultResolveTimeout
	}
	if cfg.AITimeout <= 0 {
		cfg.AITimeout = DefaultAITimeout
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNopLogger()
	}
	e := &Engine{
		deps:   deps,
		cfg:    cfg,
		tracer: otel.Tracer("answer-resolver"),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WarmUp prepares every adapter in the background and returns immediately
func (e *Engine) WarmUp(ctx context.Context) {
	for _, a := range e.deps.Adapters {
		go func(a provider.Adapter) {
			_ = a.WarmUp(ctx)
		}(a)
	}
}

func (e *Engine) Providers() []ProviderStatus {
	out := make([]ProviderStatus, 0, len(e.deps.Adapters))
	for i, a := range e.deps.Adapters {
		st := ProviderStatus{Name: a.Name(), Tier: aiTier(i), Configured: true, Ready: true}
		if s, ok := a.(interface {
			Configured() bool
			Ready() bool
		}); ok {
			st.Configured = s.Configured()
			st.Ready = s.Ready()
		}
		out = append(out, st)
	}
	return out
}

func aiTier(i int) answer.Tier {
	if i == 0 {
		return answer.TierAIPrimary
	}
	return answer.TierAISecondary
}

// Resolve walks RATE_CHECK, CACHE_CHECK, the dataset, AI and rule-based tiers, and DONE.
// A rate-limited request returns ErrRateLimited alongside Result.RateLimited.
// Caller cancellation stops escalation and returns the context error with nothing cached.
func (e *Engine) Resolve(ctx context.Context, req Request) (Result, error) {
	start := time.Now()
	requestID := e.newID()

	ctx, span := e.tracer.Start(ctx, "answer.resolve")
	defer span.End()
	span.SetAttributes(attribute.String("request.id", requestID))

	qctx, err := answer.ParseContext(req.Context)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Result{}, err
	}
	q, err := answer.NewQuery(req.Question, qctx, req.ClientID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Result{}, err
	}

	// RATE_CHECK
	if !e.deps.Limiter.Allow(q.ClientID()) {
		e.deps.Logger.Warn("RESOLVER", "Rate limit exceeded", map[string]interface{}{
			"request_id": requestID,
			"client_id":  q.ClientID(),
		})
		span.SetAttributes(attribute.Bool("rate_limited", true))
		resp := answer.Response{RequestID: requestID, Elapsed: time.Since(start)}
		e.notify(ctx, Outcome{RequestID: requestID, ClientID: q.ClientID(), Question: q.RawText(), Response: resp, RateLimited: true})
		return Result{Response: resp, RateLimited: true}, answer.ErrRateLimited
	}

	// CACHE_CHECK
	key := q.CacheKey()
	if cached, ok := e.deps.Cache.Get(ctx, key); ok {
		resp := cached.WithCacheHit(time.Since(start), requestID)
		span.SetAttributes(attribute.Bool("cache_hit", true), attribute.String("source_tier", string(resp.SourceTier)))
		e.deps.Logger.Info("RESOLVER", "Served from cache", map[string]interface{}{
			"request_id":  requestID,
			"source_tier": resp.SourceTier,
		})
		e.notify(ctx, Outcome{RequestID: requestID, ClientID: q.ClientID(), Question: q.RawText(), Response: resp})
		return Result{Response: resp}, nil
	}

	f := &flow{engine: e, query: q, deadline: start.Add(e.cfg.ResolveTimeout)}

	accepted, ok := f.datasetTier(ctx)
	if !ok {
		accepted, ok, err = f.aiTiers(ctx)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return Result{}, err
		}
	}
	if !ok {
		accepted, err = f.ruleBasedTier(ctx)
		if err != nil {
			resp := answer.Response{
				AnswerText: apologyText,
				SourceTier: answer.TierRuleBased,
				Disclaimer: true,
				Elapsed:    time.Since(start),
				RequestID:  requestID,
			}
			span.SetStatus(codes.Error, err.Error())
			return Result{Response: resp}, err
		}
	}

	// DONE
	resp := answer.Response{
		AnswerText: accepted.Text,
		SourceTier: accepted.SourceTier,
		Provider:   accepted.Provider,
		Disclaimer: accepted.SourceTier.NeedsDisclaimer(),
		Elapsed:    time.Since(start),
		RequestID:  requestID,
	}
	if e.deps.Annotator != nil {
		resp.Guidance = e.deps.Annotator.Annotate(q, accepted)
	}
	e.deps.Cache.Put(ctx, key, resp, e.cfg.CacheTTL)

	span.SetAttributes(
		attribute.String("source_tier", string(resp.SourceTier)),
		attribute.String("provider", resp.Provider),
	)
	e.deps.Logger.Info("RESOLVER", "Question answered", map[string]interface{}{
		"request_id":  requestID,
		"source_tier": resp.SourceTier,
		"provider":    resp.Provider,
		"elapsed_ms":  resp.ElapsedMs(),
		"steps":       f.steps,
	})
	e.notify(ctx, Outcome{RequestID: requestID, ClientID: q.ClientID(), Question: q.RawText(), Response: resp, Steps: f.steps})
	return Result{Response: resp}, nil
}

func (e *Engine) notify(ctx context.Context, o Outcome) {
	for _, obs := range e.observers {
		obs.Observe(ctx, o)
	}
}

// flow is the per-request state of one resolution
type flow struct {
	engine   *Engine
	query    answer.Query
	deadline time.Time
	steps    []Step
}

func (f *flow) record(tier answer.Tier, providerName string, status answer.Status, reason string) {
	f.steps = append(f.steps, Step{Tier: tier, Provider: providerName, Status: status, Reason: reason})
}

func (f *flow) datasetTier(ctx context.Context) (answer.Candidate, bool) {
	_, span := f.engine.tracer.Start(ctx, "tier.dataset")
	defer span.End()

	c, ok := f.engine.deps.Dataset.Lookup(f.query)
	if !ok {
		f.record(answer.TierDataset, "", answer.StatusNoMatch, "")
		span.SetAttributes(attribute.String("tier.status", string(answer.StatusNoMatch)))
		return answer.Candidate{}, false
	}
	c.SourceTier = answer.TierDataset
	return f.evaluate(span, c)
}

// aiTiers walks the adapters in order. Each gets min(AI timeout, remaining budget).
func (f *flow) aiTiers(ctx context.Context) (answer.Candidate, bool, error) {
	for i, a := range f.engine.deps.Adapters {
		if err := ctx.Err(); err != nil {
			return answer.Candidate{}, false, err
		}
		tier := aiTier(i)

		budget := time.Until(f.deadline)
		if budget <= 0 {
			f.record(tier, a.Name(), answer.StatusUnavailable, "resolve budget spent")
			continue
		}
		if budget > f.engine.cfg.AITimeout {
			budget = f.engine.cfg.AITimeout
		}

		c, ok, err := f.askAdapter(ctx, a, tier, budget)
		if err != nil {
			return answer.Candidate{}, false, err
		}
		if ok {
			return c, true, nil
		}
	}
	return answer.Candidate{}, false, nil
}

func (f *flow) askAdapter(ctx context.Context, a provider.Adapter, tier answer.Tier, budget time.Duration) (answer.Candidate, bool, error) {
	tierCtx, span := f.engine.tracer.Start(ctx, "tier."+string(tier),
		trace.WithAttributes(attribute.String("provider", a.Name())))
	defer span.End()

	tierCtx, cancel := context.WithTimeout(tierCtx, budget)
	defer cancel()

	att := a.Ask(tierCtx, f.query)
	if err := ctx.Err(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return answer.Candidate{}, false, err
	}
	if att.Status != answer.StatusAnswered || att.Candidate == nil {
		f.record(tier, a.Name(), answer.StatusUnavailable, att.Reason)
		span.SetAttributes(attribute.String("tier.status", string(answer.StatusUnavailable)), attribute.String("tier.reason", att.Reason))
		return answer.Candidate{}, false, nil
	}

	c := *att.Candidate
	c.SourceTier = tier
	if c.Provider == "" {
		c.Provider = a.Name()
	}
	accepted, ok := f.evaluate(span, c)
	return accepted, ok, nil
}

func (f *flow) evaluate(span trace.Span, c answer.Candidate) (answer.Candidate, bool) {
	if verdict := f.engine.deps.Evaluator.Verdict(c); verdict != "" {
		f.record(c.SourceTier, c.Provider, answer.StatusRejected, verdict)
		span.SetAttributes(attribute.String("tier.status", string(answer.StatusRejected)), attribute.String("tier.reason", verdict))
		return answer.Candidate{}, false
	}
	c.Accepted = true
	f.record(c.SourceTier, c.Provider, answer.StatusAccepted, "")
	span.SetAttributes(attribute.String("tier.status", string(answer.StatusAccepted)))
	return c, true
}

// ruleBasedTier is terminal: its candidate is accepted without evaluation
func (f *flow) ruleBasedTier(ctx context.Context) (answer.Candidate, error) {
	_, span := f.engine.tracer.Start(ctx, "tier.rule_based")
	defer span.End()

	c := f.engine.deps.Terminal.Answer(f.query)
	c.SourceTier = answer.TierRuleBased
	if strings.TrimSpace(c.Text) == "" {
		f.engine.deps.Logger.Error("RESOLVER", "Rule-based tier produced no text", map[string]interface{}{
			"question": f.query.RawText(),
			"context":  f.query.Context().Key(),
			"steps":    f.steps,
		})
		span.SetStatus(codes.Error, answer.ErrEmptyTerminalAnswer.Error())
		return answer.Candidate{}, answer.ErrEmptyTerminalAnswer
	}
	c.Accepted = true
	f.record(answer.TierRuleBased, c.Provider, answer.StatusAccepted, "")
	span.SetAttributes(attribute.String("tier.status", string(answer.StatusAccepted)))
	return c, nil
}
