package service

import (
	"context"
	"errors"
	"strings"

	"pregnancy-nutrition-be/internal/dto"
	"pregnancy-nutrition-be/internal/pkg/logger"
	"pregnancy-nutrition-be/pkg/answer"
	"pregnancy-nutrition-be/pkg/answer/fallback"
	"pregnancy-nutrition-be/pkg/answer/resolver"
)

// IChatbotService defines the chatbot service interface
type IChatbotService interface {
	Ask(ctx context.Context, clientID string, request *dto.AskRequest) (*dto.AskResponse, error)
	Suggestions(ctx context.Context, trimester, region string) (*dto.SuggestionsResponse, error)
	Stats(ctx context.Context) *dto.StatsResponse
	Health(ctx context.Context) *dto.HealthResponse
}

// Resolver is the answer engine as seen by the service
type Resolver interface {
	Resolve(ctx context.Context, req resolver.Request) (resolver.Result, error)
	Providers() []resolver.ProviderStatus
}

// RateBudget reports a client's remaining requests
type RateBudget interface {
	Limit() int
	Remaining(clientID string) int
}

// Sizer reports the number of stored items
type Sizer interface {
	Len(ctx context.Context) int
}

type chatbotService struct {
	engine      Resolver
	budget      RateBudget
	cache       Sizer
	datasetSize int
	stats       *StatsService
	logger      logger.ILogger
}

func NewChatbotService(engine Resolver, budget RateBudget, cache Sizer, datasetSize int, stats *StatsService, log logger.ILogger) IChatbotService {
	return &chatbotService{
		engine:      engine,
		budget:      budget,
		cache:       cache,
		datasetSize: datasetSize,
		stats:       stats,
		logger:      log,
	}
}

func (s *chatbotService) Ask(ctx context.Context, clientID string, request *dto.AskRequest) (*dto.AskResponse, error) {
	res, err := s.engine.Resolve(ctx, resolver.Request{
		Question: strings.TrimSpace(request.Question),
		Context: answer.RawContext{
			Trimester: request.Trimester,
			Region:    request.Region,
			Diet:      request.Diet,
			Condition: request.Condition,
		},
		ClientID: clientID,
	})

	switch {
	case errors.Is(err, answer.ErrRateLimited):
		return nil, &dto.RateLimitedError{
			Limit:             s.budget.Limit(),
			Remaining:         s.budget.Remaining(clientID),
			RetryAfterSeconds: 60,
		}
	case errors.Is(err, answer.ErrEmptyTerminalAnswer):
		// Already logged by the engine; the user still gets the apology text
		return toAskResponse(res.Response), nil
	case errors.Is(err, answer.ErrMalformedContext), errors.Is(err, answer.ErrEmptyQuestion):
		return nil, err
	case err != nil:
		s.logger.Error("CHATBOT", "Failed to resolve question", map[string]interface{}{
			"client_id": clientID,
			"error":     err.Error(),
		})
		return nil, err
	}

	return toAskResponse(res.Response), nil
}

func toAskResponse(r answer.Response) *dto.AskResponse {
	resp := &dto.AskResponse{
		Answer:          r.AnswerText,
		SourceTier:      string(r.SourceTier),
		Provider:        r.Provider,
		Disclaimer:      r.Disclaimer,
		CacheHit:        r.CacheHit,
		ElapsedMs:       r.ElapsedMs(),
		RequestId:       r.RequestID,
		Intent:          r.Guidance.Intent,
		Keywords:        r.Guidance.Keywords,
		QueryReflection: r.Guidance.QueryReflection,
		Dos:             r.Guidance.Dos,
		Donts:           r.Guidance.Donts,
	}
	if r.Disclaimer {
		resp.DisclaimerText = answer.MedicalDisclaimer
	}
	return resp
}

func (s *chatbotService) Suggestions(_ context.Context, trimester, region string) (*dto.SuggestionsResponse, error) {
	qctx, err := answer.ParseContext(answer.RawContext{Trimester: trimester, Region: region})
	if err != nil {
		return nil, err
	}
	return &dto.SuggestionsResponse{
		Trimester:   string(qctx.Trimester),
		Region:      string(qctx.Region),
		Suggestions: fallback.Suggestions(qctx),
	}, nil
}

func (s *chatbotService) Stats(_ context.Context) *dto.StatsResponse {
	return s.stats.Snapshot()
}

func (s *chatbotService) Health(ctx context.Context) *dto.HealthResponse {
	return &dto.HealthResponse{
		Status:         "ok",
		DatasetRecords: s.datasetSize,
		CacheEntries:   s.cache.Len(ctx),
		Providers:      s.engine.Providers(),
	}
}
