package dto

import (
	"pregnancy-nutrition-be/pkg/answer"
	"pregnancy-nutrition-be/pkg/answer/resolver"
)

type AskRequest struct {
	Question  string `json:"question" validate:"required,min=3,max=500"`
	Trimester string `json:"trimester,omitempty"`
	Region    string `json:"region,omitempty"`
	Diet      string `json:"diet,omitempty"`
	Condition string `json:"condition,omitempty"`
}

type AskResponse struct {
	Answer          string   `json:"answer"`
	SourceTier      string   `json:"source_tier"`
	Provider        string   `json:"provider,omitempty"`
	Disclaimer      bool     `json:"disclaimer"`
	DisclaimerText  string   `json:"disclaimer_text,omitempty"`
	CacheHit        bool     `json:"cache_hit"`
	ElapsedMs       int64    `json:"elapsed_ms"`
	RequestId       string   `json:"request_id"`
	RateLimited     bool     `json:"rate_limited"`
	Intent          string   `json:"intent,omitempty"`
	Keywords        []string `json:"keywords,omitempty"`
	QueryReflection string   `json:"query_reflection,omitempty"`
	Dos             []string `json:"dos,omitempty"`
	Donts           []string `json:"donts,omitempty"`
}

// RateLimitedData is the data payload for 429 responses
type RateLimitedData struct {
	Limit             int  `json:"limit"`
	Remaining         int  `json:"remaining"`
	RetryAfterSeconds int  `json:"retry_after_seconds"`
	RateLimited       bool `json:"rate_limited"`
}

// RateLimitedResponse is the full 429 response structure
type RateLimitedResponse struct {
	Success   bool            `json:"success"`
	Code      int             `json:"code"`
	Message   string          `json:"message"`
	ErrorType string          `json:"error_type"`
	Data      RateLimitedData `json:"data"`
}

type SuggestionsResponse struct {
	Trimester   string   `json:"trimester,omitempty"`
	Region      string   `json:"region,omitempty"`
	Suggestions []string `json:"suggestions"`
}

type StatsResponse struct {
	TotalRequests int64            `json:"total_requests"`
	Answered      int64            `json:"answered"`
	RateLimited   int64            `json:"rate_limited"`
	CacheHits     int64            `json:"cache_hits"`
	ByTier        map[string]int64 `json:"by_tier"`
	AvgLatencyMs  float64          `json:"avg_latency_ms"`
	MinLatencyMs  int64            `json:"min_latency_ms"`
	MaxLatencyMs  int64            `json:"max_latency_ms"`
}

type HealthResponse struct {
	Status         string                    `json:"status"`
	DatasetRecords int                       `json:"dataset_records"`
	CacheEntries   int                       `json:"cache_entries"`
	Providers      []resolver.ProviderStatus `json:"providers"`
}

// RateLimitedError carries the client's budget so the controller can render a 429 body
type RateLimitedError struct {
	Limit             int
	Remaining         int
	RetryAfterSeconds int
}

func (e *RateLimitedError) Error() string {
	return answer.ErrRateLimited.Error()
}

func (e *RateLimitedError) Unwrap() error {
	return answer.ErrRateLimited
}
