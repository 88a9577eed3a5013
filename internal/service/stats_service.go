package service

import (
	"sync"

	"pregnancy-nutrition-be/internal/dto"
	"pregnancy-nutrition-be/pkg/events"
)

// StatsService aggregates answer events for the stats endpoint
type StatsService struct {
	mu           sync.Mutex
	total        int64
	answered     int64
	rateLimited  int64
	cacheHits    int64
	byTier       map[string]int64
	latencySum   int64
	latencyMin   int64
	latencyMax   int64
	latencyCount int64
}

func NewStatsService() *StatsService {
	return &StatsService{byTier: make(map[string]int64)}
}

func (s *StatsService) Record(evt events.AnswerResolved) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total++
	if evt.RateLimited {
		s.rateLimited++
		return
	}

	s.answered++
	if evt.CacheHit {
		s.cacheHits++
	}
	if evt.SourceTier != "" {
		s.byTier[evt.SourceTier]++
	}

	if s.latencyCount == 0 || evt.ElapsedMs < s.latencyMin {
		s.latencyMin = evt.ElapsedMs
	}
	if evt.ElapsedMs > s.latencyMax {
		s.latencyMax = evt.ElapsedMs
	}
	s.latencySum += evt.ElapsedMs
	s.latencyCount++
}

func (s *StatsService) Snapshot() *dto.StatsResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	byTier := make(map[string]int64, len(s.byTier))
	for k, v := range s.byTier {
		byTier[k] = v
	}

	resp := &dto.StatsResponse{
		TotalRequests: s.total,
		Answered:      s.answered,
		RateLimited:   s.rateLimited,
		CacheHits:     s.cacheHits,
		ByTier:        byTier,
		MinLatencyMs:  s.latencyMin,
		MaxLatencyMs:  s.latencyMax,
	}
	if s.latencyCount > 0 {
		resp.AvgLatencyMs = float64(s.latencySum) / float64(s.latencyCount)
	}
	return resp
}
