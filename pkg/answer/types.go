package answer

import (
	"time"
)

// Tier identifies which answer source produced a candidate
type Tier string

const (
	TierDataset     Tier = "dataset"
	TierAIPrimary   Tier = "ai_primary"
	TierAISecondary Tier = "ai_secondary"
	TierRuleBased   Tier = "rule_based"
)

// NeedsDisclaimer reports whether answers from this tier carry the medical disclaimer.
// Curated dataset answers may omit it.
func (t Tier) NeedsDisclaimer() bool {
	return t != TierDataset
}

// Status is the explicit outcome of one tier attempt
type Status string

const (
	StatusAnswered    Status = "answered"    // candidate produced, not yet evaluated
	StatusNoMatch     Status = "no_match"    // dataset had nothing above threshold
	StatusUnavailable Status = "unavailable" // provider not configured, timed out, errored or out of quota
	StatusAccepted    Status = "accepted"
	StatusRejected    Status = "rejected"
)

// Candidate is an answer produced by one tier, not yet the final response
type Candidate struct {
	Text       string
	SourceTier Tier
	Provider   string
	Latency    time.Duration
	Accepted   bool
	Dos        []string
	Donts      []string
}

// Attempt is the result of running a single tier
type Attempt struct {
	Status    Status
	Candidate *Candidate
	Reason    string
}

// Answered wraps a produced candidate
func Answered(c Candidate) Attempt {
	return Attempt{Status: StatusAnswered, Candidate: &c}
}

// Unavailable reports a tier that could not produce anything
func Unavailable(reason string) Attempt {
	return Attempt{Status: StatusUnavailable, Reason: reason}
}

// Guidance is the structured reading of a question that accompanies the answer text.
// Dos and Donts are only filled for safety, avoidance, trimester and general questions.
type Guidance struct {
	Intent          string   `json:"intent,omitempty"`
	Keywords        []string `json:"keywords,omitempty"`
	QueryReflection string   `json:"query_reflection,omitempty"`
	Dos             []string `json:"dos,omitempty"`
	Donts           []string `json:"donts,omitempty"`
}

// Response is returned to the caller and never mutated after construction
type Response struct {
	AnswerText string        `json:"answer_text"`
	SourceTier Tier          `json:"source_tier"`
	Provider   string        `json:"provider,omitempty"`
	Disclaimer bool          `json:"disclaimer"`
	Elapsed    time.Duration `json:"elapsed"`
	CacheHit   bool          `json:"cache_hit"`
	RequestID  string        `json:"request_id"`
	Guidance   Guidance      `json:"guidance"`
}

// WithCacheHit returns a copy of the response marked as served from cache
func (r Response) WithCacheHit(elapsed time.Duration, requestID string) Response {
	r.CacheHit = true
	r.Elapsed = elapsed
	r.RequestID = requestID
	return r
}

// ElapsedMs is the elapsed time in whole milliseconds
func (r Response) ElapsedMs() int64 {
	return r.Elapsed.Milliseconds()
}

const MedicalDisclaimer = "This information is for general guidance only and is not a substitute for professional medical advice. Always consult your doctor before making dietary changes during pregnancy."
