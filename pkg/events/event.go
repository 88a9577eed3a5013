package events

import "time"

const TypeAnswerResolved = "ANSWER_RESOLVED"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "ANSWER_RESOLVED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// AnswerResolved is published once per finished question, rate-limited ones included
type AnswerResolved struct {
	RequestID   string    `json:"request_id"`
	ClientID    string    `json:"client_id"`
	SourceTier  string    `json:"source_tier,omitempty"`
	Provider    string    `json:"provider,omitempty"`
	CacheHit    bool      `json:"cache_hit"`
	RateLimited bool      `json:"rate_limited"`
	ElapsedMs   int64     `json:"elapsed_ms"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func (e AnswerResolved) EventType() string {
	return TypeAnswerResolved
}

func (e AnswerResolved) Payload() map[string]interface{} {
	return map[string]interface{}{
		"request_id":   e.RequestID,
		"client_id":    e.ClientID,
		"source_tier":  e.SourceTier,
		"provider":     e.Provider,
		"cache_hit":    e.CacheHit,
		"rate_limited": e.RateLimited,
		"elapsed_ms":   e.ElapsedMs,
	}
}

func (e AnswerResolved) Timestamp() time.Time {
	return e.OccurredAt
}
