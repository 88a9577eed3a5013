package quality

import (
	"strings"
	"unicode/utf8"

	"pregnancy-nutrition-be/pkg/answer"
)

const DefaultMinLength = 100

// DefaultErrorMarkers are phrases that show a backend returned a failure template instead of an answer
var DefaultErrorMarkers = []string{
	"something went wrong",
	"an error occurred",
	"internal server error",
	"rate limit exceeded",
	"try again later",
	"i'm sorry, but i cannot",
	"as an ai language model",
}

// Evaluator decides whether a candidate is good enough to stop escalating.
// It holds no mutable state; the same candidate always gets the same verdict.
type Evaluator struct {
	minLength int
	markers   []string
}

func NewEvaluator(minLength int, markers []string) *Evaluator {
	if minLength <= 0 {
		minLength = DefaultMinLength
	}
	if markers == nil {
		markers = DefaultErrorMarkers
	}
	lowered := make([]string, len(markers))
	for i, m := range markers {
		lowered[i] = strings.ToLower(m)
	}
	return &Evaluator{minLength: minLength, markers: lowered}
}

// IsAcceptable applies the heuristics. Rule-based candidates skip the length check
// but not the empty-text check.
func (e *Evaluator) IsAcceptable(c answer.Candidate) bool {
	return e.Verdict(c) == ""
}

// Verdict returns the rejection reason, or "" when the candidate is acceptable
func (e *Evaluator) Verdict(c answer.Candidate) string {
	text := strings.TrimSpace(c.Text)
	if text == "" {
		return "empty text"
	}

	if c.SourceTier != answer.TierRuleBased && utf8.RuneCountInString(text) < e.minLength {
		return "too short"
	}

	lowered := strings.ToLower(text)
	for _, marker := range e.markers {
		if strings.Contains(lowered, marker) {
			return "error marker: " + marker
		}
	}
	return ""
}
