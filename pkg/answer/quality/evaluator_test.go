package quality

import (
	"strings"
	"testing"

	"pregnancy-nutrition-be/pkg/answer"

	"github.com/stretchr/testify/assert"
)

func TestEvaluator_IsAcceptable(t *testing.T) {
	long := strings.Repeat("Cooked lentils are a good source of protein and iron. ", 3)
	e := NewEvaluator(0, nil)

	tests := []struct {
		name string
		c    answer.Candidate
		want bool
	}{
		{name: "long dataset answer", c: answer.Candidate{Text: long, SourceTier: answer.TierDataset}, want: true},
		{name: "short ai answer", c: answer.Candidate{Text: "Yes, it is fine.", SourceTier: answer.TierAIPrimary}, want: false},
		{name: "short rule based answer", c: answer.Candidate{Text: "Ask your doctor.", SourceTier: answer.TierRuleBased}, want: true},
		{name: "whitespace only", c: answer.Candidate{Text: "  \n\t ", SourceTier: answer.TierAISecondary}, want: false},
		{name: "empty rule based", c: answer.Candidate{Text: "", SourceTier: answer.TierRuleBased}, want: false},
		{name: "error marker", c: answer.Candidate{Text: "Oops! Something went wrong. " + long, SourceTier: answer.TierAIPrimary}, want: false},
		{name: "error marker in rule based", c: answer.Candidate{Text: "An error occurred", SourceTier: answer.TierRuleBased}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.IsAcceptable(tt.c))
		})
	}
}

func TestEvaluator_IsPure(t *testing.T) {
	e := NewEvaluator(10, []string{"Broken"})
	c := answer.Candidate{Text: "this answer is broken somehow", SourceTier: answer.TierAIPrimary}

	first := e.Verdict(c)
	second := e.Verdict(c)
	assert.Equal(t, first, second)
	assert.Equal(t, "error marker: broken", first)
}

func TestEvaluator_CustomMinLength(t *testing.T) {
	e := NewEvaluator(5, nil)
	assert.True(t, e.IsAcceptable(answer.Candidate{Text: "Eat dal.", SourceTier: answer.TierAIPrimary}))
	assert.False(t, e.IsAcceptable(answer.Candidate{Text: "Dal", SourceTier: answer.TierAIPrimary}))
}
