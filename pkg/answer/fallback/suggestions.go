package fallback

import (
	"pregnancy-nutrition-be/pkg/answer"
)

const maxSuggestions = 8

var trimesterSuggestions = map[answer.Trimester][]string{
	answer.TrimesterT1: {
		"What foods help with morning sickness?",
		"What should I eat in first trimester?",
		"Can I eat eggs during pregnancy?",
		"Which fruits are best for first trimester?",
		"What foods should I avoid in early pregnancy?",
		"Is fish safe during pregnancy?",
		"What are good sources of folic acid?",
		"Can I drink milk during pregnancy?",
	},
	answer.TrimesterT2: {
		"What should I eat in second trimester?",
		"What foods should I avoid during pregnancy?",
		"Can I eat eggs during pregnancy?",
		"Is fish safe during pregnancy?",
		"What are good sources of iron?",
		"Which fruits are best for pregnancy?",
		"What foods help prevent anemia?",
		"Can I eat seafood during pregnancy?",
	},
	answer.TrimesterT3: {
		"What should I eat in third trimester?",
		"What foods should I avoid in late pregnancy?",
		"What foods help with energy in third trimester?",
		"Can I eat spicy food in third trimester?",
		"What are good sources of calcium?",
		"Which foods help prepare for labor?",
		"Is it safe to eat dates in third trimester?",
		"What foods prevent swelling during pregnancy?",
	},
}

// Suggestions returns starter questions for the user's trimester (second trimester when unknown),
// led by a regional question when a region is set.
func Suggestions(ctx answer.Context) []string {
	base, ok := trimesterSuggestions[ctx.Trimester]
	if !ok {
		base = trimesterSuggestions[answer.TrimesterT2]
	}

	out := make([]string, 0, maxSuggestions)
	if ctx.Region != answer.RegionNone {
		out = append(out, "What are good "+string(ctx.Region)+" Indian foods for pregnancy?")
	}
	for _, q := range base {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, q)
	}
	return out
}
