package fallback

import (
	"strings"
	"time"

	"pregnancy-nutrition-be/pkg/answer"
)

// Responder is the rule-based terminal tier. It never calls out of process.
type Responder struct{}

func NewResponder() *Responder {
	return &Responder{}
}

// Answer always returns a non-empty candidate for a valid query
func (r *Responder) Answer(q answer.Query) answer.Candidate {
	start := time.Now()
	intent := Classify(q.RawText())
	keywords := ExtractKeywords(q.NormalizedText())
	ctx := q.Context()

	parts := []string{body(intent, keywords)}

	if intent == IntentMealPlan || intent == IntentRegional {
		if note, ok := regionNotes[ctx.Region]; ok {
			parts = append(parts, note)
		}
	}
	if note, ok := dietNotes[ctx.Diet]; ok && intent != IntentSafetyCheck {
		parts = append(parts, note)
	}
	if note, ok := conditionNotes[ctx.Condition]; ok {
		parts = append(parts, note)
	}
	if tip, ok := trimesterTips[ctx.Trimester]; ok {
		parts = append(parts, tip)
	}

	return answer.Candidate{
		Text:       strings.Join(parts, "\n\n"),
		SourceTier: answer.TierRuleBased,
		Provider:   "rule_based:" + string(intent),
		Latency:    time.Since(start),
	}
}

func body(intent Intent, keywords []string) string {
	if intent == IntentSafetyCheck || intent == IntentBenefits || intent == IntentGeneral {
		if tpl, ok := matchFood(keywords); ok {
			return tpl.text
		}
	}
	if intent == IntentSafetyCheck && len(keywords) > 0 {
		return genericSafety(keywords[0])
	}
	return intentAnswers[intent]
}

func matchFood(keywords []string) (foodTemplate, bool) {
	for _, kw := range keywords {
		for _, tpl := range foodTemplates {
			for _, k := range tpl.keywords {
				if kw == k {
					return tpl, true
				}
			}
		}
	}
	return foodTemplate{}, false
}

func genericSafety(food string) string {
	return "There is no specific guidance on " + food + " in our quick reference. In general, a food is safe during pregnancy when it is fresh, hygienically prepared and thoroughly cooked, " +
		"and eaten in moderate portions.\n" + intentAnswers[IntentSafetyCheck]
}
