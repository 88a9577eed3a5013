package fallback

import (
	"strings"
)

type Intent string

const (
	IntentMealPlan          Intent = "meal_plan"
	IntentSafetyCheck       Intent = "safety_check"
	IntentFoodsToAvoid      Intent = "foods_to_avoid"
	IntentBenefits          Intent = "benefits"
	IntentTrimesterSpecific Intent = "trimester_specific"
	IntentSeasonal          Intent = "seasonal"
	IntentRegional          Intent = "regional"
	IntentGeneral           Intent = "general"
)

// intentRules are checked in order; the first rule with a matching phrase wins
var intentRules = []struct {
	intent  Intent
	phrases []string
}{
	{IntentMealPlan, []string{"meal plan", "diet plan", "what to eat", "what should i eat", "daily diet", "menu", "breakfast", "lunch", "dinner", "snack"}},
	{IntentSafetyCheck, []string{"can i eat", "is it safe", "should i avoid", "can i have", "safe to eat", "okay to eat", "can i drink"}},
	{IntentFoodsToAvoid, []string{"avoid", "dont eat", "don't eat", "not eat", "shouldn't eat", "dangerous", "what not to"}},
	{IntentBenefits, []string{"benefit", "good for", "why eat", "nutrient", "nutritional", "advantage", "helps with"}},
	{IntentTrimesterSpecific, []string{"trimester", "1st", "2nd", "3rd"}},
	{IntentSeasonal, []string{"summer", "winter", "monsoon", "season"}},
	{IntentRegional, []string{"north indian", "south indian", "regional"}},
}

// Classify maps a lowercased question to an intent
func Classify(question string) Intent {
	lowered := strings.ToLower(question)
	for _, rule := range intentRules {
		for _, phrase := range rule.phrases {
			if strings.Contains(lowered, phrase) {
				return rule.intent
			}
		}
	}
	return IntentGeneral
}

var skipWords = map[string]struct{}{
	"can": {}, "could": {}, "should": {}, "would": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"have": {}, "has": {}, "had": {}, "do": {}, "does": {}, "did": {}, "will": {}, "shall": {},
	"eat": {}, "drink": {}, "consume": {}, "take": {}, "safe": {}, "okay": {}, "good": {}, "bad": {},
	"during": {}, "pregnancy": {}, "pregnant": {}, "trimester": {}, "women": {}, "woman": {},
	"about": {}, "what": {}, "which": {}, "when": {}, "where": {}, "who": {}, "how": {}, "why": {},
	"the": {}, "and": {}, "but": {}, "for": {}, "with": {}, "from": {}, "this": {}, "that": {},
	"these": {}, "those": {}, "its": {}, "your": {}, "they": {}, "she": {}, "you": {}, "much": {},
	"many": {}, "foods": {}, "food": {}, "benefits": {}, "avoid": {}, "eating": {},
}

const maxKeywords = 5

// ExtractKeywords picks likely food words from a normalized question, keeping question order
func ExtractKeywords(normalized string) []string {
	var keywords []string
	seen := make(map[string]struct{})
	for _, word := range strings.Fields(normalized) {
		if len(word) < 3 {
			continue
		}
		if _, skip := skipWords[word]; skip {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		keywords = append(keywords, word)
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords
}
