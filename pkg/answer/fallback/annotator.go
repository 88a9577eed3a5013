package fallback

import (
	"strings"

	"pregnancy-nutrition-be/pkg/answer"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Annotator derives the structured guidance that accompanies an accepted answer
type Annotator struct{}

func NewAnnotator() *Annotator {
	return &Annotator{}
}

// guidedIntents get do's and don'ts; benefit, meal plan, seasonal and regional questions do not
var guidedIntents = map[Intent]struct{}{
	IntentSafetyCheck:       {},
	IntentFoodsToAvoid:      {},
	IntentTrimesterSpecific: {},
	IntentGeneral:           {},
}

// Annotate classifies the question and attaches do's and don'ts. Lists carried by the
// candidate win over the food templates matched from keywords.
func (a *Annotator) Annotate(q answer.Query, c answer.Candidate) answer.Guidance {
	intent := Classify(q.RawText())
	keywords := ExtractKeywords(q.NormalizedText())

	g := answer.Guidance{
		Intent:          string(intent),
		Keywords:        keywords,
		QueryReflection: a.Reflect(q.RawText(), keywords),
	}
	if _, ok := guidedIntents[intent]; !ok {
		return g
	}
	if len(c.Dos) > 0 || len(c.Donts) > 0 {
		g.Dos = append([]string(nil), c.Dos...)
		g.Donts = append([]string(nil), c.Donts...)
		return g
	}
	if tpl, ok := matchFood(keywords); ok {
		g.Dos = append([]string(nil), tpl.dos...)
		g.Donts = append([]string(nil), tpl.donts...)
	}
	return g
}

type reflection struct {
	markers []string
	with    string
	without string
}

// reflections are checked in order; the last entry is the catch-all
var reflections = []reflection{
	{[]string{"safe", "can i", "is it"}, "You're asking about the safety of %s during pregnancy", "You're asking about food safety during pregnancy"},
	{[]string{"bad", "avoid", "don"}, "You want to know which foods to avoid, especially %s", "You want to know which foods to avoid"},
	{[]string{"benefit", "good", "help"}, "You're interested in the nutritional benefits of %s", "You're interested in nutritional benefits for pregnancy"},
	{[]string{"meal", "plan"}, "You're looking for meal planning ideas with %s", "You're looking for a meal plan guide"},
	{nil, "You have questions about %s in pregnancy nutrition", "You have questions about pregnancy nutrition"},
}

// Reflect paraphrases the question back using at most two keywords
func (a *Annotator) Reflect(question string, keywords []string) string {
	lowered := strings.ToLower(question)
	chosen := reflections[len(reflections)-1]
	for _, r := range reflections[:len(reflections)-1] {
		if containsAny(lowered, r.markers) {
			chosen = r
			break
		}
	}
	if len(keywords) == 0 {
		return chosen.without
	}
	if len(keywords) > 2 {
		keywords = keywords[:2]
	}
	// a Caser is stateful and cannot be shared between goroutines
	title := cases.Title(language.English)
	titled := make([]string, len(keywords))
	for i, k := range keywords {
		titled[i] = title.String(k)
	}
	return strings.Replace(chosen.with, "%s", strings.Join(titled, " and "), 1)
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
