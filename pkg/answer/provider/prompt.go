package provider

import (
	"fmt"
	"strings"

	"pregnancy-nutrition-be/internal/constant"
	"pregnancy-nutrition-be/pkg/answer"
	"pregnancy-nutrition-be/pkg/llm"
)

var dietLabels = map[answer.Diet]string{
	answer.DietVegetarian:    "vegetarian",
	answer.DietNonVegetarian: "non-vegetarian",
	answer.DietEggetarian:    "eggetarian (vegetarian plus eggs)",
	answer.DietVegan:         "vegan",
}

var conditionLabels = map[answer.Condition]string{
	answer.ConditionGestationalDiabetes: "gestational diabetes",
	answer.ConditionAnemia:              "anaemia",
	answer.ConditionHypertension:        "high blood pressure",
	answer.ConditionHypothyroidism:      "hypothyroidism",
	answer.ConditionNausea:              "nausea / morning sickness",
}

// BuildMessages turns a query into a provider-agnostic chat history
func BuildMessages(q answer.Query) []llm.Message {
	return []llm.Message{
		{Role: constant.ChatMessageRoleSystem, Content: constant.ChatSystemInstructionV1},
		{Role: constant.ChatMessageRoleUser, Content: BuildPrompt(q)},
	}
}

// BuildPrompt prefixes the question with whatever context the user gave
func BuildPrompt(q answer.Query) string {
	ctx := q.Context()
	var lines []string
	if n := ctx.Trimester.Number(); n > 0 {
		lines = append(lines, fmt.Sprintf("Trimester: %d", n))
	}
	if ctx.Region != answer.RegionNone {
		lines = append(lines, fmt.Sprintf("Region: %s India", ctx.Region))
	}
	if label, ok := dietLabels[ctx.Diet]; ok {
		lines = append(lines, "Diet: "+label)
	}
	if label, ok := conditionLabels[ctx.Condition]; ok {
		lines = append(lines, "Health condition: "+label)
	}

	if len(lines) == 0 {
		return constant.ChatQuestionPrefix + q.RawText()
	}
	return constant.ChatContextHeader + "\n" + strings.Join(lines, "\n") + "\n\n" + constant.ChatQuestionPrefix + q.RawText()
}
