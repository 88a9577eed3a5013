package constant

const (
	ChatMessageRoleUser   = "user"
	ChatMessageRoleModel  = "model"
	ChatMessageRoleSystem = "system"

	// NUTRITION ASSISTANT - kept short so small models stay inside the token budget
	ChatSystemInstructionV1 = "You are a pregnancy nutrition assistant for Indian mothers. " +
		"Answer in 80-150 words, plainly and practically. State clearly whether the food is safe, " +
		"give the main nutritional benefit and any preparation or portion advice. " +
		"Do not diagnose; suggest consulting a doctor for medical concerns."

	ChatContextHeader  = "User context:"
	ChatQuestionPrefix = "Question: "
)
