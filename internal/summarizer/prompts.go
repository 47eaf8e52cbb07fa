package summarizer

import (
	"fmt"

	"coderefine/internal/source"
)

const (
	codeContextLimit = 500
	textContextLimit = 400
)

const bulletRules = `Rules:
- Reply in 3 to 5 short bullet points.
- Each bullet is one line, at most 15 words.
- Use simple, student-friendly language.
- Do not write code or long paragraphs.
- Output only the bullet list.`

// Prompt renders the template for kind. Unknown kinds fall back to the issue
// explanation template.
func Prompt(kind, text string) string {
	switch kind {
	case KindSummarizeOptimization:
		return fmt.Sprintf("You are a coding mentor. Summarize this optimization for a student and explain why it helps.\n\nRelevant code: %s\n\n%s",
			source.Truncate(text, codeContextLimit), bulletRules)
	case KindSuggestImprovement:
		return fmt.Sprintf("You are a coding mentor. Give a short improvement suggestion.\n\nContext: %s\n\n%s",
			source.Truncate(text, textContextLimit), bulletRules)
	case KindExplainComplexity:
		return fmt.Sprintf("You are a coding mentor. Explain this time complexity to a student.\n\n%s\n\n%s",
			text, bulletRules)
	default:
		return fmt.Sprintf("You are a coding mentor for students. Explain this code issue briefly.\n\nContext: %s\n\n%s",
			source.Truncate(text, codeContextLimit), bulletRules)
	}
}
