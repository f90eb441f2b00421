package ollama

import "fmt"

// Prompt budgets keep one request inside the model's context window.
const (
	maxPromptMessage = 500
	maxPromptDiff    = 3000
)

// systemPrompt pins the model to a bare JSON object carrying the exact score
// keys the parser expects.
const systemPrompt = `You are a code quality analyzer. Analyze the given code diff and provide quality scores.
You must respond with ONLY a JSON object, no other text. Use this exact format:
{
    "commit_message_score": <0-100>,
    "code_complexity_score": <0-100>,
    "documentation_score": <0-100>,
    "test_coverage_score": <0-100>,
    "consistency_score": <0-100>,
    "best_practices_score": <0-100>,
    "overall_score": <0-100>,
    "summary": "<brief one-line summary>"
}

Scoring guidelines:
- commit_message_score: Clear, descriptive, follows conventions (50=average)
- code_complexity_score: Lower complexity is better (100=simple, 0=very complex)
- documentation_score: Presence of comments, docstrings (50=adequate)
- test_coverage_score: Presence of tests in diff (0 if no tests visible)
- consistency_score: Follows existing code style (50=average)
- best_practices_score: Security, error handling, patterns (50=average)
- overall_score: Weighted average of above`

// userPrompt frames one commit for scoring.
func userPrompt(message, diff string) string {
	return fmt.Sprintf(`Analyze this code change:

COMMIT MESSAGE:
%s

CODE DIFF (truncated):
%s

Respond with ONLY the JSON object.`, truncate(message, maxPromptMessage), truncate(diff, maxPromptDiff))
}

func truncate(s string, limit int) string {
	if len(s) > limit {
		return s[:limit]
	}
	return s
}
