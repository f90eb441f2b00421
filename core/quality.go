package core

import (
	"math"
	"strings"

	"github.com/nikolareljin/git-pulse/schema"
)

// Change-size buckets for the complexity sub-score. Smaller changes are
// easier to review and revert, so they score higher.
const (
	complexityNoChange = 70 // merge commits and empty diffs are neutral
	complexityHuge     = 20 // >1000 lines
	complexityLarge    = 40 // >500 lines
	complexityMedium   = 60 // >200 lines
	complexitySmall    = 75 // >50 lines
	complexityTiny     = 85 // everything else
)

// conventionalPrefixes are the commit types of the Conventional Commits
// convention, matched at the start of the message followed by ':' or '('.
var conventionalPrefixes = []string{
	"feat", "fix", "docs", "style", "refactor", "test", "chore", "perf", "ci", "build",
}

// placeholderWords in a message signal an unfinished or careless commit.
var placeholderWords = []string{"wip", "temp", "test123", "asdf", "xxx", "todo", "fixme"}

// issueReferences reward messages that link to trackable work items.
var issueReferences = []string{"#", "fixes", "closes", "resolves"}

// docMarkers each add to the documentation sub-score when present in the diff.
var docMarkers = []string{`"""`, "'''", "//", "/*", "#", "readme", ".md"}

// docFileMarkers grant a single bonus when the diff touches documentation files.
var docFileMarkers = []string{".md", ".rst", ".txt", "docs/", "readme"}

// testPathMarkers match common test file and directory naming conventions.
var testPathMarkers = []string{"test_", "_test.", ".test.", "spec.", "_spec.", "tests/", "__tests__"}

// testFrameworkMarkers match test framework vocabulary inside the diff.
var testFrameworkMarkers = []string{"pytest", "unittest", "jest", "mocha", "junit", "assert", "expect("}

// discouragedPatterns each subtract from the best-practices sub-score when
// found on an added line: credential-like tokens, leftover debug output,
// debt markers and dynamic evaluation.
var discouragedPatterns = []string{
	"password", "secret", "api_key", "apikey", "token",
	"console.log", "print(", "debugger",
	"todo", "fixme", "hack", "xxx",
	"eval(", "exec(",
}

// encouragedPatterns each add to the best-practices sub-score when found
// anywhere in the diff: error handling, structured logging, type
// annotations and asynchronous constructs.
var encouragedPatterns = []string{
	"try:", "catch", "except",
	"logger", "logging",
	"typing", "-> ", ": str", ": int",
	"async ", "await ",
}

// QualityAnalyzer scores commits from their message and diff excerpt alone.
// It is a pure function of its inputs and never touches the network.
type QualityAnalyzer struct {
	weights map[schema.SubScoreKey]float64
}

// NewQualityAnalyzer creates an analyzer with the given sub-score weights.
// A nil map selects the defaults. Weight validation happens at config load,
// not here.
func NewQualityAnalyzer(weights map[schema.SubScoreKey]float64) *QualityAnalyzer {
	if weights == nil {
		weights = schema.DefaultQualityWeights()
	}
	return &QualityAnalyzer{weights: weights}
}

// Score computes the six heuristic sub-scores plus the weighted overall
// score for one commit. Every value is clamped to [0,100].
func (qa *QualityAnalyzer) Score(commit schema.CommitRecord) schema.QualityScores {
	scores := schema.QualityScores{
		SHA:           commit.SHA,
		Message:       scoreMessage(commit.Message),
		Complexity:    scoreComplexity(commit.TotalLines()),
		Documentation: scoreDocumentation(commit.DiffExcerpt),
		TestCoverage:  scoreTestCoverage(commit.Message, commit.DiffExcerpt),
		Consistency:   scoreConsistency(commit.DiffExcerpt),
		BestPractices: scoreBestPractices(commit.DiffExcerpt),
	}

	var overall float64
	for _, key := range schema.SubScoreKeys {
		overall += qa.weights[key] * scores.Sub(key)
	}
	scores.Overall = round1(clampScore(overall))
	scores.Summary = schema.QualitySummary(scores.Overall)
	return scores
}

// scoreMessage rates how informative the commit message is.
func scoreMessage(message string) float64 {
	if message == "" {
		return 20
	}

	score := 50.0
	lower := strings.ToLower(message)

	// --- 1. Length ---
	switch {
	case len(message) < 10:
		score -= 20
	case len(message) >= 20:
		score += 10
	}

	// --- 2. Blank-line-separated body with substance ---
	if subject, body, found := strings.Cut(message, "\n\n"); found {
		_ = subject
		if len(strings.TrimSpace(body)) > 20 {
			score += 15
		}
	}

	// --- 3. Leading capitalization ---
	if message[0] >= 'A' && message[0] <= 'Z' {
		score += 5
	}

	// --- 4. Conventional commit prefix ---
	for _, prefix := range conventionalPrefixes {
		if strings.HasPrefix(lower, prefix+":") || strings.HasPrefix(lower, prefix+"(") {
			score += 15
			break
		}
	}

	// --- 5. Issue references ---
	for _, ref := range issueReferences {
		if strings.Contains(lower, ref) {
			score += 10
			break
		}
	}

	// --- 6. Placeholder words ---
	for _, word := range placeholderWords {
		if strings.Contains(lower, word) {
			score -= 15
			break
		}
	}

	return clampScore(score)
}

// scoreComplexity rates the inverse of change size. totalLines is the sum of
// added and removed lines across the first-parent diff.
func scoreComplexity(totalLines int) float64 {
	switch {
	case totalLines == 0:
		return complexityNoChange
	case totalLines > 1000:
		return complexityHuge
	case totalLines > 500:
		return complexityLarge
	case totalLines > 200:
		return complexityMedium
	case totalLines > 50:
		return complexitySmall
	default:
		return complexityTiny
	}
}

// scoreDocumentation rates the presence of documentation in the change.
// An empty diff carries no documentation at all and scores zero.
func scoreDocumentation(diff string) float64 {
	if diff == "" {
		return 0
	}

	score := 50.0
	lower := strings.ToLower(diff)

	for _, marker := range docMarkers {
		if strings.Contains(lower, marker) {
			score += 8
		}
	}

	for _, marker := range docFileMarkers {
		if strings.Contains(lower, marker) {
			score += 15
			break
		}
	}

	return clampScore(score)
}

// scoreTestCoverage rates the presence of tests in the change. The baseline
// is 30 whether the diff is empty or merely has no test markers; an empty
// diff returns before the message bonus can apply.
func scoreTestCoverage(message, diff string) float64 {
	score := 30.0
	if diff == "" {
		return score
	}

	lower := strings.ToLower(diff)

	for _, marker := range testPathMarkers {
		if strings.Contains(lower, marker) {
			score += 20
			break
		}
	}

	for _, marker := range testFrameworkMarkers {
		if strings.Contains(lower, marker) {
			score += 10
			break
		}
	}

	if strings.Contains(strings.ToLower(message), "test") {
		score += 10
	}

	return clampScore(score)
}

// scoreConsistency rates stylistic uniformity of the added lines.
func scoreConsistency(diff string) float64 {
	score := 60.0
	if diff == "" {
		return score
	}

	var tabIndented, spaceIndented bool
	longLines := 0
	for _, line := range addedLines(diff) {
		if strings.HasPrefix(line, "\t") {
			tabIndented = true
		}
		if strings.HasPrefix(line, "    ") {
			spaceIndented = true
		}
		if len(line) > 120 {
			longLines++
		}
	}

	if tabIndented && spaceIndented {
		score -= 15
	}
	if longLines > 5 {
		score -= 10
	}

	return clampScore(score)
}

// scoreBestPractices rates hygiene of the change: discouraged patterns on
// added lines subtract, encouraged patterns anywhere in the diff add.
func scoreBestPractices(diff string) float64 {
	if diff == "" {
		return 50
	}

	score := 60.0
	added := strings.ToLower(strings.Join(addedLines(diff), "\n"))
	lower := strings.ToLower(diff)

	for _, pattern := range discouragedPatterns {
		if strings.Contains(added, pattern) {
			score -= 8
		}
	}

	for _, pattern := range encouragedPatterns {
		if strings.Contains(lower, pattern) {
			score += 5
		}
	}

	return clampScore(score)
}

// addedLines returns the content of added diff lines, with the '+' prefix
// stripped and the '+++' file headers excluded.
func addedLines(diff string) []string {
	var lines []string
	for line := range strings.SplitSeq(diff, "\n") {
		if strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++") {
			lines = append(lines, line[1:])
		}
	}
	return lines
}

// clampScore bounds a score to [0,100].
func clampScore(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
