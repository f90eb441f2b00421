package core

import (
	"strings"
	"testing"

	"github.com/nikolareljin/git-pulse/schema"
	"github.com/stretchr/testify/assert"
)

// TestScoreMessage tests the commit message heuristic.
func TestScoreMessage(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    float64
	}{
		{"empty message", "", 20},
		{"short uncapitalized", "fix it.", 30},
		{"short capitalized", "Fix crash", 35},
		{"conventional with scope and body", "feat(api): add rate limiting\n\nAdds a token bucket limiter to protect the API.", 90},
		{"issue reference", "Update dependency pins, fixes #42", 75},
		{"placeholder word", "wip", 15},
		{"everything at once clamps to 100", "Feat: overhaul ingestion pipeline, fixes #12\n\nThis rework splits the walk into bounded stages and keeps memory flat.", 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scoreMessage(tt.message))
		})
	}
}

// TestScoreComplexity tests the change-size buckets.
func TestScoreComplexity(t *testing.T) {
	tests := []struct {
		totalLines int
		want       float64
	}{
		{0, 70},
		{10, 85},
		{51, 75},
		{201, 60},
		{501, 40},
		{1001, 20},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, scoreComplexity(tt.totalLines), "totalLines=%d", tt.totalLines)
	}
}

// TestScoreDocumentation tests documentation marker detection.
func TestScoreDocumentation(t *testing.T) {
	t.Run("empty diff scores zero", func(t *testing.T) {
		assert.Equal(t, float64(0), scoreDocumentation(""))
	})

	t.Run("inline comments", func(t *testing.T) {
		// One marker hit ("//"), no documentation file touched.
		assert.Equal(t, float64(58), scoreDocumentation("+// explain the retry loop\n+return nil"))
	})

	t.Run("documentation file", func(t *testing.T) {
		// "readme" and ".md" markers plus the doc-file bonus.
		assert.Equal(t, float64(81), scoreDocumentation("+++ b/README.md\n+Usage notes"))
	})
}

// TestScoreTestCoverage tests test marker detection.
func TestScoreTestCoverage(t *testing.T) {
	t.Run("empty diff stays at baseline", func(t *testing.T) {
		// The message bonus never applies to an empty diff.
		assert.Equal(t, float64(30), scoreTestCoverage("add tests", ""))
	})

	t.Run("no test markers", func(t *testing.T) {
		assert.Equal(t, float64(30), scoreTestCoverage("refactor", "+return value"))
	})

	t.Run("message bonus only", func(t *testing.T) {
		assert.Equal(t, float64(40), scoreTestCoverage("add tests later", "+return value"))
	})

	t.Run("test path and framework", func(t *testing.T) {
		diff := "+++ b/pkg/parser_test.go\n+assert.Equal(t, want, got)"
		assert.Equal(t, float64(60), scoreTestCoverage("refactor parser", diff))
		assert.Equal(t, float64(70), scoreTestCoverage("test parser edge cases", diff))
	})
}

// TestScoreConsistency tests stylistic uniformity checks.
func TestScoreConsistency(t *testing.T) {
	t.Run("empty diff is neutral", func(t *testing.T) {
		assert.Equal(t, float64(60), scoreConsistency(""))
	})

	t.Run("uniform indentation", func(t *testing.T) {
		assert.Equal(t, float64(60), scoreConsistency("+\tfoo\n+\tbar"))
	})

	t.Run("mixed indentation", func(t *testing.T) {
		assert.Equal(t, float64(45), scoreConsistency("+\tfoo\n+    bar"))
	})

	t.Run("many long lines", func(t *testing.T) {
		long := "+" + strings.Repeat("x", 130)
		diff := strings.Repeat(long+"\n", 6)
		assert.Equal(t, float64(50), scoreConsistency(diff))
	})
}

// TestScoreBestPractices tests hygiene pattern detection.
func TestScoreBestPractices(t *testing.T) {
	t.Run("empty diff", func(t *testing.T) {
		assert.Equal(t, float64(50), scoreBestPractices(""))
	})

	t.Run("clean diff", func(t *testing.T) {
		assert.Equal(t, float64(60), scoreBestPractices("+return value"))
	})

	t.Run("discouraged pattern on added line", func(t *testing.T) {
		assert.Equal(t, float64(52), scoreBestPractices(`+password = "hunter2"`))
	})

	t.Run("discouraged only counts added lines", func(t *testing.T) {
		// A removed credential does not subtract.
		assert.Equal(t, float64(60), scoreBestPractices(`-password = "hunter2"`))
	})

	t.Run("encouraged pattern anywhere", func(t *testing.T) {
		assert.Equal(t, float64(65), scoreBestPractices("+logger.Info(\"done\")"))
	})
}

// TestQualityAnalyzerScore tests the weighted overall score.
func TestQualityAnalyzerScore(t *testing.T) {
	commit := schema.CommitRecord{
		SHA:         "abc123",
		Message:     "feat(api): add rate limiting\n\nAdds a token bucket limiter to protect the API.",
		LinesAdded:  8,
		DiffExcerpt: "+// limit requests per caller\n+logger.Warn(\"throttled\")",
	}

	t.Run("default weights", func(t *testing.T) {
		qa := NewQualityAnalyzer(nil)
		scores := qa.Score(commit)

		assert.Equal(t, "abc123", scores.SHA)
		assert.Equal(t, float64(90), scores.Message)
		assert.Equal(t, float64(85), scores.Complexity)
		assert.False(t, scores.ByLLM)
		assert.GreaterOrEqual(t, scores.Overall, float64(0))
		assert.LessOrEqual(t, scores.Overall, float64(100))
		assert.Equal(t, schema.QualitySummary(scores.Overall), scores.Summary)
	})

	t.Run("custom weights", func(t *testing.T) {
		weights := map[schema.SubScoreKey]float64{schema.SubScoreMessage: 1.0}
		qa := NewQualityAnalyzer(weights)
		scores := qa.Score(commit)
		assert.Equal(t, scores.Message, scores.Overall)
	})

	t.Run("merge commit is neutral on complexity", func(t *testing.T) {
		qa := NewQualityAnalyzer(nil)
		scores := qa.Score(schema.CommitRecord{SHA: "merge1", Message: "Merge branch 'main'", IsMerge: true})
		assert.Equal(t, float64(70), scores.Complexity)
	})
}

// TestAddedLines tests diff line extraction.
func TestAddedLines(t *testing.T) {
	diff := "+++ b/main.go\n+added\n-removed\n context\n+also added"
	assert.Equal(t, []string{"added", "also added"}, addedLines(diff))
}
