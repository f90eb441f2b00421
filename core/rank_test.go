package core

import (
	"testing"

	"github.com/nikolareljin/git-pulse/schema"
	"github.com/stretchr/testify/assert"
)

// TestBuildLeaderboard tests grouping and ranking of contributor rows.
func TestBuildLeaderboard(t *testing.T) {
	rows := []schema.ContributorStatsRow{
		{Email: "alice@example.com", Name: "Alice", Repository: "api", Commits: 10, LinesAdded: 500, LinesRemoved: 100, PRs: 3, QualityScore: 80, ImpactScore: 70},
		{Email: "bob@example.com", Name: "Bob", Repository: "api", Commits: 5, LinesAdded: 200, LinesRemoved: 50, PRs: 1, QualityScore: 60, ImpactScore: 50},
		{Email: "b.smith@example.com", Name: "B. Smith", Repository: "web", Commits: 1, LinesAdded: 40, LinesRemoved: 10, QualityScore: 90, ImpactScore: 90},
	}
	edges := map[string]string{"b.smith@example.com": "bob@example.com"}

	entries := BuildLeaderboard(rows, edges, 0)
	assert.Len(t, entries, 2)

	assert.Equal(t, "alice@example.com", entries[0].Email)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 0, entries[0].MergedCount)
	assert.Equal(t, 600, entries[0].LinesChanged)

	bob := entries[1]
	assert.Equal(t, "bob@example.com", bob.Email)
	assert.Equal(t, "Bob", bob.Name)
	assert.Equal(t, 2, bob.Rank)
	assert.Equal(t, 1, bob.MergedCount)
	assert.Equal(t, 6, bob.Commits)
	assert.Equal(t, 300, bob.LinesChanged)
	assert.Equal(t, 1, bob.PRs)

	// Commit-count-weighted averages across the merged rows.
	assert.Equal(t, float64(65), bob.QualityScore)
	assert.InDelta(t, 56.67, bob.ImpactScore, 0.001)
}

// TestBuildLeaderboardLimit tests truncation.
func TestBuildLeaderboardLimit(t *testing.T) {
	rows := []schema.ContributorStatsRow{
		{Email: "a@example.com", Commits: 1, ImpactScore: 30},
		{Email: "b@example.com", Commits: 1, ImpactScore: 60},
		{Email: "c@example.com", Commits: 1, ImpactScore: 90},
	}

	entries := BuildLeaderboard(rows, nil, 2)
	assert.Len(t, entries, 2)
	assert.Equal(t, "c@example.com", entries[0].Email)
	assert.Equal(t, "b@example.com", entries[1].Email)
}

// TestBuildLeaderboardNameFollowsRoot tests that the root's own row names
// the merged group even when an alias row arrives first.
func TestBuildLeaderboardNameFollowsRoot(t *testing.T) {
	rows := []schema.ContributorStatsRow{
		{Email: "b.smith@example.com", Name: "B. Smith", Repository: "web", Commits: 1},
		{Email: "bob@example.com", Name: "Bob", Repository: "api", Commits: 4},
	}
	edges := map[string]string{"b.smith@example.com": "bob@example.com"}

	entries := BuildLeaderboard(rows, edges, 0)
	assert.Len(t, entries, 1)
	assert.Equal(t, "Bob", entries[0].Name)
	assert.Equal(t, 5, entries[0].Commits)
}

// TestBuildLeaderboardZeroCommitWeight tests the minimum weight of 1 so a
// zero-commit alias cannot erase a root's score.
func TestBuildLeaderboardZeroCommitWeight(t *testing.T) {
	rows := []schema.ContributorStatsRow{
		{Email: "root@example.com", Commits: 9, QualityScore: 90, ImpactScore: 90},
		{Email: "alias@example.com", Commits: 0, QualityScore: 0, ImpactScore: 0},
	}
	edges := map[string]string{"alias@example.com": "root@example.com"}

	entries := BuildLeaderboard(rows, edges, 0)
	assert.Len(t, entries, 1)
	assert.Equal(t, float64(81), entries[0].QualityScore)
	assert.Equal(t, float64(81), entries[0].ImpactScore)
}

// TestBuildLeaderboardEmpty tests empty input.
func TestBuildLeaderboardEmpty(t *testing.T) {
	assert.Empty(t, BuildLeaderboard(nil, nil, 10))
}
