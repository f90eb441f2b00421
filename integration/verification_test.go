//go:build basic

// Package integration contains integration tests for gitpulse.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
package integration

import (
	"encoding/csv"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAnalyzeVerification analyzes a fixture repository and verifies the
// leaderboard commit counts against git shortlog.
func TestAnalyzeVerification(t *testing.T) {
	repoDir := makeFixtureRepo(t)
	dbPath := filepath.Join(t.TempDir(), "analysis.db")
	env := []string{"GITPULSE_STORE_DB_CONNECT=" + dbPath, "GITPULSE_COLOR=no"}

	_, err := runGitpulse(t, repoDir, env, "analyze", repoDir, "--no-llm")
	require.NoError(t, err)

	out, err := runGitpulse(t, repoDir, env, "leaderboard", filepath.Base(repoDir), "--output", "csv")
	require.NoError(t, err)

	boardCommits := parseLeaderboardCSV(t, out)
	require.NotEmpty(t, boardCommits)

	gitCommits := gitShortlogCounts(t, repoDir)
	for email, commits := range boardCommits {
		assert.Equal(t, gitCommits[email], commits, "commit count mismatch for %s", email)
	}
}

// TestIdentityMergeRoundTrip merges two fixture identities, checks the merged
// leaderboard row, and unmerges again.
func TestIdentityMergeRoundTrip(t *testing.T) {
	repoDir := makeFixtureRepo(t)
	dbPath := filepath.Join(t.TempDir(), "analysis.db")
	env := []string{"GITPULSE_STORE_DB_CONNECT=" + dbPath, "GITPULSE_COLOR=no"}

	_, err := runGitpulse(t, repoDir, env, "analyze", repoDir, "--no-llm")
	require.NoError(t, err)

	out, err := runGitpulse(t, repoDir, env, "identity", "merge", "alice@example.com", "bob@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Merged 1 identities")

	out, err = runGitpulse(t, repoDir, env, "leaderboard", "--output", "csv")
	require.NoError(t, err)
	boardCommits := parseLeaderboardCSV(t, out)
	assert.Len(t, boardCommits, 1, "merged identities should collapse into one row")
	assert.Equal(t, 3, boardCommits["alice@example.com"])

	out, err = runGitpulse(t, repoDir, env, "identity", "unmerge", "bob@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Unmerged 1 identities")
}

// TestScoresAndRuns checks that scores and runs render after an analysis.
func TestScoresAndRuns(t *testing.T) {
	repoDir := makeFixtureRepo(t)
	dbPath := filepath.Join(t.TempDir(), "analysis.db")
	env := []string{"GITPULSE_STORE_DB_CONNECT=" + dbPath, "GITPULSE_COLOR=no"}

	_, err := runGitpulse(t, repoDir, env, "analyze", repoDir, "--no-llm")
	require.NoError(t, err)

	out, err := runGitpulse(t, repoDir, env, "scores", "repo", filepath.Base(repoDir))
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Base(repoDir))
	assert.Contains(t, out, "Grade")

	out, err = runGitpulse(t, repoDir, env, "runs", "--output", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "completed")
}

// parseLeaderboardCSV extracts email -> commits from leaderboard CSV output.
func parseLeaderboardCSV(t *testing.T, output string) map[string]int {
	t.Helper()

	reader := csv.NewReader(strings.NewReader(output))
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, rows)

	commits := make(map[string]int)
	for _, row := range rows[1:] {
		n, err := strconv.Atoi(row[3])
		require.NoError(t, err)
		commits[row[1]] = n
	}
	return commits
}

// gitShortlogCounts returns email -> commit count straight from git.
func gitShortlogCounts(t *testing.T, repoDir string) map[string]int {
	t.Helper()

	cmd := exec.Command("git", "shortlog", "-sne", "HEAD")
	cmd.Dir = repoDir
	output, err := cmd.Output()
	require.NoError(t, err)

	counts := make(map[string]int)
	for line := range strings.Lines(string(output)) {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}
		email := strings.Trim(fields[len(fields)-1], "<>")
		counts[strings.ToLower(email)] = n
	}
	return counts
}
