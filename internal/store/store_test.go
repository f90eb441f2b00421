package store

import (
	"strings"
	"testing"
	"time"

	"github.com/nikolareljin/git-pulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	require.NotNil(t, s)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_NoneBackend(t *testing.T) {
	s, err := New(schema.NoneBackend, "")
	require.NoError(t, err)
	require.NotNil(t, s)

	// BeginRun should return 0 for NoneBackend
	runID, err := s.BeginRun("payments-service")
	assert.NoError(t, err)
	assert.Equal(t, int64(0), runID)

	// Write operations should not error
	assert.NoError(t, s.MarkRunRunning(0, time.Now()))
	assert.NoError(t, s.SaveCommits("payments-service", nil, nil))
	assert.NoError(t, s.ReplaceContributorStats("payments-service", nil))
	assert.NoError(t, s.Clear())

	// Reads come back empty
	runs, err := s.RecentRuns(10)
	assert.NoError(t, err)
	assert.Empty(t, runs)

	edges, err := s.MergeEdges()
	assert.NoError(t, err)
	assert.Empty(t, edges)

	status, err := s.GetStatus()
	assert.NoError(t, err)
	assert.False(t, status.Connected)

	assert.NoError(t, s.Close())
}

func TestStore_RunLifecycle(t *testing.T) {
	s := newTestStore(t)

	runID, err := s.BeginRun("payments-service")
	require.NoError(t, err)
	assert.Greater(t, runID, int64(0))

	// Fresh run starts pending with no timestamps
	run, err := s.RunByID(runID)
	require.NoError(t, err)
	assert.Equal(t, schema.RunPending, run.State)
	assert.Nil(t, run.StartedAt)
	assert.Nil(t, run.CompletedAt)

	startedAt := time.Now().UTC()
	require.NoError(t, s.MarkRunRunning(runID, startedAt))
	require.NoError(t, s.UpdateRunProgress(runID, 42))

	run, err = s.RunByID(runID)
	require.NoError(t, err)
	assert.Equal(t, schema.RunRunning, run.State)
	require.NotNil(t, run.StartedAt)
	assert.WithinDuration(t, startedAt, *run.StartedAt, time.Second)
	assert.Equal(t, 42, run.CommitsAnalyzed)

	completedAt := time.Now().UTC()
	require.NoError(t, s.CompleteRun(runID, completedAt, 100))

	run, err = s.RunByID(runID)
	require.NoError(t, err)
	assert.Equal(t, schema.RunCompleted, run.State)
	require.NotNil(t, run.CompletedAt)
	assert.Equal(t, 100, run.CommitsAnalyzed)
	assert.Empty(t, run.Error)
}

func TestStore_FailedRun(t *testing.T) {
	s := newTestStore(t)

	runID, err := s.BeginRun("broken-checkout")
	require.NoError(t, err)
	require.NoError(t, s.MarkRunRunning(runID, time.Now()))
	require.NoError(t, s.FailRun(runID, time.Now(), "repository not found"))

	run, err := s.RunByID(runID)
	require.NoError(t, err)
	assert.Equal(t, schema.RunFailed, run.State)
	assert.Equal(t, "repository not found", run.Error)
}

func TestStore_RecentRunsNewestFirst(t *testing.T) {
	s := newTestStore(t)

	for range 5 {
		_, err := s.BeginRun("payments-service")
		require.NoError(t, err)
	}

	runs, err := s.RecentRuns(3)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Greater(t, runs[0].ID, runs[1].ID)
	assert.Greater(t, runs[1].ID, runs[2].ID)
}

func TestStore_UpsertRepository(t *testing.T) {
	s := newTestStore(t)

	now := time.Now().UTC()
	repo := schema.RepositoryRecord{
		Name:              "payments-service",
		Path:              "/repos/payments-service",
		URL:               "git@example.com:org/payments-service.git",
		DefaultBranch:     "main",
		TotalCommits:      120,
		TotalContributors: 4,
		TotalBranches:     3,
		LastAnalyzed:      &now,
	}
	require.NoError(t, s.UpsertRepository(repo))

	// Second upsert with the same name refreshes in place
	repo.TotalCommits = 150
	require.NoError(t, s.UpsertRepository(repo))

	repos, err := s.Repositories()
	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.Equal(t, 150, repos[0].TotalCommits)
	require.NotNil(t, repos[0].LastAnalyzed)
	assert.WithinDuration(t, now, *repos[0].LastAnalyzed, time.Second)

	loaded, err := s.RepositoryByName("payments-service")
	require.NoError(t, err)
	assert.Equal(t, "main", loaded.DefaultBranch)

	_, err = s.RepositoryByName("missing")
	assert.Error(t, err)
}

func TestStore_SaveCommitsAndFacts(t *testing.T) {
	s := newTestStore(t)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	commits := []schema.CommitRecord{
		{
			SHA:          "aaa111",
			AuthorName:   "Alice Chen",
			AuthorEmail:  "alice@example.com",
			Message:      "feat(api): add webhook retries",
			CommittedAt:  base,
			Branch:       "main",
			LinesAdded:   120,
			LinesRemoved: 30,
			FilesChanged: 4,
		},
		{
			SHA:         "bbb222",
			AuthorName:  "Alice Chen",
			AuthorEmail: "alice@example.com",
			Message:     "Merge pull request #7 from org/feature",
			CommittedAt: base.Add(24 * time.Hour),
			Branch:      "main",
			IsMerge:     true,
			IsPR:        true,
		},
	}
	quality := map[string]schema.QualityScores{
		"aaa111": {SHA: "aaa111", Message: 90, Overall: 72.5},
	}

	require.NoError(t, s.SaveCommits("payments-service", commits, quality))

	facts, err := s.CommitFacts("payments-service")
	require.NoError(t, err)
	require.Len(t, facts, 2)

	// Ordered by committed_at
	assert.Equal(t, "aaa111", facts[0].SHA)
	assert.Equal(t, "alice@example.com", facts[0].AuthorEmail)
	assert.Equal(t, 120, facts[0].LinesAdded)
	assert.InDelta(t, 90, facts[0].MessageScore, 0.001)
	assert.False(t, facts[0].IsPR)

	assert.Equal(t, "bbb222", facts[1].SHA)
	assert.True(t, facts[1].IsPR)
	assert.Zero(t, facts[1].MessageScore, "Unscored commit keeps a zero message score")

	// Saving again replaces rather than appends
	require.NoError(t, s.SaveCommits("payments-service", commits[:1], quality))
	facts, err = s.CommitFacts("payments-service")
	require.NoError(t, err)
	assert.Len(t, facts, 1)
}

func TestStore_SaveCommitsTruncatesMessage(t *testing.T) {
	s := newTestStore(t)

	long := strings.Repeat("x", commitMessageLimit+500)
	commits := []schema.CommitRecord{
		{SHA: "ccc333", AuthorEmail: "bob@example.com", Message: long, CommittedAt: time.Now()},
	}
	require.NoError(t, s.SaveCommits("payments-service", commits, nil))

	var stored string
	query := s.rebind("SELECT message FROM " + s.table(commitsTable) + " WHERE sha = ?")
	require.NoError(t, s.db.QueryRow(query, "ccc333").Scan(&stored))
	assert.Len(t, stored, commitMessageLimit)
}

func TestStore_ContributorStatsRoundTrip(t *testing.T) {
	s := newTestStore(t)

	first := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	last := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	rows := []schema.ContributorStatsRow{
		{
			Email: "alice@example.com", Name: "Alice Chen", Repository: "payments-service",
			Commits: 50, LinesAdded: 4000, LinesRemoved: 1200, FilesChanged: 300,
			PRs: 8, BranchesTouched: 3, QualityScore: 76.5, ImpactScore: 81.2,
			CommitFrequency: 2.4, Rank: 1, FirstCommit: &first, LastCommit: &last,
		},
		{
			Email: "bob@example.com", Name: "Bob Smith", Repository: "payments-service",
			Commits: 10, QualityScore: 60, ImpactScore: 40.5, CommitFrequency: 0.8, Rank: 2,
		},
	}

	require.NoError(t, s.ReplaceContributorStats("payments-service", rows))

	loaded, err := s.StatsForRepository("payments-service")
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	// Rank order is preserved
	assert.Equal(t, "alice@example.com", loaded[0].Email)
	assert.Equal(t, 1, loaded[0].Rank)
	assert.InDelta(t, 81.2, loaded[0].ImpactScore, 0.001)
	require.NotNil(t, loaded[0].FirstCommit)
	assert.WithinDuration(t, first, *loaded[0].FirstCommit, time.Second)

	assert.Equal(t, "bob@example.com", loaded[1].Email)
	assert.Nil(t, loaded[1].FirstCommit, "Missing timestamps stay nil")

	// Replacement swaps the whole set
	require.NoError(t, s.ReplaceContributorStats("payments-service", rows[:1]))
	loaded, err = s.StatsForRepository("payments-service")
	require.NoError(t, err)
	assert.Len(t, loaded, 1)

	all, err := s.AllStats()
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, "payments-service", all[0].Repository)
}

func TestStore_MergeEdgesRoundTrip(t *testing.T) {
	s := newTestStore(t)

	edges, err := s.MergeEdges()
	require.NoError(t, err)
	assert.Empty(t, edges)

	in := map[string]string{
		"b.smith@example.com": "bob@example.com",
		"bobby@example.com":   "bob@example.com",
	}
	require.NoError(t, s.ReplaceMergeEdges(in))

	edges, err = s.MergeEdges()
	require.NoError(t, err)
	assert.Equal(t, in, edges)

	// Replacement removes edges that are no longer present
	require.NoError(t, s.ReplaceMergeEdges(map[string]string{"bobby@example.com": "bob@example.com"}))
	edges, err = s.MergeEdges()
	require.NoError(t, err)
	assert.Len(t, edges, 1)
}

func TestStore_GetStatusAndClear(t *testing.T) {
	s := newTestStore(t)

	runID, err := s.BeginRun("payments-service")
	require.NoError(t, err)
	require.NoError(t, s.MarkRunRunning(runID, time.Now()))
	require.NoError(t, s.SaveCommits("payments-service", []schema.CommitRecord{
		{SHA: "aaa111", AuthorEmail: "alice@example.com", CommittedAt: time.Now()},
	}, nil))

	status, err := s.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, string(schema.SQLiteBackend), status.Backend)
	assert.True(t, status.Connected)
	assert.Equal(t, 1, status.TotalRuns)
	assert.Equal(t, runID, status.LastRunID)
	assert.False(t, status.LastRunTime.IsZero())
	assert.Equal(t, 1, status.TotalCommits)
	assert.Equal(t, int64(1), status.TableRowCounts[commitsTable])
	assert.Equal(t, int64(1), status.TableRowCounts[contributorsTable])

	require.NoError(t, s.Clear())

	status, err = s.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 0, status.TotalRuns)
	assert.Equal(t, 0, status.TotalCommits)
	for table, count := range status.TableRowCounts {
		assert.Zero(t, count, "table %s should be empty after clear", table)
	}
}

func TestStore_UnsupportedBackend(t *testing.T) {
	_, err := New(schema.DatabaseBackend("oracle"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported backend")
}

func TestRebind(t *testing.T) {
	pg := &Store{backend: schema.PostgreSQLBackend}
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = $2", pg.rebind("SELECT * FROM t WHERE a = ? AND b = ?"))

	lite := &Store{backend: schema.SQLiteBackend}
	assert.Equal(t, "SELECT * FROM t WHERE a = ?", lite.rebind("SELECT * FROM t WHERE a = ?"))
}

func TestTruncateMessage(t *testing.T) {
	assert.Equal(t, "short", truncateMessage("short"))
	long := strings.Repeat("y", commitMessageLimit*2)
	assert.Len(t, truncateMessage(long), commitMessageLimit)
}
