package store

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/nikolareljin/git-pulse/internal/contract"
	"github.com/nikolareljin/git-pulse/schema"
)

// MockStore is an in-memory AnalysisStore for tests. It honors the same
// replace-on-save semantics as the SQL store so pipeline tests can assert
// on persisted state without a database.
type MockStore struct {
	mu sync.Mutex

	nextRunID int64
	runs      map[int64]schema.RunRecord
	repos     map[string]schema.RepositoryRecord
	commits   map[string][]schema.CommitRecord
	quality   map[string]map[string]schema.QualityScores
	stats     map[string][]schema.ContributorStatsRow
	edges     map[string]string

	// FailSaves forces SaveCommits to error, for failure-path tests.
	FailSaves bool
}

var _ contract.AnalysisStore = &MockStore{} // Compile-time check

// NewMockStore creates an empty in-memory store.
func NewMockStore() *MockStore {
	return &MockStore{
		runs:    make(map[int64]schema.RunRecord),
		repos:   make(map[string]schema.RepositoryRecord),
		commits: make(map[string][]schema.CommitRecord),
		quality: make(map[string]map[string]schema.QualityScores),
		stats:   make(map[string][]schema.ContributorStatsRow),
		edges:   make(map[string]string),
	}
}

// BeginRun creates a pending analysis run and returns its unique ID.
func (m *MockStore) BeginRun(repository string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextRunID++
	m.runs[m.nextRunID] = schema.RunRecord{
		ID:         m.nextRunID,
		Repository: repository,
		State:      schema.RunPending,
	}
	return m.nextRunID, nil
}

// MarkRunRunning transitions a run to the running state.
func (m *MockStore) MarkRunRunning(runID int64, startedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[runID]
	if !ok {
		return fmt.Errorf("run %d not found", runID)
	}
	run.State = schema.RunRunning
	run.StartedAt = &startedAt
	m.runs[runID] = run
	return nil
}

// UpdateRunProgress records how many commits the run has processed so far.
func (m *MockStore) UpdateRunProgress(runID int64, commitsAnalyzed int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[runID]
	if !ok {
		return fmt.Errorf("run %d not found", runID)
	}
	run.CommitsAnalyzed = commitsAnalyzed
	m.runs[runID] = run
	return nil
}

// CompleteRun transitions a run to the completed state.
func (m *MockStore) CompleteRun(runID int64, completedAt time.Time, commitsAnalyzed int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[runID]
	if !ok {
		return fmt.Errorf("run %d not found", runID)
	}
	run.State = schema.RunCompleted
	run.CompletedAt = &completedAt
	run.CommitsAnalyzed = commitsAnalyzed
	m.runs[runID] = run
	return nil
}

// FailRun transitions a run to the failed state with a cause.
func (m *MockStore) FailRun(runID int64, completedAt time.Time, cause string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[runID]
	if !ok {
		return fmt.Errorf("run %d not found", runID)
	}
	run.State = schema.RunFailed
	run.CompletedAt = &completedAt
	run.Error = cause
	m.runs[runID] = run
	return nil
}

// RunByID returns a single run.
func (m *MockStore) RunByID(runID int64) (schema.RunRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[runID]
	if !ok {
		return schema.RunRecord{}, fmt.Errorf("run %d not found", runID)
	}
	return run, nil
}

// RecentRuns returns the most recent runs, newest first.
func (m *MockStore) RecentRuns(limit int) ([]schema.RunRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var results []schema.RunRecord
	for _, run := range m.runs {
		results = append(results, run)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID > results[j].ID })
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// UpsertRepository inserts or refreshes a repository row keyed by name.
func (m *MockStore) UpsertRepository(repo schema.RepositoryRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.repos[repo.Name]; ok {
		repo.ID = existing.ID
	} else {
		repo.ID = int64(len(m.repos) + 1)
	}
	m.repos[repo.Name] = repo
	return nil
}

// SaveCommits stores commit rows with their quality scores, replacing any
// prior rows for the same repository.
func (m *MockStore) SaveCommits(repository string, commits []schema.CommitRecord, quality map[string]schema.QualityScores) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSaves {
		return fmt.Errorf("forced save failure for %s", repository)
	}
	m.commits[repository] = append([]schema.CommitRecord(nil), commits...)
	scores := make(map[string]schema.QualityScores, len(quality))
	for sha, q := range quality {
		scores[sha] = q
	}
	m.quality[repository] = scores
	return nil
}

// ReplaceContributorStats swaps in the latest per-contributor rollups for a repository.
func (m *MockStore) ReplaceContributorStats(repository string, rows []schema.ContributorStatsRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats[repository] = append([]schema.ContributorStatsRow(nil), rows...)
	return nil
}

// Repositories returns every analyzed repository, ordered by name.
func (m *MockStore) Repositories() ([]schema.RepositoryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var results []schema.RepositoryRecord
	for _, repo := range m.repos {
		results = append(results, repo)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	return results, nil
}

// RepositoryByName returns a single repository row.
func (m *MockStore) RepositoryByName(name string) (schema.RepositoryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	repo, ok := m.repos[name]
	if !ok {
		return schema.RepositoryRecord{}, fmt.Errorf("repository %s not found", name)
	}
	return repo, nil
}

// CommitFacts returns the per-commit facts needed for score computation.
func (m *MockStore) CommitFacts(repository string) ([]schema.CommitFacts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var results []schema.CommitFacts
	for _, commit := range m.commits[repository] {
		fact := schema.CommitFacts{
			SHA:          commit.SHA,
			AuthorEmail:  commit.AuthorEmail,
			CommittedAt:  commit.CommittedAt,
			LinesAdded:   commit.LinesAdded,
			LinesRemoved: commit.LinesRemoved,
			IsPR:         commit.IsPR,
		}
		if q, ok := m.quality[repository][commit.SHA]; ok {
			fact.MessageScore = q.Message
		}
		results = append(results, fact)
	}
	return results, nil
}

// StatsForRepository returns contributor rollups for one repository.
func (m *MockStore) StatsForRepository(repository string) ([]schema.ContributorStatsRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]schema.ContributorStatsRow(nil), m.stats[repository]...), nil
}

// AllStats returns contributor rollups across every repository.
func (m *MockStore) AllStats() ([]schema.ContributorStatsRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var repos []string
	for repo := range m.stats {
		repos = append(repos, repo)
	}
	sort.Strings(repos)
	var results []schema.ContributorStatsRow
	for _, repo := range repos {
		results = append(results, m.stats[repo]...)
	}
	return results, nil
}

// MergeEdges returns the identity merge mapping.
func (m *MockStore) MergeEdges() (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	edges := make(map[string]string, len(m.edges))
	for merged, primary := range m.edges {
		edges[merged] = primary
	}
	return edges, nil
}

// ReplaceMergeEdges rewrites the identity merge mapping.
func (m *MockStore) ReplaceMergeEdges(edges map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edges = make(map[string]string, len(edges))
	for merged, primary := range edges {
		m.edges[merged] = primary
	}
	return nil
}

// GetStatus returns status information about the store.
func (m *MockStore) GetStatus() (schema.StoreStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	totalCommits := 0
	for _, commits := range m.commits {
		totalCommits += len(commits)
	}
	return schema.StoreStatus{
		Backend:      "mock",
		Connected:    true,
		TotalRuns:    len(m.runs),
		TotalCommits: totalCommits,
		TableRowCounts: map[string]int64{
			repositoriesTable:     int64(len(m.repos)),
			commitsTable:          int64(totalCommits),
			analysisRunsTable:     int64(len(m.runs)),
			contributorMergeTable: int64(len(m.edges)),
		},
	}, nil
}

// Clear removes all stored analysis data.
func (m *MockStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextRunID = 0
	m.runs = make(map[int64]schema.RunRecord)
	m.repos = make(map[string]schema.RepositoryRecord)
	m.commits = make(map[string][]schema.CommitRecord)
	m.quality = make(map[string]map[string]schema.QualityScores)
	m.stats = make(map[string][]schema.ContributorStatsRow)
	m.edges = make(map[string]string)
	return nil
}

// Close is a no-op for the in-memory store.
func (m *MockStore) Close() error {
	return nil
}

// SavedCommits returns the commits stored for a repository, for assertions.
func (m *MockStore) SavedCommits(repository string) []schema.CommitRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]schema.CommitRecord(nil), m.commits[repository]...)
}

// SavedQuality returns the quality scores stored for a repository, for assertions.
func (m *MockStore) SavedQuality(repository string) map[string]schema.QualityScores {
	m.mu.Lock()
	defer m.mu.Unlock()
	scores := make(map[string]schema.QualityScores, len(m.quality[repository]))
	for sha, q := range m.quality[repository] {
		scores[sha] = q
	}
	return scores
}
