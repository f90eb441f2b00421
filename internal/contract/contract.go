// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/nikolareljin/git-pulse/schema"
)

// GitSource defines the necessary operations for reading commit history.
// This allows the core analysis logic to be tested without needing a real repository.
type GitSource interface {
	// Summary returns repository metadata, including every local branch
	// and the detected default branch.
	Summary(ctx context.Context, path string) (schema.RepoSummary, error)

	// StreamCommits walks every branch newest-first and emits each unique
	// commit exactly once. The emit callback returns false to stop the walk
	// early, which is not an error.
	StreamCommits(ctx context.Context, path string, opts schema.StreamOptions, emit func(schema.CommitRecord) bool) error
}

// Augmenter deepens heuristic quality scores with model judgment.
type Augmenter interface {
	// Available reports whether the model endpoint can serve requests.
	// The result is probed once and cached for the lifetime of the client.
	Available(ctx context.Context) bool

	// Augment scores a single commit. The boolean is false when the model
	// was skipped or failed, in which case the returned scores are the
	// neutral defaults and callers should keep their heuristic values.
	Augment(ctx context.Context, commit schema.CommitRecord) (schema.QualityScores, bool)
}

// AnalysisStore defines the interface for persisting analysis runs and their results.
type AnalysisStore interface {
	// BeginRun creates a pending analysis run and returns its unique ID
	BeginRun(repository string) (int64, error)

	// MarkRunRunning transitions a run to the running state
	MarkRunRunning(runID int64, startedAt time.Time) error

	// UpdateRunProgress records how many commits the run has processed so far
	UpdateRunProgress(runID int64, commitsAnalyzed int) error

	// CompleteRun transitions a run to the completed state
	CompleteRun(runID int64, completedAt time.Time, commitsAnalyzed int) error

	// FailRun transitions a run to the failed state with a cause
	FailRun(runID int64, completedAt time.Time, cause string) error

	// RunByID returns a single run
	RunByID(runID int64) (schema.RunRecord, error)

	// RecentRuns returns the most recent runs, newest first
	RecentRuns(limit int) ([]schema.RunRecord, error)

	// UpsertRepository inserts or refreshes a repository row keyed by name
	UpsertRepository(repo schema.RepositoryRecord) error

	// SaveCommits stores commit rows with their quality scores, replacing
	// any prior rows for the same repository
	SaveCommits(repository string, commits []schema.CommitRecord, quality map[string]schema.QualityScores) error

	// ReplaceContributorStats swaps in the latest per-contributor rollups for a repository
	ReplaceContributorStats(repository string, rows []schema.ContributorStatsRow) error

	// Repositories returns every analyzed repository
	Repositories() ([]schema.RepositoryRecord, error)

	// RepositoryByName returns a single repository row
	RepositoryByName(name string) (schema.RepositoryRecord, error)

	// CommitFacts returns the per-commit facts needed for score computation
	CommitFacts(repository string) ([]schema.CommitFacts, error)

	// StatsForRepository returns contributor rollups for one repository
	StatsForRepository(repository string) ([]schema.ContributorStatsRow, error)

	// AllStats returns contributor rollups across every repository
	AllStats() ([]schema.ContributorStatsRow, error)

	// MergeEdges returns the identity merge mapping (merged email -> primary email)
	MergeEdges() (map[string]string, error)

	// ReplaceMergeEdges rewrites the identity merge mapping in one transaction
	ReplaceMergeEdges(edges map[string]string) error

	// GetStatus returns status information about the analysis store
	GetStatus() (schema.StoreStatus, error)

	// Clear removes all stored analysis data
	Clear() error

	// Close closes the underlying connection
	Close() error
}
