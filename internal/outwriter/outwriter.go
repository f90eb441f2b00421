// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/nikolareljin/git-pulse/internal/contract"
	"github.com/nikolareljin/git-pulse/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteLeaderboard prints the contributor leaderboard using the configured output format.
func (ow *OutWriter) WriteLeaderboard(entries []schema.LeaderboardEntry, cfg *contract.Config, duration time.Duration) error {
	return writeLeaderboardResults(entries, cfg, duration)
}

// WriteRepositoryScore prints one repository score card using the configured output format.
func (ow *OutWriter) WriteRepositoryScore(score schema.RepositoryScore, cfg *contract.Config) error {
	return writeRepositoryScoreResults(score, cfg)
}

// WriteGlobalScore prints the portfolio score card using the configured output format.
func (ow *OutWriter) WriteGlobalScore(score schema.GlobalScore, cfg *contract.Config) error {
	return writeGlobalScoreResults(score, cfg)
}

// WriteRuns prints analysis run history using the configured output format.
func (ow *OutWriter) WriteRuns(runs []schema.RunRecord, cfg *contract.Config) error {
	return writeRunResults(runs, cfg)
}

// WriteRepositories prints the registered repositories using the configured output format.
func (ow *OutWriter) WriteRepositories(repos []schema.RepositoryRecord, cfg *contract.Config) error {
	return writeRepositoryResults(repos, cfg)
}

// WriteAnalysisSummaries prints the per-repository summaries of an analyze
// invocation using the configured output format.
func (ow *OutWriter) WriteAnalysisSummaries(outputs []*schema.AnalysisOutput, cfg *contract.Config) error {
	return writeAnalysisSummaries(outputs, cfg)
}
