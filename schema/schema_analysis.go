package schema

import "time"

// AnalysisOutput bundles everything one repository analysis produced.
type AnalysisOutput struct {
	RunID           int64                 `json:"run_id,omitempty"`
	Repository      RepoSummary           `json:"repository"`
	CommitsAnalyzed int                   `json:"commits_analyzed"`
	CommitsSampled  int                   `json:"commits_sampled"`
	Augmented       int                   `json:"commits_augmented"`
	Contributors    []ContributorStatsRow `json:"contributors"`
	Duration        time.Duration         `json:"-"`
}
