package schema

import "time"

// RepositoryRecord represents a row from the repositories table.
type RepositoryRecord struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	Path              string     `json:"path"`
	URL               string     `json:"url,omitempty"`
	DefaultBranch     string     `json:"default_branch"`
	TotalCommits      int        `json:"total_commits"`
	TotalContributors int        `json:"total_contributors"`
	TotalBranches     int        `json:"total_branches"`
	LastAnalyzed      *time.Time `json:"last_analyzed,omitempty"`
}

// CommitFacts is the slice of a stored commit needed for repository scoring.
type CommitFacts struct {
	SHA          string
	AuthorEmail  string
	CommittedAt  time.Time
	LinesAdded   int
	LinesRemoved int
	IsPR         bool
	MessageScore float64 // Heuristic message sub-score, 0 when unscored
}

// ContributorStatsRow represents a row from the contributor_stats table,
// one per contributor per repository per analysis.
type ContributorStatsRow struct {
	Email           string     `json:"email"`
	Name            string     `json:"name"`
	Repository      string     `json:"repository"`
	Commits         int        `json:"commits"`
	LinesAdded      int        `json:"lines_added"`
	LinesRemoved    int        `json:"lines_removed"`
	FilesChanged    int        `json:"files_changed"`
	PRs             int        `json:"prs"`
	BranchesTouched int        `json:"branches_touched"`
	QualityScore    float64    `json:"quality_score"`
	ImpactScore     float64    `json:"impact_score"`
	CommitFrequency float64    `json:"commit_frequency"`
	Rank            int        `json:"rank"`
	FirstCommit     *time.Time `json:"first_commit,omitempty"`
	LastCommit      *time.Time `json:"last_commit,omitempty"`
}

// LeaderboardEntry is one grouped row of the contributor leaderboard.
// When identities were merged, the entry carries the canonical root email and
// the counts of every alias folded into it.
type LeaderboardEntry struct {
	Rank         int     `json:"rank"`
	Email        string  `json:"email"`
	Name         string  `json:"name"`
	Commits      int     `json:"commits"`
	LinesChanged int     `json:"lines_changed"`
	PRs          int     `json:"prs"`
	QualityScore float64 `json:"quality_score"`
	ImpactScore  float64 `json:"impact_score"`
	MergedCount  int     `json:"merged_count,omitempty"` // Number of aliases folded in, 0 for standalone identities
}

// RunRecord represents a row from the analysis_runs table.
type RunRecord struct {
	ID              int64      `json:"id"`
	Repository      string     `json:"repository,omitempty"`
	State           RunState   `json:"status"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CommitsAnalyzed int        `json:"commits_analyzed"`
	Error           string     `json:"error,omitempty"`
}
