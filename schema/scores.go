package schema

import "time"

// RepositoryScore is the derived score card for one repository. It is
// recomputed on demand from stored commits and contributor stats, never
// patched incrementally.
type RepositoryScore struct {
	Name string `json:"name"`

	// Raw counters feeding the sub-scores.
	TotalCommits      int        `json:"total_commits"`
	TotalContributors int        `json:"total_contributors"`
	TotalBranches     int        `json:"total_branches"`
	TotalPRs          int        `json:"total_prs"`
	TotalLinesAdded   int        `json:"total_lines_added"`
	TotalLinesRemoved int        `json:"total_lines_removed"`
	FirstCommit       *time.Time `json:"first_commit,omitempty"`
	LastCommit        *time.Time `json:"last_commit,omitempty"`
	CommitsLast30Days int        `json:"commits_last_30_days"`
	CommitsLast90Days int        `json:"commits_last_90_days"`
	ActiveLast30Days  int        `json:"active_contributors_30_days"`
	AvgQuality        float64    `json:"avg_quality_score"`
	AvgMessageScore   float64    `json:"avg_commit_message_score"`

	// Derived sub-scores, each in [0,100].
	Activity      float64 `json:"activity_score"`
	Health        float64 `json:"health_score"`
	Quality       float64 `json:"quality_score"`
	Collaboration float64 `json:"collaboration_score"`
	Overall       float64 `json:"overall_score"`
	Grade         string  `json:"grade"`
}

// GlobalScore aggregates every repository score into one portfolio view.
type GlobalScore struct {
	TotalRepositories int `json:"total_repositories"`
	TotalCommits      int `json:"total_commits"`
	TotalContributors int `json:"total_contributors"`
	TotalPRs          int `json:"total_prs"`
	TotalLinesAdded   int `json:"total_lines_added"`
	TotalLinesRemoved int `json:"total_lines_removed"`
	Commits30Days     int `json:"total_commits_30_days"`
	ActiveRepos30Days int `json:"active_repos_30_days"`

	AvgCommitsPerRepo      float64 `json:"avg_commits_per_repo"`
	AvgContributorsPerRepo float64 `json:"avg_contributors_per_repo"`
	AvgQuality             float64 `json:"avg_quality_score"`

	Activity  float64 `json:"activity_score"`
	Health    float64 `json:"health_score"`
	Quality   float64 `json:"quality_score"`
	Diversity float64 `json:"diversity_score"`
	Overall   float64 `json:"overall_score"`
	Grade     string  `json:"grade"`

	Repositories []RepositoryScore `json:"repositories"`
}

// Overall score weights shared by repository and global scoring.
const (
	WeightActivity      = 0.25
	WeightHealth        = 0.25
	WeightQuality       = 0.30
	WeightCollaboration = 0.20
)

// GradeForScore converts a 0-100 score to a letter grade.
func GradeForScore(score float64) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 85:
		return "A"
	case score >= 80:
		return "A-"
	case score >= 75:
		return "B+"
	case score >= 70:
		return "B"
	case score >= 65:
		return "B-"
	case score >= 60:
		return "C+"
	case score >= 55:
		return "C"
	case score >= 50:
		return "C-"
	case score >= 45:
		return "D+"
	case score >= 40:
		return "D"
	default:
		return "F"
	}
}
