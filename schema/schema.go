// Package schema has models, enums and shared constants for all parts of gitpulse.
package schema

import "time"

// CommitRecord is one commit as emitted by the ingestion walk.
// It is immutable once produced; quality enrichment lives in QualityScores.
type CommitRecord struct {
	SHA          string    // Full commit hash, unique within one ingestion run
	AuthorName   string    // Author display name
	AuthorEmail  string    // Author email, lower-cased
	Message      string    // Commit message with surrounding whitespace stripped
	CommittedAt  time.Time // Committer timestamp
	Branch       string    // Name of the first branch that reached this commit
	LinesAdded   int       // Added lines across the first-parent diff
	LinesRemoved int       // Removed lines across the first-parent diff
	FilesChanged int       // Number of changed file entries
	IsMerge      bool      // More than one parent
	IsPR         bool      // Merge whose message matches a pull-request pattern
	DiffExcerpt  string    // Patch text bounded by the diff budget
}

// TotalLines returns the total churn of the commit.
func (c CommitRecord) TotalLines() int {
	return c.LinesAdded + c.LinesRemoved
}

// StreamOptions bounds a single ingestion walk. Zero values lift the bound.
type StreamOptions struct {
	MaxCommits   int // Distinct-commit budget across all branches
	MaxDiffBytes int // Total diff excerpt budget per commit
}

// BranchSummary describes one local branch of a repository.
type BranchSummary struct {
	Name       string    // Short branch name
	LastCommit time.Time // Committer time of the tip commit
	IsDefault  bool      // Branch currently checked out
}

// RepoSummary describes an opened repository.
type RepoSummary struct {
	Name          string          // Directory name of the repository
	Path          string          // Absolute or caller-supplied path
	URL           string          // Origin remote URL, empty when unset
	DefaultBranch string          // Checked-out branch, main/master when detached
	Branches      []BranchSummary // All local branches, default branch first
}
