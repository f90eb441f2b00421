// Package parquet provides data structures and functions for exporting
// analysis data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/nikolareljin/git-pulse/schema"
	"github.com/parquet-go/parquet-go"
)

// AnalysisRun represents a single analysis run with metadata.
// This struct maps to the gitpulse_analysis_runs database table.
type AnalysisRun struct {
	// RunID is the unique identifier for this analysis run
	RunID int64 `parquet:"run_id,snappy"`

	// Repository is the name of the analyzed repository
	Repository string `parquet:"repository,snappy"`

	// Status is the lifecycle state of the run (pending, running, completed, failed)
	Status string `parquet:"status,snappy"`

	// StartedAt is when the analysis began (nullable, stored as TIMESTAMP with nanosecond precision)
	StartedAt *time.Time `parquet:"started_at,optional,snappy"`

	// CompletedAt is when the analysis finished (nullable, stored as TIMESTAMP with nanosecond precision)
	CompletedAt *time.Time `parquet:"completed_at,optional,snappy"`

	// CommitsAnalyzed is the number of commits processed in this run
	CommitsAnalyzed int32 `parquet:"commits_analyzed,snappy"`

	// ErrorMessage explains why a failed run stopped (nullable)
	ErrorMessage *string `parquet:"error_message,optional,snappy"`
}

// ContributorStats represents one contributor's rollup within a repository.
// This struct maps to the gitpulse_contributor_stats database table.
type ContributorStats struct {
	// Repository is the name of the repository the rollup belongs to
	Repository string `parquet:"repository,snappy"`

	// Email is the contributor's author email, lower-cased
	Email string `parquet:"email,snappy"`

	// Name is the contributor's display name
	Name string `parquet:"name,snappy"`

	// Commits is the number of commits authored
	Commits int32 `parquet:"commits,snappy"`

	// LinesAdded is the total lines added across all commits
	LinesAdded int32 `parquet:"lines_added,snappy"`

	// LinesRemoved is the total lines removed across all commits
	LinesRemoved int32 `parquet:"lines_removed,snappy"`

	// FilesChanged is the total changed file entries across all commits
	FilesChanged int32 `parquet:"files_changed,snappy"`

	// PRs is the number of pull-request merges authored
	PRs int32 `parquet:"prs,snappy"`

	// BranchesTouched is the number of distinct branches the contributor reached
	BranchesTouched int32 `parquet:"branches_touched,snappy"`

	// QualityScore is the average commit quality on the 0-100 scale
	QualityScore float64 `parquet:"quality_score,snappy"`

	// ImpactScore is the weighted impact on the 0-100 scale
	ImpactScore float64 `parquet:"impact_score,snappy"`

	// CommitFrequency is the average commits per week
	CommitFrequency float64 `parquet:"commit_frequency,snappy"`

	// Rank is the contributor's 1-based position within the repository
	Rank int32 `parquet:"rank,snappy"`

	// FirstCommit is the contributor's earliest commit time (nullable)
	FirstCommit *time.Time `parquet:"first_commit,optional,snappy"`

	// LastCommit is the contributor's latest commit time (nullable)
	LastCommit *time.Time `parquet:"last_commit,optional,snappy"`
}

// WriteAnalysisRunsParquet writes a slice of AnalysisRun structs to a Parquet file.
func WriteAnalysisRunsParquet(data []AnalysisRun, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the AnalysisRun struct tags
	writer := parquet.NewGenericWriter[AnalysisRun](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteContributorStatsParquet writes a slice of ContributorStats structs to a Parquet file.
func WriteContributorStatsParquet(data []ContributorStats, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the ContributorStats struct tags
	writer := parquet.NewGenericWriter[ContributorStats](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// MockFetchAnalysisRuns generates sample AnalysisRun data for demonstration.
func MockFetchAnalysisRuns() []AnalysisRun {
	now := time.Now()
	startedAt1 := now.Add(-2 * time.Hour)
	completedAt1 := now.Add(-1*time.Hour - 30*time.Minute)

	startedAt2 := now.Add(-24 * time.Hour)
	errorMessage2 := "failed to open repository: not a git directory"

	startedAt3 := now.Add(-10 * time.Minute)
	// Note: CompletedAt stays nil for run 3 to demonstrate nullable fields

	return []AnalysisRun{
		{
			RunID:           1,
			Repository:      "payments-service",
			Status:          "completed",
			StartedAt:       &startedAt1,
			CompletedAt:     &completedAt1,
			CommitsAnalyzed: 450,
		},
		{
			RunID:           2,
			Repository:      "broken-checkout",
			Status:          "failed",
			StartedAt:       &startedAt2,
			CompletedAt:     &startedAt2,
			CommitsAnalyzed: 0,
			ErrorMessage:    &errorMessage2,
		},
		{
			RunID:           3,
			Repository:      "payments-service",
			Status:          "running",
			StartedAt:       &startedAt3,
			CompletedAt:     nil, // Still running - nullable field
			CommitsAnalyzed: 120,
		},
	}
}

// MockFetchContributorStats generates sample ContributorStats data for demonstration.
func MockFetchContributorStats() []ContributorStats {
	now := time.Now()
	first1 := now.Add(-400 * 24 * time.Hour)
	last1 := now.Add(-1 * 24 * time.Hour)
	first2 := now.Add(-90 * 24 * time.Hour)
	last2 := now.Add(-7 * 24 * time.Hour)

	return []ContributorStats{
		{
			Repository:      "payments-service",
			Email:           "alice@example.com",
			Name:            "Alice Chen",
			Commits:         180,
			LinesAdded:      12400,
			LinesRemoved:    5300,
			FilesChanged:    820,
			PRs:             34,
			BranchesTouched: 6,
			QualityScore:    78.5,
			ImpactScore:     83.2,
			CommitFrequency: 3.1,
			Rank:            1,
			FirstCommit:     &first1,
			LastCommit:      &last1,
		},
		{
			Repository:      "payments-service",
			Email:           "bob@example.com",
			Name:            "Bob Smith",
			Commits:         42,
			LinesAdded:      2100,
			LinesRemoved:    900,
			FilesChanged:    150,
			PRs:             8,
			BranchesTouched: 3,
			QualityScore:    64.0,
			ImpactScore:     55.8,
			CommitFrequency: 1.2,
			Rank:            2,
			FirstCommit:     &first2,
			LastCommit:      &last2,
		},
		{
			Repository:      "payments-service",
			Email:           "import-bot@example.com",
			Name:            "Import Bot",
			Commits:         1,
			LinesAdded:      50000,
			LinesRemoved:    0,
			FilesChanged:    2000,
			PRs:             0,
			BranchesTouched: 1,
			QualityScore:    40.0,
			ImpactScore:     31.5,
			CommitFrequency: 1.0,
			Rank:            3,
			FirstCommit:     nil, // Timestamps unavailable - nullable fields
			LastCommit:      nil,
		},
	}
}

// ConvertRunRecords converts schema.RunRecord to AnalysisRun for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []AnalysisRun {
	result := make([]AnalysisRun, len(records))
	for i, record := range records {
		var errorMessage *string
		if record.Error != "" {
			msg := record.Error
			errorMessage = &msg
		}
		result[i] = AnalysisRun{
			RunID:           record.ID,
			Repository:      record.Repository,
			Status:          string(record.State),
			StartedAt:       record.StartedAt,
			CompletedAt:     record.CompletedAt,
			CommitsAnalyzed: int32(record.CommitsAnalyzed),
			ErrorMessage:    errorMessage,
		}
	}
	return result
}

// ConvertContributorStatsRows converts schema.ContributorStatsRow to ContributorStats for Parquet export.
func ConvertContributorStatsRows(rows []schema.ContributorStatsRow) []ContributorStats {
	result := make([]ContributorStats, len(rows))
	for i, row := range rows {
		result[i] = ContributorStats{
			Repository:      row.Repository,
			Email:           row.Email,
			Name:            row.Name,
			Commits:         int32(row.Commits),
			LinesAdded:      int32(row.LinesAdded),
			LinesRemoved:    int32(row.LinesRemoved),
			FilesChanged:    int32(row.FilesChanged),
			PRs:             int32(row.PRs),
			BranchesTouched: int32(row.BranchesTouched),
			QualityScore:    row.QualityScore,
			ImpactScore:     row.ImpactScore,
			CommitFrequency: row.CommitFrequency,
			Rank:            int32(row.Rank),
			FirstCommit:     row.FirstCommit,
			LastCommit:      row.LastCommit,
		}
	}
	return result
}
