package store

import (
	"errors"
	"fmt"

	"github.com/nikolareljin/git-pulse/internal/contract"
	"github.com/nikolareljin/git-pulse/internal/parquet"
)

// ExecuteExport writes the stored analysis runs and contributor stats to
// Parquet files next to the requested output path.
func ExecuteExport(store contract.AnalysisStore, outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}

	if status.TotalRuns == 0 {
		return errors.New("no analysis data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total analysis runs: %d\n", status.TotalRuns)
	fmt.Printf("Total contributor stats: %d\n", status.TableRowCounts[contributorStatsTable])

	// Retrieve all analysis runs
	runs, err := store.RecentRuns(status.TotalRuns)
	if err != nil {
		return fmt.Errorf("failed to retrieve analysis runs: %w", err)
	}

	// Retrieve all contributor stats
	stats, err := store.AllStats()
	if err != nil {
		return fmt.Errorf("failed to retrieve contributor stats: %w", err)
	}

	// Convert to Parquet format
	parquetRuns := parquet.ConvertRunRecords(runs)
	parquetStats := parquet.ConvertContributorStatsRows(stats)

	// Write analysis runs to Parquet
	runsFile := outputFile + ".analysis_runs.parquet"
	if err := parquet.WriteAnalysisRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write analysis runs: %w", err)
	}
	fmt.Printf("Exported %d analysis runs to: %s\n", len(parquetRuns), runsFile)

	// Write contributor stats to Parquet
	statsFile := outputFile + ".contributor_stats.parquet"
	if err := parquet.WriteContributorStatsParquet(parquetStats, statsFile); err != nil {
		return fmt.Errorf("failed to write contributor stats: %w", err)
	}
	fmt.Printf("Exported %d contributor stat rows to: %s\n", len(parquetStats), statsFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Apache Arrow")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
