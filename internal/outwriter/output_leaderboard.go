package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nikolareljin/git-pulse/internal/contract"
	"github.com/nikolareljin/git-pulse/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// writeLeaderboardResults outputs the leaderboard, dispatching based on the
// output format configured.
func writeLeaderboardResults(entries []schema.LeaderboardEntry, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, entries)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeLeaderboardCSV(w, entries)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeLeaderboardTable(w, entries, cfg, duration)
		}, "Wrote table")
	}
}

// writeLeaderboardCSV writes one row per leaderboard entry.
func writeLeaderboardCSV(w io.Writer, entries []schema.LeaderboardEntry) error {
	header := []string{"rank", "email", "name", "commits", "lines_changed", "prs", "quality_score", "impact_score", "merged_count"}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, e := range entries {
			record := []string{
				strconv.Itoa(e.Rank),
				e.Email,
				e.Name,
				strconv.Itoa(e.Commits),
				strconv.Itoa(e.LinesChanged),
				strconv.Itoa(e.PRs),
				fmt.Sprintf("%.2f", e.QualityScore),
				fmt.Sprintf("%.2f", e.ImpactScore),
				strconv.Itoa(e.MergedCount),
			}
			if err := csvWriter.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}

// writeLeaderboardTable generates and writes the human-readable table.
func writeLeaderboardTable(w io.Writer, entries []schema.LeaderboardEntry, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Contributor", "Email", "Commits", "Lines", "PRs", "Quality", "Impact", "Merged"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxTableNameWidth(cfg)
	var data [][]string
	for _, e := range entries {
		merged := "-"
		if e.MergedCount > 0 {
			merged = fmt.Sprintf("+%d", e.MergedCount)
		}
		data = append(data, []string{
			strconv.Itoa(e.Rank),
			contract.TruncatePath(e.Name, nameWidth),
			contract.TruncatePath(e.Email, nameWidth),
			strconv.Itoa(e.Commits),
			strconv.Itoa(e.LinesChanged),
			strconv.Itoa(e.PRs),
			fmt.Sprintf("%.2f", e.QualityScore),
			contract.GetColorScore(e.ImpactScore),
			merged,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	totalCommits := 0
	for _, e := range entries {
		totalCommits += e.Commits
	}
	fmt.Fprintf(w, "%d contributors, %d commits. Completed in %v.\n", len(entries), totalCommits, duration.Round(time.Millisecond))
	return nil
}
