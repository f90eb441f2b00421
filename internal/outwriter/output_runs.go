package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/nikolareljin/git-pulse/internal/contract"
	"github.com/nikolareljin/git-pulse/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// writeRunResults outputs the run history, dispatching based on the output
// format configured.
func writeRunResults(runs []schema.RunRecord, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, runs)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRunsCSV(w, runs)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRunsTable(w, runs)
		}, "Wrote table")
	}
}

// writeRunsCSV writes one row per analysis run.
func writeRunsCSV(w io.Writer, runs []schema.RunRecord) error {
	header := []string{"id", "repository", "status", "started_at", "completed_at", "commits_analyzed", "error"}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, r := range runs {
			record := []string{
				strconv.FormatInt(r.ID, 10),
				r.Repository,
				string(r.State),
				formatTimePtr(r.StartedAt),
				formatTimePtr(r.CompletedAt),
				strconv.Itoa(r.CommitsAnalyzed),
				r.Error,
			}
			if err := csvWriter.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}

// writeRunsTable generates and writes the human-readable run history.
func writeRunsTable(w io.Writer, runs []schema.RunRecord) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"ID", "Repository", "Status", "Started", "Completed", "Commits"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, r := range runs {
		status := string(r.State)
		if r.State == schema.RunFailed && r.Error != "" {
			status = fmt.Sprintf("%s (%s)", r.State, contract.TruncatePath(r.Error, 40))
		}
		data = append(data, []string{
			strconv.FormatInt(r.ID, 10),
			r.Repository,
			status,
			formatTimePtr(r.StartedAt),
			formatTimePtr(r.CompletedAt),
			strconv.Itoa(r.CommitsAnalyzed),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	fmt.Fprintf(w, "%d runs.\n", len(runs))
	return nil
}

// writeRepositoryResults outputs the registered repositories, dispatching
// based on the output format configured.
func writeRepositoryResults(repos []schema.RepositoryRecord, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, repos)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRepositoriesCSV(w, repos)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRepositoriesTable(w, repos)
		}, "Wrote table")
	}
}

// writeRepositoriesCSV writes one row per repository.
func writeRepositoriesCSV(w io.Writer, repos []schema.RepositoryRecord) error {
	header := []string{"name", "path", "default_branch", "commits", "contributors", "branches", "last_analyzed"}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, r := range repos {
			record := []string{
				r.Name,
				r.Path,
				r.DefaultBranch,
				strconv.Itoa(r.TotalCommits),
				strconv.Itoa(r.TotalContributors),
				strconv.Itoa(r.TotalBranches),
				formatTimePtr(r.LastAnalyzed),
			}
			if err := csvWriter.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}

// writeRepositoriesTable generates and writes the human-readable repository list.
func writeRepositoriesTable(w io.Writer, repos []schema.RepositoryRecord) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Repository", "Branch", "Commits", "Contributors", "Branches", "Last Analyzed"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, r := range repos {
		data = append(data, []string{
			r.Name,
			r.DefaultBranch,
			strconv.Itoa(r.TotalCommits),
			strconv.Itoa(r.TotalContributors),
			strconv.Itoa(r.TotalBranches),
			formatDatePtr(r.LastAnalyzed),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	fmt.Fprintf(w, "%d repositories.\n", len(repos))
	return nil
}
