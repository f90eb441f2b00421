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

// writeRepositoryScoreResults outputs one repository score card, dispatching
// based on the output format configured.
func writeRepositoryScoreResults(score schema.RepositoryScore, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, score)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRepositoryScoreCSV(w, []schema.RepositoryScore{score})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			writeRepositoryScoreCard(w, score)
			return nil
		}, "Wrote score card")
	}
}

// writeGlobalScoreResults outputs the portfolio score card, dispatching based
// on the output format configured.
func writeGlobalScoreResults(score schema.GlobalScore, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, score)
		}, "Wrote JSON")
	case schema.CSVOut:
		// The per-repository rows carry the detail; the portfolio header
		// is a text/JSON concern.
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRepositoryScoreCSV(w, score.Repositories)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeGlobalScoreCard(w, score)
		}, "Wrote score card")
	}
}

// writeRepositoryScoreCSV writes one row per repository score.
func writeRepositoryScoreCSV(w io.Writer, scores []schema.RepositoryScore) error {
	header := []string{
		"name", "grade", "overall", "activity", "health", "quality", "collaboration",
		"commits", "contributors", "branches", "prs", "commits_30d", "active_30d",
	}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, s := range scores {
			record := []string{
				s.Name,
				s.Grade,
				fmt.Sprintf("%.1f", s.Overall),
				fmt.Sprintf("%.1f", s.Activity),
				fmt.Sprintf("%.1f", s.Health),
				fmt.Sprintf("%.1f", s.Quality),
				fmt.Sprintf("%.1f", s.Collaboration),
				strconv.Itoa(s.TotalCommits),
				strconv.Itoa(s.TotalContributors),
				strconv.Itoa(s.TotalBranches),
				strconv.Itoa(s.TotalPRs),
				strconv.Itoa(s.CommitsLast30Days),
				strconv.Itoa(s.ActiveLast30Days),
			}
			if err := csvWriter.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}

// writeRepositoryScoreCard prints the human-readable score card.
func writeRepositoryScoreCard(w io.Writer, s schema.RepositoryScore) {
	fmt.Fprintf(w, "Repository: %s\n", s.Name)
	fmt.Fprintf(w, "Grade: %s (overall %s)\n\n", contract.GetColorGrade(s.Grade), contract.GetColorScore(s.Overall))

	fmt.Fprintf(w, "  Activity:      %s\n", contract.GetColorScore(s.Activity))
	fmt.Fprintf(w, "  Health:        %s\n", contract.GetColorScore(s.Health))
	fmt.Fprintf(w, "  Quality:       %s\n", contract.GetColorScore(s.Quality))
	fmt.Fprintf(w, "  Collaboration: %s\n\n", contract.GetColorScore(s.Collaboration))

	fmt.Fprintf(w, "  Commits: %d (last 30 days: %d, last 90 days: %d)\n", s.TotalCommits, s.CommitsLast30Days, s.CommitsLast90Days)
	fmt.Fprintf(w, "  Contributors: %d (active last 30 days: %d)\n", s.TotalContributors, s.ActiveLast30Days)
	fmt.Fprintf(w, "  Branches: %d, PRs: %d\n", s.TotalBranches, s.TotalPRs)
	fmt.Fprintf(w, "  Lines: +%d -%d\n", s.TotalLinesAdded, s.TotalLinesRemoved)
	fmt.Fprintf(w, "  History: %s to %s\n", formatDatePtr(s.FirstCommit), formatDatePtr(s.LastCommit))
}

// writeGlobalScoreCard prints the portfolio header plus one table row per
// repository.
func writeGlobalScoreCard(w io.Writer, g schema.GlobalScore) error {
	fmt.Fprintf(w, "Portfolio: %d repositories\n", g.TotalRepositories)
	fmt.Fprintf(w, "Grade: %s (overall %s)\n\n", contract.GetColorGrade(g.Grade), contract.GetColorScore(g.Overall))

	fmt.Fprintf(w, "  Activity:  %s\n", contract.GetColorScore(g.Activity))
	fmt.Fprintf(w, "  Health:    %s\n", contract.GetColorScore(g.Health))
	fmt.Fprintf(w, "  Quality:   %s\n", contract.GetColorScore(g.Quality))
	fmt.Fprintf(w, "  Diversity: %s\n\n", contract.GetColorScore(g.Diversity))

	fmt.Fprintf(w, "  Commits: %d (last 30 days: %d), contributors: %d, PRs: %d\n",
		g.TotalCommits, g.Commits30Days, g.TotalContributors, g.TotalPRs)
	fmt.Fprintf(w, "  Averages per repository: %.2f commits, %.2f contributors\n\n",
		g.AvgCommitsPerRepo, g.AvgContributorsPerRepo)

	if len(g.Repositories) == 0 {
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Repository", "Grade", "Overall", "Activity", "Health", "Quality", "Collab"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, s := range g.Repositories {
		data = append(data, []string{
			s.Name,
			contract.GetColorGrade(s.Grade),
			contract.GetColorScore(s.Overall),
			fmt.Sprintf("%.1f", s.Activity),
			fmt.Sprintf("%.1f", s.Health),
			fmt.Sprintf("%.1f", s.Quality),
			fmt.Sprintf("%.1f", s.Collaboration),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
