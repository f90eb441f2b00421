package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/nikolareljin/git-pulse/internal/contract"
	"github.com/nikolareljin/git-pulse/schema"
)

// writeAnalysisSummaries outputs the per-repository analyze summaries,
// dispatching based on the output format configured.
func writeAnalysisSummaries(outputs []*schema.AnalysisOutput, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, outputs)
		}, "Wrote JSON")
	default:
		// The summary is a short progress report; CSV adds nothing here.
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			writeAnalysisSummaryText(w, outputs)
			return nil
		}, "Wrote summary")
	}
}

// writeAnalysisSummaryText prints one line per analyzed repository plus the
// top contributors of each.
func writeAnalysisSummaryText(w io.Writer, outputs []*schema.AnalysisOutput) {
	var totalCommits int
	var totalDuration time.Duration

	for _, out := range outputs {
		totalCommits += out.CommitsAnalyzed
		totalDuration += out.Duration

		fmt.Fprintf(w, "✅ %s: %d commits, %d contributors", out.Repository.Name, out.CommitsAnalyzed, len(out.Contributors))
		if out.CommitsSampled > 0 {
			fmt.Fprintf(w, " (augmented %d of %d sampled)", out.Augmented, out.CommitsSampled)
		}
		fmt.Fprintf(w, " in %v\n", out.Duration.Round(time.Millisecond))

		for i, row := range out.Contributors {
			if i >= 3 {
				break
			}
			fmt.Fprintf(w, "   %d. %s <%s> impact %s\n", row.Rank, schema.AbbreviateName(row.Name), row.Email, contract.GetColorScore(row.ImpactScore))
		}
	}

	if len(outputs) > 1 {
		fmt.Fprintf(w, "Analyzed %d repositories, %d commits in %v.\n", len(outputs), totalCommits, totalDuration.Round(time.Millisecond))
	}
}
