package cmd

import (
	"github.com/nikolareljin/git-pulse/internal/contract"
	"github.com/spf13/cobra"
)

// runsCmd lists recent analysis runs.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show recent analysis runs and their status.",
	Long: `List the most recent analysis runs, newest first.

Each row shows the run's repository, status (pending, running, completed,
failed), commit count, and timing. Failed runs include a truncated cause.

Examples:
  # Last 20 runs
  gitpulse runs

  # Last 5 runs as JSON
  gitpulse runs --limit 5 --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runs, err := analysisStore.RecentRuns(cfg.ResultLimit)
		if err != nil {
			contract.LogFatal("Cannot list runs", err)
		}
		if err := writer.WriteRuns(runs, cfg); err != nil {
			contract.LogFatal("Cannot write runs", err)
		}
	},
}
