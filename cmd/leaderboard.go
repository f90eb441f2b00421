package cmd

import (
	"time"

	"github.com/nikolareljin/git-pulse/core"
	"github.com/nikolareljin/git-pulse/internal/contract"
	"github.com/spf13/cobra"
)

// leaderboardCmd ranks contributors by impact score.
var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard [repository]",
	Short: "Show contributors ranked by impact score.",
	Long: `Rank contributors by impact score, either for one repository or across
every analyzed repository.

Impact blends commit volume, lines changed, average quality, cadence
consistency, and merge activity. Merged identities collapse into their
primary contributor, with per-alias rows weighted by commit count.

Examples:
  # Global leaderboard across all analyzed repositories
  gitpulse leaderboard

  # Leaderboard for one repository
  gitpulse leaderboard payments-service

  # Top 5 as JSON
  gitpulse leaderboard --limit 5 --output json

  # Export to CSV for tracking
  gitpulse leaderboard --output csv --output-file leaderboard.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		repository := ""
		if len(args) == 1 {
			repository = args[0]
		}

		start := time.Now()
		resolver := core.NewIdentityResolver(analysisStore)
		entries, err := core.GetLeaderboard(analysisStore, resolver, repository, cfg.ResultLimit)
		if err != nil {
			contract.LogFatal("Cannot build leaderboard", err)
		}

		if err := writer.WriteLeaderboard(entries, cfg, time.Since(start)); err != nil {
			contract.LogFatal("Cannot write leaderboard", err)
		}
	},
}
