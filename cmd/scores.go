package cmd

import (
	"time"

	"github.com/nikolareljin/git-pulse/core"
	"github.com/nikolareljin/git-pulse/internal/contract"
	"github.com/spf13/cobra"
)

// scoresCmd groups the score card subcommands.
var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show repository and portfolio score cards",
	Long: `Compute letter-graded score cards from stored analysis data.

A repository card blends activity, health, quality, and collaboration into
one overall score. The global card covers the whole portfolio and swaps
collaboration for repository diversity.

Subcommands:
  repo   - Score card for one repository
  global - Portfolio-wide score card

Examples:
  # Score one repository
  gitpulse scores repo payments-service

  # Score the whole portfolio
  gitpulse scores global`,
}

// scoresRepoCmd prints the score card for one repository.
var scoresRepoCmd = &cobra.Command{
	Use:   "repo <name>",
	Short: "Show the score card for one analyzed repository",
	Long: `Compute a letter-graded score card for a single repository.

The card shows the overall grade plus the four dimension scores:
- Activity: recent and lifetime commit cadence
- Health: freshness, branch spread, and merge activity
- Quality: average commit quality from the last analysis
- Collaboration: contributor count and recent participation

Examples:
  # Text score card
  gitpulse scores repo payments-service

  # Machine-readable card
  gitpulse scores repo payments-service --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		score, err := core.GetRepositoryScore(analysisStore, args[0], time.Now())
		if err != nil {
			contract.LogFatal("Cannot score repository", err)
		}
		if err := writer.WriteRepositoryScore(score, cfg); err != nil {
			contract.LogFatal("Cannot write repository score", err)
		}
	},
}

// scoresGlobalCmd prints the portfolio score card.
var scoresGlobalCmd = &cobra.Command{
	Use:   "global",
	Short: "Show the portfolio-wide score card",
	Long: `Aggregate every analyzed repository into one portfolio score card.

The card shows per-repository grades plus portfolio-level activity, health,
quality, and diversity scores.

Examples:
  # Portfolio overview
  gitpulse scores global

  # Export for reporting
  gitpulse scores global --output csv --output-file portfolio.csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		score, err := core.GetGlobalScore(analysisStore, time.Now())
		if err != nil {
			contract.LogFatal("Cannot score portfolio", err)
		}
		if err := writer.WriteGlobalScore(score, cfg); err != nil {
			contract.LogFatal("Cannot write portfolio score", err)
		}
	},
}
