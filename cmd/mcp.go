package cmd

import (
	"github.com/nikolareljin/git-pulse/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd starts the MCP server over stdio.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI assistant integration.",
	Long: `Start a Model Context Protocol server over stdio.

Exposes analysis as MCP tools so AI assistants can analyze repositories,
query leaderboards and score cards, and manage contributor identities.

Tools:
  analyze_repository      - Run the analysis pipeline on a repository
  contributor_leaderboard - Rank contributors by impact score
  repository_scores       - Score card for one repository
  portfolio_scores        - Portfolio-wide score card
  merge_contributors      - Fold alias identities into a primary
  unmerge_contributors    - Make identities independent again
  analysis_status         - Inspect analysis runs

Examples:
  # Start the server (typically launched by an MCP client)
  gitpulse mcp`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, gitSource, analysisStore)
	},
}
