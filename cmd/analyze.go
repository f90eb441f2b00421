package cmd

import (
	"github.com/nikolareljin/git-pulse/core"
	"github.com/nikolareljin/git-pulse/internal/contract"
	"github.com/nikolareljin/git-pulse/schema"
	"github.com/spf13/cobra"
)

// analyzeCmd runs the full ingestion and scoring pipeline.
var analyzeCmd = &cobra.Command{
	Use:   "analyze [repo-path]",
	Short: "Analyze a repository and store contributor quality scores.",
	Long: `Walk a repository's commit history and score every commit.

Each commit gets six heuristic sub-scores (message, complexity, documentation,
test coverage, consistency, best practices) blended into one quality score.
A sample of commits is optionally re-scored by a local Ollama model, and the
model verdict is blended with the heuristics.

Results persist in the analysis store and feed the leaderboard and scores
commands.

Examples:
  # Analyze the current directory
  gitpulse analyze

  # Analyze a specific repository
  gitpulse analyze ~/src/payments-service

  # Analyze every repository under the repos directory
  gitpulse analyze --all --repos-dir ~/src

  # Skip model augmentation and keep heuristic scores
  gitpulse analyze --no-llm

  # Tighten the ingestion budget for a quick pass
  gitpulse analyze --max-commits 500 --sample-size 10`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: analyzeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		augmenter := core.NewAugmenter(cfg)

		var outputs []*schema.AnalysisOutput
		if cfg.AllRepos {
			results, err := core.AnalyzeAll(rootCtx, cfg, gitSource, augmenter, analysisStore)
			if err != nil {
				contract.LogFatal("Cannot analyze repositories", err)
			}
			outputs = results
		} else {
			result, err := core.AnalyzeRepository(rootCtx, cfg, gitSource, augmenter, analysisStore)
			if err != nil {
				contract.LogFatal("Cannot analyze repository", err)
			}
			outputs = []*schema.AnalysisOutput{result}
		}

		if err := writer.WriteAnalysisSummaries(outputs, cfg); err != nil {
			contract.LogFatal("Cannot write analysis summary", err)
		}
	},
}
