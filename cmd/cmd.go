// Package cmd defines the command-line interface for gitpulse.
package cmd

import (
	"github.com/nikolareljin/git-pulse/internal/contract"
	"github.com/nikolareljin/git-pulse/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(identityCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the scores subcommands to the parent scores command
	scoresCmd.AddCommand(scoresRepoCmd)
	scoresCmd.AddCommand(scoresGlobalCmd)

	// Add the identity subcommands to the parent identity command
	identityCmd.AddCommand(identityMergeCmd)
	identityCmd.AddCommand(identityUnmergeCmd)
	identityCmd.AddCommand(identityListCmd)

	// Add the llm subcommands to the parent llm command
	llmCmd.AddCommand(llmStatusCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeExportCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("repos-dir", contract.DefaultReposDir, "Directory scanned for repositories by discover and analyze --all")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Analysis store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored grades in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("ollama-host", contract.DefaultOllamaHost, "Ollama endpoint used for commit augmentation")
	rootCmd.PersistentFlags().String("ollama-model", contract.DefaultOllamaModel, "Ollama model used for commit augmentation")
	rootCmd.PersistentFlags().String("ollama-timeout", contract.DefaultOllamaTimeout.String(), "Timeout for a single model request")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of analyzeCmd to Viper
	analyzeCmd.Flags().Int("max-commits", contract.DefaultMaxCommits, "Maximum commits to ingest per repository")
	analyzeCmd.Flags().Int("max-diff-bytes", contract.DefaultMaxDiffBytes, "Per-commit diff budget in bytes before truncation")
	analyzeCmd.Flags().Int("sample-size", contract.DefaultSampleSize, "Number of commits submitted for model augmentation")
	analyzeCmd.Flags().Bool("no-llm", false, "Skip model augmentation and keep heuristic scores")
	analyzeCmd.Flags().Bool("all", false, "Analyze every repository under --repos-dir")
	if err := viper.BindPFlags(analyzeCmd.Flags()); err != nil {
		contract.LogFatal("Error binding analyze flags", err)
	}

	// Bind all flags of storeMigrateCmd to Viper
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}
}
