package cmd

import (
	"fmt"
	"strings"

	"github.com/nikolareljin/git-pulse/internal/contract"
	"github.com/nikolareljin/git-pulse/internal/store"
	"github.com/nikolareljin/git-pulse/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeSetup loads minimal configuration needed for store operations.
// This is used by commands that need store access without full shared setup.
func storeSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get store-related config values
	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("store-backend")))
	connStr := viper.GetString("store-db-connect")

	// Basic validation for database backends
	if _, ok := schema.ValidBackends[backend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Get output-related config values (used by export command)
	outputFile := viper.GetString("output-file")

	// Initialize the store with the loaded config
	s, err := store.New(backend, connStr)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	analysisStore = s

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	cfg.OutputFile = outputFile

	return nil
}

// storeSetupWrapper wraps storeSetup to provide PreRunE for store commands.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup()
}

// storeMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT open the store or create tables,
// allowing migrations to run on a fresh database.
func storeMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get store-related config values
	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("store-backend")))
	connStr := viper.GetString("store-db-connect")

	// Basic validation for database backends
	if _, ok := schema.ValidBackends[backend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetAnalysisDBFilePath()
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr

	return nil
}

// storeMigrateSetupWrapper wraps storeMigrateSetup to provide PreRunE for migrate command.
func storeMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeMigrateSetup()
}

// storeCmd focused on analysis data management.
//
// Note: Store subcommands use minimal initialization (storeSetup) instead of
// the full sharedSetup used by analysis commands. This avoids Git repo
// validation and complex config processing for simple store operations.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage stored analysis data and exports",
	Long: `Manage the analysis store that holds runs, commits, and contributor stats.

Every analyze run stores:
- Run metadata (status, timestamps, commit counts)
- Per-commit quality scores
- Per-contributor rollups and identity merge edges

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show store statistics and connection details
  export  - Export data to Parquet for analytics
  clear   - Remove all stored analysis data
  migrate - Run database schema migrations

Examples:
  # Check store status
  gitpulse store status

  # Export for analysis in pandas/DuckDB
  gitpulse store export --output-file gitpulse-data.parquet`,
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display store statistics and connection details",
	Long: `Show detailed information about the analysis store.

Displays:
- Backend type and connection status
- Total runs, commits, and contributors stored
- Last and oldest analysis run timestamps

Examples:
  # Check store status
  gitpulse store status`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := analysisStore.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		store.PrintStoreStatus(status)
	},
}

// storeExportCmd exports analysis data to Parquet files.
var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored data to Parquet for BI tools and analytics",
	Long: `Export all stored analysis data to Parquet format for analytics tools.

Exports three datasets:
- Analysis runs - metadata about each analysis execution
- Commit scores - per-commit quality sub-scores
- Contributor stats - per-contributor rollups and impact scores

Requires: --output-file parameter

Examples:
  # Export all data
  gitpulse store export --output-file gitpulse-data.parquet

  # Use with DuckDB for analysis
  gitpulse store export --output-file data.parquet
  duckdb -c "SELECT * FROM read_parquet('data.parquet/runs.parquet') LIMIT 10"`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := store.ExecuteExport(analysisStore, cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export analysis data", err)
		}
	},
}

// storeClearCmd clears the stored analysis data.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored analysis data",
	Long: `Delete all stored runs, commit scores, contributor stats, and merge edges.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  gitpulse store export --output-file backup.parquet
  gitpulse store clear`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := analysisStore.Clear(); err != nil {
			contract.LogFatal("Failed to clear analysis data", err)
		}
		fmt.Println("Analysis data cleared successfully.")
	},
}

// storeMigrateCmd runs database migrations for the analysis store.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the analysis store.

By default, migrates to the latest version. Use --target-version for specific
versions.

Examples:
  # Migrate to latest version (default)
  gitpulse store migrate

  # Migrate to specific version
  gitpulse store migrate --target-version 2

  # Rollback to previous version
  gitpulse store migrate --target-version 0`,
	PreRunE: storeMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := store.Migrate(cfg.StoreBackend, cfg.StoreDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
