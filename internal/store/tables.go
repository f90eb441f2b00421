package store

import (
	"database/sql"
	"fmt"

	"github.com/nikolareljin/git-pulse/schema"
)

// allTables lists every table the store owns, in creation order.
var allTables = []string{
	repositoriesTable,
	contributorsTable,
	commitsTable,
	contributorStatsTable,
	analysisRunsTable,
	contributorMergeTable,
}

// createTables creates the analysis persistence tables.
func createTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{repositoriesTable, getCreateRepositoriesQuery(backend)},
		{contributorsTable, getCreateContributorsQuery(backend)},
		{commitsTable, getCreateCommitsQuery(backend)},
		{contributorStatsTable, getCreateContributorStatsQuery(backend)},
		{analysisRunsTable, getCreateAnalysisRunsQuery(backend)},
		{contributorMergeTable, getCreateContributorMergesQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}

	return nil
}

// getCreateRepositoriesQuery returns the CREATE TABLE query for gitpulse_repositories.
func getCreateRepositoriesQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(repositoriesTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGINT AUTO_INCREMENT PRIMARY KEY,
				name VARCHAR(255) NOT NULL UNIQUE,
				path VARCHAR(512) NOT NULL,
				url VARCHAR(512),
				default_branch VARCHAR(255),
				total_commits INT NOT NULL DEFAULT 0,
				total_contributors INT NOT NULL DEFAULT 0,
				total_branches INT NOT NULL DEFAULT 0,
				last_analyzed DATETIME(6)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				name TEXT NOT NULL UNIQUE,
				path TEXT NOT NULL,
				url TEXT,
				default_branch TEXT,
				total_commits INT NOT NULL DEFAULT 0,
				total_contributors INT NOT NULL DEFAULT 0,
				total_branches INT NOT NULL DEFAULT 0,
				last_analyzed TIMESTAMPTZ
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL UNIQUE,
				path TEXT NOT NULL,
				url TEXT,
				default_branch TEXT,
				total_commits INTEGER NOT NULL DEFAULT 0,
				total_contributors INTEGER NOT NULL DEFAULT 0,
				total_branches INTEGER NOT NULL DEFAULT 0,
				last_analyzed TEXT
			);
		`, quotedTableName)
	}
}

// getCreateContributorsQuery returns the CREATE TABLE query for gitpulse_contributors.
func getCreateContributorsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(contributorsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				email VARCHAR(255) PRIMARY KEY,
				name VARCHAR(255),
				first_seen DATETIME(6),
				last_seen DATETIME(6)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				email TEXT PRIMARY KEY,
				name TEXT,
				first_seen TIMESTAMPTZ,
				last_seen TIMESTAMPTZ
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				email TEXT PRIMARY KEY,
				name TEXT,
				first_seen TEXT,
				last_seen TEXT
			);
		`, quotedTableName)
	}
}

// getCreateCommitsQuery returns the CREATE TABLE query for gitpulse_commits.
func getCreateCommitsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(commitsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				repository VARCHAR(255) NOT NULL,
				sha VARCHAR(64) NOT NULL,
				author_name VARCHAR(255),
				author_email VARCHAR(255),
				message TEXT,
				committed_at DATETIME(6) NOT NULL,
				branch VARCHAR(255),
				lines_added INT NOT NULL,
				lines_removed INT NOT NULL,
				files_changed INT NOT NULL,
				is_merge BOOLEAN NOT NULL,
				is_pr BOOLEAN NOT NULL,
				quality_overall DOUBLE,
				message_score DOUBLE,
				PRIMARY KEY (repository, sha)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				repository TEXT NOT NULL,
				sha TEXT NOT NULL,
				author_name TEXT,
				author_email TEXT,
				message TEXT,
				committed_at TIMESTAMPTZ NOT NULL,
				branch TEXT,
				lines_added INT NOT NULL,
				lines_removed INT NOT NULL,
				files_changed INT NOT NULL,
				is_merge BOOLEAN NOT NULL,
				is_pr BOOLEAN NOT NULL,
				quality_overall DOUBLE PRECISION,
				message_score DOUBLE PRECISION,
				PRIMARY KEY (repository, sha)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				repository TEXT NOT NULL,
				sha TEXT NOT NULL,
				author_name TEXT,
				author_email TEXT,
				message TEXT,
				committed_at TEXT NOT NULL,
				branch TEXT,
				lines_added INTEGER NOT NULL,
				lines_removed INTEGER NOT NULL,
				files_changed INTEGER NOT NULL,
				is_merge INTEGER NOT NULL,
				is_pr INTEGER NOT NULL,
				quality_overall REAL,
				message_score REAL,
				PRIMARY KEY (repository, sha)
			);
		`, quotedTableName)
	}
}

// getCreateContributorStatsQuery returns the CREATE TABLE query for gitpulse_contributor_stats.
func getCreateContributorStatsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(contributorStatsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				repository VARCHAR(255) NOT NULL,
				email VARCHAR(255) NOT NULL,
				name VARCHAR(255),
				commits INT NOT NULL,
				lines_added INT NOT NULL,
				lines_removed INT NOT NULL,
				files_changed INT NOT NULL,
				prs INT NOT NULL,
				branches_touched INT NOT NULL,
				quality_score DOUBLE NOT NULL,
				impact_score DOUBLE NOT NULL,
				commit_frequency DOUBLE NOT NULL,
				contributor_rank INT NOT NULL,
				first_commit DATETIME(6),
				last_commit DATETIME(6),
				PRIMARY KEY (repository, email)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				repository TEXT NOT NULL,
				email TEXT NOT NULL,
				name TEXT,
				commits INT NOT NULL,
				lines_added INT NOT NULL,
				lines_removed INT NOT NULL,
				files_changed INT NOT NULL,
				prs INT NOT NULL,
				branches_touched INT NOT NULL,
				quality_score DOUBLE PRECISION NOT NULL,
				impact_score DOUBLE PRECISION NOT NULL,
				commit_frequency DOUBLE PRECISION NOT NULL,
				contributor_rank INT NOT NULL,
				first_commit TIMESTAMPTZ,
				last_commit TIMESTAMPTZ,
				PRIMARY KEY (repository, email)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				repository TEXT NOT NULL,
				email TEXT NOT NULL,
				name TEXT,
				commits INTEGER NOT NULL,
				lines_added INTEGER NOT NULL,
				lines_removed INTEGER NOT NULL,
				files_changed INTEGER NOT NULL,
				prs INTEGER NOT NULL,
				branches_touched INTEGER NOT NULL,
				quality_score REAL NOT NULL,
				impact_score REAL NOT NULL,
				commit_frequency REAL NOT NULL,
				contributor_rank INTEGER NOT NULL,
				first_commit TEXT,
				last_commit TEXT,
				PRIMARY KEY (repository, email)
			);
		`, quotedTableName)
	}
}

// getCreateAnalysisRunsQuery returns the CREATE TABLE query for gitpulse_analysis_runs.
func getCreateAnalysisRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(analysisRunsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGINT AUTO_INCREMENT PRIMARY KEY,
				repository VARCHAR(255),
				status VARCHAR(20) NOT NULL,
				started_at DATETIME(6),
				completed_at DATETIME(6),
				commits_analyzed INT NOT NULL DEFAULT 0,
				error_message TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				repository TEXT,
				status TEXT NOT NULL,
				started_at TIMESTAMPTZ,
				completed_at TIMESTAMPTZ,
				commits_analyzed INT NOT NULL DEFAULT 0,
				error_message TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				repository TEXT,
				status TEXT NOT NULL,
				started_at TEXT,
				completed_at TEXT,
				commits_analyzed INTEGER NOT NULL DEFAULT 0,
				error_message TEXT
			);
		`, quotedTableName)
	}
}

// getCreateContributorMergesQuery returns the CREATE TABLE query for gitpulse_contributor_merges.
func getCreateContributorMergesQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(contributorMergeTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				merged_email VARCHAR(255) PRIMARY KEY,
				primary_email VARCHAR(255) NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				merged_email TEXT PRIMARY KEY,
				primary_email TEXT NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				merged_email TEXT PRIMARY KEY,
				primary_email TEXT NOT NULL
			);
		`, quotedTableName)
	}
}
