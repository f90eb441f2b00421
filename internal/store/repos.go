package store

import (
	"fmt"

	"github.com/nikolareljin/git-pulse/schema"
)

// UpsertRepository inserts or refreshes a repository row keyed by name.
func (s *Store) UpsertRepository(repo schema.RepositoryRecord) error {
	if s.disabled() {
		return nil
	}

	quotedTableName := s.table(repositoriesTable)
	args := []any{
		repo.Name, repo.Path, repo.URL, repo.DefaultBranch,
		repo.TotalCommits, repo.TotalContributors, repo.TotalBranches,
		s.formatNullableTime(repo.LastAnalyzed),
	}

	var query string
	switch s.backend {
	case schema.MySQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (name, path, url, default_branch, total_commits, total_contributors, total_branches, last_analyzed)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE path = new.path, url = new.url, default_branch = new.default_branch,
				total_commits = new.total_commits, total_contributors = new.total_contributors,
				total_branches = new.total_branches, last_analyzed = new.last_analyzed`, quotedTableName)

	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (name, path, url, default_branch, total_commits, total_contributors, total_branches, last_analyzed)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (name) DO UPDATE SET path = EXCLUDED.path, url = EXCLUDED.url, default_branch = EXCLUDED.default_branch,
				total_commits = EXCLUDED.total_commits, total_contributors = EXCLUDED.total_contributors,
				total_branches = EXCLUDED.total_branches, last_analyzed = EXCLUDED.last_analyzed`, quotedTableName)

	default: // SQLite
		query = fmt.Sprintf(`INSERT INTO %s (name, path, url, default_branch, total_commits, total_contributors, total_branches, last_analyzed)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (name) DO UPDATE SET path = excluded.path, url = excluded.url, default_branch = excluded.default_branch,
				total_commits = excluded.total_commits, total_contributors = excluded.total_contributors,
				total_branches = excluded.total_branches, last_analyzed = excluded.last_analyzed`, quotedTableName)
	}

	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to upsert repository %s: %w", repo.Name, err)
	}
	return nil
}

// repositoryColumns is the SELECT list shared by every repository query.
const repositoryColumns = "id, name, path, url, default_branch, total_commits, total_contributors, total_branches, last_analyzed"

// Repositories returns every analyzed repository, ordered by name.
func (s *Store) Repositories() ([]schema.RepositoryRecord, error) {
	if s.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY name`, repositoryColumns, s.table(repositoriesTable))
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query repositories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RepositoryRecord
	for rows.Next() {
		record, err := scanRepository(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan repository: %w", err)
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating repositories: %w", err)
	}

	return results, nil
}

// RepositoryByName returns a single repository row.
func (s *Store) RepositoryByName(name string) (schema.RepositoryRecord, error) {
	if s.disabled() {
		return schema.RepositoryRecord{}, fmt.Errorf("repository %s not found: store is disabled", name)
	}

	query := s.rebind(fmt.Sprintf(`SELECT %s FROM %s WHERE name = ?`, repositoryColumns, s.table(repositoriesTable)))
	record, err := scanRepository(s.db.QueryRow(query, name))
	if err != nil {
		return schema.RepositoryRecord{}, fmt.Errorf("failed to load repository %s: %w", name, err)
	}
	return record, nil
}

func scanRepository(row rowScanner) (schema.RepositoryRecord, error) {
	var record schema.RepositoryRecord
	var lastAnalyzed nullTime

	if err := row.Scan(&record.ID, &record.Name, &record.Path, &record.URL, &record.DefaultBranch,
		&record.TotalCommits, &record.TotalContributors, &record.TotalBranches, &lastAnalyzed); err != nil {
		return schema.RepositoryRecord{}, err
	}

	record.LastAnalyzed = lastAnalyzed.ptr()
	return record, nil
}
