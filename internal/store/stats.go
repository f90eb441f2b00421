package store

import (
	"database/sql"
	"fmt"

	"github.com/nikolareljin/git-pulse/schema"
)

// ReplaceContributorStats swaps in the latest per-contributor rollups for a
// repository. The swap happens in one transaction so readers never observe a
// half-replaced leaderboard.
func (s *Store) ReplaceContributorStats(repository string, stats []schema.ContributorStatsRow) error {
	if s.disabled() {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	deleteQuery := s.rebind(fmt.Sprintf(`DELETE FROM %s WHERE repository = ?`, s.table(contributorStatsTable)))
	if _, err := tx.Exec(deleteQuery, repository); err != nil {
		return fmt.Errorf("failed to clear prior stats for %s: %w", repository, err)
	}

	insertQuery := s.rebind(fmt.Sprintf(`INSERT INTO %s
		(repository, email, name, commits, lines_added, lines_removed, files_changed,
		 prs, branches_touched, quality_score, impact_score, commit_frequency,
		 contributor_rank, first_commit, last_commit)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, s.table(contributorStatsTable)))
	stmt, err := tx.Prepare(insertQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare stats insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, row := range stats {
		if _, err := stmt.Exec(
			repository, row.Email, row.Name, row.Commits, row.LinesAdded, row.LinesRemoved,
			row.FilesChanged, row.PRs, row.BranchesTouched, row.QualityScore, row.ImpactScore,
			row.CommitFrequency, row.Rank,
			s.formatNullableTime(row.FirstCommit), s.formatNullableTime(row.LastCommit),
		); err != nil {
			return fmt.Errorf("failed to insert stats for %s: %w", row.Email, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// statsColumns is the SELECT list shared by every stats query.
const statsColumns = `repository, email, name, commits, lines_added, lines_removed, files_changed,
	prs, branches_touched, quality_score, impact_score, commit_frequency,
	contributor_rank, first_commit, last_commit`

// StatsForRepository returns contributor rollups for one repository, ranked order.
func (s *Store) StatsForRepository(repository string) ([]schema.ContributorStatsRow, error) {
	if s.disabled() {
		return nil, nil
	}

	query := s.rebind(fmt.Sprintf(`SELECT %s FROM %s WHERE repository = ? ORDER BY contributor_rank`,
		statsColumns, s.table(contributorStatsTable)))
	rows, err := s.db.Query(query, repository)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats for %s: %w", repository, err)
	}
	return collectStats(rows)
}

// AllStats returns contributor rollups across every repository.
func (s *Store) AllStats() ([]schema.ContributorStatsRow, error) {
	if s.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY repository, contributor_rank`,
		statsColumns, s.table(contributorStatsTable))
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query contributor stats: %w", err)
	}
	return collectStats(rows)
}

func collectStats(rows *sql.Rows) ([]schema.ContributorStatsRow, error) {
	defer func() { _ = rows.Close() }()

	var results []schema.ContributorStatsRow
	for rows.Next() {
		var row schema.ContributorStatsRow
		var firstCommit, lastCommit nullTime

		if err := rows.Scan(&row.Repository, &row.Email, &row.Name, &row.Commits, &row.LinesAdded,
			&row.LinesRemoved, &row.FilesChanged, &row.PRs, &row.BranchesTouched,
			&row.QualityScore, &row.ImpactScore, &row.CommitFrequency, &row.Rank,
			&firstCommit, &lastCommit); err != nil {
			return nil, fmt.Errorf("failed to scan contributor stats: %w", err)
		}

		row.FirstCommit = firstCommit.ptr()
		row.LastCommit = lastCommit.ptr()
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contributor stats: %w", err)
	}

	return results, nil
}
