package store

import (
	"database/sql"
	"fmt"

	"github.com/nikolareljin/git-pulse/schema"
)

// SaveCommits stores commit rows with their quality scores, replacing any
// prior rows for the same repository. Contributor identities observed in the
// batch are upserted alongside.
func (s *Store) SaveCommits(repository string, commits []schema.CommitRecord, quality map[string]schema.QualityScores) error {
	if s.disabled() {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	deleteQuery := s.rebind(fmt.Sprintf(`DELETE FROM %s WHERE repository = ?`, s.table(commitsTable)))
	if _, err := tx.Exec(deleteQuery, repository); err != nil {
		return fmt.Errorf("failed to clear prior commits for %s: %w", repository, err)
	}

	insertQuery := s.rebind(fmt.Sprintf(`INSERT INTO %s
		(repository, sha, author_name, author_email, message, committed_at, branch,
		 lines_added, lines_removed, files_changed, is_merge, is_pr, quality_overall, message_score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, s.table(commitsTable)))
	insertStmt, err := tx.Prepare(insertQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare commit insert: %w", err)
	}
	defer func() { _ = insertStmt.Close() }()

	upsertStmt, err := tx.Prepare(s.contributorUpsertQuery())
	if err != nil {
		return fmt.Errorf("failed to prepare contributor upsert: %w", err)
	}
	defer func() { _ = upsertStmt.Close() }()

	for _, commit := range commits {
		var overall, msgScore any
		if q, ok := quality[commit.SHA]; ok {
			overall = q.Overall
			msgScore = q.Message
		}

		if _, err := insertStmt.Exec(
			repository, commit.SHA, commit.AuthorName, commit.AuthorEmail,
			truncateMessage(commit.Message), s.formatTime(commit.CommittedAt), commit.Branch,
			commit.LinesAdded, commit.LinesRemoved, commit.FilesChanged,
			commit.IsMerge, commit.IsPR, overall, msgScore,
		); err != nil {
			return fmt.Errorf("failed to insert commit %s: %w", commit.SHA, err)
		}

		if commit.AuthorEmail == "" {
			continue
		}
		seen := s.formatTime(commit.CommittedAt)
		if _, err := upsertStmt.Exec(commit.AuthorEmail, commit.AuthorName, seen, seen); err != nil {
			return fmt.Errorf("failed to upsert contributor %s: %w", commit.AuthorEmail, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// contributorUpsertQuery widens the seen window of a known contributor and
// refreshes the display name.
func (s *Store) contributorUpsertQuery() string {
	quotedTableName := s.table(contributorsTable)
	switch s.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (email, name, first_seen, last_seen) VALUES (?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE name = new.name,
				first_seen = LEAST(first_seen, new.first_seen),
				last_seen = GREATEST(last_seen, new.last_seen)`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (email, name, first_seen, last_seen) VALUES ($1, $2, $3, $4)
			ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name,
				first_seen = LEAST(%s.first_seen, EXCLUDED.first_seen),
				last_seen = GREATEST(%s.last_seen, EXCLUDED.last_seen)`, quotedTableName, quotedTableName, quotedTableName)

	default: // SQLite, RFC3339 text compares chronologically
		return fmt.Sprintf(`INSERT INTO %s (email, name, first_seen, last_seen) VALUES (?, ?, ?, ?)
			ON CONFLICT (email) DO UPDATE SET name = excluded.name,
				first_seen = MIN(first_seen, excluded.first_seen),
				last_seen = MAX(last_seen, excluded.last_seen)`, quotedTableName)
	}
}

// truncateMessage bounds a commit message to the storage limit.
func truncateMessage(message string) string {
	if len(message) > commitMessageLimit {
		return message[:commitMessageLimit]
	}
	return message
}

// CommitFacts returns the per-commit facts needed for score computation.
func (s *Store) CommitFacts(repository string) ([]schema.CommitFacts, error) {
	if s.disabled() {
		return nil, nil
	}

	query := s.rebind(fmt.Sprintf(
		`SELECT sha, author_email, committed_at, lines_added, lines_removed, is_pr, message_score
		 FROM %s WHERE repository = ? ORDER BY committed_at`, s.table(commitsTable)))
	rows, err := s.db.Query(query, repository)
	if err != nil {
		return nil, fmt.Errorf("failed to query commits for %s: %w", repository, err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.CommitFacts
	for rows.Next() {
		var fact schema.CommitFacts
		var authorEmail sql.NullString
		var committedAt nullTime
		var messageScore sql.NullFloat64

		if err := rows.Scan(&fact.SHA, &authorEmail, &committedAt, &fact.LinesAdded, &fact.LinesRemoved, &fact.IsPR, &messageScore); err != nil {
			return nil, fmt.Errorf("failed to scan commit: %w", err)
		}

		fact.AuthorEmail = authorEmail.String
		fact.CommittedAt = committedAt.t
		fact.MessageScore = messageScore.Float64
		results = append(results, fact)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating commits: %w", err)
	}

	return results, nil
}
