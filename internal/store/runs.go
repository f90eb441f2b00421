package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/nikolareljin/git-pulse/schema"
)

// BeginRun creates a pending analysis run and returns its unique ID.
func (s *Store) BeginRun(repository string) (int64, error) {
	if s.disabled() {
		return 0, nil
	}

	var runID int64
	var err error

	switch s.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (repository, status) VALUES ($1, $2) RETURNING id`, s.table(analysisRunsTable))
		err = s.db.QueryRow(query, repository, string(schema.RunPending)).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (repository, status) VALUES (?, ?)`, s.table(analysisRunsTable))
		var result sql.Result
		result, err = s.db.Exec(query, repository, string(schema.RunPending))
		if err != nil {
			return 0, fmt.Errorf("failed to insert analysis run: %w", err)
		}
		runID, err = result.LastInsertId()
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert analysis run: %w", err)
	}

	return runID, nil
}

// MarkRunRunning transitions a run to the running state.
func (s *Store) MarkRunRunning(runID int64, startedAt time.Time) error {
	if s.disabled() {
		return nil
	}

	query := s.rebind(fmt.Sprintf(`UPDATE %s SET status = ?, started_at = ? WHERE id = ?`, s.table(analysisRunsTable)))
	if _, err := s.db.Exec(query, string(schema.RunRunning), s.formatTime(startedAt), runID); err != nil {
		return fmt.Errorf("failed to mark run %d running: %w", runID, err)
	}
	return nil
}

// UpdateRunProgress records how many commits the run has processed so far.
func (s *Store) UpdateRunProgress(runID int64, commitsAnalyzed int) error {
	if s.disabled() {
		return nil
	}

	query := s.rebind(fmt.Sprintf(`UPDATE %s SET commits_analyzed = ? WHERE id = ?`, s.table(analysisRunsTable)))
	if _, err := s.db.Exec(query, commitsAnalyzed, runID); err != nil {
		return fmt.Errorf("failed to update progress for run %d: %w", runID, err)
	}
	return nil
}

// CompleteRun transitions a run to the completed state.
func (s *Store) CompleteRun(runID int64, completedAt time.Time, commitsAnalyzed int) error {
	if s.disabled() {
		return nil
	}

	query := s.rebind(fmt.Sprintf(
		`UPDATE %s SET status = ?, completed_at = ?, commits_analyzed = ? WHERE id = ?`,
		s.table(analysisRunsTable)))
	if _, err := s.db.Exec(query, string(schema.RunCompleted), s.formatTime(completedAt), commitsAnalyzed, runID); err != nil {
		return fmt.Errorf("failed to complete run %d: %w", runID, err)
	}
	return nil
}

// FailRun transitions a run to the failed state with a cause.
func (s *Store) FailRun(runID int64, completedAt time.Time, cause string) error {
	if s.disabled() {
		return nil
	}

	query := s.rebind(fmt.Sprintf(
		`UPDATE %s SET status = ?, completed_at = ?, error_message = ? WHERE id = ?`,
		s.table(analysisRunsTable)))
	if _, err := s.db.Exec(query, string(schema.RunFailed), s.formatTime(completedAt), cause, runID); err != nil {
		return fmt.Errorf("failed to fail run %d: %w", runID, err)
	}
	return nil
}

// runColumns is the SELECT list shared by every run query.
const runColumns = "id, repository, status, started_at, completed_at, commits_analyzed, error_message"

// RunByID returns a single run.
func (s *Store) RunByID(runID int64) (schema.RunRecord, error) {
	if s.disabled() {
		return schema.RunRecord{}, fmt.Errorf("run %d not found: store is disabled", runID)
	}

	query := s.rebind(fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, runColumns, s.table(analysisRunsTable)))
	record, err := scanRun(s.db.QueryRow(query, runID))
	if err != nil {
		return schema.RunRecord{}, fmt.Errorf("failed to load run %d: %w", runID, err)
	}
	return record, nil
}

// RecentRuns returns the most recent runs, newest first.
func (s *Store) RecentRuns(limit int) ([]schema.RunRecord, error) {
	if s.disabled() {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}

	query := s.rebind(fmt.Sprintf(`SELECT %s FROM %s ORDER BY id DESC LIMIT ?`, runColumns, s.table(analysisRunsTable)))
	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		record, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis run: %w", err)
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analysis runs: %w", err)
	}

	return results, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (schema.RunRecord, error) {
	var record schema.RunRecord
	var state string
	var repository, errorMessage sql.NullString
	var startedAt, completedAt nullTime

	if err := row.Scan(&record.ID, &repository, &state, &startedAt, &completedAt, &record.CommitsAnalyzed, &errorMessage); err != nil {
		return schema.RunRecord{}, err
	}

	record.Repository = repository.String
	record.State = schema.RunState(state)
	record.StartedAt = startedAt.ptr()
	record.CompletedAt = completedAt.ptr()
	record.Error = errorMessage.String
	return record, nil
}
