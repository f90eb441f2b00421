package store

import (
	"fmt"

	"github.com/nikolareljin/git-pulse/schema"
)

// GetStatus returns status information about the analysis store.
func (s *Store) GetStatus() (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:        string(s.backend),
		Connected:      s.db != nil,
		TableRowCounts: make(map[string]int64),
	}

	if s.disabled() {
		return status, nil
	}

	// Get total runs
	runsQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", s.table(analysisRunsTable))
	if err := s.db.QueryRow(runsQuery).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		// Pending runs have no start time yet, so bound both queries to started ones
		lastRunQuery := fmt.Sprintf(
			"SELECT id, started_at FROM %s WHERE started_at IS NOT NULL ORDER BY id DESC LIMIT 1",
			s.table(analysisRunsTable))
		var startedAt nullTime
		err := s.db.QueryRow(lastRunQuery).Scan(&status.LastRunID, &startedAt)
		switch {
		case err == nil:
			status.LastRunTime = startedAt.t
		case isNoRows(err):
			// Every run is still pending
		default:
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}

		oldestRunQuery := fmt.Sprintf(
			"SELECT started_at FROM %s WHERE started_at IS NOT NULL ORDER BY id ASC LIMIT 1",
			s.table(analysisRunsTable))
		var oldestAt nullTime
		err = s.db.QueryRow(oldestRunQuery).Scan(&oldestAt)
		switch {
		case err == nil:
			status.OldestRunTime = oldestAt.t
		case isNoRows(err):
		default:
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
	}

	// Get total stored commits
	commitsQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", s.table(commitsTable))
	if err := s.db.QueryRow(commitsQuery).Scan(&status.TotalCommits); err != nil {
		return status, fmt.Errorf("failed to get total commits: %w", err)
	}

	// Get table sizes
	for _, table := range allTables {
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", s.table(table))
		var count int64
		if err := s.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableRowCounts[table] = count
	}

	return status, nil
}

// Clear removes all stored analysis data.
func (s *Store) Clear() error {
	if s.disabled() {
		return nil
	}

	for _, table := range allTables {
		query := fmt.Sprintf("DELETE FROM %s", s.table(table))
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
	}

	return nil
}

// PrintStoreStatus prints store status information.
func PrintStoreStatus(status schema.StoreStatus) {
	fmt.Printf("Store Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Runs: %d\n", status.TotalRuns)
	if status.TotalRuns > 0 && !status.LastRunTime.IsZero() {
		fmt.Printf("Last Run ID: %d\n", status.LastRunID)
		fmt.Printf("Last Run: %s\n", status.LastRunTime.Format("2006-01-02 15:04:05"))
		fmt.Printf("Oldest Run: %s\n", status.OldestRunTime.Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("Total Commits: %d\n", status.TotalCommits)
	fmt.Println("Table Sizes:")
	for _, table := range allTables {
		fmt.Printf("  %s: %d rows\n", table, status.TableRowCounts[table])
	}
}
