package store

import (
	"fmt"
)

// MergeEdges returns the identity merge mapping (merged email -> primary email).
func (s *Store) MergeEdges() (map[string]string, error) {
	if s.disabled() {
		return map[string]string{}, nil
	}

	query := fmt.Sprintf(`SELECT merged_email, primary_email FROM %s`, s.table(contributorMergeTable))
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query merge edges: %w", err)
	}
	defer func() { _ = rows.Close() }()

	edges := make(map[string]string)
	for rows.Next() {
		var merged, primary string
		if err := rows.Scan(&merged, &primary); err != nil {
			return nil, fmt.Errorf("failed to scan merge edge: %w", err)
		}
		edges[merged] = primary
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating merge edges: %w", err)
	}

	return edges, nil
}

// ReplaceMergeEdges rewrites the identity merge mapping in one transaction.
func (s *Store) ReplaceMergeEdges(edges map[string]string) error {
	if s.disabled() {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	deleteQuery := fmt.Sprintf(`DELETE FROM %s`, s.table(contributorMergeTable))
	if _, err := tx.Exec(deleteQuery); err != nil {
		return fmt.Errorf("failed to clear merge edges: %w", err)
	}

	insertQuery := s.rebind(fmt.Sprintf(`INSERT INTO %s (merged_email, primary_email) VALUES (?, ?)`,
		s.table(contributorMergeTable)))
	stmt, err := tx.Prepare(insertQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare merge edge insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for merged, primary := range edges {
		if _, err := stmt.Exec(merged, primary); err != nil {
			return fmt.Errorf("failed to insert merge edge %s -> %s: %w", merged, primary, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
