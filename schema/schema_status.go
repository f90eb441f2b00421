package schema

import "time"

// StoreStatus represents the status of the persistence store.
type StoreStatus struct {
	Backend        string           `json:"backend"`
	Connected      bool             `json:"connected"`
	TotalRuns      int              `json:"total_runs"`
	LastRunID      int64            `json:"last_run_id"`
	LastRunTime    time.Time        `json:"last_run_time"`
	OldestRunTime  time.Time        `json:"oldest_run_time"`
	TotalCommits   int              `json:"total_commits"`
	TableRowCounts map[string]int64 `json:"table_row_counts"`
}

// LLMStatus reports the augmentation endpoint's availability.
type LLMStatus struct {
	Available bool   `json:"available"`
	Host      string `json:"host"`
	Model     string `json:"model"`
}
