package schema

import "time"

// ReportStatus represents the status of the report store.
type ReportStatus struct {
	Backend        string           `json:"backend"`
	Connected      bool             `json:"connected"`
	TotalRuns      int              `json:"total_runs"`
	LastRunID      int64            `json:"last_run_id"`
	LastRunTime    time.Time        `json:"last_run_time"`
	OldestRunTime  time.Time        `json:"oldest_run_time"`
	TotalCompanies int              `json:"total_companies"`
	TableSizes     map[string]int64 `json:"table_sizes"`
}
