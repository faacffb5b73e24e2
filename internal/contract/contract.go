// Package contract provides interfaces and shared utilities for the scout CLI's internal architecture.
package contract

import (
	"time"

	"github.com/celerio/scout/schema"
)

// ReportStore defines the interface for tracking diagnosis runs and storing their results.
// This allows the store layer to be mocked for testing.
type ReportStore interface {
	// BeginRun creates a new diagnosis run and returns its unique ID
	BeginRun(startTime time.Time, configParams map[string]any) (int64, error)

	// RecordDiagnosis stores the assessment of one company under a run
	RecordDiagnosis(runID int64, a schema.Assessment) error

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, totalCompanies int) error

	// GetStatus returns status information about the report store
	GetStatus() (schema.ReportStatus, error)

	// Close closes the underlying connection
	Close() error
}

// ReportReader reads back everything a store has recorded.
type ReportReader interface {
	GetAllRuns() ([]schema.DiagnosisRunRecord, error)
	GetAllDiagnoses() ([]schema.CompanyDiagnosisRecord, error)
}
