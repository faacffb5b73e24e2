package iostore

import (
	"time"

	"github.com/celerio/scout/internal/contract"
	"github.com/celerio/scout/schema"
	"github.com/stretchr/testify/mock"
)

// MockReportStore is a mock implementation of ReportStore and ReportReader for testing.
type MockReportStore struct {
	mock.Mock
}

// Compile-time checks
var (
	_ contract.ReportStore  = &MockReportStore{}
	_ contract.ReportReader = &MockReportStore{}
)

// BeginRun implements the ReportStore interface.
func (m *MockReportStore) BeginRun(startTime time.Time, configParams map[string]any) (int64, error) {
	args := m.Called(startTime, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// RecordDiagnosis implements the ReportStore interface.
func (m *MockReportStore) RecordDiagnosis(runID int64, a schema.Assessment) error {
	args := m.Called(runID, a)
	return args.Error(0)
}

// EndRun implements the ReportStore interface.
func (m *MockReportStore) EndRun(runID int64, endTime time.Time, totalCompanies int) error {
	args := m.Called(runID, endTime, totalCompanies)
	return args.Error(0)
}

// GetStatus implements the ReportStore interface.
func (m *MockReportStore) GetStatus() (schema.ReportStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.ReportStatus), args.Error(1)
}

// Close implements the ReportStore interface.
func (m *MockReportStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// GetAllRuns implements the ReportReader interface.
func (m *MockReportStore) GetAllRuns() ([]schema.DiagnosisRunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.DiagnosisRunRecord)
	return runs, args.Error(1)
}

// GetAllDiagnoses implements the ReportReader interface.
func (m *MockReportStore) GetAllDiagnoses() ([]schema.CompanyDiagnosisRecord, error) {
	args := m.Called()
	diagnoses, _ := args.Get(0).([]schema.CompanyDiagnosisRecord)
	return diagnoses, args.Error(1)
}
