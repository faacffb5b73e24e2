// Package parquet provides data structures and functions for exporting scout
// diagnosis data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/celerio/scout/schema"
	"github.com/parquet-go/parquet-go"
)

// DiagnosisRun represents a single batch diagnosis run with metadata.
// This struct maps to the scout_diagnosis_runs database table.
type DiagnosisRun struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	TotalCompanies int32 `parquet:"total_companies,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// CompanyDiagnosis is the flattened assessment of one company.
// This struct maps to the scout_company_diagnoses database table.
type CompanyDiagnosis struct {
	// RunID references the parent run; zero for ad-hoc exports
	RunID            int64     `parquet:"run_id,snappy"`
	CompanyID        string    `parquet:"company_id,snappy"`
	CompanyName      string    `parquet:"company_name,snappy"`
	Domain           *string   `parquet:"domain,optional,snappy"`
	AsOf             time.Time `parquet:"as_of,snappy"`
	MessagingScore   float64   `parquet:"messaging_score,snappy"`
	MotionScore      float64   `parquet:"motion_score,snappy"`
	MarketScore      float64   `parquet:"market_score,snappy"`
	StallProbability string    `parquet:"stall_probability,snappy"`
	PrimaryVector    string    `parquet:"primary_vector,snappy"`
	StallRisk        string    `parquet:"stall_risk,snappy"`

	// FailureMode is the failure mode of the primary vector (nullable when healthy)
	FailureMode   *string `parquet:"failure_mode,optional,snappy"`
	HighSignals   int32   `parquet:"high_signals,snappy"`
	MediumSignals int32   `parquet:"medium_signals,snappy"`

	// SignalCodes is the comma-joined list of emitted diagnosis codes
	SignalCodes string `parquet:"signal_codes,snappy"`
}

// writeRows writes rows to a new Parquet file whose schema is inferred from T's struct tags.
func writeRows[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	// Close flushes the footer, so its error matters
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteRunsParquet writes a slice of DiagnosisRun structs to a Parquet file.
func WriteRunsParquet(data []DiagnosisRun, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteDiagnosesParquet writes a slice of CompanyDiagnosis structs to a Parquet file.
func WriteDiagnosesParquet(data []CompanyDiagnosis, outputPath string) error {
	return writeRows(data, outputPath)
}

// ConvertRunRecords converts schema.DiagnosisRunRecord to DiagnosisRun for Parquet export.
func ConvertRunRecords(records []schema.DiagnosisRunRecord) []DiagnosisRun {
	result := make([]DiagnosisRun, len(records))
	for i, record := range records {
		result[i] = DiagnosisRun{
			RunID:          record.RunID,
			StartTime:      record.StartTime,
			EndTime:        record.EndTime,
			RunDurationMs:  record.RunDurationMs,
			TotalCompanies: record.TotalCompanies,
			ConfigParams:   record.ConfigParams,
		}
	}
	return result
}

// ConvertDiagnosisRecords converts schema.CompanyDiagnosisRecord to CompanyDiagnosis for Parquet export.
func ConvertDiagnosisRecords(records []schema.CompanyDiagnosisRecord) []CompanyDiagnosis {
	result := make([]CompanyDiagnosis, len(records))
	for i, record := range records {
		result[i] = CompanyDiagnosis{
			RunID:            record.RunID,
			CompanyID:        record.CompanyID,
			CompanyName:      record.CompanyName,
			Domain:           record.Domain,
			AsOf:             record.AsOf,
			MessagingScore:   record.MessagingScore,
			MotionScore:      record.MotionScore,
			MarketScore:      record.MarketScore,
			StallProbability: record.StallProbability,
			PrimaryVector:    record.PrimaryVector,
			StallRisk:        record.StallRisk,
			FailureMode:      record.FailureMode,
			HighSignals:      record.HighSignals,
			MediumSignals:    record.MediumSignals,
			SignalCodes:      record.SignalCodes,
		}
	}
	return result
}

// ConvertAssessments flattens assessments that were never stored; RunID stays zero.
func ConvertAssessments(assessments []schema.Assessment) []CompanyDiagnosis {
	records := make([]schema.CompanyDiagnosisRecord, len(assessments))
	for i, a := range assessments {
		records[i] = schema.DiagnosisRecordOf(0, a)
	}
	return ConvertDiagnosisRecords(records)
}
