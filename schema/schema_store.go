package schema

import (
	"strings"
	"time"
)

// DiagnosisRunRecord represents a row from the scout_diagnosis_runs table.
type DiagnosisRunRecord struct {
	RunID          int64
	StartTime      time.Time
	EndTime        *time.Time
	RunDurationMs  *int32
	TotalCompanies int32
	ConfigParams   *string
}

// CompanyDiagnosisRecord represents a row from the scout_company_diagnoses table.
type CompanyDiagnosisRecord struct {
	RunID            int64
	CompanyID        string
	CompanyName      string
	Domain           *string
	AsOf             time.Time
	MessagingScore   float64
	MotionScore      float64
	MarketScore      float64
	StallProbability string
	PrimaryVector    string
	StallRisk        string
	FailureMode      *string
	HighSignals      int32
	MediumSignals    int32
	SignalCodes      string // comma-joined diagnosis codes in emission order
}

// DiagnosisRecordOf flattens an assessment into the stored row shape.
func DiagnosisRecordOf(runID int64, a Assessment) CompanyDiagnosisRecord {
	rec := CompanyDiagnosisRecord{
		RunID:            runID,
		CompanyID:        a.Report.CompanyID,
		CompanyName:      a.Report.CompanyName,
		AsOf:             a.AsOf,
		MessagingScore:   a.Scores.Messaging.Value,
		MotionScore:      a.Scores.Motion.Value,
		MarketScore:      a.Scores.Market.Value,
		StallProbability: string(a.StallProbability),
		PrimaryVector:    string(a.Report.PrimaryVector),
		StallRisk:        string(a.Report.StallRisk),
	}
	if a.Report.Domain != "" {
		domain := a.Report.Domain
		rec.Domain = &domain
	}
	if vd, ok := a.Report.PerVector[a.Report.PrimaryVector]; ok && vd.FailureMode != nil {
		mode := string(*vd.FailureMode)
		rec.FailureMode = &mode
	}
	codes := make([]string, 0, len(a.Signals))
	for _, s := range a.Signals {
		switch s.Severity {
		case SeverityHigh:
			rec.HighSignals++
		case SeverityMedium:
			rec.MediumSignals++
		}
		if s.Diagnosis != "" {
			codes = append(codes, string(s.Diagnosis))
		}
	}
	rec.SignalCodes = strings.Join(codes, ",")
	return rec
}
