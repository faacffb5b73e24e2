package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/celerio/scout/internal/contract"
	"github.com/celerio/scout/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAssessments() []schema.Assessment {
	asOf := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	pmf := schema.PMFDrift
	feature := schema.FeatureSelling
	drift := schema.StallSignal{
		Type: schema.TechnographicChurn, Severity: schema.SeverityMedium, Diagnosis: schema.PMFDrift,
		Evidence: map[string]any{"reason": "Critical GTM tools removed"},
	}
	valley := schema.StallSignal{
		Type: schema.FundingWindow, Severity: schema.SeverityHigh, Diagnosis: schema.MarketSaturation,
		Evidence: map[string]any{"reason": "22 months since last raise"},
	}
	generic := schema.StallSignal{
		Type: schema.WebsiteGenericness, Severity: schema.SeverityMedium, Diagnosis: schema.FeatureSelling,
		Evidence: map[string]any{"reason": "Generic homepage copy"},
	}

	return []schema.Assessment{
		{
			AsOf: asOf,
			Scores: schema.ScoreTriple{
				Messaging: schema.VectorScore{Value: 40, Submetrics: map[string]float64{"jargon_density": 0.2}},
				Motion:    schema.VectorScore{Value: 55, Submetrics: map[string]float64{"hiring_score": 50}},
				Market:    schema.VectorScore{Value: 25, Submetrics: map[string]float64{"stars": 12, "activity_score": 30}},
			},
			StallProbability: schema.StallHigh,
			Signals:          []schema.StallSignal{drift, valley, generic},
			Report: schema.DiagnosisReport{
				CompanyID:     "acme-1",
				CompanyName:   "Acme",
				Domain:        "acme.io",
				PrimaryVector: schema.MarketVector,
				PerVector: map[schema.Vector]schema.VectorDiagnosis{
					schema.MarketVector:    {Status: schema.VectorFailing, Signals: []schema.StallSignal{drift, valley}, FailureMode: &pmf},
					schema.MotionVector:    {Status: schema.VectorHealthy},
					schema.MessagingVector: {Status: schema.VectorFailing, Signals: []schema.StallSignal{generic}, FailureMode: &feature},
				},
				Prescription: schema.Prescription{FractionalExecutive: "Fractional Product Strategist"},
				StallRisk:    schema.RiskHigh,
			},
		},
		{
			AsOf: asOf,
			Scores: schema.ScoreTriple{
				Messaging: schema.VectorScore{Value: 80},
				Motion:    schema.VectorScore{Value: 75},
				Market:    schema.VectorScore{Value: 90},
			},
			StallProbability: schema.StallLow,
			Report: schema.DiagnosisReport{
				CompanyID:     "globex-2",
				CompanyName:   "Globex",
				PrimaryVector: schema.HealthyVector,
				Prescription:  schema.Prescription{Status: "No intervention needed"},
				StallRisk:     schema.RiskNone,
			},
		},
	}
}

func testConfig() *contract.Config {
	return &contract.Config{
		Precision:     1,
		Workers:       4,
		Width:         160,
		Output:        schema.TextOut,
		ReportBackend: schema.NoneBackend,
	}
}

func captureStderr(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := stderr
	stderr = &buf
	t.Cleanup(func() { stderr = old })
	return &buf
}

func readCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteDiagnosisTable(t *testing.T) {
	cfg := testConfig()
	cfg.Explain = true

	var buf bytes.Buffer
	err := writeDiagnosisTable(sampleAssessments(), cfg, createFormatters(1), 2*time.Second, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "MARKET")
	assert.Contains(t, out, "HEALTHY")
	assert.Contains(t, out, "25.0")
	assert.Contains(t, out, "PMF_Drift")
	assert.Contains(t, out, "Market_Saturation > PMF_Drift")
	assert.Contains(t, out, "No stall signals")
	assert.Contains(t, out, "Diagnosed 2 companies (stalled: 1, healthy: 1, high risk: 1)")
	assert.Contains(t, out, "with 4 workers. Report backend: none")
}

func TestWriteCSVResultsForDiagnoses(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeCSVResultsForDiagnoses(&buf, sampleAssessments(), createFormatters(2)))

	records := readCSV(t, buf.Bytes())
	require.Len(t, records, 3) // header + 2 rows
	assert.Equal(t, "rank", records[0][0])
	assert.Equal(t, "primary_vector", records[0][5])

	acme := records[1]
	assert.Equal(t, []string{"1", "acme-1", "Acme", "acme.io", "2026-03-01T00:00:00Z", "market", "high", "high"}, acme[:8])
	assert.Equal(t, "25.00", acme[10])
	assert.Equal(t, "PMF_Drift", acme[11])
	assert.Equal(t, "PMF_Drift|Market_Saturation|Feature_Selling", acme[12])
	assert.Equal(t, "Fractional Product Strategist", acme[13])

	globex := records[2]
	assert.Equal(t, "healthy", globex[5])
	assert.Equal(t, "-", globex[11])
	assert.Empty(t, globex[12])
}

func TestWriteJSONResultsForDiagnoses(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSONResultsForDiagnoses(&buf, sampleAssessments()))

	var result []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	require.Len(t, result, 2)

	assert.Equal(t, float64(1), result[0]["rank"])
	assert.Equal(t, "high", result[0]["stall_probability"])
	report, ok := result[0]["report"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Acme", report["company_name"])
	assert.Equal(t, "market", report["primary_vector"])

	signals, ok := result[0]["signals"].([]any)
	require.True(t, ok)
	first, ok := signals[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "medium", first["severity"])
}

func TestWriteDiagnosisResults_Parquet(t *testing.T) {
	status := captureStderr(t)
	cfg := testConfig()
	cfg.Output = schema.ParquetOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "diagnoses.parquet")

	require.NoError(t, WriteDiagnosisResults(sampleAssessments(), cfg, time.Second))
	info, err := os.Stat(cfg.OutputFile)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
	assert.Contains(t, status.String(), "Wrote Parquet to "+cfg.OutputFile)

	cfg.OutputFile = ""
	assert.ErrorContains(t, WriteDiagnosisResults(sampleAssessments(), cfg, time.Second), "requires --output-file")
}

func TestWriteDiagnosisResults_ToFile(t *testing.T) {
	status := captureStderr(t)
	cfg := testConfig()
	cfg.Output = schema.JSONOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "out.json")

	require.NoError(t, NewOutWriter().WriteDiagnoses(sampleAssessments(), cfg, time.Second))
	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
	assert.Contains(t, status.String(), "Wrote JSON to")
}

func TestWriteScoreTable(t *testing.T) {
	cfg := testConfig()
	cfg.Explain = true

	var buf bytes.Buffer
	require.NoError(t, writeScoreTable(sampleAssessments(), cfg, createFormatters(1), time.Second, &buf))

	out := buf.String()
	assert.Contains(t, out, "40.0")
	assert.Contains(t, out, "81.7") // Globex average
	assert.Contains(t, out, "activity_score=30.0 stars=12.0")
	assert.Contains(t, out, "Scored 2 companies (high: 1, medium: 0, low: 1)")
}

func TestWriteCSVResultsForScores(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeCSVResultsForScores(&buf, sampleAssessments(), createFormatters(1)))

	records := readCSV(t, buf.Bytes())
	require.Len(t, records, 3)
	assert.Equal(t, []string{"rank", "company_id", "company", "messaging", "motion", "market", "average", "stall_probability"}, records[0])
	assert.Equal(t, []string{"1", "acme-1", "Acme", "40.0", "55.0", "25.0", "40.0", "high"}, records[1])
}

func TestWriteJSONResultsForScores(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSONResultsForScores(&buf, sampleAssessments()))

	var result []scoreRow
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	require.Len(t, result, 2)
	assert.Equal(t, "globex-2", result[1].CompanyID)
	assert.InDelta(t, 81.67, result[1].Average, 0.01)
	assert.Equal(t, 12.0, result[0].Scores.Market.Submetrics["stars"])
}

func TestWriteSignalTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeSignalTable(sampleAssessments(), testConfig(), time.Second, &buf))

	out := buf.String()
	assert.Contains(t, out, "technographic_churn")
	assert.Contains(t, out, "22 months since last raise")
	assert.Contains(t, out, "Globex")
	assert.Contains(t, out, "Emitted 3 signals across 2 companies")
}

func TestWriteCSVResultsForSignals(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeCSVResultsForSignals(&buf, sampleAssessments()))

	records := readCSV(t, buf.Bytes())
	require.Len(t, records, 4) // header + 3 signals
	assert.Equal(t, []string{"acme-1", "Acme", "funding_window", "high", "Market_Saturation", "22 months since last raise"}, records[2])
}

func TestWriteSignalResults_JSONEmpty(t *testing.T) {
	captureStderr(t)
	cfg := testConfig()
	cfg.Output = schema.JSONOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "signals.json")

	require.NoError(t, NewOutWriter().WriteSignals(sampleAssessments()[1:], cfg, time.Second))
	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(string(data)))
}

func TestWritePrescriptionText(t *testing.T) {
	templates := []schema.VectorPrescription{
		{Vector: schema.MotionVector, Prescription: schema.Prescription{
			FractionalExecutive: "Fractional CRO",
			Plan:                []string{"Week 1-2: Audit", "Week 3-4: Fix"},
			KeyActions:          []string{"Ship it"},
		}},
		{Vector: schema.HealthyVector, Prescription: schema.Prescription{
			Status:         "No intervention needed",
			Recommendation: "Monitor.",
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, writePrescriptionText(&buf, templates, false))

	out := buf.String()
	assert.Contains(t, out, "MOTION\n  Fractional executive: Fractional CRO\n  Plan:\n    1. Week 1-2: Audit\n    2. Week 3-4: Fix\n")
	assert.Contains(t, out, "  Key actions:\n    - Ship it\n")
	assert.Contains(t, out, "HEALTHY\n  Status: No intervention needed\n  Recommendation: Monitor.\n")

	buf.Reset()
	require.NoError(t, writeCSVPrescriptions(&buf, templates))
	records := readCSV(t, buf.Bytes())
	require.Len(t, records, 5)
	assert.Equal(t, []string{"motion", "Fractional CRO", "plan", "2", "Week 3-4: Fix"}, records[2])
	assert.Equal(t, []string{"healthy", "", "recommendation", "1", "Monitor."}, records[4])
}

func TestWritePrescriptionTemplates_Parquet(t *testing.T) {
	cfg := testConfig()
	cfg.Output = schema.ParquetOut
	assert.Error(t, NewOutWriter().WritePrescriptions(nil, cfg))
}
