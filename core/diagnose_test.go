package core

import (
	"testing"
	"time"

	"github.com/celerio/scout/schema"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnoseCompanyStalled(t *testing.T) {
	p, b := stalledCompany()
	report, err := DiagnoseCompany(p, b, refTime)
	require.NoError(t, err)

	assert.Equal(t, schema.MotionVector, report.PrimaryVector)
	assert.Equal(t, schema.RiskHigh, report.StallRisk)
	assert.Equal(t, "Fractional Revenue Architect (CRO)", report.Prescription.FractionalExecutive)
	assert.Equal(t, "Stalled Inc", report.CompanyName)

	require.Len(t, report.PerVector, 3)
	motion := report.PerVector[schema.MotionVector]
	assert.Equal(t, schema.VectorFailing, motion.Status)
	assert.Len(t, motion.Signals, 2)
	require.NotNil(t, motion.FailureMode)
	assert.Equal(t, schema.MotionFailure, *motion.FailureMode)

	market := report.PerVector[schema.MarketVector]
	assert.Equal(t, schema.VectorFailing, market.Status)
	assert.Len(t, market.Signals, 1, "product stagnation has no vector")
	require.NotNil(t, market.FailureMode)
	assert.Equal(t, schema.PMFDrift, *market.FailureMode)

	messaging := report.PerVector[schema.MessagingVector]
	assert.Equal(t, schema.VectorHealthy, messaging.Status)
	assert.Empty(t, messaging.Signals)
	assert.Nil(t, messaging.FailureMode)
}

func TestDiagnoseCompanyHealthy(t *testing.T) {
	report, err := DiagnoseCompany(schema.CompanyProfile{Name: "Quiet"}, schema.RawSignalBundle{}, refTime)
	require.NoError(t, err)

	assert.Equal(t, schema.HealthyVector, report.PrimaryVector)
	assert.Equal(t, "No intervention needed", report.Prescription.Status)
	assert.Equal(t, schema.RiskNone, report.StallRisk)
	for _, v := range schema.VectorOrder {
		assert.Equal(t, schema.VectorHealthy, report.PerVector[v].Status, v)
		assert.Nil(t, report.PerVector[v].FailureMode, v)
	}
}

func TestDiagnoseMissingIdentity(t *testing.T) {
	for _, name := range []string{"", "   "} {
		_, err := Diagnose(schema.CompanyProfile{Name: name, Domain: "anon.example"}, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, schema.ErrMissingIdentity)
	}
}

func TestDiagnoseOnlyBucketsKnownCodes(t *testing.T) {
	report, err := Diagnose(schema.CompanyProfile{Name: "x"}, []schema.StallSignal{
		sig("Not_A_Code", schema.SeverityHigh),
		sig(schema.FeatureSelling, schema.SeverityMedium),
	})
	require.NoError(t, err)
	assert.Equal(t, schema.MessagingVector, report.PrimaryVector)
	assert.Equal(t, schema.RiskMedium, report.StallRisk, "stall risk counts every signal")
}

func TestDiagnoseCompanyUnbucketedSignalsStayHealthy(t *testing.T) {
	asOf := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		profile schema.CompanyProfile
		bundle  schema.RawSignalBundle
		code    schema.DiagnosisCode
	}{
		{
			name:    "approaching valley of death",
			profile: schema.CompanyProfile{Name: "Runway", Stage: "Series A", LastFundingDate: "2023-10-01"},
			code:    schema.ApproachingValleyOfDeath,
		},
		{
			name:    "product stagnation",
			profile: schema.CompanyProfile{Name: "Dormant"},
			bundle:  schema.RawSignalBundle{Engineering: &schema.EngineeringSignals{LastCommitDays: intPtr(150)}},
			code:    schema.ProductStagnationCode,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signals := GenerateStallSignals(tt.profile, tt.bundle, asOf)
			require.Len(t, signals, 1)
			assert.Equal(t, tt.code, signals[0].Diagnosis)

			report, err := DiagnoseCompany(tt.profile, tt.bundle, asOf)
			require.NoError(t, err)
			assert.Equal(t, schema.HealthyVector, report.PrimaryVector)
			assert.Equal(t, "No intervention needed", report.Prescription.Status)
			assert.Empty(t, report.Prescription.FractionalExecutive)
			assert.Equal(t, schema.RiskLow, report.StallRisk, "still rated from raw signals")
			for _, v := range schema.VectorOrder {
				assert.Equal(t, schema.VectorHealthy, report.PerVector[v].Status, v)
			}
		})
	}
}

func TestDiagnoseIgnoresSeverityNone(t *testing.T) {
	report, err := Diagnose(schema.CompanyProfile{Name: "x"}, []schema.StallSignal{
		sig(schema.PMFDrift, schema.SeverityNone),
	})
	require.NoError(t, err)
	assert.Equal(t, schema.HealthyVector, report.PrimaryVector)
	market := report.PerVector[schema.MarketVector]
	assert.Equal(t, schema.VectorHealthy, market.Status)
	assert.Empty(t, market.Signals)
	assert.Nil(t, market.FailureMode)
	assert.Equal(t, schema.RiskNone, report.StallRisk)
}

func TestCompanyID(t *testing.T) {
	explicit := CompanyID(schema.CompanyProfile{ID: "crm-42", Name: "Acme", Domain: "acme.io"})
	assert.Equal(t, "crm-42", explicit)

	a := CompanyID(schema.CompanyProfile{Name: "Acme", Domain: "Acme.io"})
	b := CompanyID(schema.CompanyProfile{Name: "Acme Corp", Domain: "acme.io "})
	assert.Equal(t, a, b, "derived from the normalized domain")
	_, err := uuid.Parse(a)
	assert.NoError(t, err)

	assert.NotEqual(t, a, CompanyID(schema.CompanyProfile{Name: "Acme", Domain: "acme.com"}))

	byName := CompanyID(schema.CompanyProfile{Name: "Acme"})
	assert.Equal(t, byName, CompanyID(schema.CompanyProfile{Name: " ACME "}))
	assert.NotEqual(t, a, byName)
}

func TestAssessCompany(t *testing.T) {
	p, b := stalledCompany()
	b.Homepage.H1Text = "Ship invoices faster"
	b.Homepage.TitleText = "Invoices for finance teams"

	a, err := AssessCompany(p, b, refTime)
	require.NoError(t, err)
	assert.Equal(t, refTime, a.AsOf)
	assert.Len(t, a.Signals, 4)
	assert.Equal(t, schema.MotionVector, a.Report.PrimaryVector)
	assert.Equal(t, 66.67, a.Scores.Messaging.Value, "rounded for display")
	assert.Equal(t, ClassifyStall(ComputeScores(b)), a.StallProbability)

	_, err = AssessCompany(schema.CompanyProfile{}, b, refTime)
	assert.ErrorIs(t, err, schema.ErrMissingIdentity)
}
