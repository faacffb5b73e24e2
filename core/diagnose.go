// Package core holds the 3M scoring and stall diagnosis engine.
package core

import (
	"strings"
	"time"

	"github.com/celerio/scout/schema"
	"github.com/google/uuid"
)

// companyNamespace scopes derived company ids.
var companyNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://scout.celerio.dev/company"))

// CompanyID returns the explicit id, or a stable UUID derived from the
// lowercased domain (the name when there is no domain).
func CompanyID(p schema.CompanyProfile) string {
	if id := strings.TrimSpace(p.ID); id != "" {
		return id
	}
	key := strings.ToLower(strings.TrimSpace(p.Domain))
	if key == "" {
		key = "name:" + strings.ToLower(strings.TrimSpace(p.Name))
	}
	return uuid.NewSHA1(companyNamespace, []byte(key)).String()
}

// Diagnose turns already-generated signals into a report.
// It fails only when the profile has no identity.
func Diagnose(p schema.CompanyProfile, signals []schema.StallSignal) (schema.DiagnosisReport, error) {
	if err := p.Validate(); err != nil {
		return schema.DiagnosisReport{}, err
	}

	buckets := BucketSignals(signals)
	perVector := make(map[schema.Vector]schema.VectorDiagnosis, len(buckets))
	for _, v := range schema.VectorOrder {
		sigs := buckets[v]
		status := schema.VectorHealthy
		if len(sigs) > 0 {
			status = schema.VectorFailing
		}
		perVector[v] = schema.VectorDiagnosis{
			Status:      status,
			Signals:     sigs,
			FailureMode: failureMode(sigs),
		}
	}

	primary := ResolvePrimaryVector(buckets)
	return schema.DiagnosisReport{
		CompanyID:     CompanyID(p),
		CompanyName:   p.Name,
		Domain:        p.Domain,
		PrimaryVector: primary,
		PerVector:     perVector,
		Prescription:  PrescriptionFor(primary),
		StallRisk:     RateStallRisk(signals),
	}, nil
}

// DiagnoseCompany generates signals for one company and diagnoses them.
func DiagnoseCompany(p schema.CompanyProfile, b schema.RawSignalBundle, asOf time.Time) (schema.DiagnosisReport, error) {
	return Diagnose(p, GenerateStallSignals(p, b, asOf))
}

// AssessCompany computes scores, stall probability, signals and the report in one pass.
// Stall probability is classified before scores are rounded for display.
func AssessCompany(p schema.CompanyProfile, b schema.RawSignalBundle, asOf time.Time) (schema.Assessment, error) {
	signals := GenerateStallSignals(p, b, asOf)
	report, err := Diagnose(p, signals)
	if err != nil {
		return schema.Assessment{}, err
	}
	scores := ComputeScores(b)
	return schema.Assessment{
		AsOf:             asOf,
		Scores:           roundTriple(scores),
		StallProbability: ClassifyStall(scores),
		Signals:          signals,
		Report:           report,
	}, nil
}
