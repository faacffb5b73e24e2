package outwriter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/celerio/scout/internal/contract"
	"github.com/celerio/scout/schema"
)

const topNDiagnoses = 3

// levelLabel renders a stall or severity level, colored when enabled.
func levelLabel(level string, useColors bool) string {
	if !useColors {
		return level
	}
	return contract.GetColorLabel(level)
}

// primaryFailureMode returns the failure mode of the primary vector, or "-".
func primaryFailureMode(a schema.Assessment) string {
	d, ok := a.Report.PerVector[a.Report.PrimaryVector]
	if !ok || d.FailureMode == nil {
		return "-"
	}
	return string(*d.FailureMode)
}

// signalCodes lists the diagnosis codes of signals in emission order.
func signalCodes(signals []schema.StallSignal) []string {
	codes := make([]string, 0, len(signals))
	for _, s := range signals {
		if s.Diagnosis != "" {
			codes = append(codes, string(s.Diagnosis))
		}
	}
	return codes
}

// explainAssessment names the top diagnoses behind the primary vector, most severe first.
func explainAssessment(a schema.Assessment) string {
	if a.Report.PrimaryVector == schema.HealthyVector {
		return "No stall signals"
	}
	sigs := slices.Clone(a.Report.PerVector[a.Report.PrimaryVector].Signals)
	slices.SortStableFunc(sigs, func(x, y schema.StallSignal) int {
		return int(y.Severity) - int(x.Severity)
	})

	var parts []string
	for _, code := range signalCodes(sigs) {
		if len(parts) == topNDiagnoses {
			break
		}
		parts = append(parts, code)
	}
	if len(parts) == 0 {
		return "Not applicable"
	}
	return strings.Join(parts, " > ")
}

// weakestVector returns the lowest-scoring vector, ties broken by schema.VectorOrder.
func weakestVector(t schema.ScoreTriple) (schema.Vector, schema.VectorScore) {
	byVector := map[schema.Vector]schema.VectorScore{
		schema.MarketVector:    t.Market,
		schema.MotionVector:    t.Motion,
		schema.MessagingVector: t.Messaging,
	}
	weakest := schema.VectorOrder[0]
	for _, v := range schema.VectorOrder[1:] {
		if byVector[v].Value < byVector[weakest].Value {
			weakest = v
		}
	}
	return weakest, byVector[weakest]
}

// formatSubmetrics renders sub-metrics as sorted key=value pairs.
func formatSubmetrics(sub map[string]float64, fmtFloat func(float64) string) string {
	keys := make([]string, 0, len(sub))
	for k := range sub {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%s", k, fmtFloat(sub[k]))
	}
	return strings.Join(parts, " ")
}
