package core

import "github.com/celerio/scout/schema"

// diagnosisVectors maps diagnosis codes to the vector they indict.
// Valley_of_Death_Risk stays on Motion even though runway pressure can
// surface in any vector. Product_Stagnation and Approaching_Valley_of_Death
// are emitted by the signal checks but have no vector: they only feed the
// stall risk rating.
var diagnosisVectors = map[schema.DiagnosisCode]schema.Vector{
	schema.PMFDrift:         schema.MarketVector,
	schema.MarketSaturation: schema.MarketVector,
	schema.BadRevenue:       schema.MarketVector,

	schema.MotionFailure:       schema.MotionVector,
	schema.CapitalConservation: schema.MotionVector,
	schema.MQLIllusion:         schema.MotionVector,
	schema.PipelineVelocity:    schema.MotionVector,
	schema.ValleyOfDeathRisk:   schema.MotionVector,

	schema.FeatureSelling:       schema.MessagingVector,
	schema.NoStrategicNarrative: schema.MessagingVector,
	schema.JargonDensity:        schema.MessagingVector,
}

// VectorFor returns the vector a diagnosis code belongs to.
func VectorFor(code schema.DiagnosisCode) (schema.Vector, bool) {
	v, ok := diagnosisVectors[code]
	return v, ok
}

// BucketSignals groups signals by vector. Every vector key is present, and
// signals with severity none, no diagnosis or an unmapped code are dropped.
func BucketSignals(signals []schema.StallSignal) map[schema.Vector][]schema.StallSignal {
	buckets := make(map[schema.Vector][]schema.StallSignal, len(schema.VectorOrder))
	for _, v := range schema.VectorOrder {
		buckets[v] = []schema.StallSignal{}
	}
	for _, sig := range signals {
		if sig.Severity == schema.SeverityNone || sig.Diagnosis == "" {
			continue
		}
		if v, ok := VectorFor(sig.Diagnosis); ok {
			buckets[v] = append(buckets[v], sig)
		}
	}
	return buckets
}

func countSeverity(signals []schema.StallSignal, sev schema.Severity) int {
	n := 0
	for _, s := range signals {
		if s.Severity == sev {
			n++
		}
	}
	return n
}

// ResolvePrimaryVector picks the vector with the most high-severity signals,
// falling back to medium counts, then to healthy. Ties go to the earlier
// vector in schema.VectorOrder.
func ResolvePrimaryVector(buckets map[schema.Vector][]schema.StallSignal) schema.Vector {
	for _, sev := range []schema.Severity{schema.SeverityHigh, schema.SeverityMedium} {
		best, bestCount := schema.HealthyVector, 0
		for _, v := range schema.VectorOrder {
			if n := countSeverity(buckets[v], sev); n > bestCount {
				best, bestCount = v, n
			}
		}
		if bestCount > 0 {
			return best
		}
	}
	return schema.HealthyVector
}

// failureMode is the diagnosis of the first high signal, else of the first signal.
func failureMode(signals []schema.StallSignal) *schema.DiagnosisCode {
	for _, s := range signals {
		if s.Severity == schema.SeverityHigh {
			code := s.Diagnosis
			return &code
		}
	}
	if len(signals) > 0 {
		code := signals[0].Diagnosis
		return &code
	}
	return nil
}

// RateStallRisk condenses signal severities into a four-level rating.
func RateStallRisk(signals []schema.StallSignal) schema.StallRisk {
	high := countSeverity(signals, schema.SeverityHigh)
	medium := countSeverity(signals, schema.SeverityMedium)
	switch {
	case high >= 2:
		return schema.RiskHigh
	case high >= 1 || medium >= 2:
		return schema.RiskMedium
	case medium >= 1:
		return schema.RiskLow
	default:
		return schema.RiskNone
	}
}
