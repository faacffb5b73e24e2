package schema

import "time"

// VectorScore is a 0-100 score plus the named sub-metrics that produced it.
type VectorScore struct {
	Value      float64            `json:"value"`
	Submetrics map[string]float64 `json:"submetrics"`
}

// ScoreTriple holds the three vector scores for one company.
type ScoreTriple struct {
	Messaging VectorScore `json:"messaging"`
	Motion    VectorScore `json:"motion"`
	Market    VectorScore `json:"market"`
}

// Average returns the mean of the three vector values.
func (t ScoreTriple) Average() float64 {
	return (t.Messaging.Value + t.Motion.Value + t.Market.Value) / 3
}

// StallSignal is one rule-check finding. Signals with SeverityNone are never emitted.
type StallSignal struct {
	Type      SignalType     `json:"type"`
	Severity  Severity       `json:"severity"`
	Diagnosis DiagnosisCode  `json:"diagnosis,omitempty"`
	Evidence  map[string]any `json:"evidence"`
}

// Reason returns the human-readable trigger explanation, if any.
func (s StallSignal) Reason() string {
	if r, ok := s.Evidence["reason"].(string); ok {
		return r
	}
	return ""
}

// VectorDiagnosis is the per-vector slice of a report.
type VectorDiagnosis struct {
	Status      VectorStatus   `json:"status"`
	Signals     []StallSignal  `json:"signals"`
	FailureMode *DiagnosisCode `json:"failure_mode"`
}

// Prescription is a fixed remediation template.
// Healthy prescriptions set Status and Recommendation; the rest set the plan fields.
type Prescription struct {
	Status              string   `json:"status,omitempty"`
	Recommendation      string   `json:"recommendation,omitempty"`
	FractionalExecutive string   `json:"fractional_executive,omitempty"`
	Plan                []string `json:"plan,omitempty"`
	KeyActions          []string `json:"key_actions,omitempty"`
}

// VectorPrescription pairs a vector with its template.
type VectorPrescription struct {
	Vector       Vector       `json:"vector"`
	Prescription Prescription `json:"prescription"`
}

// DiagnosisReport is the qualitative diagnosis of one company.
type DiagnosisReport struct {
	CompanyID     string                     `json:"company_id"`
	CompanyName   string                     `json:"company_name"`
	Domain        string                     `json:"domain,omitempty"`
	PrimaryVector Vector                     `json:"primary_vector"`
	PerVector     map[Vector]VectorDiagnosis `json:"per_vector"`
	Prescription  Prescription               `json:"prescription"`
	StallRisk     StallRisk                  `json:"stall_risk"`
}

// Assessment bundles everything computed for one company in a single pass.
type Assessment struct {
	AsOf             time.Time        `json:"as_of"`
	Scores           ScoreTriple      `json:"scores"`
	StallProbability StallProbability `json:"stall_probability"`
	Signals          []StallSignal    `json:"signals"`
	Report           DiagnosisReport  `json:"report"`
}

// Range is an inclusive numeric interval. A range only constrains when both
// bounds are set and Min <= Max.
type Range struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// Bounds returns the interval and whether it constrains anything.
func (r *Range) Bounds() (lo, hi float64, ok bool) {
	if r == nil || r.Min == nil || r.Max == nil || *r.Min > *r.Max {
		return 0, 0, false
	}
	return *r.Min, *r.Max, true
}

// Contains reports whether v lies within the range.
func (r *Range) Contains(v float64) bool {
	lo, hi, ok := r.Bounds()
	if !ok {
		return true
	}
	return lo <= v && v <= hi
}

// BatchFilter is the declarative pre-filter for batch diagnosis.
// Every criterion is optional and criteria are AND-composed.
type BatchFilter struct {
	FundingRange         *Range `json:"funding_range,omitempty"`
	HeadcountRange       *Range `json:"headcount_range,omitempty"`
	MonthsPostRaiseRange *Range `json:"months_post_raise_range,omitempty"`
	Stage                string `json:"stage,omitempty"`
}

// IsEmpty reports whether the filter constrains nothing.
func (f BatchFilter) IsEmpty() bool {
	_, _, fund := f.FundingRange.Bounds()
	_, _, head := f.HeadcountRange.Bounds()
	_, _, months := f.MonthsPostRaiseRange.Bounds()
	return !fund && !head && !months && f.Stage == ""
}
