package schema

// Custom string types for type safety.
type (
	// Vector is one of the three growth-health dimensions, or healthy.
	Vector string

	// StallProbability is the coarse stall label derived from the score triple.
	StallProbability string

	// StallRisk is the aggregate rating derived from signal severities.
	StallRisk string

	// HiringStatus is the observed state of a company's careers page.
	HiringStatus string

	// VectorStatus marks a vector as healthy or failing in a report.
	VectorStatus string

	// SignalType names the rule check that produced a signal.
	SignalType string

	// DiagnosisCode is the named failure pattern a signal points to.
	DiagnosisCode string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for report storage.
	DatabaseBackend string
)

// All vectors, plus the healthy outcome.
const (
	MarketVector    Vector = "market"
	MotionVector    Vector = "motion"
	MessagingVector Vector = "messaging"
	HealthyVector   Vector = "healthy"
)

// VectorOrder is the fixed iteration order used for tie-breaks.
var VectorOrder = []Vector{MarketVector, MotionVector, MessagingVector}

// All stall probabilities.
const (
	StallLow    StallProbability = "low"
	StallMedium StallProbability = "medium"
	StallHigh   StallProbability = "high"
)

// All stall risk ratings.
const (
	RiskNone   StallRisk = "none"
	RiskLow    StallRisk = "low"
	RiskMedium StallRisk = "medium"
	RiskHigh   StallRisk = "high"
)

// All hiring states.
const (
	HiringActive  HiringStatus = "active"
	HiringFrozen  HiringStatus = "frozen"
	HiringUnknown HiringStatus = "unknown"
)

// All vector states.
const (
	VectorHealthy VectorStatus = "healthy"
	VectorFailing VectorStatus = "failing"
)

// Signal types, one per rule check.
const (
	HeadcountDivergence SignalType = "headcount_divergence"
	TechnographicChurn  SignalType = "technographic_churn"
	FundingWindow       SignalType = "funding_window"
	WebsiteGenericness  SignalType = "website_genericness"
	ProductStagnation   SignalType = "product_stagnation"
)

// Diagnosis codes.
const (
	PMFDrift                 DiagnosisCode = "PMF_Drift"
	MarketSaturation         DiagnosisCode = "Market_Saturation"
	BadRevenue               DiagnosisCode = "Bad_Revenue"
	ProductStagnationCode    DiagnosisCode = "Product_Stagnation"
	MotionFailure            DiagnosisCode = "Motion_Failure"
	CapitalConservation      DiagnosisCode = "Capital_Conservation"
	MQLIllusion              DiagnosisCode = "MQL_Illusion"
	PipelineVelocity         DiagnosisCode = "Pipeline_Velocity"
	ValleyOfDeathRisk        DiagnosisCode = "Valley_of_Death_Risk"
	ApproachingValleyOfDeath DiagnosisCode = "Approaching_Valley_of_Death"
	FeatureSelling           DiagnosisCode = "Feature_Selling"
	NoStrategicNarrative     DiagnosisCode = "No_Strategic_Narrative"
	JargonDensity            DiagnosisCode = "Jargon_Density"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All report store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
