package core

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/celerio/scout/core/algo"
	"github.com/celerio/scout/schema"
)

// Thresholds for the discrete stall checks.
const (
	flatEngineeringPct   = 5.0   // |growth| below this counts as flat
	salesDeclinePct      = -20.0 // sales growth below this counts as a collapse
	valleyOfDeathMonths  = 18.0
	approachValleyMonths = 12.0
	maxGenericPhrases    = 3
	stagnantCommitDays   = 90
	daysPerMonth         = 30.0
)

// criticalGTMTools are the go-to-market tools whose removal signals cost cutting.
var criticalGTMTools = []string{"6sense", "Demandbase", "Segment", "Clearbit", "ZoomInfo"}

// genericPhrases are marketing clichés that blur positioning.
var genericPhrases = []string{
	"leading", "innovative", "cutting-edge", "revolutionary",
	"best-in-class", "world-class", "next-generation",
}

// fundingDateLayouts are tried in order when parsing a funding date.
var fundingDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
	"2006-01",
}

// signalCheck inspects a company and reports one signal, or ok=false.
type signalCheck func(p schema.CompanyProfile, b schema.RawSignalBundle, asOf time.Time) (schema.StallSignal, bool)

// signalChecks run in this order, which is also the emission order.
var signalChecks = []signalCheck{
	checkHeadcountDivergence,
	checkTechnographicChurn,
	checkFundingWindow,
	checkWebsiteGenericness,
	checkProductStagnation,
}

// GenerateStallSignals runs every rule check and returns the signals that fired.
// asOf is the reference time for date arithmetic. Results depend only on the inputs.
func GenerateStallSignals(p schema.CompanyProfile, b schema.RawSignalBundle, asOf time.Time) []schema.StallSignal {
	signals := make([]schema.StallSignal, 0, len(signalChecks))
	for _, check := range signalChecks {
		if sig, ok := check(p, b, asOf); ok && sig.Severity > schema.SeverityNone {
			signals = append(signals, sig)
		}
	}
	return signals
}

func checkHeadcountDivergence(p schema.CompanyProfile, _ schema.RawSignalBundle, _ time.Time) (schema.StallSignal, bool) {
	if p.EngineeringCount == nil || p.EngineeringCountPrior == nil || p.SalesCount == nil || p.SalesCountPrior == nil {
		return schema.StallSignal{}, false
	}
	engGrowth := algo.GrowthPct(*p.EngineeringCountPrior, *p.EngineeringCount)
	salesGrowth := algo.GrowthPct(*p.SalesCountPrior, *p.SalesCount)
	if math.Abs(engGrowth) >= flatEngineeringPct || salesGrowth >= salesDeclinePct {
		return schema.StallSignal{}, false
	}
	return schema.StallSignal{
		Type:      schema.HeadcountDivergence,
		Severity:  schema.SeverityHigh,
		Diagnosis: schema.MotionFailure,
		Evidence: map[string]any{
			"engineering_growth_pct":  algo.Round2(engGrowth),
			"sales_growth_pct":        algo.Round2(salesGrowth),
			"engineering_count":       *p.EngineeringCount,
			"engineering_count_prior": *p.EngineeringCountPrior,
			"sales_count":             *p.SalesCount,
			"sales_count_prior":       *p.SalesCountPrior,
			"reason": fmt.Sprintf("Engineering headcount flat (%+.1f%%) while sales headcount changed %.1f%% over 6 months",
				engGrowth, salesGrowth),
		},
	}, true
}

func checkTechnographicChurn(p schema.CompanyProfile, _ schema.RawSignalBundle, _ time.Time) (schema.StallSignal, bool) {
	current := make(map[string]struct{}, len(p.TechStack))
	for _, tool := range p.TechStack {
		current[strings.ToLower(strings.TrimSpace(tool))] = struct{}{}
	}
	prior := make(map[string]struct{}, len(p.TechStackPrior))
	var dropped []string
	for _, tool := range p.TechStackPrior {
		key := strings.ToLower(strings.TrimSpace(tool))
		prior[key] = struct{}{}
		if _, still := current[key]; !still {
			dropped = append(dropped, tool)
		}
	}

	var droppedCritical []string
	for _, tool := range criticalGTMTools {
		key := strings.ToLower(tool)
		_, had := prior[key]
		_, has := current[key]
		if had && !has {
			droppedCritical = append(droppedCritical, tool)
		}
	}
	if len(droppedCritical) == 0 {
		return schema.StallSignal{}, false
	}
	return schema.StallSignal{
		Type:      schema.TechnographicChurn,
		Severity:  schema.SeverityHigh,
		Diagnosis: schema.CapitalConservation,
		Evidence: map[string]any{
			"dropped_tools":    dropped,
			"dropped_critical": droppedCritical,
			"reason": fmt.Sprintf("Dropped %d critical GTM tool(s) in the last 3 months: %s",
				len(droppedCritical), strings.Join(droppedCritical, ", ")),
		},
	}, true
}

// ParseFundingDate parses the date formats accepted for last_funding_date.
func ParseFundingDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty funding date")
	}
	for _, layout := range fundingDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized funding date %q", raw)
}

// MonthsSince is whole elapsed days divided by 30.
func MonthsSince(then, asOf time.Time) float64 {
	days := math.Floor(asOf.Sub(then).Hours() / 24)
	return days / daysPerMonth
}

// MonthsSinceFunding returns the months since the profile's last raise.
// ok is false when the date is missing or unparsable.
func MonthsSinceFunding(p schema.CompanyProfile, asOf time.Time) (months float64, ok bool) {
	when, err := ParseFundingDate(p.LastFundingDate)
	if err != nil {
		return 0, false
	}
	return MonthsSince(when, asOf), true
}

func checkFundingWindow(p schema.CompanyProfile, _ schema.RawSignalBundle, asOf time.Time) (schema.StallSignal, bool) {
	if !strings.Contains(strings.ToLower(p.Stage), "series a") {
		return schema.StallSignal{}, false
	}
	months, ok := MonthsSinceFunding(p, asOf)
	if !ok {
		return schema.StallSignal{}, false
	}

	sig := schema.StallSignal{
		Type: schema.FundingWindow,
		Evidence: map[string]any{
			"months_since_funding": math.Round(months*10) / 10,
			"last_funding_date":    p.LastFundingDate,
			"stage":                p.Stage,
		},
	}
	switch {
	case months > valleyOfDeathMonths:
		sig.Severity = schema.SeverityHigh
		sig.Diagnosis = schema.ValleyOfDeathRisk
		sig.Evidence["reason"] = fmt.Sprintf("%.0f months since Series A, past the %.0f-month runway window",
			math.Round(months), valleyOfDeathMonths)
	case months > approachValleyMonths:
		sig.Severity = schema.SeverityMedium
		sig.Diagnosis = schema.ApproachingValleyOfDeath
		sig.Evidence["reason"] = fmt.Sprintf("%.0f months since Series A, inside the %.0f-%.0f month window",
			math.Round(months), approachValleyMonths, valleyOfDeathMonths)
	default:
		return schema.StallSignal{}, false
	}
	return sig, true
}

func checkWebsiteGenericness(_ schema.CompanyProfile, b schema.RawSignalBundle, _ time.Time) (schema.StallSignal, bool) {
	if b.Homepage == nil || b.Homepage.RawCopy == "" {
		return schema.StallSignal{}, false
	}
	found := algo.MatchSubstrings(b.Homepage.RawCopy, genericPhrases)
	if len(found) <= maxGenericPhrases {
		return schema.StallSignal{}, false
	}
	return schema.StallSignal{
		Type:      schema.WebsiteGenericness,
		Severity:  schema.SeverityMedium,
		Diagnosis: schema.PMFDrift,
		Evidence: map[string]any{
			"generic_phrase_count": len(found),
			"generic_phrases":      found,
			"reason": fmt.Sprintf("%d generic marketing phrases in homepage copy (more than %d)",
				len(found), maxGenericPhrases),
		},
	}, true
}

func checkProductStagnation(_ schema.CompanyProfile, b schema.RawSignalBundle, _ time.Time) (schema.StallSignal, bool) {
	if b.Engineering == nil || b.Engineering.LastCommitDays == nil {
		return schema.StallSignal{}, false
	}
	days := *b.Engineering.LastCommitDays
	if days <= stagnantCommitDays {
		return schema.StallSignal{}, false
	}
	return schema.StallSignal{
		Type:      schema.ProductStagnation,
		Severity:  schema.SeverityMedium,
		Diagnosis: schema.ProductStagnationCode,
		Evidence: map[string]any{
			"last_commit_days": days,
			"reason":           fmt.Sprintf("No engineering activity in %d days (more than %d)", days, stagnantCommitDays),
		},
	}, true
}
