package core

import (
	"strings"
	"testing"
	"time"

	"github.com/celerio/scout/schema"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var refTime = time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)

// daysAgo formats the date n days before refTime.
func daysAgo(n int) string {
	return refTime.AddDate(0, 0, -n).Format(time.DateOnly)
}

func signalTypes(signals []schema.StallSignal) []schema.SignalType {
	out := make([]schema.SignalType, 0, len(signals))
	for _, s := range signals {
		out = append(out, s.Type)
	}
	return out
}

// stalledCompany triggers four of the five checks.
func stalledCompany() (schema.CompanyProfile, schema.RawSignalBundle) {
	p := schema.CompanyProfile{
		Name:                  "Stalled Inc",
		Domain:                "stalled.example",
		Stage:                 "Series A",
		LastFundingDate:       daysAgo(600),
		EngineeringCount:      intPtr(20),
		EngineeringCountPrior: intPtr(20),
		SalesCount:            intPtr(15),
		SalesCountPrior:       intPtr(20),
	}
	b := schema.RawSignalBundle{
		Homepage: &schema.HomepageSignals{
			RawCopy: "The leading, innovative, cutting-edge, revolutionary and world-class platform.",
		},
		Engineering: &schema.EngineeringSignals{LastCommitDays: intPtr(150)},
	}
	return p, b
}

func TestGenerateStallSignalsStalledCompany(t *testing.T) {
	p, b := stalledCompany()
	signals := GenerateStallSignals(p, b, refTime)

	require.Len(t, signals, 4)
	assert.Equal(t, []schema.SignalType{
		schema.HeadcountDivergence,
		schema.FundingWindow,
		schema.WebsiteGenericness,
		schema.ProductStagnation,
	}, signalTypes(signals))

	expected := []struct {
		sev  schema.Severity
		diag schema.DiagnosisCode
	}{
		{schema.SeverityHigh, schema.MotionFailure},
		{schema.SeverityHigh, schema.ValleyOfDeathRisk},
		{schema.SeverityMedium, schema.PMFDrift},
		{schema.SeverityMedium, schema.ProductStagnationCode},
	}
	for i, e := range expected {
		assert.Equal(t, e.sev, signals[i].Severity, signals[i].Type)
		assert.Equal(t, e.diag, signals[i].Diagnosis, signals[i].Type)
		assert.NotEmpty(t, signals[i].Reason(), signals[i].Type)
	}
	assert.Equal(t, 20.0, signals[1].Evidence["months_since_funding"])
}

func TestGenerateStallSignalsNeutral(t *testing.T) {
	signals := GenerateStallSignals(schema.CompanyProfile{Name: "Quiet"}, schema.RawSignalBundle{}, refTime)
	assert.NotNil(t, signals)
	assert.Empty(t, signals)
}

func TestGenerateStallSignalsIdempotent(t *testing.T) {
	p, b := stalledCompany()
	p.TechStackPrior = []string{"ZoomInfo", "Salesforce"}
	p.TechStack = []string{"Salesforce"}

	first := GenerateStallSignals(p, b, refTime)
	second := GenerateStallSignals(p, b, refTime)
	bySeverityThenType := cmpopts.SortSlices(func(a, b schema.StallSignal) bool {
		if a.Severity != b.Severity {
			return a.Severity > b.Severity
		}
		return a.Type < b.Type
	})
	if diff := cmp.Diff(first, second, bySeverityThenType); diff != "" {
		t.Errorf("signals differ between runs (-first +second):\n%s", diff)
	}
}

func TestCheckHeadcountDivergence(t *testing.T) {
	tests := []struct {
		name                              string
		engPrior, eng, salesPrior, sales *int
		fires                             bool
	}{
		{"flat eng, sales collapse", intPtr(10), intPtr(10), intPtr(10), intPtr(7), true},
		{"eng just inside flat band", intPtr(100), intPtr(104), intPtr(10), intPtr(7), true},
		{"eng at 5 percent is not flat", intPtr(100), intPtr(105), intPtr(10), intPtr(7), false},
		{"sales at exactly -20", intPtr(10), intPtr(10), intPtr(10), intPtr(8), false},
		{"empty teams use floor of one", intPtr(0), intPtr(0), intPtr(0), intPtr(0), false},
		{"missing prior sales", intPtr(10), intPtr(10), nil, intPtr(1), false},
		{"missing current eng", intPtr(10), nil, intPtr(10), intPtr(1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := schema.CompanyProfile{
				Name:                  "x",
				EngineeringCountPrior: tt.engPrior,
				EngineeringCount:      tt.eng,
				SalesCountPrior:       tt.salesPrior,
				SalesCount:            tt.sales,
			}
			sig, ok := checkHeadcountDivergence(p, schema.RawSignalBundle{}, refTime)
			assert.Equal(t, tt.fires, ok)
			if ok {
				assert.Equal(t, schema.SeverityHigh, sig.Severity)
				assert.Equal(t, schema.MotionFailure, sig.Diagnosis)
			}
		})
	}
}

func TestCheckTechnographicChurn(t *testing.T) {
	p := schema.CompanyProfile{
		Name:           "x",
		TechStackPrior: []string{"Salesforce", "ZoomInfo", "segment"},
		TechStack:      []string{"salesforce", "HubSpot"},
	}
	sig, ok := checkTechnographicChurn(p, schema.RawSignalBundle{}, refTime)
	require.True(t, ok)
	assert.Equal(t, schema.CapitalConservation, sig.Diagnosis)
	assert.Equal(t, []string{"Segment", "ZoomInfo"}, sig.Evidence["dropped_critical"])
	assert.Equal(t, []string{"ZoomInfo", "segment"}, sig.Evidence["dropped_tools"])

	p.TechStack = append(p.TechStack, "ZOOMINFO", "Segment")
	_, ok = checkTechnographicChurn(p, schema.RawSignalBundle{}, refTime)
	assert.False(t, ok, "case-insensitive match keeps the tools")

	p.TechStackPrior = []string{"Salesforce"}
	p.TechStack = nil
	_, ok = checkTechnographicChurn(p, schema.RawSignalBundle{}, refTime)
	assert.False(t, ok, "non-critical tools never fire")
}

func TestCheckFundingWindow(t *testing.T) {
	tests := []struct {
		name     string
		stage    string
		date     string
		fires    bool
		severity schema.Severity
		code     schema.DiagnosisCode
	}{
		{"past 18 months", "Series A", daysAgo(541), true, schema.SeverityHigh, schema.ValleyOfDeathRisk},
		{"exactly 18 months", "series a", daysAgo(540), true, schema.SeverityMedium, schema.ApproachingValleyOfDeath},
		{"just past 12 months", "Post Series A", daysAgo(361), true, schema.SeverityMedium, schema.ApproachingValleyOfDeath},
		{"exactly 12 months", "Series A", daysAgo(360), false, schema.SeverityNone, ""},
		{"wrong stage", "Seed", daysAgo(700), false, schema.SeverityNone, ""},
		{"missing date", "Series A", "", false, schema.SeverityNone, ""},
		{"unparsable date", "Series A", "last spring", false, schema.SeverityNone, ""},
		{"month precision date", "Series A", "2023-06", true, schema.SeverityHigh, schema.ValleyOfDeathRisk},
		{"timestamp date", "Series A", "2024-03-01T10:00:00Z", true, schema.SeverityHigh, schema.ValleyOfDeathRisk},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := schema.CompanyProfile{Name: "x", Stage: tt.stage, LastFundingDate: tt.date}
			sig, ok := checkFundingWindow(p, schema.RawSignalBundle{}, refTime)
			require.Equal(t, tt.fires, ok)
			if ok {
				assert.Equal(t, tt.severity, sig.Severity)
				assert.Equal(t, tt.code, sig.Diagnosis)
				assert.Equal(t, tt.date, sig.Evidence["last_funding_date"])
			}
		})
	}
}

func TestMonthsSince(t *testing.T) {
	then := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0.0, MonthsSince(then, then.Add(23*time.Hour)))
	assert.Equal(t, 1.0, MonthsSince(then, then.AddDate(0, 0, 30)))
	assert.InDelta(t, 12.1666, MonthsSince(then, then.AddDate(0, 0, 365)), 1e-3)
}

func TestParseFundingDate(t *testing.T) {
	for _, raw := range []string{
		"2024-05-01",
		"2024-05-01T12:30:00Z",
		"2024-05-01T12:30:00.123456+02:00",
		"2024-05-01T12:30:00",
		"2024-05-01 12:30:00",
		"2024-05",
		" 2024-05-01 ",
	} {
		_, err := ParseFundingDate(raw)
		assert.NoError(t, err, raw)
	}
	for _, raw := range []string{"", "05/01/2024", "yesterday"} {
		_, err := ParseFundingDate(raw)
		assert.Error(t, err, raw)
	}
}

func TestCheckWebsiteGenericness(t *testing.T) {
	phrases := []string{"leading", "innovative", "cutting-edge", "revolutionary", "best-in-class"}
	tests := []struct {
		name  string
		count int
		fires bool
	}{
		{"three phrases", 3, false},
		{"four phrases", 4, true},
		{"five phrases", 5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			copyText := strings.ToUpper(strings.Join(phrases[:tt.count], " and "))
			b := schema.RawSignalBundle{Homepage: &schema.HomepageSignals{RawCopy: copyText}}
			sig, ok := checkWebsiteGenericness(schema.CompanyProfile{}, b, refTime)
			assert.Equal(t, tt.fires, ok)
			if ok {
				assert.Equal(t, tt.count, sig.Evidence["generic_phrase_count"])
				assert.Equal(t, schema.PMFDrift, sig.Diagnosis)
			}
		})
	}

	repeated := schema.RawSignalBundle{Homepage: &schema.HomepageSignals{RawCopy: "leading leading leading leading innovative"}}
	_, ok := checkWebsiteGenericness(schema.CompanyProfile{}, repeated, refTime)
	assert.False(t, ok, "each phrase counts once")
}

func TestCheckProductStagnation(t *testing.T) {
	tests := []struct {
		name  string
		days  *int
		fires bool
	}{
		{"missing", nil, false},
		{"exactly 90", intPtr(90), false},
		{"91 days", intPtr(91), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := schema.RawSignalBundle{Engineering: &schema.EngineeringSignals{LastCommitDays: tt.days}}
			sig, ok := checkProductStagnation(schema.CompanyProfile{}, b, refTime)
			assert.Equal(t, tt.fires, ok)
			if ok {
				assert.Equal(t, schema.SeverityMedium, sig.Severity)
				assert.Equal(t, schema.ProductStagnationCode, sig.Diagnosis)
			}
		})
	}
}

// TestEmittedCodesVectors pins which emitted codes the bucketizer keeps.
func TestEmittedCodesVectors(t *testing.T) {
	p, b := stalledCompany()
	p.TechStackPrior = []string{"Clearbit"}
	p.LastFundingDate = daysAgo(400)
	signals := GenerateStallSignals(p, b, refTime)
	require.Len(t, signals, 5)

	unbucketed := map[schema.DiagnosisCode]bool{
		schema.ApproachingValleyOfDeath: true,
		schema.ProductStagnationCode:    true,
	}
	for _, s := range signals {
		_, ok := VectorFor(s.Diagnosis)
		assert.Equal(t, !unbucketed[s.Diagnosis], ok, s.Diagnosis)
	}

	buckets := BucketSignals(signals)
	assert.Len(t, buckets[schema.MotionVector], 2)
	assert.Len(t, buckets[schema.MarketVector], 1)
	assert.Empty(t, buckets[schema.MessagingVector])
}
