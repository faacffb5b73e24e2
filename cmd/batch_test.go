package cmd

import (
	"context"
	"testing"
	"time"

	"github.com/celerio/scout/internal/contract"
	"github.com/celerio/scout/internal/ingest"
	"github.com/celerio/scout/internal/iostore"
	"github.com/celerio/scout/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const companiesDoc = "../internal/ingest/testdata/companies.json"

func floatPtr(v float64) *float64 { return &v }

func TestResolveRunSettings(t *testing.T) {
	now := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	flagAsOf := time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)
	docFilter := &schema.BatchFilter{Stage: "seed"}
	flagFilter := schema.BatchFilter{FundingRange: &schema.Range{Min: floatPtr(1), Max: floatPtr(2)}}

	tests := []struct {
		name       string
		rawAsOf    string
		cfgFilter  schema.BatchFilter
		doc        ingest.Document
		wantAsOf   time.Time
		wantFilter schema.BatchFilter
		wantErr    bool
	}{
		{
			name:       "document defaults apply without flags",
			doc:        ingest.Document{AsOf: "2026-01-15", Filter: docFilter},
			wantAsOf:   time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC),
			wantFilter: *docFilter,
		},
		{
			name:       "flags win over document",
			rawAsOf:    "2025-12-31",
			cfgFilter:  flagFilter,
			doc:        ingest.Document{AsOf: "2026-01-15", Filter: docFilter},
			wantAsOf:   flagAsOf,
			wantFilter: flagFilter,
		},
		{
			name:     "no document defaults keeps config",
			rawAsOf:  "2025-12-31",
			doc:      ingest.Document{},
			wantAsOf: flagAsOf,
		},
		{
			name:    "invalid document as_of",
			doc:     ingest.Document{AsOf: "the other day"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &contract.Config{AsOf: flagAsOf, Filter: tt.cfgFilter}
			raw := &contract.ConfigRawInput{AsOf: tt.rawAsOf}

			asOf, filter, err := resolveRunSettings(c, raw, &tt.doc, now)
			if tt.wantErr {
				assert.ErrorContains(t, err, "document as_of")
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.wantAsOf.Equal(asOf), "as_of = %v", asOf)
			assert.Equal(t, tt.wantFilter, filter)
		})
	}
}

func TestExecuteBatch_RecordsRun(t *testing.T) {
	input = &contract.ConfigRawInput{}
	c := &contract.Config{
		InputPath:     companiesDoc,
		Workers:       2,
		ReportBackend: schema.SQLiteBackend,
	}

	store := &iostore.MockReportStore{}
	store.On("BeginRun", mock.Anything, mock.Anything).Return(int64(7), nil)
	store.On("RecordDiagnosis", int64(7), mock.Anything).Return(nil).Times(2)
	store.On("EndRun", int64(7), mock.Anything, 2).Return(nil)

	var got []schema.Assessment
	err := executeBatch(context.Background(), c, store, func(results []schema.Assessment, _ *contract.Config, _ time.Duration) error {
		got = results
		return nil
	})
	require.NoError(t, err)
	store.AssertExpectations(t)

	require.Len(t, got, 2)
	assert.Equal(t, "Stalled Inc", got[0].Report.CompanyName)
	assert.Equal(t, "Healthy Co", got[1].Report.CompanyName)
	assert.Equal(t, time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC), got[0].AsOf)
	assert.NotEqual(t, schema.HealthyVector, got[0].Report.PrimaryVector)
}

func TestExecuteBatch_FilterFlags(t *testing.T) {
	input = &contract.ConfigRawInput{}
	c := &contract.Config{
		InputPath:     companiesDoc,
		Workers:       1,
		Filter:        schema.BatchFilter{Stage: "seed"},
		ReportBackend: schema.NoneBackend,
	}

	store := &iostore.MockReportStore{}
	var got []schema.Assessment
	err := executeBatch(context.Background(), c, store, func(results []schema.Assessment, _ *contract.Config, _ time.Duration) error {
		got = results
		return nil
	})
	require.NoError(t, err)
	store.AssertNotCalled(t, "BeginRun", mock.Anything, mock.Anything)

	require.Len(t, got, 1)
	assert.Equal(t, "Healthy Co", got[0].Report.CompanyName)
}

func TestExecuteBatch_Errors(t *testing.T) {
	input = &contract.ConfigRawInput{}
	noop := func([]schema.Assessment, *contract.Config, time.Duration) error { return nil }

	err := executeBatch(context.Background(), &contract.Config{}, nil, noop)
	assert.ErrorContains(t, err, "input document is required")

	err = executeBatch(context.Background(), &contract.Config{InputPath: "companies.txt"}, nil, noop)
	assert.ErrorIs(t, err, ingest.ErrUnsupportedFormat)
}
