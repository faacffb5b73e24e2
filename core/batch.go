package core

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/celerio/scout/schema"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const tracerName = "github.com/celerio/scout/core"

// BatchOptions tunes a batch run. The zero value is usable.
type BatchOptions struct {
	AsOf    time.Time   // reference time; zero means now
	Workers int         // concurrent workers; <= 0 means GOMAXPROCS
	Logger  *zap.Logger // nil means no logging
}

func (o BatchOptions) normalized() BatchOptions {
	if o.AsOf.IsZero() {
		o.AsOf = time.Now()
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// MatchesFilter reports whether a profile passes every provided criterion.
// A profile missing the field a criterion needs is excluded, except headcount,
// which falls back to engineering plus sales counts.
func MatchesFilter(p schema.CompanyProfile, f schema.BatchFilter, asOf time.Time) bool {
	if _, _, ok := f.FundingRange.Bounds(); ok {
		if p.FundingAmount == nil || !f.FundingRange.Contains(*p.FundingAmount) {
			return false
		}
	}
	if _, _, ok := f.HeadcountRange.Bounds(); ok {
		total, known := p.TotalHeadcount()
		if !known || !f.HeadcountRange.Contains(float64(total)) {
			return false
		}
	}
	if _, _, ok := f.MonthsPostRaiseRange.Bounds(); ok {
		months, known := MonthsSinceFunding(p, asOf)
		if !known || !f.MonthsPostRaiseRange.Contains(months) {
			return false
		}
	}
	if stage := strings.ToLower(strings.TrimSpace(f.Stage)); stage != "" {
		if !strings.Contains(strings.ToLower(p.Stage), stage) {
			return false
		}
	}
	return true
}

// FilterCompanies keeps the companies that pass the filter, in input order.
func FilterCompanies(companies []schema.Company, f schema.BatchFilter, asOf time.Time) []schema.Company {
	if f.IsEmpty() {
		return companies
	}
	kept := make([]schema.Company, 0, len(companies))
	for _, c := range companies {
		if MatchesFilter(c.Profile, f, asOf) {
			kept = append(kept, c)
		}
	}
	return kept
}

// AssessBatch filters the companies and assesses each survivor on a bounded
// worker pool. Output order matches input order. A profile without an
// identity aborts the batch.
func AssessBatch(ctx context.Context, companies []schema.Company, f schema.BatchFilter, opts BatchOptions) ([]schema.Assessment, error) {
	opts = opts.normalized()
	log := opts.Logger

	ctx, span := otel.Tracer(tracerName).Start(ctx, "diagnose_batch",
		trace.WithAttributes(
			attribute.Int("companies.input", len(companies)),
			attribute.Int("workers", opts.Workers),
		))
	defer span.End()

	kept := FilterCompanies(companies, f, opts.AsOf)
	log.Debug("batch filtered", zap.Int("input", len(companies)), zap.Int("kept", len(kept)))
	span.SetAttributes(attribute.Int("companies.kept", len(kept)))

	for i, c := range kept {
		if err := c.Profile.Validate(); err != nil {
			err = fmt.Errorf("company %d: %w", i, err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "invalid profile")
			return nil, err
		}
		if c.Profile.LastFundingDate != "" {
			if _, err := ParseFundingDate(c.Profile.LastFundingDate); err != nil {
				log.Debug("funding window check skipped",
					zap.String("company", c.Profile.Name),
					zap.Error(err))
			}
		}
	}

	results := make([]schema.Assessment, len(kept))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, c := range kept {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			_, child := otel.Tracer(tracerName).Start(gctx, "diagnose_company",
				trace.WithAttributes(attribute.String("company.name", c.Profile.Name)))
			defer child.End()

			a, err := AssessCompany(c.Profile, c.Signals, opts.AsOf)
			if err != nil {
				child.RecordError(err)
				return fmt.Errorf("company %q: %w", c.Profile.Name, err)
			}
			child.SetAttributes(
				attribute.String("primary_vector", string(a.Report.PrimaryVector)),
				attribute.Int("signals", len(a.Signals)),
			)
			results[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.Info("batch assessed",
		zap.Int("input", len(companies)),
		zap.Int("assessed", len(results)),
		zap.Int("workers", opts.Workers),
		zap.Time("as_of", opts.AsOf))
	return results, nil
}

// DiagnoseBatch is AssessBatch reduced to the diagnosis reports.
func DiagnoseBatch(ctx context.Context, companies []schema.Company, f schema.BatchFilter, opts BatchOptions) ([]schema.DiagnosisReport, error) {
	assessments, err := AssessBatch(ctx, companies, f, opts)
	if err != nil {
		return nil, err
	}
	reports := make([]schema.DiagnosisReport, len(assessments))
	for i, a := range assessments {
		reports[i] = a.Report
	}
	return reports, nil
}
