package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/celerio/scout/core"
	"github.com/celerio/scout/internal/contract"
	"github.com/celerio/scout/internal/ingest"
	"github.com/celerio/scout/internal/iostore"
	"github.com/celerio/scout/schema"
	"go.uber.org/zap"
)

// batchWriter renders the assessments of one batch run.
type batchWriter func(results []schema.Assessment, cfg *contract.Config, duration time.Duration) error

// resolveRunSettings merges document defaults under the command-line settings.
// The document's as_of applies only when no --as-of was given, and its filter
// only when no filter flag constrains anything.
func resolveRunSettings(c *contract.Config, raw *contract.ConfigRawInput, doc *ingest.Document, now time.Time) (time.Time, schema.BatchFilter, error) {
	asOf := c.AsOf
	if raw.AsOf == "" && doc.AsOf != "" {
		t, err := contract.ParseAsOf(doc.AsOf, now)
		if err != nil {
			return time.Time{}, schema.BatchFilter{}, fmt.Errorf("document as_of: %w", err)
		}
		asOf = t
	}

	filter := c.Filter
	if filter.IsEmpty() && doc.Filter != nil {
		filter = *doc.Filter
	}
	return asOf, filter, nil
}

// runConfigParams is the run metadata stored alongside recorded diagnoses.
func runConfigParams(c *contract.Config, asOf time.Time, filter schema.BatchFilter) map[string]any {
	return map[string]any{
		"input":   c.InputPath,
		"as_of":   asOf.Format(contract.DateTimeFormat),
		"workers": c.Workers,
		"filter":  filter,
		"output":  c.Output,
	}
}

// executeBatch loads the input document, assesses it, records the run when a
// report backend is configured and writes the results.
func executeBatch(ctx context.Context, c *contract.Config, store contract.ReportStore, write batchWriter) error {
	if c.InputPath == "" {
		return fmt.Errorf("an input document is required")
	}
	doc, err := ingest.LoadFile(c.InputPath)
	if err != nil {
		return err
	}

	start := time.Now()
	asOf, filter, err := resolveRunSettings(c, input, doc, start)
	if err != nil {
		return err
	}
	logger.Debug("batch loaded",
		zap.String("input", c.InputPath),
		zap.Int("companies", len(doc.Companies)),
		zap.Time("as_of", asOf))

	results, err := core.AssessBatch(ctx, doc.Companies, filter, core.BatchOptions{
		AsOf:    asOf,
		Workers: c.Workers,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("batch diagnosis failed: %w", err)
	}
	duration := time.Since(start)

	if store != nil && c.ReportBackend != schema.NoneBackend {
		runID, err := iostore.RecordBatch(store, start, time.Now(), runConfigParams(c, asOf, filter), results)
		if err != nil {
			contract.LogWarn("Failed to record diagnosis run", err)
		} else {
			logger.Info("diagnosis run recorded", zap.Int64("run_id", runID), zap.Int("companies", len(results)))
		}
	}

	return write(results, c, duration)
}

// reportStore returns the configured store as the contract interface, or nil.
func reportStore() contract.ReportStore {
	if s := iostore.Manager.GetReportStore(); s != nil {
		return s
	}
	return nil
}
