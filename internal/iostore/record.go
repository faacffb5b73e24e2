package iostore

import (
	"errors"
	"fmt"
	"time"

	"github.com/celerio/scout/internal/contract"
	"github.com/celerio/scout/schema"
)

// RecordBatch stores one finished batch as a run.
// Per-company failures are joined and returned after the run is closed,
// so a bad row never leaves a run without its end time.
func RecordBatch(store contract.ReportStore, startTime, endTime time.Time, configParams map[string]any, assessments []schema.Assessment) (int64, error) {
	runID, err := store.BeginRun(startTime, configParams)
	if err != nil {
		return 0, err
	}

	var errs []error
	for _, a := range assessments {
		if err := store.RecordDiagnosis(runID, a); err != nil {
			errs = append(errs, err)
		}
	}

	if err := store.EndRun(runID, endTime, len(assessments)); err != nil {
		errs = append(errs, fmt.Errorf("failed to close run %d: %w", runID, err))
	}
	return runID, errors.Join(errs...)
}
