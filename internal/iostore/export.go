package iostore

import (
	"errors"
	"fmt"
	"io"

	"github.com/celerio/scout/internal/contract"
	"github.com/celerio/scout/internal/parquet"
	"github.com/celerio/scout/schema"
)

// ExportSource is what an export reads: status for the header, then every row.
type ExportSource interface {
	GetStatus() (schema.ReportStatus, error)
	contract.ReportReader
}

// ExecuteReportExport writes every stored run and diagnosis to
// <outputFile>.runs.parquet and <outputFile>.diagnoses.parquet.
func ExecuteReportExport(w io.Writer, store ExportSource, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get report status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no diagnosis runs found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total company diagnoses: %d\n", status.TableSizes[companyDiagnosesTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve diagnosis runs: %w", err)
	}
	diagnoses, err := store.GetAllDiagnoses()
	if err != nil {
		return fmt.Errorf("failed to retrieve company diagnoses: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	parquetRuns := parquet.ConvertRunRecords(runs)
	if err := parquet.WriteRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write diagnosis runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d runs to: %s\n", len(parquetRuns), runsFile)

	diagnosesFile := outputFile + ".diagnoses.parquet"
	parquetDiagnoses := parquet.ConvertDiagnosisRecords(diagnoses)
	if err := parquet.WriteDiagnosesParquet(parquetDiagnoses, diagnosesFile); err != nil {
		return fmt.Errorf("failed to write company diagnoses: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d company diagnoses to: %s\n", len(parquetDiagnoses), diagnosesFile)

	return nil
}
