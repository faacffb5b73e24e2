package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/celerio/scout/internal/contract"
	"github.com/celerio/scout/schema"

	"github.com/olekukonko/tablewriter"
)

const signalsFixedWidth = 50

// signalRow is one emitted signal tagged with its company.
type signalRow struct {
	CompanyID   string `json:"company_id"`
	CompanyName string `json:"company_name"`
	schema.StallSignal
}

// flattenSignals lists every signal in company order, then emission order.
func flattenSignals(results []schema.Assessment) []signalRow {
	var rows []signalRow
	for _, a := range results {
		for _, s := range a.Signals {
			rows = append(rows, signalRow{
				CompanyID:   a.Report.CompanyID,
				CompanyName: a.Report.CompanyName,
				StallSignal: s,
			})
		}
	}
	return rows
}

// WriteSignalResults outputs the stall signals, dispatching based on the output format configured.
func WriteSignalResults(results []schema.Assessment, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			rows := flattenSignals(results)
			if rows == nil {
				rows = []signalRow{}
			}
			return writeJSON(w, rows)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForSignals(w, results)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeParquetResults(results, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSignalTable(results, cfg, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeSignalTable writes one row per signal. Companies without signals get a single "-" row.
func writeSignalTable(results []schema.Assessment, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Company", "Signal", "Severity", "Diagnosis", "Reason"})

	textWidth := GetMaxTableTextWidth(cfg, signalsFixedWidth)
	var data [][]string
	total := 0
	for _, a := range results {
		name := contract.TruncateText(a.Report.CompanyName, textWidth)
		if len(a.Signals) == 0 {
			data = append(data, []string{name, "-", levelLabel(schema.SeverityNone.String(), cfg.UseColors), "-", "-"})
			continue
		}
		for _, s := range a.Signals {
			diagnosis := string(s.Diagnosis)
			if diagnosis == "" {
				diagnosis = "-"
			}
			data = append(data, []string{
				name,
				string(s.Type),
				levelLabel(s.Severity.String(), cfg.UseColors),
				diagnosis,
				contract.TruncateText(s.Reason(), textWidth),
			})
			total++
		}
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Emitted %d signals across %d companies\n", total, len(results)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Signal generation completed in %v with %d workers\n", duration, cfg.Workers); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForSignals writes one CSV row per emitted signal.
func writeCSVResultsForSignals(w io.Writer, results []schema.Assessment) error {
	header := []string{"company_id", "company", "type", "severity", "diagnosis", "reason"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, row := range flattenSignals(results) {
			rec := []string{
				row.CompanyID,
				row.CompanyName,
				string(row.Type),
				row.Severity.String(),
				string(row.Diagnosis),
				row.Reason(),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
