package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/celerio/scout/internal/contract"
	"github.com/celerio/scout/internal/parquet"
	"github.com/celerio/scout/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Width reserved by the fixed diagnosis table columns.
const (
	diagnosisFixedWidth   = 60
	diagnosisExplainWidth = 45
)

// WriteDiagnosisResults outputs the assessments, dispatching based on the output format configured.
func WriteDiagnosisResults(results []schema.Assessment, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONResultsForDiagnoses(w, results)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForDiagnoses(w, results, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeParquetResults(results, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeDiagnosisTable(results, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeParquetResults writes the flattened assessments to a single Parquet file.
func writeParquetResults(results []schema.Assessment, outputFile string) error {
	if outputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}
	if err := parquet.WriteDiagnosesParquet(parquet.ConvertAssessments(results), outputFile); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(stderr, "💾 Wrote Parquet to %s\n", outputFile)
	return nil
}

// writeDiagnosisTable generates and writes the human-readable table.
func writeDiagnosisTable(results []schema.Assessment, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	headers := []string{"#", "Company", "Primary", "Risk", "Stall", "Messaging", "Motion", "Market"}
	reserved := diagnosisFixedWidth
	if cfg.Explain {
		headers = append(headers, "Failure Mode", "Explain")
		reserved += diagnosisExplainWidth
	}
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := GetMaxTableTextWidth(cfg, reserved)
	var data [][]string
	for i, a := range results {
		row := []string{
			strconv.Itoa(i + 1),
			contract.TruncateText(a.Report.CompanyName, nameWidth),
			contract.GetVectorLabel(a.Report.PrimaryVector, cfg.UseColors),
			levelLabel(string(a.Report.StallRisk), cfg.UseColors),
			levelLabel(string(a.StallProbability), cfg.UseColors),
			fmtFloat(a.Scores.Messaging.Value),
			fmtFloat(a.Scores.Motion.Value),
			fmtFloat(a.Scores.Market.Value),
		}
		if cfg.Explain {
			row = append(row, primaryFailureMode(a), contract.TruncateText(explainAssessment(a), nameWidth))
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	stalled, highRisk := 0, 0
	for _, a := range results {
		if a.Report.PrimaryVector != schema.HealthyVector {
			stalled++
		}
		if a.Report.StallRisk == schema.RiskHigh {
			highRisk++
		}
	}
	if _, err := fmt.Fprintf(writer, "Diagnosed %d companies (stalled: %d, healthy: %d, high risk: %d)\n",
		len(results), stalled, len(results)-stalled, highRisk); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Diagnosis completed in %v with %d workers. Report backend: %s\n",
		duration, cfg.Workers, cfg.ReportBackend); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForDiagnoses writes one flat row per assessment.
func writeCSVResultsForDiagnoses(w io.Writer, results []schema.Assessment, fmtFloat func(float64) string) error {
	header := []string{
		"rank",
		"company_id",
		"company",
		"domain",
		"as_of",
		"primary_vector",
		"stall_risk",
		"stall_probability",
		"messaging",
		"motion",
		"market",
		"failure_mode",
		"signal_codes",
		"fractional_executive",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, a := range results {
			rec := []string{
				strconv.Itoa(i + 1),
				a.Report.CompanyID,
				a.Report.CompanyName,
				a.Report.Domain,
				a.AsOf.Format(contract.DateTimeFormat),
				string(a.Report.PrimaryVector),
				string(a.Report.StallRisk),
				string(a.StallProbability),
				fmtFloat(a.Scores.Messaging.Value),
				fmtFloat(a.Scores.Motion.Value),
				fmtFloat(a.Scores.Market.Value),
				primaryFailureMode(a),
				strings.Join(signalCodes(a.Signals), "|"),
				a.Report.Prescription.FractionalExecutive,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeJSONResultsForDiagnoses writes the assessments in JSON format.
func writeJSONResultsForDiagnoses(w io.Writer, results []schema.Assessment) error {
	type JSONAssessment struct {
		Rank int `json:"rank"`
		schema.Assessment
	}

	output := make([]JSONAssessment, len(results))
	for i, a := range results {
		output[i] = JSONAssessment{Rank: i + 1, Assessment: a}
	}
	return writeJSON(w, output)
}
