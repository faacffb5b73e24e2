package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/celerio/scout/internal/contract"
	"github.com/celerio/scout/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

const scoresFixedWidth = 55

// scoreRow is the JSON shape of one scored company.
type scoreRow struct {
	CompanyID        string                  `json:"company_id"`
	CompanyName      string                  `json:"company_name"`
	Scores           schema.ScoreTriple      `json:"scores"`
	Average          float64                 `json:"average"`
	StallProbability schema.StallProbability `json:"stall_probability"`
}

// WriteScoreResults outputs the score triples, dispatching based on the output format configured.
func WriteScoreResults(results []schema.Assessment, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONResultsForScores(w, results)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForScores(w, results, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeParquetResults(results, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScoreTable(results, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeScoreTable writes one row per company with the three vector scores.
// With --explain it adds the sub-metrics of the weakest vector.
func writeScoreTable(results []schema.Assessment, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	headers := []string{"#", "Company", "Messaging", "Motion", "Market", "Average", "Stall"}
	if cfg.Explain {
		headers = append(headers, "Weakest", "Submetrics")
	}
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	textWidth := GetMaxTableTextWidth(cfg, scoresFixedWidth)
	var data [][]string
	for i, a := range results {
		row := []string{
			strconv.Itoa(i + 1),
			contract.TruncateText(a.Report.CompanyName, textWidth),
			fmtFloat(a.Scores.Messaging.Value),
			fmtFloat(a.Scores.Motion.Value),
			fmtFloat(a.Scores.Market.Value),
			fmtFloat(a.Scores.Average()),
			levelLabel(string(a.StallProbability), cfg.UseColors),
		}
		if cfg.Explain {
			v, score := weakestVector(a.Scores)
			row = append(row, string(v), contract.TruncateText(formatSubmetrics(score.Submetrics, fmtFloat), textWidth))
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	counts := map[schema.StallProbability]int{}
	for _, a := range results {
		counts[a.StallProbability]++
	}
	if _, err := fmt.Fprintf(writer, "Scored %d companies (high: %d, medium: %d, low: %d)\n",
		len(results), counts[schema.StallHigh], counts[schema.StallMedium], counts[schema.StallLow]); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Scoring completed in %v with %d workers\n", duration, cfg.Workers); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForScores writes the score triples in CSV format.
func writeCSVResultsForScores(w io.Writer, results []schema.Assessment, fmtFloat func(float64) string) error {
	header := []string{"rank", "company_id", "company", "messaging", "motion", "market", "average", "stall_probability"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, a := range results {
			rec := []string{
				strconv.Itoa(i + 1),
				a.Report.CompanyID,
				a.Report.CompanyName,
				fmtFloat(a.Scores.Messaging.Value),
				fmtFloat(a.Scores.Motion.Value),
				fmtFloat(a.Scores.Market.Value),
				fmtFloat(a.Scores.Average()),
				string(a.StallProbability),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeJSONResultsForScores writes the score triples with their sub-metrics.
func writeJSONResultsForScores(w io.Writer, results []schema.Assessment) error {
	output := make([]scoreRow, len(results))
	for i, a := range results {
		output[i] = scoreRow{
			CompanyID:        a.Report.CompanyID,
			CompanyName:      a.Report.CompanyName,
			Scores:           a.Scores,
			Average:          a.Scores.Average(),
			StallProbability: a.StallProbability,
		}
	}
	return writeJSON(w, output)
}
