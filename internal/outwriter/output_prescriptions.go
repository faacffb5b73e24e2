package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/celerio/scout/internal/contract"
	"github.com/celerio/scout/schema"
)

// WritePrescriptionTemplates outputs the remediation templates, dispatching based on the output format configured.
func WritePrescriptionTemplates(templates []schema.VectorPrescription, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, templates)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVPrescriptions(w, templates)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for prescriptions")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePrescriptionText(w, templates, cfg.UseColors)
		}, "Wrote text")
	}
}

// writePrescriptionText prints each template as a titled block.
func writePrescriptionText(w io.Writer, templates []schema.VectorPrescription, useColors bool) error {
	for i, t := range templates {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		p := t.Prescription
		if _, err := fmt.Fprintf(w, "%s\n", contract.GetVectorLabel(t.Vector, useColors)); err != nil {
			return err
		}
		if p.Status != "" {
			if _, err := fmt.Fprintf(w, "  Status: %s\n  Recommendation: %s\n", p.Status, p.Recommendation); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "  Fractional executive: %s\n  Plan:\n", p.FractionalExecutive); err != nil {
			return err
		}
		for n, phase := range p.Plan {
			if _, err := fmt.Fprintf(w, "    %d. %s\n", n+1, phase); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, "  Key actions:"); err != nil {
			return err
		}
		for _, action := range p.KeyActions {
			if _, err := fmt.Fprintf(w, "    - %s\n", action); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeCSVPrescriptions writes one row per plan phase or key action.
func writeCSVPrescriptions(w io.Writer, templates []schema.VectorPrescription) error {
	header := []string{"vector", "fractional_executive", "kind", "step", "text"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, t := range templates {
			p := t.Prescription
			vector := string(t.Vector)
			if p.Status != "" {
				if err := cw.Write([]string{vector, "", "recommendation", "1", p.Recommendation}); err != nil {
					return err
				}
				continue
			}
			for n, phase := range p.Plan {
				if err := cw.Write([]string{vector, p.FractionalExecutive, "plan", strconv.Itoa(n + 1), phase}); err != nil {
					return err
				}
			}
			for n, action := range p.KeyActions {
				if err := cw.Write([]string{vector, p.FractionalExecutive, "key_action", strconv.Itoa(n + 1), action}); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
