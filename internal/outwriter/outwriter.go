// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"github.com/celerio/scout/internal/contract"
	"github.com/celerio/scout/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the commands.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteDiagnoses prints full assessments using the configured output format.
func (ow *OutWriter) WriteDiagnoses(results []schema.Assessment, cfg *contract.Config, duration time.Duration) error {
	return WriteDiagnosisResults(results, cfg, duration)
}

// WriteScores prints the vector scores and stall probability of each assessment.
func (ow *OutWriter) WriteScores(results []schema.Assessment, cfg *contract.Config, duration time.Duration) error {
	return WriteScoreResults(results, cfg, duration)
}

// WriteSignals prints every emitted stall signal.
func (ow *OutWriter) WriteSignals(results []schema.Assessment, cfg *contract.Config, duration time.Duration) error {
	return WriteSignalResults(results, cfg, duration)
}

// WritePrescriptions prints the remediation templates.
func (ow *OutWriter) WritePrescriptions(templates []schema.VectorPrescription, cfg *contract.Config) error {
	return WritePrescriptionTemplates(templates, cfg)
}

// GetMaxTableTextWidth calculates the maximum width for free-text columns in table
// output, given the width already reserved by the fixed columns.
func GetMaxTableTextWidth(cfg *contract.Config, reserved int) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Table borders, separators, and padding
	reserved += 20

	available := termWidth - reserved
	if available < 15 {
		return 15
	}
	if available > 70 {
		return 70
	}
	return available
}
