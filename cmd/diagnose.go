package cmd

import (
	"github.com/celerio/scout/internal/contract"
	"github.com/celerio/scout/internal/outwriter"
	"github.com/spf13/cobra"
)

// diagnoseCmd runs the full diagnosis over a batch document.
var diagnoseCmd = &cobra.Command{
	Use:   "diagnose <file>",
	Short: "Diagnose every company in a batch document.",
	Long: `Score, signal and diagnose each company in a JSON or YAML batch document.

For each company that passes the filter, reports:
- The primary failing vector (market, motion, messaging) or healthy
- Per-vector status and failure mode
- Stall risk and stall probability
- The matching fractional executive and 90-day plan (JSON output)

Filter flags override the document's filter block, and --as-of overrides its as_of.
When a report backend is configured, every run is recorded for later export.

Examples:
  # Diagnose a batch
  scout diagnose companies.yaml

  # Only Series A companies 12-24 months after their last raise
  scout diagnose companies.json --stage "series a" --months-min 12 --months-max 24

  # Explain the primary diagnosis and export to CSV
  scout diagnose companies.json --explain --output csv --output-file diagnoses.csv

  # Record the run in a local SQLite report store
  SCOUT_REPORT_BACKEND=sqlite scout diagnose companies.json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := executeBatch(rootCtx, cfg, reportStore(), outwriter.NewOutWriter().WriteDiagnoses); err != nil {
			contract.LogFatal("Cannot run diagnosis", err)
		}
	},
}

// scoresCmd prints vector scores per company.
var scoresCmd = &cobra.Command{
	Use:   "scores <file>",
	Short: "Show messaging, motion and market scores per company.",
	Long: `Compute the 0-100 vector scores and stall probability for each company.

Scores are derived from soft signals (homepage copy, traffic, hiring, engineering
activity, sentiment). Missing signals fall back to neutral defaults.

Examples:
  # Score a batch
  scout scores companies.json

  # Show the sub-metrics of each company's weakest vector
  scout scores companies.json --explain --precision 2`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := executeBatch(rootCtx, cfg, nil, outwriter.NewOutWriter().WriteScores); err != nil {
			contract.LogFatal("Cannot compute scores", err)
		}
	},
}

// signalsCmd prints the emitted stall signals.
var signalsCmd = &cobra.Command{
	Use:   "signals <file>",
	Short: "List the stall signals emitted for each company.",
	Long: `Run the discrete rule checks (headcount divergence, technographic churn,
funding window, website genericness, product stagnation) and list every signal
with its severity, diagnosis code and reason.

Examples:
  # List signals
  scout signals companies.json

  # Signals as JSON with full evidence
  scout signals companies.json --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := executeBatch(rootCtx, cfg, nil, outwriter.NewOutWriter().WriteSignals); err != nil {
			contract.LogFatal("Cannot generate signals", err)
		}
	},
}
