package cmd

import (
	"github.com/celerio/scout/core"
	"github.com/celerio/scout/internal/contract"
	"github.com/celerio/scout/internal/outwriter"
	"github.com/spf13/cobra"
)

// prescriptionsCmd prints the static remediation templates.
var prescriptionsCmd = &cobra.Command{
	Use:   "prescriptions",
	Short: "Print the remediation template for each vector.",
	Long: `Print the fractional executive, six-phase 90-day plan and key actions
prescribed for each failing vector, plus the healthy recommendation.

Examples:
  # Show all templates
  scout prescriptions

  # Export for a playbook
  scout prescriptions --output csv --output-file playbook.csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := outwriter.NewOutWriter().WritePrescriptions(core.AllPrescriptions(), cfg); err != nil {
			contract.LogFatal("Cannot print prescriptions", err)
		}
	},
}
