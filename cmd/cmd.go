// Package cmd defines the command-line interface for scout.
package cmd

import (
	"github.com/celerio/scout/internal/contract"
	"github.com/celerio/scout/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(diagnoseCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(signalsCmd)
	rootCmd.AddCommand(prescriptionsCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the report subcommands to the parent report command
	reportCmd.AddCommand(reportStatusCmd)
	reportCmd.AddCommand(reportExportCmd)
	reportCmd.AddCommand(reportClearCmd)
	reportCmd.AddCommand(reportMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("as-of", "", "Reference date in ISO8601 or time ago (defaults to the document's as_of, then now)")
	rootCmd.PersistentFlags().Bool("explain", false, "Print per-company explanation columns")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("report-backend", string(schema.NoneBackend), "Report store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("report-db-connect", "", "Database connection string for mysql/postgresql (mysql needs parseTime=true)")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("log-format", contract.DefaultLogFormat, "Log format: console or json")
	rootCmd.PersistentFlags().Bool("trace", false, "Write OpenTelemetry spans for the run to stderr")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")

	// Batch filter flags; criteria are AND-composed and unset bounds constrain nothing
	rootCmd.PersistentFlags().String("funding-min", "", "Minimum total funding amount")
	rootCmd.PersistentFlags().String("funding-max", "", "Maximum total funding amount")
	rootCmd.PersistentFlags().String("headcount-min", "", "Minimum headcount")
	rootCmd.PersistentFlags().String("headcount-max", "", "Maximum headcount")
	rootCmd.PersistentFlags().String("months-min", "", "Minimum months since last raise")
	rootCmd.PersistentFlags().String("months-max", "", "Maximum months since last raise")
	rootCmd.PersistentFlags().String("stage", "", "Funding stage substring, case-insensitive (e.g. 'series a')")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of reportMigrateCmd to Viper
	reportMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(reportMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding report migrate flags", err)
	}
}
