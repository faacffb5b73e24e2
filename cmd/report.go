package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/celerio/scout/internal/contract"
	"github.com/celerio/scout/internal/iostore"
	"github.com/celerio/scout/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// reportBackendFromViper reads and validates the report backend settings.
func reportBackendFromViper() (schema.DatabaseBackend, string, error) {
	backendStr := strings.ToLower(viper.GetString("report-backend"))
	connStr := viper.GetString("report-db-connect")

	backend := schema.NoneBackend
	if backendStr != "" {
		backend = schema.DatabaseBackend(backendStr)
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", "", fmt.Errorf("invalid report backend '%s'. must be sqlite, mysql, postgresql, none", backendStr)
	}
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// reportSetup loads minimal configuration needed for report store operations.
// This is used by commands that need store access without full shared setup.
func reportSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	backend, connStr, err := reportBackendFromViper()
	if err != nil {
		return err
	}

	if err := iostore.InitReporting(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize report store: %w", err)
	}

	cfg.ReportBackend = backend
	cfg.ReportDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// reportSetupWrapper wraps reportSetup to provide PreRunE for report commands.
func reportSetupWrapper(_ *cobra.Command, _ []string) error {
	return reportSetup()
}

// reportMigrateSetup loads the backend settings without opening the store,
// so that migrations can run on a fresh database.
func reportMigrateSetup(_ *cobra.Command, _ []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	backend, connStr, err := reportBackendFromViper()
	if err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = iostore.GetReportDBFilePath()
	}

	cfg.ReportBackend = backend
	cfg.ReportDBConnect = connStr
	return nil
}

// reportCmd focused on report store management.
//
// Note: report subcommands use minimal initialization (reportSetup) instead of
// the full sharedSetup, so no input document or filter parsing is needed.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Manage recorded diagnosis runs and exports",
	Long: `Manage the diagnosis runs recorded by 'scout diagnose'.

When a report backend is set, every diagnose run stores:
- Run metadata (timestamps, configuration, duration)
- One row per company: scores, stall probability, primary vector, risk and signal codes

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, the default)

Subcommands:
  status  - Show report store statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all recorded runs
  migrate - Run database schema migrations

Examples:
  # Check store status
  SCOUT_REPORT_BACKEND=sqlite scout report status

  # Export for analysis in pandas/DuckDB
  SCOUT_REPORT_BACKEND=sqlite scout report export --output-file scout-data`,
}

// reportClearCmd clears the report data.
var reportClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded diagnosis runs",
	Long: `Delete all stored diagnosis runs and company diagnoses.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the report tables

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  scout report export --output-file backup
  scout report clear`,
	PreRunE: reportSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		iostore.CloseReporting()
		dbFile := cfg.ReportDBConnect
		if dbFile == "" {
			dbFile = iostore.GetReportDBFilePath()
		}
		if err := iostore.ClearReports(cfg.ReportBackend, dbFile, cfg.ReportDBConnect); err != nil {
			contract.LogFatal("Failed to clear report data", err)
		}
		fmt.Println("Report data cleared successfully.")
	},
}

// reportStatusCmd shows report store status.
var reportStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display report store statistics and connection details",
	Long: `Show detailed information about recorded diagnosis runs.

Displays:
- Backend type and connection status
- Total number of runs stored
- Last and oldest run timestamps
- Total companies assessed across all runs
- Database table sizes

Examples:
  scout report status`,
	PreRunE: reportSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iostore.Manager.GetReportStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get report status", err)
		}
		iostore.PrintReportStatus(os.Stdout, status)
	},
}

// reportExportCmd exports report data to Parquet files.
var reportExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded runs to Parquet for BI tools and analytics",
	Long: `Export all recorded data to two Parquet files:
- <output-file>.runs.parquet      - metadata about each diagnosis run
- <output-file>.diagnoses.parquet - one row per company per run

Requires: --output-file parameter

Examples:
  scout report export --output-file scout-data
  duckdb -c "SELECT primary_vector, count(*) FROM 'scout-data.diagnoses.parquet' GROUP BY 1"`,
	PreRunE: reportSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iostore.ExecuteReportExport(os.Stdout, iostore.Manager.GetReportStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export report data", err)
		}
	},
}

// reportMigrateCmd runs database migrations for the report store.
var reportMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the report store.

By default, migrates to the latest version. Use --target-version for specific versions.
MySQL connection strings need multiStatements=true for migrations.

Examples:
  # Migrate to latest version (default)
  scout report migrate

  # Rollback to initial state
  scout report migrate --target-version 0`,
	PreRunE: reportMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iostore.MigrateReports(os.Stdout, cfg.ReportBackend, cfg.ReportDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
