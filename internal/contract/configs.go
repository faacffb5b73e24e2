package contract

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/celerio/scout/schema"
)

// Default values for configuration.
const (
	DefaultPrecision = 1
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "console"
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for a diagnosis run.
// This struct remains the "final, validated" config.
type Config struct {
	InputPath  string
	AsOf       time.Time
	Filter     schema.BatchFilter
	Workers    int
	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Explain    bool
	Width      int // Terminal width override (0 = auto-detect)

	ReportBackend   schema.DatabaseBackend
	ReportDBConnect string // Please use env var as this is plaintext

	LogLevel  string
	LogFormat string
	Trace     bool

	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	InputPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	OutputFile      string `mapstructure:"output-file"`
	Workers         int    `mapstructure:"workers"`
	Precision       int    `mapstructure:"precision"`
	Output          string `mapstructure:"output"`
	Width           int    `mapstructure:"width"`
	Color           string `mapstructure:"color"`
	ReportBackend   string `mapstructure:"report-backend"`
	ReportDBConnect string `mapstructure:"report-db-connect"`
	LogLevel        string `mapstructure:"log-level"`
	LogFormat       string `mapstructure:"log-format"`
	Trace           bool   `mapstructure:"trace"`
	AsOf            string `mapstructure:"as-of"`

	// --- Filter fields, strings so that "unset" stays distinguishable from 0 ---
	FundingMin   string `mapstructure:"funding-min"`
	FundingMax   string `mapstructure:"funding-max"`
	HeadcountMin string `mapstructure:"headcount-min"`
	HeadcountMax string `mapstructure:"headcount-max"`
	MonthsMin    string `mapstructure:"months-min"`
	MonthsMax    string `mapstructure:"months-max"`
	Stage        string `mapstructure:"stage"`

	// --- Fields from diagnoseCmd.Flags() ---
	Explain bool `mapstructure:"explain"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfig(cfg, input); err != nil {
		return err
	}
	asOf, err := ParseAsOf(input.AsOf, time.Now())
	if err != nil {
		return err
	}
	cfg.AsOf = asOf
	filter, err := processFilter(input)
	if err != nil {
		return err
	}
	cfg.Filter = filter
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("report-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("report-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfig validates the report store backend.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.ReportBackend = schema.DatabaseBackend(strings.ToLower(input.ReportBackend))
	if cfg.ReportBackend == "" {
		cfg.ReportBackend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.ReportBackend]; !ok {
		return fmt.Errorf("invalid report backend '%s'. must be sqlite, mysql, postgresql, none", input.ReportBackend)
	}
	cfg.ReportDBConnect = input.ReportDBConnect
	return ValidateDatabaseConnectionString(cfg.ReportBackend, cfg.ReportDBConnect)
}

// validateSimpleInputs processes and validates all non-filter fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.InputPath = strings.TrimSpace(input.InputPathStr)
	cfg.OutputFile = input.OutputFile
	cfg.Explain = input.Explain
	cfg.Width = input.Width
	cfg.Trace = input.Trace

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", cfg.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(input.LogLevel))
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level '%s'. must be debug, info, warn, error", input.LogLevel)
	}

	cfg.LogFormat = strings.ToLower(strings.TrimSpace(input.LogFormat))
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}
	if cfg.LogFormat != "console" && cfg.LogFormat != "json" {
		return fmt.Errorf("invalid log format '%s'. must be console, json", input.LogFormat)
	}
	return nil
}

// processFilter builds the batch filter from the raw bound strings.
// Non-numeric bounds are rejected; inverted or one-sided ranges are kept as
// given and impose no constraint downstream.
func processFilter(input *ConfigRawInput) (schema.BatchFilter, error) {
	var f schema.BatchFilter
	var err error
	if f.FundingRange, err = ParseRange("funding", input.FundingMin, input.FundingMax); err != nil {
		return f, err
	}
	if f.HeadcountRange, err = ParseRange("headcount", input.HeadcountMin, input.HeadcountMax); err != nil {
		return f, err
	}
	if f.MonthsPostRaiseRange, err = ParseRange("months", input.MonthsMin, input.MonthsMax); err != nil {
		return f, err
	}
	f.Stage = strings.TrimSpace(input.Stage)
	return f, nil
}

// ParseRange parses optional min/max bound strings. It returns nil when both are empty.
func ParseRange(name, minStr, maxStr string) (*schema.Range, error) {
	parse := func(bound, s string) (*float64, error) {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --%s-%s value '%s': %w", name, bound, s, err)
		}
		return &v, nil
	}
	lo, err := parse("min", minStr)
	if err != nil {
		return nil, err
	}
	hi, err := parse("max", maxStr)
	if err != nil {
		return nil, err
	}
	if lo == nil && hi == nil {
		return nil, nil
	}
	return &schema.Range{Min: lo, Max: hi}, nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}
