package iostore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/celerio/scout/internal/contract"
	"github.com/celerio/scout/schema"
	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// ReportStoreImpl implements the ReportStore and ReportReader interfaces.
type ReportStoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
}

// Compile-time checks
var (
	_ contract.ReportStore  = &ReportStoreImpl{}
	_ contract.ReportReader = &ReportStoreImpl{}
)

// driverFor returns the database/sql driver registered for a backend.
func driverFor(backend schema.DatabaseBackend) (string, error) {
	switch backend {
	case schema.SQLiteBackend:
		return "sqlite", nil
	case schema.MySQLBackend:
		return "mysql", nil
	case schema.PostgreSQLBackend:
		return "pgx", nil
	default:
		return "", fmt.Errorf("unsupported backend: %s", backend)
	}
}

// openDB opens and pings a connection for the backend.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, string, error) {
	driverName, err := driverFor(backend)
	if err != nil {
		return nil, "", err
	}

	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = GetReportDBFilePath()
	}

	db, err := sql.Open(driverName, connStr)
	if err != nil {
		switch backend {
		case schema.SQLiteBackend:
			return nil, "", fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", connStr, err)
		case schema.MySQLBackend:
			return nil, "", fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname?parseTime=true", err)
		default:
			return nil, "", fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=H port=P user=U password=W dbname=D", err)
		}
	}
	if backend == schema.SQLiteBackend {
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		var connDetail string
		switch backend {
		case schema.MySQLBackend:
			connDetail = "Check that MySQL is running and the connection string is correct. Ensure user/password are valid."
		case schema.PostgreSQLBackend:
			connDetail = "Check that PostgreSQL is running and the connection string is correct. Ensure user/password are valid."
		default:
			connDetail = "Verify the database file is accessible."
		}
		return nil, "", fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}

	return db, driverName, nil
}

// NewReportStore creates a new report store with the specified backend.
// NoneBackend yields a store whose writes are no-ops.
func NewReportStore(backend schema.DatabaseBackend, connStr string) (*ReportStoreImpl, error) {
	if backend == schema.NoneBackend {
		return &ReportStoreImpl{backend: backend}, nil
	}

	db, driverName, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}

	if err := createReportTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create report tables: %w", err)
	}

	return &ReportStoreImpl{
		db:         db,
		backend:    backend,
		driverName: driverName,
	}, nil
}

// createReportTables applies the initial schema migration without version tracking.
// Every statement is CREATE TABLE IF NOT EXISTS, so this is safe to repeat.
func createReportTables(db *sql.DB, backend schema.DatabaseBackend) error {
	dir, err := migrationDir(backend)
	if err != nil {
		return err
	}
	script, err := fs.ReadFile(migrationsFS, dir+"/000001_init.up.sql")
	if err != nil {
		return fmt.Errorf("failed to read initial migration: %w", err)
	}

	for _, stmt := range strings.Split(string(script), ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply initial migration: %w", err)
		}
	}
	return nil
}

func (rs *ReportStoreImpl) disabled() bool {
	return rs.backend == schema.NoneBackend || rs.db == nil
}

// BeginRun creates a new diagnosis run and returns its unique ID.
func (rs *ReportStoreImpl) BeginRun(startTime time.Time, configParams map[string]any) (int64, error) {
	if rs.disabled() {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(diagnosisRunsTable, rs.backend)

	var runID int64
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES ($1, $2) RETURNING run_id`, quotedTableName)
		err = rs.db.QueryRow(query, formatTime(startTime, rs.backend), string(configJSON)).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES (?, ?)`, quotedTableName)
		var result sql.Result
		result, err = rs.db.Exec(query, formatTime(startTime, rs.backend), string(configJSON))
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert diagnosis run: %w", err)
	}
	return runID, nil
}

// RecordDiagnosis stores one company's assessment under a run.
func (rs *ReportStoreImpl) RecordDiagnosis(runID int64, a schema.Assessment) error {
	if rs.disabled() {
		return nil
	}

	rec := schema.DiagnosisRecordOf(runID, a)
	query := rebind(fmt.Sprintf(`
		INSERT INTO %s (run_id, company_id, company_name, domain, as_of,
		                messaging_score, motion_score, market_score,
		                stall_probability, primary_vector, stall_risk, failure_mode,
		                high_signals, medium_signals, signal_codes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, quoteTableName(companyDiagnosesTable, rs.backend)), rs.backend)

	_, err := rs.db.Exec(query,
		rec.RunID, rec.CompanyID, rec.CompanyName, rec.Domain, formatTime(rec.AsOf, rs.backend),
		rec.MessagingScore, rec.MotionScore, rec.MarketScore,
		rec.StallProbability, rec.PrimaryVector, rec.StallRisk, rec.FailureMode,
		rec.HighSignals, rec.MediumSignals, rec.SignalCodes,
	)
	if err != nil {
		return fmt.Errorf("failed to insert diagnosis for %s: %w", rec.CompanyName, err)
	}
	return nil
}

// scanTime reads a timestamp column, which SQLite hands back as text.
func (rs *ReportStoreImpl) scanTime(row interface{ Scan(...any) error }, column string, dest ...*time.Time) error {
	if rs.backend != schema.SQLiteBackend {
		args := make([]any, len(dest))
		for i := range dest {
			args[i] = dest[i]
		}
		return row.Scan(args...)
	}

	raw := make([]string, len(dest))
	args := make([]any, len(dest))
	for i := range raw {
		args[i] = &raw[i]
	}
	if err := row.Scan(args...); err != nil {
		return err
	}
	for i, s := range raw {
		t, err := parseStoredTime(column, s)
		if err != nil {
			return err
		}
		*dest[i] = t
	}
	return nil
}

// EndRun updates the run with completion data.
func (rs *ReportStoreImpl) EndRun(runID int64, endTime time.Time, totalCompanies int) error {
	if rs.disabled() {
		return nil
	}

	quotedTableName := quoteTableName(diagnosisRunsTable, rs.backend)

	var startTime time.Time
	selectQuery := rebind(fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = ?`, quotedTableName), rs.backend)
	if err := rs.scanTime(rs.db.QueryRow(selectQuery, runID), "start_time", &startTime); err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}

	durationMs := endTime.Sub(startTime).Milliseconds()

	updateQuery := rebind(fmt.Sprintf(`UPDATE %s SET end_time = ?, run_duration_ms = ?, total_companies = ? WHERE run_id = ?`, quotedTableName), rs.backend)
	if _, err := rs.db.Exec(updateQuery, formatTime(endTime, rs.backend), durationMs, totalCompanies, runID); err != nil {
		return fmt.Errorf("failed to update diagnosis run: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (rs *ReportStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the report store.
func (rs *ReportStoreImpl) GetStatus() (schema.ReportStatus, error) {
	status := schema.ReportStatus{
		Backend:    string(rs.backend),
		Connected:  rs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if rs.disabled() {
		return status, nil
	}

	runsTable := quoteTableName(diagnosisRunsTable, rs.backend)

	row := rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runsTable))
	if err := row.Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		row = rs.db.QueryRow(fmt.Sprintf("SELECT run_id FROM %s ORDER BY run_id DESC LIMIT 1", runsTable))
		if err := row.Scan(&status.LastRunID); err != nil {
			return status, fmt.Errorf("failed to get last run id: %w", err)
		}

		row = rs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id DESC LIMIT 1", runsTable))
		if err := rs.scanTime(row, "start_time", &status.LastRunTime); err != nil {
			return status, fmt.Errorf("failed to get last run time: %w", err)
		}

		row = rs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", runsTable))
		if err := rs.scanTime(row, "start_time", &status.OldestRunTime); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}

		row = rs.db.QueryRow(fmt.Sprintf("SELECT COALESCE(SUM(total_companies), 0) FROM %s", runsTable))
		if err := row.Scan(&status.TotalCompanies); err != nil {
			return status, fmt.Errorf("failed to get total companies: %w", err)
		}
	}

	for _, table := range reportTables {
		var count int64
		row = rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, rs.backend)))
		if err := row.Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetAllRuns retrieves all diagnosis runs in run order.
func (rs *ReportStoreImpl) GetAllRuns() ([]schema.DiagnosisRunRecord, error) {
	if rs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT run_id, start_time, end_time, run_duration_ms, total_companies, config_params FROM %s ORDER BY run_id",
		quoteTableName(diagnosisRunsTable, rs.backend))

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query diagnosis runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.DiagnosisRunRecord
	for rows.Next() {
		var record schema.DiagnosisRunRecord

		switch rs.backend {
		case schema.SQLiteBackend:
			var startTimeStr string
			var endTimeStr *string
			if err := rows.Scan(&record.RunID, &startTimeStr, &endTimeStr, &record.RunDurationMs, &record.TotalCompanies, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan diagnosis run: %w", err)
			}
			if record.StartTime, err = parseStoredTime("start_time", startTimeStr); err != nil {
				return nil, err
			}
			if endTimeStr != nil {
				endTime, err := parseStoredTime("end_time", *endTimeStr)
				if err != nil {
					return nil, err
				}
				record.EndTime = &endTime
			}
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.RunID, &record.StartTime, &record.EndTime, &record.RunDurationMs, &record.TotalCompanies, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan diagnosis run: %w", err)
			}
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating diagnosis runs: %w", err)
	}
	return results, nil
}

// GetAllDiagnoses retrieves every stored company diagnosis ordered by run and company.
func (rs *ReportStoreImpl) GetAllDiagnoses() ([]schema.CompanyDiagnosisRecord, error) {
	if rs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, company_id, company_name, domain, as_of,
    messaging_score, motion_score, market_score,
    stall_probability, primary_vector, stall_risk, failure_mode,
    high_signals, medium_signals, signal_codes
    FROM %s ORDER BY run_id, company_name, company_id`, quoteTableName(companyDiagnosesTable, rs.backend))

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query company diagnoses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.CompanyDiagnosisRecord
	for rows.Next() {
		var record schema.CompanyDiagnosisRecord
		var asOf any = &record.AsOf
		var asOfStr string
		if rs.backend == schema.SQLiteBackend {
			asOf = &asOfStr
		}

		if err := rows.Scan(&record.RunID, &record.CompanyID, &record.CompanyName, &record.Domain, asOf,
			&record.MessagingScore, &record.MotionScore, &record.MarketScore,
			&record.StallProbability, &record.PrimaryVector, &record.StallRisk, &record.FailureMode,
			&record.HighSignals, &record.MediumSignals, &record.SignalCodes); err != nil {
			return nil, fmt.Errorf("failed to scan company diagnosis: %w", err)
		}

		if rs.backend == schema.SQLiteBackend {
			if record.AsOf, err = parseStoredTime("as_of", asOfStr); err != nil {
				return nil, err
			}
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating company diagnoses: %w", err)
	}
	return results, nil
}
