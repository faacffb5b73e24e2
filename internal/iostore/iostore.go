// Package iostore persists diagnosis runs to SQLite, MySQL or PostgreSQL.
package iostore

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/celerio/scout/schema"
)

// Table names for run tracking.
const (
	diagnosisRunsTable    = "scout_diagnosis_runs"
	companyDiagnosesTable = "scout_company_diagnoses"
)

// reportTables lists the store's tables in creation order.
var reportTables = []string{diagnosisRunsTable, companyDiagnosesTable}

// quoteTableName returns the properly quoted table name for the given backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	default: // SQLite and PostgreSQL
		return fmt.Sprintf("\"%s\"", name)
	}
}

// formatTime converts t into the value the backend's driver expects.
// SQLite has no native datetime, so it gets RFC3339Nano text.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	if backend == schema.SQLiteBackend {
		return t.UTC().Format(time.RFC3339Nano)
	}
	return t.UTC()
}

// parseStoredTime parses a SQLite text timestamp written by formatTime.
func parseStoredTime(column, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", column, err)
	}
	return t, nil
}

// rebind rewrites ? placeholders into PostgreSQL's $n form.
func rebind(query string, backend schema.DatabaseBackend) string {
	if backend != schema.PostgreSQLBackend {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
