package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/celerio/scout/schema"
	"github.com/fatih/color"
)

// Color variables for console output.
var (
	HighColor    = color.New(color.FgRed, color.Bold) // HighColor represents standard danger.
	MediumColor  = color.New(color.FgYellow)          // MediumColor represents standard caution, not bold.
	LowColor     = color.New(color.FgCyan)            // LowColor represents informational / low-priority signal.
	HealthyColor = color.New(color.FgGreen)
)

// colorFor maps a plain level word to its console color.
func colorFor(level string) *color.Color {
	switch level {
	case "high", "failing":
		return HighColor
	case "medium":
		return MediumColor
	case "low":
		return LowColor
	default:
		return HealthyColor
	}
}

// GetColorLabel returns a colored text label for console output (table).
// Inputs are the plain values of StallProbability, StallRisk, Severity or VectorStatus.
func GetColorLabel(level string) string {
	return colorFor(strings.ToLower(level)).Sprint(level)
}

// GetVectorLabel returns the display label for a primary vector.
func GetVectorLabel(v schema.Vector, useColors bool) string {
	text := strings.ToUpper(string(v))
	if !useColors {
		return text
	}
	if v == schema.HealthyVector {
		return HealthyColor.Sprint(text)
	}
	return HighColor.Sprint(text)
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path means os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetReportDBFilePath returns the path to the SQLite DB file for report storage.
func GetReportDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".scout_reports.db"
	}
	return filepath.Join(homeDir, ".scout_reports.db")
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the ellipsis and one character.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
