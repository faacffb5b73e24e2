package schema

import (
	"fmt"
	"strings"
)

// Severity is an ordinal: SeverityNone < SeverityMedium < SeverityHigh.
type Severity int

// All severities, in ascending order.
const (
	SeverityNone Severity = iota
	SeverityMedium
	SeverityHigh
)

var severityNames = [...]string{"none", "medium", "high"}

// String returns the lowercase name of the severity.
func (s Severity) String() string {
	if s < SeverityNone || s > SeverityHigh {
		return fmt.Sprintf("severity(%d)", int(s))
	}
	return severityNames[s]
}

// ParseSeverity converts a name back into a Severity.
func ParseSeverity(name string) (Severity, error) {
	for i, n := range severityNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Severity(i), nil
		}
	}
	return SeverityNone, fmt.Errorf("invalid severity %q (expected none/medium/high)", name)
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	if s < SeverityNone || s > SeverityHigh {
		return nil, fmt.Errorf("invalid severity %d", int(s))
	}
	return []byte(severityNames[s]), nil
}

// UnmarshalText decodes a severity name.
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
