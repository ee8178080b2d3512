package enums

import "fmt"

// Severity classifies a transient shopper-facing notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

var validSeverities = []Severity{
	SeveritySuccess,
	SeverityWarning,
	SeverityError,
}

// String implements fmt.Stringer.
func (s Severity) String() string {
	return string(s)
}

// IsValid reports whether the value is a known Severity.
func (s Severity) IsValid() bool {
	for _, candidate := range validSeverities {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSeverity converts raw input into a Severity.
func ParseSeverity(value string) (Severity, error) {
	for _, candidate := range validSeverities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid severity %q", value)
}
