package enums

import (
	"fmt"
	"strings"
)

// SessionBackend names the key/value store that persists the shopper identity.
type SessionBackend string

const (
	SessionBackendSQLite SessionBackend = "sqlite"
	SessionBackendRedis  SessionBackend = "redis"
	SessionBackendMemory SessionBackend = "memory"
)

var validSessionBackends = []SessionBackend{
	SessionBackendSQLite,
	SessionBackendRedis,
	SessionBackendMemory,
}

// String implements fmt.Stringer.
func (b SessionBackend) String() string {
	return string(b)
}

// IsValid reports whether the value is a known SessionBackend.
func (b SessionBackend) IsValid() bool {
	for _, candidate := range validSessionBackends {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseSessionBackend converts raw input into a SessionBackend.
func ParseSessionBackend(value string) (SessionBackend, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validSessionBackends {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid session backend %q", value)
}
