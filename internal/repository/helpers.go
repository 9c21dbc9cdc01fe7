package repository

import (
	"strings"
	"time"
)

// nowUTC returns the current UTC time formatted as RFC3339.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// normalizeLocation is the comparison key for venue names.
func normalizeLocation(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// timeOrNow formats t as RFC3339, substituting the current time for a zero t.
func timeOrNow(t time.Time) string {
	if t.IsZero() {
		return nowUTC()
	}
	return t.UTC().Format(time.RFC3339)
}
