package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ClockLayout is the canonical zero-padded 24-hour time format. Clock strings
// in this format sort in time order, which the time rules rely on.
const ClockLayout = "15:04"

// ErrInvalidClock is returned for a time that is not a 24-hour HH:MM value.
var ErrInvalidClock = errors.New("invalid time")

// ParseClock trims s and returns it in ClockLayout, so "5:00" becomes
// "05:00". An empty input stays empty.
func ParseClock(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q is not 24-hour HH:MM", ErrInvalidClock, s)
	}
	return t.Format(ClockLayout), nil
}

// clockOrEmpty is the lenient form used by snapshots: an unparseable time
// reads as missing.
func clockOrEmpty(s string) string {
	c, err := ParseClock(s)
	if err != nil {
		return ""
	}
	return c
}
