// Package dates normalizes the heterogeneous date strings that arrive with
// trade and portfolio records into comparable timestamps.
package dates

import (
	"strings"
	"time"
)

// DayFormat is the canonical calendar-day key format.
const DayFormat = "2006-01-02"

// Layouts tried for ISO-8601 input after any trailing offset is stripped.
var isoLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// Layouts tried for non-ISO input, in order.
var fallbackLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006",
}

// Parse normalizes a raw date string to a naive timestamp. ISO-8601 input has
// any trailing Z or numeric offset dropped, not converted; the four fallback
// layouts are tried in order. On empty or unparseable input it returns the
// current time with ok=false. Callers that need the never-fails contract use
// ParseOrNow; the flag exists so tests can tell a real parse from the
// fallback.
func Parse(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Now(), false
	}

	if t := strings.IndexByte(raw, 'T'); t >= 0 {
		s := raw
		// Offsets start after the T; a '-' before it is a date separator.
		if i := strings.IndexByte(s, 'Z'); i >= 0 {
			s = s[:i]
		} else if i := strings.IndexAny(s[t+1:], "+-"); i >= 0 {
			s = s[:t+1+i]
		}
		for _, layout := range isoLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		return time.Now(), false
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Now(), false
}

// ParseOrNow is Parse with the diagnostic flag discarded.
func ParseOrNow(raw string) time.Time {
	t, _ := Parse(raw)
	return t
}

// Day truncates a timestamp to midnight of its calendar day.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DayKey renders the calendar day of t as YYYY-MM-DD.
func DayKey(t time.Time) string {
	return t.Format(DayFormat)
}

// SameDay reports whether two timestamps fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return DayKey(a) == DayKey(b)
}
