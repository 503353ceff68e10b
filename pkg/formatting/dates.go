// Package formatting provides human-readable formatting and parsing utilities
// for common value types such as calendar dates and byte sizes.
package formatting

import (
	"regexp"
	"strings"
	"time"
)

// DateLayout is the day-first calendar layout used across persisted artifacts.
const DateLayout = "02/01/2006"

// NoDate is the sentinel used when a free-form date cannot be resolved.
const NoDate = "sin-fecha"

var dateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2006-01-02",
	"02/01/06",
	"2 January 2006",
}

var datePattern = regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|\d{4}-\d{2}-\d{2}`)

// ParseDate parses a free-form date string best-effort, day-first.
// It tries known layouts against the trimmed input, then against the
// first date-shaped fragment found inside it. Returns ok=false when no
// layout matches; callers should fall back to NoDate.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if t, ok := parseLayouts(s); ok {
		return t, true
	}

	if m := datePattern.FindString(s); m != "" {
		return parseLayouts(m)
	}

	return time.Time{}, false
}

// FormatDate renders a date in the DD/MM/YYYY layout used by timeline
// events and analysis results.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Year returns the four-digit year of a free-form date string, or NoDate
// when the date cannot be parsed. Used to build storage key prefixes.
func Year(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return NoDate
	}
	return t.Format("2006")
}

func parseLayouts(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
