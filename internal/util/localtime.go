package util

import (
	"fmt"
	"strings"
	"time"
)

// Server timestamps are stored and serialised in UTC but carry no timezone
// marker (e.g. "2024-03-01T10:00:00"). The dashboard has always compensated
// by treating marker-less strings as UTC, and every display path goes
// through these helpers so the rule is applied uniformly.

// hasTimezone reports whether the timestamp string already carries timezone
// information: a "Z", a "+" offset, or a "-" at byte index >= 10. The index
// check skips the two hyphens of the YYYY-MM-DD date prefix (indices 4 and
// 7) while still catching negative offsets like "-05:00".
func hasTimezone(s string) bool {
	if strings.ContainsAny(s, "Z+") {
		return true
	}
	return strings.LastIndex(s, "-") >= 10
}

// ParseServerTime parses a server timestamp string, assuming UTC when no
// timezone marker is present. Returns false for empty or unparseable input.
// Date-only strings ("2024-01-15") have no marker by the rule above and
// parse as midnight UTC of that date.
func ParseServerTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if !hasTimezone(s) {
		s += "Z"
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02Z07:00"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// placeholder is rendered wherever a timestamp is missing or unparseable.
const placeholder = "—"

// FormatDateTime renders a server timestamp as a full local date-time.
func FormatDateTime(s string) string {
	t, ok := ParseServerTime(s)
	if !ok {
		return placeholder
	}
	return t.Local().Format("Mon Jan 2, 2006 15:04")
}

// FormatDate renders a server timestamp as a local date.
func FormatDate(s string) string {
	t, ok := ParseServerTime(s)
	if !ok {
		return placeholder
	}
	return t.Local().Format("Mon Jan 2, 2006")
}

// FormatHour renders a server timestamp as a local hour label, "<H>:00"
// with H in 0-23.
func FormatHour(s string) string {
	t, ok := ParseServerTime(s)
	if !ok {
		return placeholder
	}
	return fmt.Sprintf("%d:00", t.Local().Hour())
}
