// Package dashboard provides display formatting for the terminal views.
package dashboard

import (
	"fmt"
	"strings"
)

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	if n < 0 {
		return "-" + FormatInt(-n)
	}
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	start := len(s) % 3
	if start > 0 {
		b.WriteString(s[:start])
	}
	for i := start; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatEngagement formats an engagement value with K/M suffixes.
func FormatEngagement(v float64) string {
	switch {
	case v >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.1fK", v/1e3)
	default:
		return fmt.Sprintf("%.1f", v)
	}
}

// FormatSentiment formats a nullable sentiment score as a signed
// two-decimal value, or "—" when absent.
func FormatSentiment(v *float64) string {
	if v == nil {
		return "—"
	}
	return fmt.Sprintf("%+.2f", *v)
}

// SentimentWord renders a nullable sentiment label, "—" when absent.
func SentimentWord(label *string) string {
	if label == nil {
		return "—"
	}
	return *label
}

// Bar renders a horizontal bar proportional to v/max, width cells wide.
// Non-zero values always get at least one cell so low-activity hours stay
// visible.
func Bar(v, max, width int) string {
	if max <= 0 || v <= 0 || width <= 0 {
		return ""
	}
	n := v * width / max
	if n < 1 {
		n = 1
	}
	if n > width {
		n = width
	}
	return strings.Repeat("█", n)
}

// Truncate shortens s to at most n runes, appending "…" when truncated.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
