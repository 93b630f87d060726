// Package format provides display helpers for tables and status output.
package format

import (
	"fmt"
	"time"
)

// RelativeTime renders t relative to now, e.g. "5m ago" or "2d ago".
// Zero times render as "never".
func RelativeTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// Size renders a byte count in a human-readable unit.
func Size(bytes int64) string {
	switch {
	case bytes < 1024:
		return fmt.Sprintf("%d B", bytes)
	case bytes < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	}
}

// priorityLabels maps the remote priority scale to display names.
var priorityLabels = [...]string{"None", "Urgent", "High", "Normal", "Low"}

// Priority renders a numeric priority as its display name.
// Values outside [0,4] render as the bare number.
func Priority(p int) string {
	if p >= 0 && p < len(priorityLabels) {
		return priorityLabels[p]
	}
	return fmt.Sprintf("%d", p)
}

// Truncate shortens s to max runes, appending "..." when cut.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
