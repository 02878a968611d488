package tui

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// formatDate renders a table date column. Zero times show as a dash so
// partial backend records don't render the epoch.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// padCell left-aligns s in a cell of the given rune width, truncating
// when needed. Pad before styling; ANSI sequences break width math.
func padCell(s string, width int) string {
	s = truncStr(s, width)
	return fmt.Sprintf("%-*s", width, s)
}
