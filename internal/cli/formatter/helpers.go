package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Padding(1, 2)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// Dash returns s, or "-" when s is blank.
func Dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// FormatWhen renders a booking window. A single-day window shows its date
// once; missing times are left out.
func FormatWhen(startDate, endDate, startTime, endTime string) string {
	start := strings.TrimSpace(startDate + " " + startTime)
	if endDate == "" || endDate == startDate {
		if endTime == "" {
			return Dash(start)
		}
		return Dash(start) + "–" + endTime
	}
	return Dash(start) + " → " + strings.TrimSpace(endDate+" "+endTime)
}

// Truncate shortens s to at most n visible runes, ending with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
