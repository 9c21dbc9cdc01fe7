package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/eventpermit/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StatusColor returns the style for a booking status as the backend reports it.
func StatusColor(status string) lipgloss.Style {
	switch domain.EventStatus(status) {
	case domain.StatusApproved:
		return StyleGreen
	case domain.StatusPending:
		return StyleYellow
	case domain.StatusRejected, domain.StatusCancelled:
		return StyleRed
	default:
		return StyleDim
	}
}

// StatusIndicator returns a colored status marker such as "● Approved".
func StatusIndicator(status string) string {
	if status == "" {
		status = "Unknown"
	}
	return StatusColor(status).Render("● " + status)
}

// ClassificationBadge renders the assessment category.
func ClassificationBadge(c domain.Classification) string {
	switch c {
	case domain.SelfAssessable:
		return StyleGreen.Render("✔ " + string(c))
	case domain.Assessable:
		return StyleYellow.Render("▲ " + string(c))
	default:
		return StyleDim.Render("? unclassified")
	}
}

// AdvisoryColor returns the banner style for a conflict state.
func AdvisoryColor(state domain.ConflictState) lipgloss.Style {
	switch state {
	case domain.ConflictConflicting:
		return StyleRed
	case domain.ConflictAvailable:
		return StyleGreen
	default:
		return StyleDim
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
