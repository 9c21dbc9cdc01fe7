package cli

import (
	"github.com/alexanderramin/eventpermit/internal/cli/formatter"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// permitHuhTheme styles the self-check form in the formatter palette. The
// answer options read the same as the checklist: green for the chosen one.
func permitHuhTheme() *huh.Theme {
	t := huh.ThemeBase()
	accent := lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	muted := lipgloss.NewStyle().Foreground(formatter.ColorDim)

	f := &t.Focused
	f.Title = accent.Bold(true)
	f.Description = muted
	f.SelectSelector = accent.SetString("› ")
	f.SelectedOption = formatter.StyleGreen
	f.UnselectedOption = formatter.StyleFg
	f.ErrorIndicator = formatter.StyleRed.SetString(" *")
	f.ErrorMessage = formatter.StyleRed
	f.TextInput.Cursor = accent
	f.TextInput.Prompt = accent.SetString("› ")
	f.TextInput.Text = formatter.StyleFg
	f.TextInput.Placeholder = muted

	// Blurred fields keep the layout of focused ones without the accent.
	blurredBase := t.Blurred.Base
	t.Blurred = t.Focused
	b := &t.Blurred
	b.Base = blurredBase
	b.Title = muted
	b.SelectSelector = muted.SetString("  ")
	b.SelectedOption = muted
	b.TextInput.Prompt = muted.SetString("  ")
	b.TextInput.Text = muted

	return t
}
