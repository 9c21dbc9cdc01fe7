package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/eventpermit/internal/contract"
	"github.com/alexanderramin/eventpermit/internal/domain"
	"github.com/alexanderramin/eventpermit/internal/eligibility"
	"github.com/alexanderramin/eventpermit/internal/navigator"
)

// FormatChecklist renders the eligibility rules in evaluation order with a
// headline badge.
func FormatChecklist(summary domain.EligibilitySummary) string {
	var b strings.Builder
	badge := eligibility.Badge(summary)
	if summary.AllOK() {
		b.WriteString(StyleGreen.Render(badge))
	} else {
		b.WriteString(StyleYellow.Render(badge))
	}
	b.WriteString("\n")
	for _, r := range summary.Results {
		if r.OK {
			b.WriteString(StyleGreen.Render("  ✔ "))
		} else {
			b.WriteString(StyleRed.Render("  ✘ "))
		}
		b.WriteString(r.Description)
		b.WriteString("\n")
	}
	return b.String()
}

// FormatClassification renders the category and, for assessable events, the
// answers that caused it.
func FormatClassification(c domain.Classification, reasons []string) string {
	var b strings.Builder
	b.WriteString("Classification: ")
	b.WriteString(ClassificationBadge(c))
	b.WriteString("\n")
	for _, r := range reasons {
		b.WriteString(Dim("  • " + r))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatAdvisory renders the conflict banner.
func FormatAdvisory(state domain.ConflictState) string {
	return AdvisoryColor(state).Render("● " + navigator.AdvisoryMessage(state))
}

// FormatRecap renders the summary recap as label/value lines.
func FormatRecap(rows []navigator.RecapRow) string {
	width := 0
	for _, r := range rows {
		width = max(width, len(r.Label))
	}
	var b strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&b, "%s  %s\n", Dim(fmt.Sprintf("%-*s", width, r.Label)), Dash(r.Value))
	}
	return b.String()
}

// FormatSummary renders the full review step: recap, classification and
// checklist.
func FormatSummary(s navigator.Summary) string {
	var b strings.Builder
	b.WriteString(FormatRecap(s.Recap))
	b.WriteString("\n")
	b.WriteString(FormatClassification(s.Classification, s.Reasons))
	b.WriteString("\n")
	b.WriteString(FormatChecklist(s.Eligibility))
	return b.String()
}

// FormatSubmitResult renders the backend's answer to a submission.
func FormatSubmitResult(resp *contract.SubmitResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Reference:      %s\n", Bold(resp.ID))
	fmt.Fprintf(&b, "Status:         %s\n", StatusIndicator(resp.Status))
	fmt.Fprintf(&b, "Classification: %s\n", ClassificationBadge(domain.Classification(resp.Classification)))
	if resp.Conflict {
		b.WriteString(StyleYellow.Render("Another approved booking overlaps this slot; council will review it."))
		b.WriteString("\n")
	}
	for _, r := range resp.Reasons {
		b.WriteString(Dim("  • " + r))
		b.WriteString("\n")
	}
	return RenderBox("Application received", strings.TrimRight(b.String(), "\n")) + "\n"
}
