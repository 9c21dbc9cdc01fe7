package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/eventpermit/internal/contract"
)

// FormatEvents renders the calendar feed as a table.
func FormatEvents(feed []contract.FeedEvent) string {
	if len(feed) == 0 {
		return Dim("No bookings yet.") + "\n"
	}
	rows := make([][]string, 0, len(feed))
	for _, e := range feed {
		rows = append(rows, []string{
			feedWhen(e.Start, e.End),
			Truncate(e.Title, 48),
			StatusIndicator(e.ExtendedProps.Status),
			Dash(e.ExtendedProps.Classification),
		})
	}
	return Header("Bookings") + "\n" + RenderTable([]string{"WHEN", "EVENT", "STATUS", "CLASS"}, rows)
}

// feedWhen turns two feed timestamps ("2026-11-01T09:00:00") into a window.
func feedWhen(start, end string) string {
	sd, st := splitISO(start)
	ed, et := splitISO(end)
	return FormatWhen(sd, ed, st, et)
}

func splitISO(ts string) (date, clock string) {
	date, rest, ok := strings.Cut(ts, "T")
	if !ok {
		return ts, ""
	}
	if len(rest) >= 5 {
		rest = rest[:5]
	}
	return date, rest
}

// FormatApplications renders the admin review list.
func FormatApplications(apps []contract.Application) string {
	if len(apps) == 0 {
		return Dim("No matching applications.") + "\n"
	}
	rows := make([][]string, 0, len(apps))
	for _, a := range apps {
		rows = append(rows, []string{
			Dim(shortID(a.ID)),
			Truncate(a.EventName, 32),
			Truncate(Dash(a.ApplicantName), 24),
			Truncate(Dash(a.Location), 28),
			FormatWhen(a.StartDate, a.EndDate, a.StartTime, a.EndTime),
			fmt.Sprintf("%d", a.Attendance),
			Dash(a.Classification),
			StatusIndicator(a.Status),
		})
	}
	headers := []string{"ID", "EVENT", "APPLICANT", "LOCATION", "WHEN", "PEOPLE", "CLASS", "STATUS"}
	return Header(fmt.Sprintf("Applications (%d)", len(apps))) + "\n" + RenderTable(headers, rows)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
