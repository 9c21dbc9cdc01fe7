package domain

import "time"

// Event is a stored booking application.
type Event struct {
	ID             string
	EventType      string
	ApplicantName  string
	ApplicantEmail string
	ApplicantPhone string
	EventName      string
	Location       string
	StartDate      string // YYYY-MM-DD
	EndDate        string // YYYY-MM-DD
	StartTime      string // HH:MM
	EndTime        string // HH:MM
	Attendance     int
	Alcohol        YesNo
	HighRisk       YesNo
	TrafficMgmt    YesNo
	VehicleAccess  YesNo
	AmplifiedSound YesNo
	NoiseLevel     int
	TotalDays      int
	Notes          string
	Latitude       string
	Longitude      string
	FeatureID      string
	FeatureName    string
	Layer          string
	Classification Classification
	Status         EventStatus
	CreatedAt      time.Time
}

// Title is the calendar label, "<event> – <location>".
func (e *Event) Title() string {
	if e.Location == "" {
		return e.EventName
	}
	return e.EventName + " – " + e.Location
}

// StartISO returns the event start as YYYY-MM-DDTHH:MM:00, or "" when the
// start date is missing.
func (e *Event) StartISO() string {
	return ISODateTime(e.StartDate, e.StartTime, "00:00")
}

// EndISO returns the event end as YYYY-MM-DDTHH:MM:00, or "" when the end
// date is missing.
func (e *Event) EndISO() string {
	return ISODateTime(e.EndDate, e.EndTime, "00:00")
}

// ISODateTime joins a date and a time into a sortable local timestamp.
// An empty time falls back to defaultTime.
func ISODateTime(date, hhmm, defaultTime string) string {
	if date == "" {
		return ""
	}
	if hhmm == "" {
		hhmm = defaultTime
	}
	return date + "T" + hhmm + ":00"
}

// CoalesceStr returns the first non-empty string from vals.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
