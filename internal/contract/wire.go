// Package contract defines the JSON bodies exchanged between the form client
// and the booking backend.
package contract

import "errors"

// ErrMissingConflictFlag marks a conflict response without a boolean flag.
var ErrMissingConflictFlag = errors.New("conflict response has no boolean conflict flag")

// ConflictRequest is the body of POST /api/check_conflict. Location
// duplicates Venue for backend compatibility.
type ConflictRequest struct {
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	Venue           string `json:"venue"`
	Location        string `json:"location"`
	ArcGISFeatureID string `json:"arcgis_feature_id"`
}

// ConflictResponse is the reply of POST /api/check_conflict.
type ConflictResponse struct {
	Conflict *bool `json:"conflict"`
}

// Flag returns the conflict flag, or ErrMissingConflictFlag when the reply
// did not carry one.
func (r ConflictResponse) Flag() (bool, error) {
	if r.Conflict == nil {
		return false, ErrMissingConflictFlag
	}
	return *r.Conflict, nil
}

// FeedEvent is one entry of GET /api/events, shaped for a calendar widget.
type FeedEvent struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Start         string         `json:"start"`
	End           string         `json:"end"`
	ExtendedProps FeedEventProps `json:"extendedProps"`
	ClassName     string         `json:"className"`
}

// FeedEventProps carries the non-display attributes of a feed entry.
type FeedEventProps struct {
	Location       string `json:"location"`
	Status         string `json:"status"`
	Classification string `json:"classification"`
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the reply of POST /api/chat.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// SubmitRequest is the body of POST /api/submit: the raw form values keyed
// by field id.
type SubmitRequest struct {
	Fields map[string]string `json:"fields"`
}

// SubmitResponse is the reply of POST /api/submit.
type SubmitResponse struct {
	ID             string   `json:"id"`
	Classification string   `json:"classification"`
	Status         string   `json:"status"`
	Conflict       bool     `json:"conflict"`
	Reasons        []string `json:"reasons,omitempty"`
}

// StatusRequest is the body of POST /api/event/{id}/status.
type StatusRequest struct {
	Status string `json:"status"`
}

// StatusResponse is the reply of POST /api/event/{id}/status.
type StatusResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Application is one row of GET /api/applications, the admin review list.
type Application struct {
	ID             string `json:"id"`
	EventType      string `json:"event_type"`
	EventName      string `json:"event_name"`
	ApplicantName  string `json:"applicant_name"`
	ApplicantEmail string `json:"applicant_email"`
	Location       string `json:"location"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	Attendance     int    `json:"attendance"`
	Classification string `json:"classification"`
	Status         string `json:"status"`
	CreatedAt      string `json:"created_at"`
}
