package testutil

import (
	"time"

	"github.com/alexanderramin/eventpermit/internal/domain"
	"github.com/google/uuid"
)

// EventOption customises a fixture event.
type EventOption func(*domain.Event)

func WithStatus(s domain.EventStatus) EventOption {
	return func(e *domain.Event) { e.Status = s }
}

func WithLocation(loc string) EventOption {
	return func(e *domain.Event) { e.Location = loc }
}

func WithFeatureID(id string) EventOption {
	return func(e *domain.Event) { e.FeatureID = id }
}

// WithDates sets the start and end dates (YYYY-MM-DD).
func WithDates(start, end string) EventOption {
	return func(e *domain.Event) {
		e.StartDate = start
		e.EndDate = end
	}
}

// WithTimes sets the start and end times (HH:MM).
func WithTimes(start, end string) EventOption {
	return func(e *domain.Event) {
		e.StartTime = start
		e.EndTime = end
	}
}

func WithAttendance(n int) EventOption {
	return func(e *domain.Event) { e.Attendance = n }
}

func WithClassification(c domain.Classification) EventOption {
	return func(e *domain.Event) { e.Classification = c }
}

func WithCreatedAt(at time.Time) EventOption {
	return func(e *domain.Event) { e.CreatedAt = at }
}

// NewTestEvent returns an approved, self-assessable single-day booking.
func NewTestEvent(name string, opts ...EventOption) *domain.Event {
	e := &domain.Event{
		ID:             uuid.New().String(),
		EventType:      "Community",
		ApplicantName:  "Test Organiser",
		ApplicantEmail: "organiser@example.com",
		EventName:      name,
		Location:       "Kings Beach Park",
		StartDate:      "2026-11-01",
		EndDate:        "2026-11-01",
		StartTime:      "09:00",
		EndTime:        "12:00",
		Attendance:     50,
		Alcohol:        domain.No,
		HighRisk:       domain.No,
		TrafficMgmt:    domain.No,
		VehicleAccess:  domain.No,
		AmplifiedSound: domain.No,
		TotalDays:      1,
		Classification: domain.SelfAssessable,
		Status:         domain.StatusApproved,
		CreatedAt:      time.Now().UTC().Truncate(time.Second),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
