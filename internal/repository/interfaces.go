// Package repository persists booking events in SQLite.
package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/eventpermit/internal/domain"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// PlaceWindow selects bookings at one place over an inclusive date range.
// A non-empty FeatureID matches on feature id; Location matches
// case-insensitively after trimming.
type PlaceWindow struct {
	FeatureID string
	Location  string
	StartDate string // YYYY-MM-DD
	EndDate   string // YYYY-MM-DD
}

// AdminFilter narrows the application list. Query matches applicant name,
// event type or event name as a substring. Status is either an event status
// or a classification; any other value is ignored.
type AdminFilter struct {
	Query  string
	Status string
}

type EventRepo interface {
	Create(ctx context.Context, e *domain.Event) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	// List returns every event ordered by start date and time.
	List(ctx context.Context) ([]*domain.Event, error)
	// Search returns applications matching f, newest first.
	Search(ctx context.Context, f AdminFilter) ([]*domain.Event, error)
	UpdateStatus(ctx context.Context, id string, status domain.EventStatus) error
	// ListApprovedAt returns approved events at the window's place whose
	// date range overlaps the window.
	ListApprovedAt(ctx context.Context, w PlaceWindow) ([]*domain.Event, error)
	// DistinctLocations returns the known venues in alphabetical order.
	DistinctLocations(ctx context.Context) ([]string, error)
}
