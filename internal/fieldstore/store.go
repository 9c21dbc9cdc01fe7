// Package fieldstore holds the current raw input of the permit form.
//
// The store is a plain data source. It is mutated only by input handlers;
// evaluators read it through Snapshot.
package fieldstore

import (
	"maps"

	"github.com/alexanderramin/eventpermit/internal/domain"
)

// Store keeps text values and checkbox states keyed by field id.
type Store struct {
	values  map[string]string
	checked map[string]bool
}

// New creates a store seeded with initial values.
func New(initial map[string]string) *Store {
	s := &Store{
		values:  make(map[string]string, len(initial)),
		checked: make(map[string]bool),
	}
	maps.Copy(s.values, initial)
	return s
}

// Get returns the value of a field, or "" if it was never set.
func (s *Store) Get(id string) string {
	return s.values[id]
}

// Set replaces the value of a field and reports whether it changed.
func (s *Store) Set(id, value string) bool {
	if s.values[id] == value {
		return false
	}
	s.values[id] = value
	return true
}

// Clear empties the given fields.
func (s *Store) Clear(ids ...string) {
	for _, id := range ids {
		delete(s.values, id)
	}
}

// Checked reports whether a checkbox field is ticked.
func (s *Store) Checked(id string) bool {
	return s.checked[id]
}

// SetChecked sets a checkbox field.
func (s *Store) SetChecked(id string, on bool) {
	s.checked[id] = on
}

// Values returns a copy of all text values.
func (s *Store) Values() map[string]string {
	return maps.Clone(s.values)
}

// Snapshot parses the current values into an immutable FormSnapshot.
func (s *Store) Snapshot() domain.FormSnapshot {
	return domain.SnapshotFrom(s)
}
