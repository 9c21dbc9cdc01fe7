// Package testutil holds shared helpers for database-backed tests.
package testutil

import (
	"database/sql"
	"testing"

	"github.com/alexanderramin/eventpermit/internal/db"
)

// NewTestDB returns a migrated in-memory events database that is closed
// when the test ends.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

// NewTestUoW creates a UnitOfWork backed by the given test database.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}
