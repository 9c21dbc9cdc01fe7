package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesEventsTable(t *testing.T) {
	db := openTestDB(t)

	var name string
	err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='events'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "events", name)
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	for _, idx := range []string{"idx_events_status", "idx_events_start", "idx_events_feature"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_StatusCheckConstraint(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO events (id, start_date, end_date, classification, status, created_at)
		VALUES ('e1', '2026-11-01', '2026-11-01', 'Assessable', 'Lost', '2026-10-01T00:00:00Z')`)
	assert.Error(t, err)
}

func TestMigrate_ClassificationCheckConstraint(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO events (id, start_date, end_date, classification, created_at)
		VALUES ('e1', '2026-11-01', '2026-11-01', 'Maybe', '2026-10-01T00:00:00Z')`)
	assert.Error(t, err)
}

func TestMigrate_Defaults(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO events (id, start_date, end_date, classification, created_at)
		VALUES ('e1', '2026-11-01', '2026-11-01', 'Assessable', '2026-10-01T00:00:00Z')`)
	require.NoError(t, err)

	var status, alcohol string
	var days int
	require.NoError(t, db.QueryRow(`SELECT status, alcohol, total_days FROM events WHERE id='e1'`).Scan(&status, &alcohol, &days))
	assert.Equal(t, "Pending", status)
	assert.Equal(t, "No", alcohol)
	assert.Equal(t, 1, days)
}
