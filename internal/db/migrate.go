package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent so the
// whole list is replayed on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS events (
		id               TEXT PRIMARY KEY,
		event_type       TEXT NOT NULL DEFAULT '',
		applicant_name   TEXT NOT NULL DEFAULT '',
		applicant_email  TEXT NOT NULL DEFAULT '',
		applicant_phone  TEXT NOT NULL DEFAULT '',
		event_name       TEXT NOT NULL DEFAULT '',
		location         TEXT NOT NULL DEFAULT '',
		start_date       TEXT NOT NULL,
		end_date         TEXT NOT NULL,
		start_time       TEXT NOT NULL DEFAULT '',
		end_time         TEXT NOT NULL DEFAULT '',
		attendance       INTEGER NOT NULL DEFAULT 0 CHECK(attendance >= 0),
		alcohol          TEXT NOT NULL DEFAULT 'No',
		high_risk        TEXT NOT NULL DEFAULT 'No',
		traffic_mgmt     TEXT NOT NULL DEFAULT 'No',
		vehicle_access   TEXT NOT NULL DEFAULT 'No',
		amplified_sound  TEXT NOT NULL DEFAULT 'No',
		noise_level      INTEGER NOT NULL DEFAULT 0,
		total_days       INTEGER NOT NULL DEFAULT 1 CHECK(total_days >= 1),
		notes            TEXT NOT NULL DEFAULT '',
		latitude         TEXT NOT NULL DEFAULT '',
		longitude        TEXT NOT NULL DEFAULT '',
		arcgis_feature_id   TEXT NOT NULL DEFAULT '',
		arcgis_feature_name TEXT NOT NULL DEFAULT '',
		arcgis_layer        TEXT NOT NULL DEFAULT '',
		classification   TEXT NOT NULL
		                 CHECK(classification IN ('Self-assessable','Assessable')),
		status           TEXT NOT NULL DEFAULT 'Pending'
		                 CHECK(status IN ('Approved','Pending','Rejected','Cancelled')),
		created_at       TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_events_status ON events(status)`,
	`CREATE INDEX IF NOT EXISTS idx_events_start ON events(start_date, start_time)`,
	`CREATE INDEX IF NOT EXISTS idx_events_feature ON events(arcgis_feature_id)`,
}
