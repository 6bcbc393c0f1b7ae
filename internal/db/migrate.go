package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies the schema. Every statement is safe to re-run.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Columns added after the first release are declared in CREATE
			// TABLE as well, so their ALTER fails on fresh databases.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS trips (
		id                TEXT PRIMARY KEY,
		name              TEXT NOT NULL,
		location          TEXT NOT NULL,
		start_date        TEXT NOT NULL,
		end_date          TEXT NOT NULL,
		days              INTEGER NOT NULL CHECK(days > 0),
		budget            INTEGER NOT NULL DEFAULT 0,
		spent             INTEGER NOT NULL DEFAULT 0 CHECK(spent >= 0),
		status            TEXT NOT NULL DEFAULT 'planning'
		                  CHECK(status IN ('planning','ongoing','completed')),
		itinerary_json    TEXT NOT NULL DEFAULT '[]',
		lodging_json      TEXT NOT NULL DEFAULT '[]',
		transport_tips    TEXT NOT NULL DEFAULT '',
		packing_json      TEXT NOT NULL DEFAULT '[]',
		notes             TEXT NOT NULL DEFAULT '',
		source            TEXT NOT NULL DEFAULT 'llm',
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS trip_adjustments (
		id         TEXT PRIMARY KEY,
		trip_id    TEXT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
		kind       TEXT NOT NULL CHECK(kind IN ('spend','status','note')),
		detail     TEXT NOT NULL DEFAULT '',
		amount     INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_trips_status ON trips(status)`,
	`CREATE INDEX IF NOT EXISTS idx_trips_start ON trips(start_date)`,
	`CREATE INDEX IF NOT EXISTS idx_trip_adjustments_trip ON trip_adjustments(trip_id, created_at)`,
	`ALTER TABLE trips ADD COLUMN source TEXT NOT NULL DEFAULT 'llm'`,
}
