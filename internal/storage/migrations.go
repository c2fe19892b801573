package storage

import "fmt"

// migrate creates the session schema if it doesn't exist.
func (db *DB) migrate() error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	db.logger.Debug("database migrations applied")
	return nil
}

var migrations = []string{
	// Session (at most one row: the connected user)
	`CREATE TABLE IF NOT EXISTS session (
		id         INTEGER PRIMARY KEY CHECK (id = 1),
		token      TEXT NOT NULL,
		email      TEXT NOT NULL DEFAULT '',
		first_name TEXT NOT NULL DEFAULT '',
		last_name  TEXT NOT NULL DEFAULT '',
		saved_at   TEXT NOT NULL DEFAULT (datetime('now'))
	)`,

	// Passengers of the account, in service order
	`CREATE TABLE IF NOT EXISTS passengers (
		passenger_id INTEGER PRIMARY KEY,
		first_name   TEXT NOT NULL,
		last_name    TEXT NOT NULL,
		is_selected  INTEGER NOT NULL DEFAULT 0,
		position     INTEGER NOT NULL
	)`,

	// Frequent stations, in service order
	`CREATE TABLE IF NOT EXISTS stations (
		station_id INTEGER PRIMARY KEY,
		name       TEXT NOT NULL,
		position   INTEGER NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_passengers_position ON passengers(position)`,
	`CREATE INDEX IF NOT EXISTS idx_stations_position ON stations(position)`,
}
