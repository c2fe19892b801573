package storage

import (
	"context"
	"database/sql"
	"fmt"

	"railbook/internal/booking"
)

// SaveSession replaces the stored session with s.
func (db *DB) SaveSession(ctx context.Context, s *booking.Session) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save session: %w", err)
	}
	defer tx.Rollback()

	if err := clearTables(ctx, tx); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO session (id, token, email, first_name, last_name) VALUES (1, ?, ?, ?, ?)`,
		s.Token, s.User.Email, s.User.FirstName, s.User.LastName); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	for i, p := range s.Passengers {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO passengers (passenger_id, first_name, last_name, is_selected, position)
			 VALUES (?, ?, ?, ?, ?)`,
			p.ID, p.FirstName, p.LastName, p.IsSelected, i); err != nil {
			return fmt.Errorf("insert passenger %d: %w", p.ID, err)
		}
	}

	for i, st := range s.Stations {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO stations (station_id, name, position) VALUES (?, ?, ?)`,
			st.ID, st.Name, i); err != nil {
			return fmt.Errorf("insert station %d: %w", st.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit session: %w", err)
	}
	db.logger.Debug("session saved", "email", s.User.Email,
		"passengers", len(s.Passengers), "stations", len(s.Stations))
	return nil
}

// LoadSession returns the stored session, or nil when nobody is connected.
func (db *DB) LoadSession(ctx context.Context) (*booking.Session, error) {
	var s booking.Session
	err := db.QueryRowContext(ctx,
		`SELECT token, email, first_name, last_name FROM session WHERE id = 1`).
		Scan(&s.Token, &s.User.Email, &s.User.FirstName, &s.User.LastName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT passenger_id, first_name, last_name, is_selected
		FROM passengers
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("passengers query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p booking.Passenger
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.IsSelected); err != nil {
			return nil, fmt.Errorf("scan passenger: %w", err)
		}
		s.Passengers = append(s.Passengers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	srows, err := db.QueryContext(ctx, `SELECT station_id, name FROM stations ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("stations query: %w", err)
	}
	defer srows.Close()

	for srows.Next() {
		var st booking.Station
		if err := srows.Scan(&st.ID, &st.Name); err != nil {
			return nil, fmt.Errorf("scan station: %w", err)
		}
		s.Stations = append(s.Stations, st)
	}
	return &s, srows.Err()
}

// ClearSession forgets the connected user.
func (db *DB) ClearSession(ctx context.Context) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin clear session: %w", err)
	}
	defer tx.Rollback()

	if err := clearTables(ctx, tx); err != nil {
		return err
	}
	return tx.Commit()
}

func clearTables(ctx context.Context, tx *sql.Tx) error {
	for _, table := range []string{"session", "passengers", "stations"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}
