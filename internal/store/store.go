// Package store persists saved servers, per-table queries and the run log
// in a local SQLite file.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/adrg/xdg"
	_ "github.com/mattn/go-sqlite3"

	"github.com/nhath/sqlstudio/internal/log"
)

// Retention is how long run log entries are kept
const Retention = 90 * 24 * time.Hour

// Store manages the settings database
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// DefaultPath returns the XDG data path of the settings database
func DefaultPath() (string, error) {
	return xdg.DataFile("sqlstudio/settings.db")
}

// OpenDefault opens the settings database at DefaultPath
func OpenDefault() (*Store, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return Open(path)
}

// Open opens or creates the settings database at path and migrates it
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// one writer keeps the run log and UI saves from tripping over each other
	db.SetMaxOpenConns(1)

	// Apply SQLite pragmas
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{db: db, now: time.Now}
	if err := s.cleanup(); err != nil {
		log.ErrorErr(log.CatStore, "run log cleanup failed", err)
	}
	log.Debug(log.CatStore, "settings store opened", "path", path)
	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// AddServer remembers a server; adding a known server is a no-op
func (s *Store) AddServer(name string) error {
	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO servers (server_name, added_at) VALUES (?, ?)",
		name, s.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("add server: %w", err)
	}
	return nil
}

// Servers returns saved server names in the order they were added
func (s *Store) Servers() ([]string, error) {
	rows, err := s.db.Query("SELECT server_name FROM servers ORDER BY added_at, rowid")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// RemoveServer forgets a server together with its saved queries and runs.
// It reports whether the server was known.
func (s *Store) RemoveServer(name string) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.Exec("DELETE FROM servers WHERE server_name = ?", name)
	if err != nil {
		return false, err
	}
	if _, err := tx.Exec("DELETE FROM queries WHERE server_name = ?", name); err != nil {
		return false, err
	}
	if _, err := tx.Exec("DELETE FROM runs WHERE server_name = ?", name); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// SaveQuery stores the query text for a table, replacing any previous text
func (s *Store) SaveQuery(server, database, table, query string) error {
	_, err := s.db.Exec(`
		INSERT INTO queries (server_name, db_name, table_name, query, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(server_name, db_name, table_name)
		DO UPDATE SET query = excluded.query, updated_at = excluded.updated_at
	`, server, database, table, query, s.now().UTC())
	if err != nil {
		return fmt.Errorf("save query: %w", err)
	}
	return nil
}

// LoadQuery returns the saved query text for a table and whether one exists
func (s *Store) LoadQuery(server, database, table string) (string, bool, error) {
	var query string
	err := s.db.QueryRow(`
		SELECT query FROM queries
		WHERE server_name = ? AND db_name = ? AND table_name = ?
	`, server, database, table).Scan(&query)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load query: %w", err)
	}
	return query, true, nil
}

// RecordRun inserts a query execution into the run log
func (s *Store) RecordRun(run *Run) error {
	if run.ExecutedAt.IsZero() {
		run.ExecutedAt = s.now()
	}
	res, err := s.db.Exec(`
		INSERT INTO runs (server_name, db_name, query, executed_at, duration_ms, row_count, status, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ServerName,
		run.DBName,
		run.Query,
		run.ExecutedAt.UTC(),
		run.DurationMs,
		run.RowCount,
		run.Status,
		run.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	run.ID = id
	return nil
}

// RecentRuns returns the newest runs for a server, newest first
func (s *Store) RecentRuns(server string, limit int) ([]Run, error) {
	rows, err := s.db.Query(`
		SELECT id, server_name, db_name, query, executed_at, duration_ms, row_count, status, error_message
		FROM runs
		WHERE server_name = ?
		ORDER BY executed_at DESC, id DESC
		LIMIT ?
	`, server, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.ServerName, &r.DBName, &r.Query, &r.ExecutedAt,
			&r.DurationMs, &r.RowCount, &r.Status, &r.ErrorMessage); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// cleanup removes runs older than Retention
func (s *Store) cleanup() error {
	_, err := s.db.Exec("DELETE FROM runs WHERE executed_at < ?", s.now().Add(-Retention).UTC())
	return err
}
