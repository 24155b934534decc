// Package store persists the reconciled task table to SQLite. The
// snapshot is rebuilt wholesale on every run: both tables are dropped and
// recreated, then filled from the in-memory table.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at dbPath and recreates the
// snapshot tables.
func Open(dbPath string) (*Store, error) {
	s, err := open(dbPath)
	if err != nil {
		return nil, err
	}
	if err := s.recreate(); err != nil {
		s.db.Close()
		return nil, fmt.Errorf("recreate tables: %w", err)
	}
	return s, nil
}

// OpenExisting opens a previous run's snapshot for reading, leaving its
// tables intact.
func OpenExisting(dbPath string) (*Store, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	return open(dbPath)
}

func open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}
	return &Store{db: db}, nil
}

// OpenMemory creates an in-memory store for testing.
func OpenMemory() (*Store, error) {
	return Open(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

// recreate drops and rebuilds both snapshot tables. Each run replaces the
// previous snapshot entirely, so there is no migration versioning.
func (s *Store) recreate() error {
	const ddl = `
	DROP TABLE IF EXISTS task_logs;
	DROP TABLE IF EXISTS tasks;

	CREATE TABLE tasks (
		issue_key          TEXT PRIMARY KEY,
		epic               TEXT,
		summary            TEXT,
		assignee           TEXT,
		issue_type         TEXT,
		unplanned          INTEGER NOT NULL DEFAULT 0,
		resolution         TEXT,
		created_date       TEXT,
		reporter           TEXT,
		description        TEXT,
		original_estimate  REAL,
		remaining_estimate REAL,
		time_spent         REAL,
		start_date         TEXT,
		end_date           TEXT,
		progress           REAL,
		problem            TEXT
	);

	CREATE TABLE task_logs (
		issue_key    TEXT NOT NULL REFERENCES tasks(issue_key),
		assignee     TEXT,
		created_date TEXT,
		time_spent   REAL
	);

	CREATE INDEX idx_task_logs_issue ON task_logs(issue_key);
	`
	_, err := s.db.Exec(ddl)
	return err
}
