// Package store persists synced events, grade ledgers and per-event
// task statuses in a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/diario-app/diario/internal/model"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("store: not found")

// DefaultDBPath resolves the database file path in priority order:
// 1. DIARIO_DB environment variable
// 2. $XDG_DATA_HOME/diario/diario.db
// 3. ~/.local/share/diario/diario.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("DIARIO_DB"); p != "" {
		return p, nil
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "diario", "diario.db"), nil
}

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

// Open connects to the SQLite database at dsn, creating parent
// directories as needed. It applies recommended pragmas and runs the
// schema migration.
func Open(dsn string) (*Store, error) {
	if dir := filepath.Dir(dsn); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id          TEXT PRIMARY KEY,
			title       TEXT NOT NULL,
			start       TEXT,
			kind        TEXT NOT NULL,
			subject     TEXT NOT NULL DEFAULT '',
			author      TEXT NOT NULL DEFAULT '',
			note        TEXT NOT NULL DEFAULT '',
			is_manual   INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS subjects (
			name     TEXT PRIMARY KEY,
			average  REAL NOT NULL DEFAULT 0,
			position INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS grades (
			subject TEXT NOT NULL REFERENCES subjects(name) ON DELETE CASCADE,
			seq     INTEGER NOT NULL,
			value   REAL NOT NULL,
			display TEXT NOT NULL,
			PRIMARY KEY (subject, seq)
		)`,
		`CREATE TABLE IF NOT EXISTS statuses (
			event_id  TEXT PRIMARY KEY,
			started   INTEGER NOT NULL DEFAULT 0,
			completed INTEGER NOT NULL DEFAULT 0
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// ReplaceEvents swaps the synced event set in one transaction. Manual
// tasks are kept: only portal-synced rows are replaced.
func (s *Store) ReplaceEvents(ctx context.Context, events []model.CalendarEvent) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE is_manual = 0`); err != nil {
		return err
	}
	for _, ev := range events {
		if err := insertEvent(ctx, tx, ev); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Events returns all stored events in id order.
func (s *Store) Events(ctx context.Context) ([]model.CalendarEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, start, kind, subject, author, note, is_manual
		FROM events ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.CalendarEvent
	for rows.Next() {
		var ev model.CalendarEvent
		var start sql.NullString
		var kind string
		if err := rows.Scan(&ev.ID, &ev.Title, &start, &kind,
			&ev.SubjectHint, &ev.Author, &ev.Note, &ev.IsManual); err != nil {
			return nil, err
		}
		ev.Kind = model.EventKind(kind)
		if start.Valid {
			t, err := time.Parse(time.RFC3339, start.String)
			if err != nil {
				return nil, fmt.Errorf("event %s: bad start %q: %w", ev.ID, start.String, err)
			}
			local := t.Local()
			ev.Start = &local
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// AddManualTask stores a user-created task.
func (s *Store) AddManualTask(ctx context.Context, ev model.CalendarEvent) error {
	ev.IsManual = true
	return insertEvent(ctx, s.db, ev)
}

// DeleteManualTask removes a manual task. Synced events cannot be
// deleted this way; they come back on the next sync anyway.
func (s *Store) DeleteManualTask(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM events WHERE id = ? AND is_manual = 1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	// Orphaned status rows are harmless but tidy up anyway.
	_, err = s.db.ExecContext(ctx, `DELETE FROM statuses WHERE event_id = ?`, id)
	return err
}

// ReplaceLedger swaps the grade ledger in one transaction, preserving
// the given order via the position column.
func (s *Store) ReplaceLedger(ctx context.Context, ledger []model.SubjectLedger) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM subjects`); err != nil {
		return err
	}
	for pos, entry := range ledger {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO subjects (name, average, position) VALUES (?, ?, ?)`,
			entry.Subject, entry.Average, pos); err != nil {
			return err
		}
		for seq, g := range entry.Grades {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO grades (subject, seq, value, display) VALUES (?, ?, ?, ?)`,
				entry.Subject, seq, g.Value, g.Display); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// Ledger returns the grade ledger in stored order.
func (s *Store) Ledger(ctx context.Context) ([]model.SubjectLedger, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, average FROM subjects ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ledger []model.SubjectLedger
	for rows.Next() {
		var entry model.SubjectLedger
		if err := rows.Scan(&entry.Subject, &entry.Average); err != nil {
			return nil, err
		}
		ledger = append(ledger, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range ledger {
		grades, err := s.subjectGrades(ctx, ledger[i].Subject)
		if err != nil {
			return nil, err
		}
		ledger[i].Grades = grades
	}
	return ledger, nil
}

// SetStatus upserts the task status for an event.
func (s *Store) SetStatus(ctx context.Context, eventID string, status model.TaskStatus) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO statuses (event_id, started, completed) VALUES (?, ?, ?)
		ON CONFLICT(event_id) DO UPDATE SET
			started = excluded.started,
			completed = excluded.completed`,
		eventID, status.Started, status.Completed)
	return err
}

// Statuses returns all task statuses keyed by event id.
func (s *Store) Statuses(ctx context.Context) (map[string]model.TaskStatus, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT event_id, started, completed FROM statuses`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	statuses := make(map[string]model.TaskStatus)
	for rows.Next() {
		var id string
		var st model.TaskStatus
		if err := rows.Scan(&id, &st.Started, &st.Completed); err != nil {
			return nil, err
		}
		statuses[id] = st
	}
	return statuses, rows.Err()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertEvent(ctx context.Context, db execer, ev model.CalendarEvent) error {
	var start any
	if ev.Start != nil {
		start = ev.Start.Format(time.RFC3339)
	}
	_, err := db.ExecContext(ctx, `
		INSERT OR REPLACE INTO events
			(id, title, start, kind, subject, author, note, is_manual)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.Title, start, string(ev.Kind),
		ev.SubjectHint, ev.Author, ev.Note, ev.IsManual)
	return err
}

func (s *Store) subjectGrades(ctx context.Context, subject string) ([]model.Grade, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT value, display FROM grades WHERE subject = ? ORDER BY seq`, subject)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grades []model.Grade
	for rows.Next() {
		var g model.Grade
		if err := rows.Scan(&g.Value, &g.Display); err != nil {
			return nil, err
		}
		grades = append(grades, g)
	}
	return grades, rows.Err()
}
