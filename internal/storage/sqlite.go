package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver.
)

// DB wraps the SQLite database holding the persistent and session-scoped tables.
type DB struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection keeps writes ordered and avoids SQLITE_BUSY between handlers.
	db.SetMaxOpenConns(1)
	store := &DB{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS items (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS session_items (
			session_id TEXT NOT NULL,
			key TEXT NOT NULL,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (session_id, key)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_session_items_updated_at ON session_items(updated_at);`,
	}
	for _, stmt := range stmts {
		if _, err := d.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Persistent returns the Backend for the long-lived items table.
func (d *DB) Persistent() *Table {
	return &Table{db: d.db}
}

// Session returns the Backend scoped to one terminal session.
func (d *DB) Session(sessionID string) *SessionTable {
	return &SessionTable{db: d.db, sessionID: sessionID, now: time.Now}
}

// PruneSessions deletes rows of other sessions not touched since cutoff.
func (d *DB) PruneSessions(ctx context.Context, keep string, cutoff time.Time) (int64, error) {
	res, err := d.db.ExecContext(ctx,
		`DELETE FROM session_items WHERE session_id <> ? AND updated_at < ?`,
		keep, cutoff.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("prune sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune sessions: %w", err)
	}
	return n, nil
}

// Table is the persistent key/value Backend.
type Table struct {
	db *sql.DB
}

// Get implements Backend.
func (t *Table) Get(key string) (string, bool, error) {
	var value string
	err := t.db.QueryRow(`SELECT value FROM items WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

// Set implements Backend.
func (t *Table) Set(key, value string) error {
	if _, err := t.db.Exec(
		`INSERT INTO items (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// Remove implements Backend.
func (t *Table) Remove(key string) error {
	if _, err := t.db.Exec(`DELETE FROM items WHERE key = ?`, key); err != nil {
		return fmt.Errorf("remove %q: %w", key, err)
	}
	return nil
}

// Keys implements Backend.
func (t *Table) Keys() ([]string, error) {
	return queryKeys(t.db, `SELECT key FROM items ORDER BY key`)
}

// Clear implements Backend.
func (t *Table) Clear(prefix string) error {
	var err error
	if prefix == "" {
		_, err = t.db.Exec(`DELETE FROM items`)
	} else {
		_, err = t.db.Exec(`DELETE FROM items WHERE substr(key, 1, ?) = ?`, len(prefix), prefix)
	}
	if err != nil {
		return fmt.Errorf("clear %q: %w", prefix, err)
	}
	return nil
}

// SessionTable is a Backend whose keys live only for one session id.
type SessionTable struct {
	db        *sql.DB
	sessionID string
	now       func() time.Time
}

// ID returns the session id the table is scoped to.
func (s *SessionTable) ID() string {
	return s.sessionID
}

// Get implements Backend.
func (s *SessionTable) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM session_items WHERE session_id = ? AND key = ?`,
		s.sessionID, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

// Set implements Backend.
func (s *SessionTable) Set(key, value string) error {
	if _, err := s.db.Exec(
		`INSERT INTO session_items (session_id, key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(session_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.sessionID, key, value, s.now().UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// Remove implements Backend.
func (s *SessionTable) Remove(key string) error {
	if _, err := s.db.Exec(`DELETE FROM session_items WHERE session_id = ? AND key = ?`,
		s.sessionID, key); err != nil {
		return fmt.Errorf("remove %q: %w", key, err)
	}
	return nil
}

// Keys implements Backend.
func (s *SessionTable) Keys() ([]string, error) {
	return queryKeys(s.db, `SELECT key FROM session_items WHERE session_id = ? ORDER BY key`, s.sessionID)
}

// Clear implements Backend.
func (s *SessionTable) Clear(prefix string) error {
	var err error
	if prefix == "" {
		_, err = s.db.Exec(`DELETE FROM session_items WHERE session_id = ?`, s.sessionID)
	} else {
		_, err = s.db.Exec(`DELETE FROM session_items WHERE session_id = ? AND substr(key, 1, ?) = ?`,
			s.sessionID, len(prefix), prefix)
	}
	if err != nil {
		return fmt.Errorf("clear %q: %w", prefix, err)
	}
	return nil
}

func queryKeys(db *sql.DB, query string, args ...any) ([]string, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("list keys: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	return keys, nil
}

// SessionIDFromEnv returns AZKAR_SESSION when set, otherwise an id derived
// from the parent process, so progress survives restarts in the same shell.
func SessionIDFromEnv() string {
	if v := strings.TrimSpace(os.Getenv("AZKAR_SESSION")); v != "" {
		return v
	}
	return fmt.Sprintf("ppid-%d", os.Getppid())
}
