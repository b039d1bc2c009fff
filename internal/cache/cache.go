// Package cache keeps a local snapshot of the last fetched report list
// so the dashboard paints before the network load lands and listing
// works offline. It is a cache, never a source of truth: the server owns
// all report state.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"civic-cli/internal/model"
	"civic-cli/internal/session"

	_ "modernc.org/sqlite"
)

type Cache struct {
	// Dir overrides the config dir (fixtures/tests). Empty means ~/.civic.
	Dir string
}

// ErrNoSnapshot is returned when no snapshot exists for the user.
var ErrNoSnapshot = errors.New("no cached reports")

func (c Cache) dbPath() (string, error) {
	dir := c.Dir
	if dir == "" {
		d, err := session.ConfigDir()
		if err != nil {
			return "", err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "cache.sqlite"), nil
}

func (c Cache) open(ctx context.Context) (*sql.DB, error) {
	path, err := c.dbPath()
	if err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers; busy_timeout avoids
	// "database is locked" flakiness when CLI and TUI overlap.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS report_snapshots (
  username   TEXT NOT NULL,
  report_id  INTEGER NOT NULL,
  position   INTEGER NOT NULL,
  payload    TEXT NOT NULL,
  PRIMARY KEY (username, report_id)
);
CREATE TABLE IF NOT EXISTS snapshot_meta (
  username   TEXT PRIMARY KEY,
  fetched_at TEXT NOT NULL
);`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Put replaces the user's snapshot in one transaction, so a concurrent
// reader sees either the old list or the new one.
func (c Cache) Put(ctx context.Context, username string, rs []model.Report) error {
	db, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM report_snapshots WHERE username = ?`, username); err != nil {
		return err
	}
	for i, r := range rs {
		b, err := json.Marshal(r)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO report_snapshots (username, report_id, position, payload) VALUES (?, ?, ?, ?)`,
			username, r.ID, i, string(b)); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshot_meta (username, fetched_at) VALUES (?, ?)
		 ON CONFLICT(username) DO UPDATE SET fetched_at = excluded.fetched_at`,
		username, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	return tx.Commit()
}

// Get returns the user's snapshot in its original order, plus when it
// was fetched.
func (c Cache) Get(ctx context.Context, username string) ([]model.Report, time.Time, error) {
	db, err := c.open(ctx)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer func() { _ = db.Close() }()

	var fetchedAt string
	err = db.QueryRowContext(ctx, `SELECT fetched_at FROM snapshot_meta WHERE username = ?`, username).Scan(&fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, ErrNoSnapshot
	}
	if err != nil {
		return nil, time.Time{}, err
	}
	at, err := time.Parse(time.RFC3339, fetchedAt)
	if err != nil {
		at = time.Time{}
	}

	rows, err := db.QueryContext(ctx,
		`SELECT payload FROM report_snapshots WHERE username = ? ORDER BY position`, username)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Report
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, time.Time{}, err
		}
		var r model.Report
		if err := json.Unmarshal([]byte(payload), &r); err != nil {
			return nil, time.Time{}, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, err
	}
	return out, at, nil
}
