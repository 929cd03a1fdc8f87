package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
)

// schema is executed on every open. Timestamps are TEXT in the fixed-width
// layout produced by FormatTimeForDB so that string comparison orders them.
const schema = `
CREATE TABLE IF NOT EXISTS tasks (
    id   INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE CHECK (name <> '')
);

CREATE TABLE IF NOT EXISTS time_entries (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    task_id    INTEGER NOT NULL REFERENCES tasks(id),
    start_time TEXT NOT NULL,
    end_time   TEXT NULL CHECK (end_time IS NULL OR end_time >= start_time)
);

CREATE INDEX IF NOT EXISTS idx_time_entries_start_time ON time_entries(start_time);
CREATE INDEX IF NOT EXISTS idx_time_entries_task_id ON time_entries(task_id);
`

// dataSourceName adds the per-connection pragmas to path so that a
// connection opened after the first one is configured the same way.
func dataSourceName(path string, opts Options) string {
	params := url.Values{}
	params.Add("_pragma", "foreign_keys(1)")
	if opts.BusyTimeout > 0 {
		params.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", opts.BusyTimeout.Milliseconds()))
	}
	return path + "?" + params.Encode()
}

// configure pins the pool to one connection and creates the schema.
func configure(ctx context.Context, db *sql.DB, opts Options) error {
	// SQLite has a single writer, and an in-memory database only lives as
	// long as its connection, so that connection is never recycled.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if !opts.InMemory {
		// journal_mode is stored in the database file, not per connection.
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			return fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}
