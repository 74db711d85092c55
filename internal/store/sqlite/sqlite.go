// Package sqlite provides the default on-disk Store backed by SQLite.
// Uses WAL mode so the CLI can read while the daemon writes.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// FileName is the database file created inside the data directory.
const FileName = "taskflow.db"

// DB is a key/value Store over a single SQLite table.
type DB struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at dir/taskflow.db.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	// modernc.org/sqlite applies connection settings through _pragma.
	dsn := filepath.Join(dir, FileName) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping() error {
	return d.db.Ping()
}

func (d *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS kv (
			key        TEXT PRIMARY KEY,
			value      BLOB NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
	}
	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the value stored under key.
func (d *DB) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := d.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

// Set upserts key.
func (d *DB) Set(ctx context.Context, key string, value []byte) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
