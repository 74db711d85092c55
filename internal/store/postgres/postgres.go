// Package postgres provides a Store backed by PostgreSQL, for running the
// daemon against a shared database.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/fitz/taskflow/internal/retry"
)

const schema = `CREATE TABLE IF NOT EXISTS taskflow_kv (
	key        TEXT PRIMARY KEY,
	value      JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Store is a key/value Store over a single PostgreSQL table.
type Store struct {
	db *sqlx.DB
}

type row struct {
	Key       string    `db:"key"`
	Value     string    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Open connects to dsn, verifies the connection and creates the table.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// OpenWithRetry calls Open with exponential backoff until it succeeds, the
// attempts run out or ctx is cancelled.
func OpenWithRetry(ctx context.Context, dsn string, opts *retry.Options) (*Store, error) {
	var s *Store
	err := retry.Do(ctx, opts, func() error {
		var err error
		s, err = Open(ctx, dsn)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var r row
	err := s.db.GetContext(ctx, &r, `SELECT key, value, updated_at FROM taskflow_kv WHERE key = $1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return []byte(r.Value), true, nil
}

// Set upserts key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.NamedExecContext(ctx,
		`INSERT INTO taskflow_kv (key, value, updated_at) VALUES (:key, :value, :updated_at)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		row{Key: key, Value: string(value), UpdatedAt: time.Now().UTC()},
	)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
