package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fitz/taskflow/internal/models"
	"github.com/fitz/taskflow/internal/store"
)

var _ store.Store = (*DB)(nil)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpen_CreatesDatabase(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(filepath.Join(dir, FileName)); os.IsNotExist(err) {
		t.Errorf("%s should exist", FileName)
	}
	if err := db.Ping(); err != nil {
		t.Errorf("Ping() error: %v", err)
	}
}

func TestGet_Missing(t *testing.T) {
	db := newTestDB(t)

	_, ok, err := db.Get(context.Background(), store.KeyTasks)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if ok {
		t.Error("expected missing key")
	}
}

func TestSet_Upserts(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	if err := db.Set(ctx, "k", []byte("one")); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if err := db.Set(ctx, "k", []byte("two")); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	got, ok, err := db.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v", ok, err)
	}
	if string(got) != "two" {
		t.Errorf("Get() = %q, expected two", got)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	db, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	tasks := []models.Task{{ID: "a", Name: "persist me", Status: models.TaskStatusActive}}
	if err := store.Save(ctx, db, store.KeyTasks, tasks); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	db.Close()

	db, err = Open(dir)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer db.Close()

	got, err := store.Load[[]models.Task](ctx, db, store.KeyTasks, nil)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "persist me" {
		t.Errorf("unexpected tasks after reopen: %+v", got)
	}
}

func TestOpen_EnablesWAL(t *testing.T) {
	db := newTestDB(t)

	var mode string
	if err := db.db.QueryRow(`PRAGMA journal_mode`).Scan(&mode); err != nil {
		t.Fatalf("PRAGMA journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}

	var timeout int
	if err := db.db.QueryRow(`PRAGMA busy_timeout`).Scan(&timeout); err != nil {
		t.Fatalf("PRAGMA busy_timeout: %v", err)
	}
	if timeout != 5000 {
		t.Errorf("busy_timeout = %d, want 5000", timeout)
	}
}
