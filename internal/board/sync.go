package board

import (
	"bytes"
	"context"
	"fmt"

	"github.com/fitz/taskflow/internal/store"
)

// The daemon and short-lived CLI invocations may share one store. Before
// each mutation a board re-reads every collection whose stored bytes differ
// from what it last read or wrote, so boards build on each other's writes
// instead of replacing them. Two writers inside the same read-modify-write
// window can still lose one update; the store offers no compare-and-set.

// lockFresh takes the lock and pulls in changes made by other writers. The
// lock is held only when it returns nil.
func (b *Board) lockFresh(ctx context.Context) error {
	b.mu.Lock()
	if err := b.readLocked(ctx); err != nil {
		b.mu.Unlock()
		return err
	}
	return nil
}

func (b *Board) readLocked(ctx context.Context) error {
	if err := refresh(ctx, b, store.KeyTasks, &b.tasks); err != nil {
		return err
	}
	if err := refresh(ctx, b, store.KeyTimers, &b.timers); err != nil {
		return err
	}
	if err := refresh(ctx, b, store.KeyPatterns, &b.patterns); err != nil {
		return err
	}
	b.observeLocked()
	return nil
}

// refresh replaces *cur with the stored document under key when it changed.
// A missing or corrupt document leaves *cur alone.
func refresh[T any](ctx context.Context, b *Board, key string, cur *T) error {
	raw, ok, err := b.store.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !ok || len(raw) == 0 || bytes.Equal(raw, b.seen[key]) {
		return nil
	}
	b.seen[key] = raw
	v, err := store.Decode(key, raw, *cur)
	if err != nil {
		b.logger.Warn("corrupt stored data, ignoring", "key", key, "error", err)
		return nil
	}
	*cur = v
	return nil
}

// persist writes v under key and remembers the bytes as seen.
func persist[T any](ctx context.Context, b *Board, key string, v T) error {
	raw, err := store.Encode(key, v)
	if err != nil {
		return err
	}
	if err := b.store.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	b.seen[key] = raw
	return nil
}
