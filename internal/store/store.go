// Package store defines the persistence port: a small key/value store holding
// the task, timer and domain pattern collections as JSON documents.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Fixed keys for the three collections.
const (
	KeyTasks    = "taskflow_tasks"
	KeyTimers   = "taskflow_timers"
	KeyPatterns = "taskflow_domain_patterns"
)

// ErrCorrupt is returned by Load when a stored document does not decode.
var ErrCorrupt = errors.New("stored value is corrupt")

// Store is a JSON document store keyed by collection name.
type Store interface {
	// Get returns the raw value for key; ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set writes value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Load decodes the document under key into a T. A missing key yields def.
// A document that does not decode yields def together with ErrCorrupt so
// the caller can log and carry on.
func Load[T any](ctx context.Context, s Store, key string, def T) (T, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		return def, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !ok || len(raw) == 0 {
		return def, nil
	}
	return Decode(key, raw, def)
}

// Decode unmarshals a raw document read from key. On failure it returns def
// and an error wrapping ErrCorrupt.
func Decode[T any](key string, raw []byte, def T) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return def, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return v, nil
}

// Encode marshals v for writing under key.
func Encode[T any](key string, v T) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return raw, nil
}

// Save encodes v and writes it under key.
func Save[T any](ctx context.Context, s Store, key string, v T) error {
	raw, err := Encode(key, v)
	if err != nil {
		return err
	}
	if err := s.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
