package neo4j

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Store keeps each collection as the value property of a :Collection node.
type Store struct {
	client *Client
}

// NewStore creates a Store over an open client.
func NewStore(client *Client) *Store {
	return &Store{client: client}
}

// Get returns the value of the collection node with the given key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	session := s.client.Session(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx,
		`MATCH (c:Collection {key: $key}) RETURN c.value AS value`,
		map[string]any{"key": key},
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read collection %s: %w", key, err)
	}

	if !result.Next(ctx) {
		return nil, false, result.Err()
	}
	value, _ := result.Record().Get("value")
	str, ok := value.(string)
	if !ok {
		return nil, false, nil
	}
	return []byte(str), true, result.Err()
}

// Set writes the collection node, creating it on first use.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	session := s.client.Session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx,
			`MERGE (c:Collection {key: $key})
			 SET c.value = $value, c.updated_at = $updated_at`,
			map[string]any{
				"key":        key,
				"value":      string(value),
				"updated_at": time.Now().UTC().Format(time.RFC3339),
			},
		)
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("failed to write collection %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying driver.
func (s *Store) Close() error {
	return s.client.Close(context.Background())
}
