// Package neo4j stores the task board in Neo4j, one node per collection.
package neo4j

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/fitz/taskflow/internal/retry"
)

// Client wraps the Neo4j driver with application-specific configuration
type Client struct {
	driver neo4j.DriverWithContext
	db     string
}

// Config holds Neo4j connection configuration
type Config struct {
	URI      string
	Username string
	Password string
	Database string
}

// NewClient creates a new Neo4j client
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	driver, err := neo4j.NewDriverWithContext(
		cfg.URI,
		neo4j.BasicAuth(cfg.Username, cfg.Password, ""),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("failed to connect to Neo4j: %w", err)
	}

	client := &Client{
		driver: driver,
		db:     cfg.Database,
	}

	if err := client.initSchema(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return client, nil
}

// NewClientWithRetry keeps calling NewClient with exponential backoff until
// it succeeds, the attempts run out or ctx is cancelled.
func NewClientWithRetry(ctx context.Context, cfg Config, opts *retry.Options) (*Client, error) {
	var client *Client
	err := retry.Do(ctx, opts, func() error {
		var err error
		client, err = NewClient(ctx, cfg)
		return err
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Close closes the Neo4j driver
func (c *Client) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

// Session returns a new Neo4j session
func (c *Client) Session(ctx context.Context) neo4j.SessionWithContext {
	return c.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: c.db,
	})
}

func (c *Client) initSchema(ctx context.Context) error {
	session := c.Session(ctx)
	defer session.Close(ctx)

	queries := []string{
		`CREATE CONSTRAINT collection_key IF NOT EXISTS FOR (c:Collection) REQUIRE c.key IS UNIQUE`,
	}

	for _, query := range queries {
		_, err := session.Run(ctx, query, nil)
		if err != nil {
			return fmt.Errorf("failed to run schema query %q: %w", query, err)
		}
	}

	return nil
}
