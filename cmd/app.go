package cmd

import (
	"context"
	"fmt"

	"github.com/fitz/taskflow/internal/board"
	"github.com/fitz/taskflow/internal/config"
	"github.com/fitz/taskflow/internal/neo4j"
	"github.com/fitz/taskflow/internal/notify"
	"github.com/fitz/taskflow/internal/patterns"
	"github.com/fitz/taskflow/internal/predict"
	"github.com/fitz/taskflow/internal/store"
	"github.com/fitz/taskflow/internal/store/postgres"
	"github.com/fitz/taskflow/internal/store/sqlite"
)

// openStore connects the configured backend.
func openStore(ctx context.Context, c *config.Config) (store.Store, error) {
	switch c.Store {
	case config.StoreSQLite:
		return sqlite.Open(c.DataDir)
	case config.StorePostgres:
		return postgres.OpenWithRetry(ctx, c.PostgresDSN, nil)
	case config.StoreNeo4j:
		client, err := neo4j.NewClientWithRetry(ctx, neo4j.Config{
			URI:      c.Neo4jURI,
			Username: c.Neo4jUsername,
			Password: c.Neo4jPassword,
			Database: c.Neo4jDatabase,
		}, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Neo4j: %w", err)
		}
		return neo4j.NewStore(client), nil
	case config.StoreMemory:
		return store.NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown store %q", c.Store)
}

// newPredictor returns nil when no API key is configured; the board then
// creates tasks with default properties.
func newPredictor(ctx context.Context, c *config.Config) (predict.Predictor, error) {
	if c.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY not set, predictions disabled")
		return nil, nil
	}
	g, err := predict.NewGemini(ctx, predict.GeminiConfig{
		APIKey:     c.GeminiAPIKey,
		Model:      c.GeminiModel,
		AutoSwitch: c.GeminiAutoSwitch,
		OnModelSwitch: func(model string) {
			logger.Info("gemini model switched", "model", model)
		},
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// openBoard wires the configured ports into a board and loads it.
func openBoard(ctx context.Context) (*board.Board, error) {
	s, err := openStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store, err)
	}
	p, err := newPredictor(ctx, cfg)
	if err != nil {
		s.Close()
		return nil, err
	}

	b, err := board.Open(ctx, board.Options{
		Store:         s,
		Predictor:     p,
		Notifier:      notify.Multi{notify.Log{Logger: logger}, notify.Desktop{}},
		Logger:        logger,
		Notifications: cfg.TimerNotifications,
	})
	if err != nil {
		s.Close()
		return nil, err
	}

	if cfg.PatternsFile != "" {
		ps, err := patterns.LoadFile(cfg.PatternsFile)
		if err != nil {
			b.Close()
			return nil, err
		}
		if _, err := b.SetPatterns(ctx, ps); err != nil {
			b.Close()
			return nil, fmt.Errorf("failed to apply patterns from %s: %w", cfg.PatternsFile, err)
		}
		logger.Info("domain patterns loaded", "file", cfg.PatternsFile, "count", len(ps))
	}
	return b, nil
}

// withBoard opens the board, runs fn and closes the board, exiting on error.
func withBoard(ctx context.Context, fn func(*board.Board) error) {
	b, err := openBoard(ctx)
	if err != nil {
		exitWithError(err)
	}
	err = fn(b)
	if cerr := b.Close(); cerr != nil {
		logger.Warn("failed to close store", "error", cerr)
	}
	if err != nil {
		exitWithError(err)
	}
}
