package neo4j

import (
	"context"
	"testing"
	"time"

	"github.com/fitz/taskflow/internal/retry"
)

func TestNewClientWithRetry_GivesUp(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := NewClientWithRetry(ctx, Config{
		URI:      "bolt://127.0.0.1:1",
		Username: "neo4j",
		Password: "password",
		Database: "neo4j",
	}, &retry.Options{MaxAttempts: 2, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond})
	if err == nil {
		t.Fatal("expected connection error")
	}
}

func TestNewClient_BadURI(t *testing.T) {
	_, err := NewClient(context.Background(), Config{URI: "not-a-scheme://x"})
	if err == nil {
		t.Fatal("expected driver error for unsupported scheme")
	}
}
