package neo4j

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitz/taskflow/internal/models"
	"github.com/fitz/taskflow/internal/store"
)

var _ store.Store = (*Store)(nil)

// Set TASKFLOW_TEST_NEO4J_URI (and NEO4J_PASSWORD) to run against a live
// database, e.g. one started with `taskflow store up --backend neo4j`.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("TASKFLOW_TEST_NEO4J_URI")
	if uri == "" {
		t.Skip("TASKFLOW_TEST_NEO4J_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := NewClient(ctx, Config{
		URI:      uri,
		Username: "neo4j",
		Password: os.Getenv("NEO4J_PASSWORD"),
		Database: "neo4j",
	})
	require.NoError(t, err)

	s := NewStore(client)
	t.Cleanup(func() {
		session := client.Session(context.Background())
		_, _ = session.Run(context.Background(), `MATCH (c:Collection) WHERE c.key STARTS WITH 'test_' DELETE c`, nil)
		session.Close(context.Background())
		s.Close()
	})
	return s
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	tasks := []models.Task{{ID: "a", Name: "graph backed", Status: models.TaskStatusActive}}
	require.NoError(t, store.Save(ctx, s, "test_tasks", tasks))

	got, err := store.Load[[]models.Task](ctx, s, "test_tasks", nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "graph backed", got[0].Name)
}

func TestStore_Missing(t *testing.T) {
	s := newTestStore(t)

	_, ok, err := s.Get(context.Background(), "test_absent")
	require.NoError(t, err)
	assert.False(t, ok)
}
