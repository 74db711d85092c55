package predict

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPredictor fails for any text containing "fail".
type stubPredictor struct{}

func (stubPredictor) Predict(_ context.Context, text string) (Properties, error) {
	if strings.Contains(text, "fail") {
		return Properties{}, errors.New("quota exceeded")
	}
	p := Defaults()
	p.Urgency = 4
	p.Keywords = []string{text}
	return p, nil
}

func (stubPredictor) Decompose(context.Context, string) (Decomposition, error) {
	return Decomposition{}, nil
}

func TestLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b c"}, Lines("  a \n\n b c\n  \n"))
	assert.Empty(t, Lines("\n \n"))
}

func TestBatchIsolatesFailures(t *testing.T) {
	results := Batch(context.Background(), stubPredictor{}, []string{"one", "will fail", "three"}, 2)
	require.Len(t, results, 3)

	assert.NoError(t, results[0].Err)
	assert.Equal(t, 4, results[0].Properties.Urgency)
	assert.Equal(t, []string{"one"}, results[0].Properties.Keywords)

	assert.Error(t, results[1].Err)
	assert.Equal(t, "will fail", results[1].Text)
	assert.Equal(t, Defaults(), results[1].Properties)

	assert.NoError(t, results[2].Err)
	assert.Equal(t, []string{"three"}, results[2].Properties.Keywords)
}

func TestBatchWithoutPredictor(t *testing.T) {
	results := Batch(context.Background(), nil, []string{"a", "b"}, 0)
	for _, r := range results {
		assert.ErrorIs(t, r.Err, ErrNoAPIKey)
		assert.Equal(t, Defaults(), r.Properties)
	}
}
