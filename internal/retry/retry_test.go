package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fast(attempts int) *Options {
	return &Options{MaxAttempts: attempts, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func TestBackoff(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 1 * time.Second},
		{2, 2 * time.Second},
		{4, 8 * time.Second},
		{5, 10 * time.Second},
		{64, 10 * time.Second},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Backoff(tt.attempt, time.Second, 10*time.Second), "attempt %d", tt.attempt)
	}
}

func TestDoStopsOnSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fast(5), func() error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoWrapsLastError(t *testing.T) {
	refused := errors.New("connection refused")
	calls := 0
	err := Do(context.Background(), fast(3), func() error {
		calls++
		return refused
	})
	require.ErrorIs(t, err, refused)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "failed after 3 attempts")
}

func TestDoHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Do(ctx, &Options{MaxAttempts: 10, InitialDelay: time.Hour, MaxDelay: time.Hour}, func() error {
		calls++
		return errors.New("down")
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestDoAlwaysTriesOnce(t *testing.T) {
	calls := 0
	require.NoError(t, Do(context.Background(), &Options{}, func() error {
		calls++
		return nil
	}))
	assert.Equal(t, 1, calls)
}
