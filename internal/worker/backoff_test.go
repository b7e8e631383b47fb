package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeRetryBackoff_DoublesAndCaps(t *testing.T) {
	assert.Equal(t, time.Minute, computeRetryBackoff(1))
	assert.Equal(t, 2*time.Minute, computeRetryBackoff(2))
	assert.Equal(t, 4*time.Minute, computeRetryBackoff(3))
	assert.Equal(t, 8*time.Minute, computeRetryBackoff(4))
	assert.Equal(t, 16*time.Minute, computeRetryBackoff(5))
	// never beyond the cap, no matter how many retries
	assert.Equal(t, 30*time.Minute, computeRetryBackoff(6))
	assert.Equal(t, 30*time.Minute, computeRetryBackoff(20))
}

func TestWithRetry_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), 3, func(attempt int) error {
		calls++
		if attempt < 1 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestWithRetry_GivesUp(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), 2, func(int) error {
		calls++
		return errors.New("still broken")
	})
	require.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestWithRetry_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := withRetry(ctx, 3, func(int) error {
		return errors.New("transient")
	})
	assert.ErrorIs(t, err, context.Canceled)
}
