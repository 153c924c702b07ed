package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControllerFetchSlots(t *testing.T) {
	c := NewController(Config{MaxConcurrentFetches: 2})
	ctx := context.Background()

	require.NoError(t, c.AcquireFetch(ctx))
	require.NoError(t, c.AcquireFetch(ctx))
	assert.Equal(t, int64(2), c.InFlight())

	assert.False(t, c.TryAcquireFetch())

	c.ReleaseFetch()
	assert.Equal(t, int64(1), c.InFlight())
	assert.True(t, c.TryAcquireFetch())

	c.ReleaseFetch()
	c.ReleaseFetch()
	assert.Equal(t, int64(0), c.InFlight())
}

func TestControllerBlockedAcquireHonorsContext(t *testing.T) {
	c := NewController(Config{MaxConcurrentFetches: 1})

	require.NoError(t, c.AcquireFetch(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := c.AcquireFetch(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNilControllerIsUnlimited(t *testing.T) {
	var c *Controller

	require.NoError(t, c.AcquireFetch(context.Background()))
	assert.True(t, c.TryAcquireFetch())
	c.ReleaseFetch()
	assert.Equal(t, int64(0), c.InFlight())
	require.NoError(t, c.AcquireIO(context.Background(), 1<<20))
}

func TestControllerIOLimit(t *testing.T) {
	c := NewController(Config{MaxConcurrentFetches: 1, IOLimitBytesPerSec: 1 << 20})

	// The first burst-sized request proceeds without error.
	require.NoError(t, c.AcquireIO(context.Background(), 1<<20))

	// A request larger than the burst can never be satisfied.
	err := c.AcquireIO(context.Background(), 2<<20)
	assert.Error(t, err)
}
