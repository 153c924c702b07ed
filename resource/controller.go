// Package resource bounds the concurrency and IO throughput of model
// artifact fetches.
//
// A hub client shares one Controller across all fetches so that
// prefetching many models cannot saturate the network or open an
// unbounded number of remote connections.
package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds fetch resource limits.
type Config struct {
	// MaxConcurrentFetches is the maximum number of artifact fetches
	// in flight. If 0, defaults to 1.
	MaxConcurrentFetches int64

	// IOLimitBytesPerSec is the maximum download throughput.
	// If 0, unlimited.
	IOLimitBytesPerSec int64
}

// Controller manages fetch concurrency and throughput.
type Controller struct {
	cfg Config

	fetchSem *semaphore.Weighted
	inFlight atomic.Int64

	ioLimiter *rate.Limiter
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxConcurrentFetches <= 0 {
		cfg.MaxConcurrentFetches = 1
	}

	c := &Controller{
		cfg:      cfg,
		fetchSem: semaphore.NewWeighted(cfg.MaxConcurrentFetches),
	}

	if cfg.IOLimitBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}

	return c
}

// AcquireFetch reserves a fetch slot, blocking until one is free or ctx
// is canceled. A nil Controller imposes no limits.
func (c *Controller) AcquireFetch(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if err := c.fetchSem.Acquire(ctx, 1); err != nil {
		return err
	}

	c.inFlight.Add(1)
	return nil
}

// TryAcquireFetch reserves a fetch slot without blocking.
func (c *Controller) TryAcquireFetch() bool {
	if c == nil {
		return true
	}
	if !c.fetchSem.TryAcquire(1) {
		return false
	}

	c.inFlight.Add(1)
	return true
}

// ReleaseFetch releases a fetch slot.
func (c *Controller) ReleaseFetch() {
	if c == nil {
		return
	}

	c.fetchSem.Release(1)
	c.inFlight.Add(-1)
}

// InFlight returns the number of fetches currently in flight.
func (c *Controller) InFlight() int64 {
	if c == nil {
		return 0
	}
	return c.inFlight.Load()
}

// AcquireIO waits until the IO limit allows the specified number of bytes.
func (c *Controller) AcquireIO(ctx context.Context, bytes int) error {
	if c == nil || c.ioLimiter == nil {
		return nil
	}
	return c.ioLimiter.WaitN(ctx, bytes)
}
