// Package hub resolves pretrained model names to weight artifacts.
//
// A Client maps a model identifier such as "progan-128" to a blob in
// the configured store, fetches it with bounded concurrency and
// throughput, and decodes the artifact container. Stores can be local
// directories, in-memory fixtures, or S3-compatible object storage.
package hub

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/hupe1980/latentgo/blobstore"
	"github.com/hupe1980/latentgo/codec"
	"github.com/hupe1980/latentgo/resource"
	"golang.org/x/sync/errgroup"
)

const artifactSuffix = ".weights"

// fetchChunkSize is the granularity at which downloads are throttled.
const fetchChunkSize = 256 << 10

// ErrNotPublishable is returned when publishing to a read-only store.
var ErrNotPublishable = fmt.Errorf("hub: store does not accept uploads")

// Options configures a hub Client.
type Options struct {
	// Controller bounds fetch concurrency and throughput.
	// If nil, fetches are unbounded.
	Controller *resource.Controller

	// Logger receives structured fetch/publish events.
	// If nil, logging is disabled.
	Logger *slog.Logger

	// Codec compresses published artifacts. If nil, codec.Default is used.
	Codec codec.Codec
}

// Client fetches model weight artifacts from a blob store.
type Client struct {
	store blobstore.BlobStore
	opts  Options
}

// NewClient creates a hub client backed by the given store.
func NewClient(store blobstore.BlobStore, optFns ...func(*Options)) *Client {
	opts := Options{
		Codec: codec.Default,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&opts)
		}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Codec == nil {
		opts.Codec = codec.Default
	}

	return &Client{store: store, opts: opts}
}

// Key returns the blob name a model identifier resolves to.
func Key(name string) string {
	return name + artifactSuffix
}

// Fetch downloads and decodes the artifact for the named model.
// There is no retry logic; a failed fetch is returned to the caller.
func (c *Client) Fetch(ctx context.Context, name string) (*Artifact, error) {
	if err := c.opts.Controller.AcquireFetch(ctx); err != nil {
		return nil, err
	}
	defer c.opts.Controller.ReleaseFetch()

	start := time.Now()

	blob, err := c.store.Open(ctx, Key(name))
	if err != nil {
		c.opts.Logger.ErrorContext(ctx, "artifact fetch failed", "model", name, "error", err)
		return nil, fmt.Errorf("hub: fetch %q: %w", name, err)
	}
	defer blob.Close()

	data, err := c.read(ctx, blob)
	if err != nil {
		c.opts.Logger.ErrorContext(ctx, "artifact read failed", "model", name, "error", err)
		return nil, fmt.Errorf("hub: fetch %q: %w", name, err)
	}

	artifact, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("hub: fetch %q: %w", name, err)
	}

	c.opts.Logger.DebugContext(ctx, "artifact fetched",
		"model", name,
		"bytes", len(data),
		"latent_dim", artifact.Manifest.LatentDim,
		"resolution", artifact.Manifest.Resolution,
		"duration", time.Since(start),
	)

	return artifact, nil
}

// Prefetch fetches several models concurrently and returns them by name.
// The first failure cancels the remaining fetches.
func (c *Client) Prefetch(ctx context.Context, names ...string) (map[string]*Artifact, error) {
	var mu sync.Mutex
	out := make(map[string]*Artifact, len(names))

	g, ctx := errgroup.WithContext(ctx)
	for _, name := range names {
		g.Go(func() error {
			a, err := c.Fetch(ctx, name)
			if err != nil {
				return err
			}

			mu.Lock()
			out[name] = a
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Publish encodes the artifact and uploads it under its manifest name.
// The backing store must implement blobstore.Publisher.
func (c *Client) Publish(ctx context.Context, a *Artifact) error {
	pub, ok := c.store.(blobstore.Publisher)
	if !ok {
		return ErrNotPublishable
	}

	data, err := Encode(a, c.opts.Codec)
	if err != nil {
		return fmt.Errorf("hub: publish %q: %w", a.Manifest.Name, err)
	}

	if err := pub.Put(ctx, Key(a.Manifest.Name), bytes.NewReader(data)); err != nil {
		return fmt.Errorf("hub: publish %q: %w", a.Manifest.Name, err)
	}

	c.opts.Logger.InfoContext(ctx, "artifact published",
		"model", a.Manifest.Name,
		"bytes", len(data),
		"codec", c.opts.Codec.Name(),
	)

	return nil
}

// read drains the blob in throttled chunks.
func (c *Client) read(ctx context.Context, blob blobstore.Blob) ([]byte, error) {
	size := blob.Size()
	data := make([]byte, size)

	for off := int64(0); off < size; off += fetchChunkSize {
		end := off + fetchChunkSize
		if end > size {
			end = size
		}

		if err := c.opts.Controller.AcquireIO(ctx, int(end-off)); err != nil {
			return nil, err
		}
		if _, err := blob.ReadAt(data[off:end], off); err != nil && err != io.EOF {
			return nil, err
		}
	}

	return data, nil
}
