package latentgo

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/hupe1980/latentgo/generator"
	"github.com/hupe1980/latentgo/generator/mlp"
	"github.com/hupe1980/latentgo/hub"
)

// Explorer is the main entry point for latent-space exploration.
// It wraps a generator with interpolation and inversion pipelines.
//
// An Explorer is safe for concurrent use as long as the underlying
// generator is.
type Explorer struct {
	gen    generator.Generator
	opts   options
	closed atomic.Bool
}

// New creates an Explorer around an existing generator.
func New(gen generator.Generator, optFns ...Option) (*Explorer, error) {
	if gen == nil {
		return nil, ErrNilGenerator
	}

	return &Explorer{
		gen:  gen,
		opts: applyOptions(optFns),
	}, nil
}

// OpenModel fetches a named model artifact from a hub and creates an
// Explorer around it. The artifact's manifest selects the generator
// architecture.
func OpenModel(ctx context.Context, client *hub.Client, name string, optFns ...Option) (*Explorer, error) {
	artifact, err := client.Fetch(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("open model %q: %w", name, err)
	}

	var gen generator.Generator

	switch arch := artifact.Manifest.Arch; arch {
	case mlp.Arch:
		gen, err = mlp.FromArtifact(artifact)
		if err != nil {
			return nil, fmt.Errorf("open model %q: %w", name, err)
		}
	default:
		return nil, fmt.Errorf("open model %q: unsupported architecture %q", name, arch)
	}

	ex, err := New(gen, optFns...)
	if err != nil {
		return nil, err
	}

	ex.opts.logger.WithModel(name).WithDimension(gen.LatentDim()).DebugContext(ctx, "model opened",
		"arch", artifact.Manifest.Arch,
		"resolution", gen.Resolution(),
	)

	return ex, nil
}

// Generator returns the wrapped generator.
func (e *Explorer) Generator() generator.Generator { return e.gen }

// LatentDim returns the model's latent dimensionality.
func (e *Explorer) LatentDim() int { return e.gen.LatentDim() }

// Resolution returns the model's square output resolution in pixels.
func (e *Explorer) Resolution() int { return e.gen.Resolution() }

// Close releases the Explorer. If the generator holds resources
// (implements io.Closer), it is closed as well. Close is idempotent.
func (e *Explorer) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return nil
	}

	if c, ok := e.gen.(io.Closer); ok {
		return c.Close()
	}

	return nil
}

func (e *Explorer) checkOpen() error {
	if e.closed.Load() {
		return ErrClosed
	}
	return nil
}

// differentiable returns the generator's analytic VJP implementation,
// or a finite-difference adapter when the model is a black box.
func (e *Explorer) differentiable() generator.Differentiable {
	if d, ok := e.gen.(generator.Differentiable); ok {
		return d
	}
	return generator.WithFiniteDifference(e.gen, 0)
}
