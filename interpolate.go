package latentgo

import (
	"context"
	"time"

	"github.com/hupe1980/latentgo/imagery"
	"github.com/hupe1980/latentgo/latent"
)

// InterpolateOptions configures an interpolation run.
type InterpolateOptions struct {
	// Steps is the number of path points rendered, endpoints included.
	// Must be at least 2.
	Steps int

	// SeedA and SeedB seed the endpoint vectors for random interpolation.
	SeedA int64
	SeedB int64
}

// DefaultInterpolateOptions returns the standard interpolation settings:
// 25 steps between endpoints drawn from seeds 3 and 1.
func DefaultInterpolateOptions() InterpolateOptions {
	return InterpolateOptions{
		Steps: 25,
		SeedA: 3,
		SeedB: 1,
	}
}

// Interpolation holds the rendered path between two latent vectors.
// Vectors[i] generated Images[i]; both slices have length Steps.
type Interpolation struct {
	Vectors []latent.Vector
	Images  []imagery.Image
}

// InterpolateBetween renders the constant-norm path from v1 to v2.
//
// The path lies on the hypersphere of radius equal to the norm of v1,
// so every intermediate vector looks like a typical sample to the
// generator. Both endpoints must be non-zero and match the model's
// latent dimensionality.
func (e *Explorer) InterpolateBetween(ctx context.Context, v1, v2 latent.Vector, opts InterpolateOptions) (*Interpolation, error) {
	if err := e.checkOpen(); err != nil {
		return nil, err
	}

	start := time.Now()

	ip, err := e.interpolate(ctx, v1, v2, opts)

	e.opts.metricsCollector.RecordInterpolate(opts.Steps, time.Since(start), err)
	e.opts.logger.LogInterpolate(ctx, opts.Steps, err)

	return ip, err
}

// InterpolateRandom renders the path between two seeded random latent
// vectors. The endpoints are drawn from standard normal distributions
// using opts.SeedA and opts.SeedB.
func (e *Explorer) InterpolateRandom(ctx context.Context, opts InterpolateOptions) (*Interpolation, error) {
	if err := e.checkOpen(); err != nil {
		return nil, err
	}

	dim := e.gen.LatentDim()
	v1 := latent.NewRNG(opts.SeedA).Normal(dim)
	v2 := latent.NewRNG(opts.SeedB).Normal(dim)

	return e.InterpolateBetween(ctx, v1, v2, opts)
}

func (e *Explorer) interpolate(ctx context.Context, v1, v2 latent.Vector, opts InterpolateOptions) (*Interpolation, error) {
	if dim := e.gen.LatentDim(); v1.Dim() != dim {
		return nil, &ErrDimensionMismatch{Expected: dim, Actual: v1.Dim()}
	}

	vectors, err := latent.InterpolateHypersphere(v1, v2, opts.Steps)
	if err != nil {
		return nil, translateError(err)
	}

	genStart := time.Now()

	images, err := e.gen.Generate(ctx, vectors)

	e.opts.metricsCollector.RecordGenerate(len(vectors), time.Since(genStart), err)
	e.opts.logger.LogGenerate(ctx, len(vectors), err)

	if err != nil {
		return nil, translateError(err)
	}

	return &Interpolation{
		Vectors: vectors,
		Images:  images,
	}, nil
}

// SaveGIF writes the interpolation frames as an animated GIF.
func (ip *Interpolation) SaveGIF(filename string) error {
	return SaveGIF(filename, ip.Images, 0)
}
