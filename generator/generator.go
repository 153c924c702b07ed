// Package generator defines the narrow interfaces between the latent
// exploration pipelines and the generative models that back them.
//
// A Generator is a deterministic function from latent vectors to RGB
// images. Models that can backpropagate expose Differentiable; opaque
// models can be adapted with WithFiniteDifference.
package generator

import (
	"context"

	"github.com/hupe1980/latentgo/imagery"
	"github.com/hupe1980/latentgo/latent"
)

// Generator maps a batch of latent vectors to RGB images, one per
// vector. Results are deterministic for fixed weights and input.
type Generator interface {
	// Generate renders one image per input vector.
	Generate(ctx context.Context, vectors []latent.Vector) ([]imagery.Image, error)

	// LatentDim returns the expected input dimensionality.
	LatentDim() int

	// Resolution returns the square output resolution in pixels.
	Resolution() int
}

// Upstream computes the gradient of a scalar loss with respect to the
// generated image's pixels. It is invoked exactly once per VJP call,
// with the freshly generated image.
type Upstream func(img imagery.Image) []float32

// Differentiable is a Generator that can push an upstream pixel
// gradient back through itself to the latent vector.
type Differentiable interface {
	Generator

	// GenerateVJP renders the image for vec, obtains the upstream
	// pixel gradient from the callback, and returns the image together
	// with the vector-Jacobian product d(loss)/d(vec).
	GenerateVJP(ctx context.Context, vec latent.Vector, upstream Upstream) (imagery.Image, latent.Vector, error)
}
