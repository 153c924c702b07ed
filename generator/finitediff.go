package generator

import (
	"context"

	"github.com/hupe1980/latentgo/imagery"
	"github.com/hupe1980/latentgo/internal/math32"
	"github.com/hupe1980/latentgo/latent"
)

// fdPairChunk bounds how many central-difference pairs are generated
// per batch, to cap peak image memory for high-dimensional models.
const fdPairChunk = 16

// WithFiniteDifference adapts a black-box Generator into a
// Differentiable using central differences with step eps.
//
// Each VJP costs 2*dim extra forward passes, so this is a fallback for
// models without analytic gradients. If eps <= 0, 1e-2 is used.
func WithFiniteDifference(g Generator, eps float32) Differentiable {
	if eps <= 0 {
		eps = 1e-2
	}

	return &finiteDifference{Generator: g, eps: eps}
}

type finiteDifference struct {
	Generator

	eps float32
}

// GenerateVJP implements Differentiable.
func (fd *finiteDifference) GenerateVJP(ctx context.Context, vec latent.Vector, upstream Upstream) (imagery.Image, latent.Vector, error) {
	imgs, err := fd.Generate(ctx, []latent.Vector{vec})
	if err != nil {
		return imagery.Image{}, nil, err
	}
	img := imgs[0]

	u := upstream(img)
	grad := make(latent.Vector, vec.Dim())

	for start := 0; start < vec.Dim(); start += fdPairChunk {
		end := start + fdPairChunk
		if end > vec.Dim() {
			end = vec.Dim()
		}

		probes := make([]latent.Vector, 0, 2*(end-start))
		for i := start; i < end; i++ {
			plus := vec.Clone()
			plus[i] += fd.eps
			minus := vec.Clone()
			minus[i] -= fd.eps
			probes = append(probes, plus, minus)
		}

		out, err := fd.Generate(ctx, probes)
		if err != nil {
			return imagery.Image{}, nil, err
		}

		for i := start; i < end; i++ {
			plus := out[2*(i-start)]
			minus := out[2*(i-start)+1]

			d := math32.Dot(u, plus.Pix) - math32.Dot(u, minus.Pix)
			grad[i] = d / (2 * fd.eps)
		}
	}

	return img, grad, nil
}
