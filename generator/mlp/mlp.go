// Package mlp implements a compact fully-connected decoder generator.
//
// The decoder is a two-layer perceptron (tanh hidden layer, sigmoid
// output) mapping a latent vector to a square RGB image. It is small
// enough to ship as a hub artifact and carries analytic gradients, so
// latent inversion does not need finite differences.
package mlp

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"runtime"

	"github.com/hupe1980/latentgo/generator"
	"github.com/hupe1980/latentgo/hub"
	"github.com/hupe1980/latentgo/imagery"
	"github.com/hupe1980/latentgo/internal/math32"
	"github.com/hupe1980/latentgo/latent"
	"golang.org/x/sync/errgroup"
)

// Arch is the architecture identifier used in hub manifests.
const Arch = "mlp"

// ErrBadArtifact is returned when an artifact does not describe a
// loadable MLP decoder.
var ErrBadArtifact = errors.New("mlp: invalid artifact")

// Generator is a two-layer MLP decoder.
type Generator struct {
	name   string
	dim    int
	hidden int
	res    int

	w1 []float32 // hidden x dim, row-major
	b1 []float32 // hidden
	w2 []float32 // out x hidden, row-major
	b2 []float32 // out, where out = res*res*3
}

// compile-time interface checks
var (
	_ generator.Generator      = (*Generator)(nil)
	_ generator.Differentiable = (*Generator)(nil)
)

// New creates a decoder with seeded random weights. Layer weights are
// scaled by the inverse square root of their fan-in; biases start at
// zero.
func New(name string, dim, hidden, resolution int, seed int64) *Generator {
	rng := rand.New(rand.NewSource(seed)) // nolint gosec
	out := resolution * resolution * 3

	g := &Generator{
		name:   name,
		dim:    dim,
		hidden: hidden,
		res:    resolution,
		w1:     make([]float32, hidden*dim),
		b1:     make([]float32, hidden),
		w2:     make([]float32, out*hidden),
		b2:     make([]float32, out),
	}

	scale1 := float32(1 / math.Sqrt(float64(dim)))
	for i := range g.w1 {
		g.w1[i] = float32(rng.NormFloat64()) * scale1
	}

	scale2 := float32(1 / math.Sqrt(float64(hidden)))
	for i := range g.w2 {
		g.w2[i] = float32(rng.NormFloat64()) * scale2
	}

	return g
}

// FromArtifact loads a decoder from a fetched hub artifact.
func FromArtifact(a *hub.Artifact) (*Generator, error) {
	m := a.Manifest
	if m.Arch != Arch {
		return nil, fmt.Errorf("%w: arch %q", ErrBadArtifact, m.Arch)
	}
	if m.LatentDim <= 0 || m.Resolution <= 0 || m.Hidden <= 0 {
		return nil, fmt.Errorf("%w: non-positive geometry", ErrBadArtifact)
	}

	out := m.Resolution * m.Resolution * 3

	g := &Generator{
		name:   m.Name,
		dim:    m.LatentDim,
		hidden: m.Hidden,
		res:    m.Resolution,
	}

	for _, tensor := range []struct {
		name string
		dst  *[]float32
		want int
	}{
		{"w1", &g.w1, m.Hidden * m.LatentDim},
		{"b1", &g.b1, m.Hidden},
		{"w2", &g.w2, out * m.Hidden},
		{"b2", &g.b2, out},
	} {
		data, ok := a.Tensors[tensor.name]
		if !ok {
			return nil, fmt.Errorf("%w: missing tensor %q", ErrBadArtifact, tensor.name)
		}
		if len(data) != tensor.want {
			return nil, fmt.Errorf("%w: tensor %q has %d elements, want %d",
				ErrBadArtifact, tensor.name, len(data), tensor.want)
		}
		*tensor.dst = data
	}

	return g, nil
}

// Artifact packages the decoder for publishing to a hub.
func (g *Generator) Artifact() *hub.Artifact {
	return &hub.Artifact{
		Manifest: hub.Manifest{
			Name:       g.name,
			Arch:       Arch,
			LatentDim:  g.dim,
			Resolution: g.res,
			Hidden:     g.hidden,
		},
		Tensors: map[string][]float32{
			"w1": g.w1,
			"b1": g.b1,
			"w2": g.w2,
			"b2": g.b2,
		},
	}
}

// Name returns the model identifier.
func (g *Generator) Name() string { return g.name }

// LatentDim implements generator.Generator.
func (g *Generator) LatentDim() int { return g.dim }

// Resolution implements generator.Generator.
func (g *Generator) Resolution() int { return g.res }

// Generate implements generator.Generator. Vectors in the batch are
// rendered in parallel; output order matches input order.
func (g *Generator) Generate(ctx context.Context, vectors []latent.Vector) ([]imagery.Image, error) {
	for _, v := range vectors {
		if v.Dim() != g.dim {
			return nil, &latent.ErrDimensionMismatch{Expected: g.dim, Actual: v.Dim()}
		}
	}

	images := make([]imagery.Image, len(vectors))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))

	for i, v := range vectors {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			img, _ := g.forward(v)
			images[i] = img
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return images, nil
}

// GenerateVJP implements generator.Differentiable.
func (g *Generator) GenerateVJP(_ context.Context, vec latent.Vector, upstream generator.Upstream) (imagery.Image, latent.Vector, error) {
	if vec.Dim() != g.dim {
		return imagery.Image{}, nil, &latent.ErrDimensionMismatch{Expected: g.dim, Actual: vec.Dim()}
	}

	img, act := g.forward(vec)

	u := upstream(img)
	if len(u) != len(img.Pix) {
		return imagery.Image{}, nil, fmt.Errorf("mlp: upstream gradient has %d elements, want %d", len(u), len(img.Pix))
	}

	// Backprop through sigmoid output: dz2 = u * y * (1-y).
	dHidden := make([]float32, g.hidden)
	for k, y := range img.Pix {
		dz2 := u[k] * y * (1 - y)
		if dz2 == 0 {
			continue
		}
		math32.Axpy(dz2, g.w2[k*g.hidden:(k+1)*g.hidden], dHidden)
	}

	// Through tanh hidden layer: dz1 = dHidden * (1 - a^2).
	grad := make(latent.Vector, g.dim)
	for j, a := range act {
		dz1 := dHidden[j] * (1 - a*a)
		if dz1 == 0 {
			continue
		}
		math32.Axpy(dz1, g.w1[j*g.dim:(j+1)*g.dim], grad)
	}

	return img, grad, nil
}

// forward runs the decoder, returning the image and the hidden
// activations needed for backprop.
func (g *Generator) forward(vec latent.Vector) (imagery.Image, []float32) {
	act := make([]float32, g.hidden)
	for j := range act {
		z := g.b1[j] + math32.Dot(g.w1[j*g.dim:(j+1)*g.dim], vec)
		act[j] = float32(math.Tanh(float64(z)))
	}

	img := imagery.New(g.res, g.res, 3)
	for k := range img.Pix {
		z := g.b2[k] + math32.Dot(g.w2[k*g.hidden:(k+1)*g.hidden], act)
		img.Pix[k] = sigmoid(z)
	}

	return img, act
}

func sigmoid(z float32) float32 {
	return float32(1 / (1 + math.Exp(-float64(z))))
}
