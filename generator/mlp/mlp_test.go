package mlp

import (
	"context"
	"testing"

	"github.com/hupe1980/latentgo/generator"
	"github.com/hupe1980/latentgo/imagery"
	"github.com/hupe1980/latentgo/latent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGenerator() *Generator {
	return New("test-mlp", 6, 8, 4, 42)
}

func TestGenerateShapeAndRange(t *testing.T) {
	g := testGenerator()
	vecs := latent.NewRNG(1).NormalBatch(3, 6)

	images, err := g.Generate(context.Background(), vecs)
	require.NoError(t, err)
	require.Len(t, images, 3)

	for _, img := range images {
		assert.Equal(t, 4, img.Width)
		assert.Equal(t, 4, img.Height)
		assert.Equal(t, 3, img.Channels)

		for _, v := range img.Pix {
			assert.Greater(t, v, float32(0))
			assert.Less(t, v, float32(1))
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	vec := latent.NewRNG(7).Normal(6)

	a, err := testGenerator().Generate(context.Background(), []latent.Vector{vec})
	require.NoError(t, err)
	b, err := testGenerator().Generate(context.Background(), []latent.Vector{vec})
	require.NoError(t, err)

	assert.Equal(t, a[0].Pix, b[0].Pix)
}

func TestGenerateDimensionMismatch(t *testing.T) {
	g := testGenerator()

	_, err := g.Generate(context.Background(), []latent.Vector{make(latent.Vector, 5)})

	var edm *latent.ErrDimensionMismatch
	require.ErrorAs(t, err, &edm)
	assert.Equal(t, 6, edm.Expected)
	assert.Equal(t, 5, edm.Actual)
}

func TestGenerateCanceled(t *testing.T) {
	g := testGenerator()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Generate(ctx, latent.NewRNG(1).NormalBatch(4, 6))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerateVJPMatchesFiniteDifference(t *testing.T) {
	g := testGenerator()
	vec := latent.NewRNG(3).Normal(6)

	// Upstream of all ones is the gradient of loss = sum(img).
	up := func(img imagery.Image) []float32 {
		u := make([]float32, len(img.Pix))
		for i := range u {
			u[i] = 1
		}
		return u
	}

	img, grad, err := g.GenerateVJP(context.Background(), vec, up)
	require.NoError(t, err)
	require.Equal(t, 6, grad.Dim())

	fd := generator.WithFiniteDifference(g, 1e-3)
	fdImg, fdGrad, err := fd.GenerateVJP(context.Background(), vec, up)
	require.NoError(t, err)

	assert.Equal(t, img.Pix, fdImg.Pix)
	for i := range grad {
		assert.InDelta(t, float64(fdGrad[i]), float64(grad[i]), 1e-2)
	}
}

func TestArtifactRoundTrip(t *testing.T) {
	g := testGenerator()

	loaded, err := FromArtifact(g.Artifact())
	require.NoError(t, err)

	assert.Equal(t, "test-mlp", loaded.Name())
	assert.Equal(t, 6, loaded.LatentDim())
	assert.Equal(t, 4, loaded.Resolution())

	vec := latent.NewRNG(9).Normal(6)
	a, err := g.Generate(context.Background(), []latent.Vector{vec})
	require.NoError(t, err)
	b, err := loaded.Generate(context.Background(), []latent.Vector{vec})
	require.NoError(t, err)

	assert.Equal(t, a[0].Pix, b[0].Pix)
}

func TestFromArtifactRejectsWrongArch(t *testing.T) {
	a := testGenerator().Artifact()
	a.Manifest.Arch = "progan"

	_, err := FromArtifact(a)
	assert.ErrorIs(t, err, ErrBadArtifact)
}

func TestFromArtifactRejectsMissingTensor(t *testing.T) {
	a := testGenerator().Artifact()
	delete(a.Tensors, "w2")

	_, err := FromArtifact(a)
	assert.ErrorIs(t, err, ErrBadArtifact)
}

func TestFromArtifactRejectsWrongSize(t *testing.T) {
	a := testGenerator().Artifact()
	a.Tensors["b1"] = a.Tensors["b1"][:3]

	_, err := FromArtifact(a)
	assert.ErrorIs(t, err, ErrBadArtifact)
}
