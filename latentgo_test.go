package latentgo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/latentgo/blobstore"
	"github.com/hupe1980/latentgo/generator/mlp"
	"github.com/hupe1980/latentgo/hub"
	"github.com/hupe1980/latentgo/imagery"
	"github.com/hupe1980/latentgo/latent"
)

func testExplorer(t *testing.T, optFns ...Option) *Explorer {
	t.Helper()

	ex, err := New(mlp.New("test-mlp", 8, 12, 4, 42), optFns...)
	require.NoError(t, err)
	t.Cleanup(func() { ex.Close() })

	return ex
}

func TestNewNilGenerator(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrNilGenerator)
}

func TestExplorerAccessors(t *testing.T) {
	ex := testExplorer(t)

	assert.Equal(t, 8, ex.LatentDim())
	assert.Equal(t, 4, ex.Resolution())
	assert.NotNil(t, ex.Generator())
}

func TestCloseIdempotent(t *testing.T) {
	ex := testExplorer(t)

	require.NoError(t, ex.Close())
	require.NoError(t, ex.Close())

	_, err := ex.InterpolateRandom(context.Background(), DefaultInterpolateOptions())
	assert.ErrorIs(t, err, ErrClosed)

	_, err = ex.FindClosestLatent(context.Background(), imagery.New(4, 4, 3), DefaultInvertOptions())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestInterpolateRandom(t *testing.T) {
	ex := testExplorer(t)

	opts := DefaultInterpolateOptions()
	ip, err := ex.InterpolateRandom(context.Background(), opts)
	require.NoError(t, err)

	require.Len(t, ip.Vectors, opts.Steps)
	require.Len(t, ip.Images, opts.Steps)

	// All path points stay on the hypersphere of the first endpoint.
	radius := ip.Vectors[0].Norm()
	for _, v := range ip.Vectors {
		assert.InDelta(t, float64(radius), float64(v.Norm()), 1e-3)
	}

	for _, img := range ip.Images {
		assert.Equal(t, 4, img.Width)
		assert.Equal(t, 3, img.Channels)
	}
}

func TestInterpolateRandomDeterministic(t *testing.T) {
	ex := testExplorer(t)
	opts := InterpolateOptions{Steps: 5, SeedA: 3, SeedB: 1}

	a, err := ex.InterpolateRandom(context.Background(), opts)
	require.NoError(t, err)
	b, err := ex.InterpolateRandom(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, a.Vectors, b.Vectors)
	assert.Equal(t, a.Images[2].Pix, b.Images[2].Pix)
}

func TestInterpolateBetweenEndpoints(t *testing.T) {
	ex := testExplorer(t)

	v1 := latent.NewRNG(10).Normal(8)
	v2 := latent.NewRNG(11).Normal(8)

	ip, err := ex.InterpolateBetween(context.Background(), v1, v2, InterpolateOptions{Steps: 2})
	require.NoError(t, err)

	assert.Equal(t, v1, ip.Vectors[0])
}

func TestInterpolateSingleStepRejected(t *testing.T) {
	ex := testExplorer(t)

	v1 := latent.NewRNG(10).Normal(8)
	v2 := latent.NewRNG(11).Normal(8)

	_, err := ex.InterpolateBetween(context.Background(), v1, v2, InterpolateOptions{Steps: 1})
	assert.ErrorIs(t, err, ErrInvalidSteps)
}

func TestInterpolateDimensionMismatch(t *testing.T) {
	ex := testExplorer(t)

	_, err := ex.InterpolateBetween(context.Background(),
		latent.NewRNG(1).Normal(5), latent.NewRNG(2).Normal(5), InterpolateOptions{Steps: 3})

	var edm *ErrDimensionMismatch
	require.ErrorAs(t, err, &edm)
	assert.Equal(t, 8, edm.Expected)
	assert.Equal(t, 5, edm.Actual)
}

func TestFindClosestLatent(t *testing.T) {
	ex := testExplorer(t)

	target, err := ModelSource{Explorer: ex, Seed: 4}.TargetImage(context.Background())
	require.NoError(t, err)

	opts := DefaultInvertOptions()
	inv, err := ex.FindClosestLatent(context.Background(), target, opts)
	require.NoError(t, err)

	require.Len(t, inv.Steps, opts.Steps)
	require.Equal(t, 8, inv.Vector.Dim())

	// Optimization should make real progress on a target the model can
	// reproduce exactly.
	assert.Less(t, inv.FinalLoss(), inv.Steps[0].Loss)
}

func TestFindClosestLatentCallbacks(t *testing.T) {
	ex := testExplorer(t)

	target, err := ModelSource{Explorer: ex}.TargetImage(context.Background())
	require.NoError(t, err)

	var steps []int
	opts := InvertOptions{
		Steps:        3,
		LearningRate: 0.3,
		Seed:         5,
		OnStep: func(step int, img imagery.Image, loss float64) {
			steps = append(steps, step)
			assert.Equal(t, 4, img.Width)
			assert.Greater(t, loss, 0.0)
		},
	}

	inv, err := ex.FindClosestLatent(context.Background(), target, opts)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2}, steps)
	assert.Len(t, inv.Losses(), 3)
	assert.Len(t, inv.Images(), 3)
}

func TestFindClosestLatentRGBATarget(t *testing.T) {
	ex := testExplorer(t)

	target := imagery.New(4, 4, 4)
	for p := 0; p < 16; p++ {
		target.Pix[p*4+0] = 0.5
		target.Pix[p*4+1] = 0.5
		target.Pix[p*4+2] = 0.5
		target.Pix[p*4+3] = 1
	}

	inv, err := ex.FindClosestLatent(context.Background(), target, InvertOptions{Steps: 2, Seed: 5})
	require.NoError(t, err)
	assert.Len(t, inv.Steps, 2)
}

func TestFindClosestLatentShapeMismatch(t *testing.T) {
	ex := testExplorer(t)

	_, err := ex.FindClosestLatent(context.Background(), imagery.New(8, 8, 3), DefaultInvertOptions())

	var esm *ErrShapeMismatch
	require.ErrorAs(t, err, &esm)
	assert.Equal(t, 4, esm.ExpectedWidth)
	assert.Equal(t, 8, esm.ActualWidth)
}

func TestFindClosestLatentBadChannels(t *testing.T) {
	ex := testExplorer(t)

	_, err := ex.FindClosestLatent(context.Background(), imagery.New(4, 4, 1), DefaultInvertOptions())

	var ecc *ErrChannelCount
	require.ErrorAs(t, err, &ecc)
	assert.Equal(t, 1, ecc.Channels)
}

func TestFindClosestLatentInvalidSteps(t *testing.T) {
	ex := testExplorer(t)

	_, err := ex.FindClosestLatent(context.Background(), imagery.New(4, 4, 3), InvertOptions{Steps: 0})
	assert.ErrorIs(t, err, ErrInvalidSteps)
}

func TestFindClosestLatentLearningRate(t *testing.T) {
	ex := testExplorer(t)

	target, err := ModelSource{Explorer: ex}.TargetImage(context.Background())
	require.NoError(t, err)

	run := func(lr float32) *Inversion {
		inv, err := ex.FindClosestLatent(context.Background(), target, InvertOptions{
			Steps:        3,
			LearningRate: lr,
			Seed:         5,
		})
		require.NoError(t, err)
		return inv
	}

	slow := run(0.01)
	fast := run(0.3)

	// Same seed and target, so only the configured rate separates the runs.
	assert.NotEqual(t, slow.Vector, fast.Vector)

	// Adam step magnitudes scale with the learning rate, so three slow
	// steps stay close to the seeded start.
	start := latent.NewRNG(5).Normal(8)
	for i := range slow.Vector {
		assert.InDelta(t, float64(start[i]), float64(slow.Vector[i]), 0.05)
	}
}

func TestFindClosestLatentInitialVector(t *testing.T) {
	ex := testExplorer(t)

	target, err := ModelSource{Explorer: ex}.TargetImage(context.Background())
	require.NoError(t, err)

	initial := latent.NewRNG(99).Normal(8)
	before := initial.Clone()

	inv, err := ex.FindClosestLatent(context.Background(), target, InvertOptions{Steps: 2, Initial: initial})
	require.NoError(t, err)

	// The caller's vector must not be mutated.
	assert.Equal(t, before, initial)
	assert.NotEqual(t, initial, inv.Vector)
}

func TestOpenModel(t *testing.T) {
	store := blobstore.NewMemoryStore()
	client := hub.NewClient(store)

	gen := mlp.New("progan-mini", 8, 12, 4, 7)
	require.NoError(t, client.Publish(context.Background(), gen.Artifact()))

	ex, err := OpenModel(context.Background(), client, "progan-mini")
	require.NoError(t, err)
	defer ex.Close()

	assert.Equal(t, 8, ex.LatentDim())
	assert.Equal(t, 4, ex.Resolution())

	vec := latent.NewRNG(1).Normal(8)
	want, err := gen.Generate(context.Background(), []latent.Vector{vec})
	require.NoError(t, err)
	got, err := ex.Generator().Generate(context.Background(), []latent.Vector{vec})
	require.NoError(t, err)

	assert.Equal(t, want[0].Pix, got[0].Pix)
}

func TestOpenModelMissing(t *testing.T) {
	client := hub.NewClient(blobstore.NewMemoryStore())

	_, err := OpenModel(context.Background(), client, "nope")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestMetricsCollection(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	ex := testExplorer(t, WithMetricsCollector(metrics))

	_, err := ex.InterpolateRandom(context.Background(), InterpolateOptions{Steps: 3, SeedA: 1, SeedB: 2})
	require.NoError(t, err)

	target, err := ModelSource{Explorer: ex}.TargetImage(context.Background())
	require.NoError(t, err)

	_, err = ex.FindClosestLatent(context.Background(), target, InvertOptions{Steps: 2, Seed: 5})
	require.NoError(t, err)

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.InterpolateCount)
	assert.Equal(t, int64(1), stats.InversionCount)
	assert.Equal(t, int64(1), stats.TargetCount)
	assert.GreaterOrEqual(t, stats.GenerateImages, int64(3))
}
