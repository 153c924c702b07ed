package latentgo

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/latentgo/blobstore"
	"github.com/hupe1980/latentgo/generator/mlp"
	"github.com/hupe1980/latentgo/hub"
)

func TestPipelineBuilder(t *testing.T) {
	metrics := &BasicMetricsCollector{}

	ex, err := Pipeline(mlp.New("test-mlp", 8, 12, 4, 42)).
		Logger(NewTextLogger(slog.LevelError)).
		Metrics(metrics).
		Build()
	require.NoError(t, err)
	defer ex.Close()

	_, err = ex.InterpolateRandom(context.Background(), InterpolateOptions{Steps: 2, SeedA: 1, SeedB: 2})
	require.NoError(t, err)

	assert.Equal(t, int64(1), metrics.GetStats().InterpolateCount)
}

func TestPipelineBuilderNilGenerator(t *testing.T) {
	_, err := Pipeline(nil).Build()
	assert.ErrorIs(t, err, ErrNilGenerator)
}

func TestPipelineBuilderImmutable(t *testing.T) {
	base := Pipeline(mlp.New("test-mlp", 8, 12, 4, 42))
	withLogger := base.Logger(NoopLogger())

	assert.Nil(t, base.logger)
	assert.NotNil(t, withLogger.logger)
}

func TestModelBuilder(t *testing.T) {
	client := hub.NewClient(blobstore.NewMemoryStore())
	require.NoError(t, client.Publish(context.Background(), mlp.New("m", 8, 12, 4, 7).Artifact()))

	ex, err := Model(client, "m").BuildContext(context.Background())
	require.NoError(t, err)
	defer ex.Close()

	assert.Equal(t, 8, ex.LatentDim())
}

func TestModelBuilderMissing(t *testing.T) {
	client := hub.NewClient(blobstore.NewMemoryStore())

	_, err := Model(client, "nope").Build()
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestMustBuildPanics(t *testing.T) {
	assert.Panics(t, func() {
		Pipeline(nil).MustBuild()
	})
}
