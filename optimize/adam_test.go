package optimize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// descend minimizes f(x) = sum(x_i^2) whose gradient is 2x.
func descend(t *testing.T, opt Optimizer, steps int) []float32 {
	t.Helper()

	params := []float32{5, -3, 2}
	grads := make([]float32, len(params))

	for i := 0; i < steps; i++ {
		for j := range grads {
			grads[j] = 2 * params[j]
		}
		require.NoError(t, opt.Step(params, grads))
	}

	return params
}

func TestAdamConverges(t *testing.T) {
	params := descend(t, NewAdam(AdamConfig{LearningRate: 0.3}), 200)

	for _, p := range params {
		assert.InDelta(t, 0, p, 0.05)
	}
}

func TestAdamFirstStepIsLearningRateSized(t *testing.T) {
	// With bias correction, the very first update has magnitude close
	// to the learning rate regardless of gradient scale.
	adam := NewAdam(AdamConfig{LearningRate: 0.3})

	params := []float32{10}
	require.NoError(t, adam.Step(params, []float32{1000}))

	assert.InDelta(t, 9.7, params[0], 1e-3)
	assert.Equal(t, uint64(1), adam.StepCount())
}

func TestAdamDefaults(t *testing.T) {
	adam := NewAdam(AdamConfig{})

	assert.Equal(t, float32(0.001), adam.cfg.LearningRate)
	assert.Equal(t, float32(0.9), adam.cfg.Beta1)
	assert.Equal(t, float32(0.999), adam.cfg.Beta2)
	assert.Equal(t, "adam", adam.Name())
}

func TestAdamGradientMismatch(t *testing.T) {
	adam := NewAdam(AdamConfig{})

	err := adam.Step([]float32{1, 2}, []float32{1})

	var egm *ErrGradientMismatch
	require.ErrorAs(t, err, &egm)
	assert.Equal(t, 2, egm.Params)
	assert.Equal(t, 1, egm.Grads)
}

func TestAdamReset(t *testing.T) {
	adam := NewAdam(AdamConfig{LearningRate: 0.1})

	require.NoError(t, adam.Step([]float32{1}, []float32{1}))
	require.Equal(t, uint64(1), adam.StepCount())

	adam.Reset()
	assert.Equal(t, uint64(0), adam.StepCount())

	// Reusable for a different parameter length after Reset.
	require.NoError(t, adam.Step([]float32{1, 2}, []float32{1, 1}))
}

func TestSGDConverges(t *testing.T) {
	params := descend(t, NewSGD(SGDConfig{LearningRate: 0.1}), 100)

	for _, p := range params {
		assert.InDelta(t, 0, p, 1e-3)
	}
}

func TestSGDMomentumConverges(t *testing.T) {
	params := descend(t, NewSGD(SGDConfig{LearningRate: 0.05, Momentum: 0.9}), 200)

	for _, p := range params {
		assert.InDelta(t, 0, p, 1e-2)
	}
}

func TestSGDGradientMismatch(t *testing.T) {
	sgd := NewSGD(SGDConfig{})

	var egm *ErrGradientMismatch
	assert.ErrorAs(t, sgd.Step([]float32{1}, []float32{1, 2}), &egm)
}
