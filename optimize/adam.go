package optimize

import "math"

// AdamConfig holds configuration for the Adam optimizer.
type AdamConfig struct {
	LearningRate float32
	Beta1        float32 // momentum decay
	Beta2        float32 // variance decay
	Epsilon      float32 // guards the division by the variance estimate
}

// DefaultAdamConfig returns the conventional Adam hyperparameters.
func DefaultAdamConfig() AdamConfig {
	return AdamConfig{
		LearningRate: 0.001,
		Beta1:        0.9,
		Beta2:        0.999,
		Epsilon:      1e-8,
	}
}

// Adam implements the Adam adaptive-moment optimizer with bias
// correction.
type Adam struct {
	cfg AdamConfig

	momentum []float32
	variance []float32
	step     uint64
}

// NewAdam creates an Adam optimizer. Zero-valued config fields fall
// back to their defaults, so NewAdam(AdamConfig{LearningRate: 0.3})
// only overrides the learning rate.
func NewAdam(cfg AdamConfig) *Adam {
	def := DefaultAdamConfig()
	if cfg.LearningRate == 0 {
		cfg.LearningRate = def.LearningRate
	}
	if cfg.Beta1 == 0 {
		cfg.Beta1 = def.Beta1
	}
	if cfg.Beta2 == 0 {
		cfg.Beta2 = def.Beta2
	}
	if cfg.Epsilon == 0 {
		cfg.Epsilon = def.Epsilon
	}

	return &Adam{cfg: cfg}
}

// Step implements Optimizer.
func (a *Adam) Step(params, grads []float32) error {
	if len(params) != len(grads) {
		return &ErrGradientMismatch{Params: len(params), Grads: len(grads)}
	}

	if a.momentum == nil {
		a.momentum = make([]float32, len(params))
		a.variance = make([]float32, len(params))
	}
	if len(a.momentum) != len(params) {
		return &ErrGradientMismatch{Params: len(params), Grads: len(a.momentum)}
	}

	a.step++

	beta1 := float64(a.cfg.Beta1)
	beta2 := float64(a.cfg.Beta2)
	correction1 := 1 - math.Pow(beta1, float64(a.step))
	correction2 := 1 - math.Pow(beta2, float64(a.step))

	for i := range params {
		g := float64(grads[i])

		m := beta1*float64(a.momentum[i]) + (1-beta1)*g
		v := beta2*float64(a.variance[i]) + (1-beta2)*g*g
		a.momentum[i] = float32(m)
		a.variance[i] = float32(v)

		mHat := m / correction1
		vHat := v / correction2

		params[i] -= float32(float64(a.cfg.LearningRate) * mHat / (math.Sqrt(vHat) + float64(a.cfg.Epsilon)))
	}

	return nil
}

// Reset implements Optimizer.
func (a *Adam) Reset() {
	a.momentum = nil
	a.variance = nil
	a.step = 0
}

// Name implements Optimizer.
func (a *Adam) Name() string { return "adam" }

// StepCount returns the number of updates applied since the last Reset.
func (a *Adam) StepCount() uint64 { return a.step }

// SetLearningRate updates the learning rate, for schedules.
func (a *Adam) SetLearningRate(lr float32) { a.cfg.LearningRate = lr }
