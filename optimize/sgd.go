package optimize

// SGDConfig holds configuration for plain stochastic gradient descent.
type SGDConfig struct {
	LearningRate float32
	Momentum     float32
}

// SGD implements gradient descent with optional classical momentum.
type SGD struct {
	cfg      SGDConfig
	velocity []float32
}

// NewSGD creates an SGD optimizer. A zero learning rate falls back
// to 0.01.
func NewSGD(cfg SGDConfig) *SGD {
	if cfg.LearningRate == 0 {
		cfg.LearningRate = 0.01
	}

	return &SGD{cfg: cfg}
}

// Step implements Optimizer.
func (s *SGD) Step(params, grads []float32) error {
	if len(params) != len(grads) {
		return &ErrGradientMismatch{Params: len(params), Grads: len(grads)}
	}

	if s.cfg.Momentum == 0 {
		for i := range params {
			params[i] -= s.cfg.LearningRate * grads[i]
		}
		return nil
	}

	if s.velocity == nil {
		s.velocity = make([]float32, len(params))
	}
	if len(s.velocity) != len(params) {
		return &ErrGradientMismatch{Params: len(params), Grads: len(s.velocity)}
	}

	for i := range params {
		s.velocity[i] = s.cfg.Momentum*s.velocity[i] + grads[i]
		params[i] -= s.cfg.LearningRate * s.velocity[i]
	}

	return nil
}

// Reset implements Optimizer.
func (s *SGD) Reset() {
	s.velocity = nil
}

// Name implements Optimizer.
func (s *SGD) Name() string { return "sgd" }
