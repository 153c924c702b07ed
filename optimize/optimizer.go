// Package optimize provides gradient-descent optimizers for latent
// vector search.
//
// Optimizers mutate the parameter slice in place, one Step per
// gradient evaluation. State (momentum, variance) is allocated lazily
// on the first Step and sized to the parameter vector.
package optimize

import "fmt"

// Optimizer applies one gradient-descent update per Step call.
type Optimizer interface {
	// Step updates params in place using grads. Both slices must have
	// the same length, stable across calls.
	Step(params, grads []float32) error

	// Reset clears accumulated state so the optimizer can be reused
	// for a fresh descent.
	Reset()

	// Name returns the optimizer's stable name.
	Name() string
}

// ErrGradientMismatch indicates params and grads of different lengths,
// or a parameter vector that changed length between steps.
type ErrGradientMismatch struct {
	Params int
	Grads  int
}

func (e *ErrGradientMismatch) Error() string {
	return fmt.Sprintf("gradient length %d does not match parameter length %d", e.Grads, e.Params)
}
