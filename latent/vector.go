// Package latent provides latent-space vector types and path math for
// generative image models.
//
// A latent vector is a coordinate in a model's sampling space. The
// package offers seeded sampling from the normal distribution the
// models were trained against and constant-norm interpolation paths
// between two such coordinates.
package latent

import (
	"errors"
	"fmt"
	"math"

	"github.com/hupe1980/latentgo/internal/math32"
)

// ErrZeroVector is returned when a path endpoint has zero norm.
var ErrZeroVector = errors.New("zero-norm vector")

// ErrInvalidStepCount indicates a degenerate interpolation step count.
//
// A single-step path would divide by zero when placing intermediate
// points, so step counts below 2 are rejected outright.
type ErrInvalidStepCount struct {
	Steps int
}

func (e *ErrInvalidStepCount) Error() string {
	return fmt.Sprintf("invalid step count: %d (must be >= 2)", e.Steps)
}

// ErrDimensionMismatch indicates a vector dimensionality mismatch.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// Vector is a latent-space coordinate.
type Vector []float32

// Dim returns the dimensionality of the vector.
func (v Vector) Dim() int {
	return len(v)
}

// Norm returns the Euclidean norm of the vector.
func (v Vector) Norm() float32 {
	return math32.Norm(v)
}

// Clone returns an independent copy of the vector.
func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

// Rescaled returns a copy of the vector scaled to the given norm.
func (v Vector) Rescaled(norm float32) (Vector, error) {
	n := v.Norm()
	if n == 0 {
		return nil, ErrZeroVector
	}

	out := v.Clone()
	math32.ScaleInPlace(out, norm/n)
	return out, nil
}

// ExpectedNorm returns the expected norm of a vector drawn from a
// dim-dimensional standard normal distribution, sqrt(dim). The
// inversion regularizer penalizes deviation from this value.
func ExpectedNorm(dim int) float32 {
	return float32(math.Sqrt(float64(dim)))
}

// InterpolateHypersphere produces a constant-norm path of exactly steps
// vectors from v1 to a copy of v2 rescaled to v1's norm.
//
// Each intermediate point is a straight-line interpolation between the
// endpoints, then projected back onto the sphere of radius ‖v1‖. This
// is an approximation of spherical interpolation, not true great-circle
// slerp; for non-collinear inputs it traces the same arc.
//
// Both endpoints must be non-zero and share the same dimensionality,
// and steps must be at least 2.
func InterpolateHypersphere(v1, v2 Vector, steps int) ([]Vector, error) {
	if steps < 2 {
		return nil, &ErrInvalidStepCount{Steps: steps}
	}
	if v1.Dim() != v2.Dim() {
		return nil, &ErrDimensionMismatch{Expected: v1.Dim(), Actual: v2.Dim()}
	}

	norm := v1.Norm()
	if norm == 0 {
		return nil, ErrZeroVector
	}

	end, err := v2.Rescaled(norm)
	if err != nil {
		return nil, err
	}

	path := make([]Vector, steps)
	for step := 0; step < steps; step++ {
		t := float32(step) / float32(steps-1)

		p := make(Vector, v1.Dim())
		math32.Lerp(p, v1, end, t)

		// Collinear opposite endpoints can cross the origin; such a
		// point has no projection onto the sphere.
		pn := p.Norm()
		if pn == 0 {
			return nil, ErrZeroVector
		}
		math32.ScaleInPlace(p, norm/pn)

		path[step] = p
	}

	return path, nil
}
