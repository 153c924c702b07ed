// Package math32 provides float32 vector helpers shared by the latent
// and generator packages. This is an internal package - external users
// should work with the latent package types.
package math32

import "math"

// Dot calculates the dot product of two vectors.
func Dot(a, b []float32) float32 {
	var ret float32
	for i := range a {
		ret += a[i] * b[i]
	}

	return ret
}

// Norm calculates the Euclidean (L2) norm of a vector.
func Norm(a []float32) float32 {
	var sum float64
	for _, x := range a {
		sum += float64(x) * float64(x)
	}

	return float32(math.Sqrt(sum))
}

// ScaleInPlace multiplies all elements of a by scalar.
//
// This is primarily used by hypersphere renormalization.
func ScaleInPlace(a []float32, scalar float32) {
	for i := range a {
		a[i] *= scalar
	}
}

// Lerp writes the linear interpolation a + (b-a)*t into dst.
// All three slices must have the same length.
func Lerp(dst, a, b []float32, t float32) {
	for i := range dst {
		dst[i] = a[i] + (b[i]-a[i])*t
	}
}

// Axpy computes y += alpha*x in place.
func Axpy(alpha float32, x, y []float32) {
	for i := range y {
		y[i] += alpha * x[i]
	}
}
