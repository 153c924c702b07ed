package latent

import "math/rand"

// RNG encapsulates a seeded random number generator for reproducible
// latent sampling.
type RNG struct {
	rand *rand.Rand
	seed int64
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Normal draws a vector from the dim-dimensional standard normal
// distribution. Given the same seed and call sequence, the result is
// deterministic.
func (r *RNG) Normal(dim int) Vector {
	v := make(Vector, dim)
	for i := range v {
		v[i] = float32(r.rand.NormFloat64())
	}

	return v
}

// NormalBatch draws num independent normal vectors.
func (r *RNG) NormalBatch(num, dim int) []Vector {
	vectors := make([]Vector, num)
	for i := range vectors {
		vectors[i] = r.Normal(dim)
	}

	return vectors
}
