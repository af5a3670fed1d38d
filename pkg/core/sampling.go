package core

import (
	"math"
	"math/rand"
)

// RandomSampler provides uniform random variables for Monte-Carlo
// estimation, seeded for reproducible sequences
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler with a fixed seed
func NewRandomSampler(seed int64) *RandomSampler {
	return &RandomSampler{random: rand.New(rand.NewSource(seed))}
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// SampleUniformSphere generates a uniform random direction on the unit
// sphere and returns it with its pdf (1/4π)
func SampleUniformSphere(xi Vec2) (Vec3, float64) {
	theta := SafeAcos(1.0 - 2.0*xi.X)
	phi := 2.0 * math.Pi * xi.Y
	return SphericalDirection(theta, phi), 1.0 / (4.0 * math.Pi)
}

// SampleUniformHemisphere generates a uniform random direction on the
// upper hemisphere and returns it with its pdf (1/2π)
func SampleUniformHemisphere(xi Vec2) (Vec3, float64) {
	theta := SafeAcos(xi.X)
	phi := 2.0 * math.Pi * xi.Y
	return SphericalDirection(theta, phi), 1.0 / (2.0 * math.Pi)
}
