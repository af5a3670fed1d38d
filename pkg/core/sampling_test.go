package core

import (
	"math"
	"testing"
)

func TestRandomSampler(t *testing.T) {
	sampler := NewRandomSampler(42)

	for i := 0; i < 100; i++ {
		u := sampler.Get1D()
		if u < 0 || u >= 1 {
			t.Errorf("Get1D out of [0,1): %v", u)
		}
		xi := sampler.Get2D()
		if !xi.InUnitRange() {
			t.Errorf("Get2D out of unit square: %v", xi)
		}
	}
}

func TestSampleUniformSphere(t *testing.T) {
	sampler := NewRandomSampler(42)

	// integrating a constant 1 against the pdf must recover the sphere area
	const samples = 100000
	sum := 0.0
	belowHorizon := 0
	for i := 0; i < samples; i++ {
		dir, pdf := SampleUniformSphere(sampler.Get2D())
		if math.Abs(dir.Length()-1) > 1e-9 {
			t.Fatalf("Direction not normalized: %v", dir)
		}
		if pdf != 1/(4*math.Pi) {
			t.Fatalf("PDF: got %v, expected 1/4π", pdf)
		}
		if dir.Z < 0 {
			belowHorizon++
		}
		sum += 1.0 / pdf
	}
	area := sum / samples
	if math.Abs(area-4*math.Pi) > 1e-9 {
		t.Errorf("Sphere area estimate: got %v, expected %v", area, 4*math.Pi)
	}

	// roughly half the directions land below the horizon
	fraction := float64(belowHorizon) / samples
	if math.Abs(fraction-0.5) > 0.01 {
		t.Errorf("Below-horizon fraction: got %v, expected ~0.5", fraction)
	}
}

func TestSampleUniformHemisphere(t *testing.T) {
	sampler := NewRandomSampler(42)

	// cos-weighted integral over the hemisphere is π; MC with 1/2π pdf
	const samples = 200000
	sum := 0.0
	for i := 0; i < samples; i++ {
		dir, pdf := SampleUniformHemisphere(sampler.Get2D())
		if dir.Z < 0 {
			t.Fatalf("Hemisphere sample below horizon: %v", dir)
		}
		sum += dir.Z / pdf
	}
	estimate := sum / samples
	if math.Abs(estimate-math.Pi)/math.Pi > 0.02 {
		t.Errorf("Cosine integral: got %v, expected π within 2%%", estimate)
	}
}
