package bsdf

import (
	"math"

	"github.com/bsdfbenchmark/go-bbm/pkg/core"
)

// Fresnel computes the Fresnel reflectance for the cosine between the
// view direction and the halfway vector.
type Fresnel interface {
	Eval(cosTheta float64, mask core.Mask) Spectrum
}

// Schlick approximates the Fresnel reflectance from the reflectance at
// normal incidence (Schlick 1994).
type Schlick struct {
	R0 Spectrum
}

// NewSchlick creates a Schlick Fresnel with the given normal-incidence
// reflectance.
func NewSchlick(r0 Spectrum) *Schlick {
	return &Schlick{R0: r0}
}

// Eval returns R0 + (1-R0)·(1-cosTheta)⁵.
func (s *Schlick) Eval(cosTheta float64, mask core.Mask) Spectrum {
	if !mask {
		return Spectrum{}
	}

	white := Spectrum{X: 1, Y: 1, Z: 1}
	return s.R0.Add(white.Subtract(s.R0).Multiply(math.Pow(1-cosTheta, 5)))
}
