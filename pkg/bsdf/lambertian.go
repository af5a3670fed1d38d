package bsdf

import (
	"math"

	"github.com/bsdfbenchmark/go-bbm/pkg/core"
)

// Lambertian is the classic diffuse model: constant reflectance above
// the horizon, cosine-weighted sampling.
type Lambertian struct {
	Albedo Spectrum
}

var _ Model = (*Lambertian)(nil)

// NewLambertian creates a Lambertian model with the given albedo.
func NewLambertian(albedo Spectrum) *Lambertian {
	return &Lambertian{Albedo: albedo}
}

// Eval returns albedo/π above the horizon, without foreshortening.
func (l *Lambertian) Eval(in, out core.Vec3, component Component, unit Unit, mask core.Mask) Spectrum {
	mask = mask && component.Has(Diffuse)
	mask = mask && in.Z >= 0 && out.Z >= 0
	if !mask {
		return Spectrum{}
	}
	return l.Albedo.Multiply(1 / math.Pi)
}

// Sample draws an incident direction proportional to the cosine-weighted
// solid angle.
func (l *Lambertian) Sample(out core.Vec3, xi core.Vec2, component Component, unit Unit, mask core.Mask) Sample {
	var sample Sample

	mask = mask && component.Has(Diffuse)
	mask = mask && xi.InUnitRange()
	if !mask {
		return sample
	}

	sinPhi, cosPhi := math.Sincos(2 * math.Pi * xi.X)
	sinTheta := core.SafeSqrt(1 - xi.Y)

	sample.Direction = core.Vec3{
		X: cosPhi * sinTheta,
		Y: sinPhi * sinTheta,
		Z: core.SafeSqrt(xi.Y),
	}
	sample.Pdf = l.Pdf(sample.Direction, out, component, unit, mask)
	sample.Flag = Diffuse
	return sample
}

// Pdf returns the cosine-weighted solid-angle density.
func (l *Lambertian) Pdf(in, out core.Vec3, component Component, unit Unit, mask core.Mask) float64 {
	mask = mask && component.Has(Diffuse)
	mask = mask && in.Z >= 0 && out.Z >= 0
	return core.Select(mask, in.Z/math.Pi, 0)
}

// Reflectance returns the albedo.
func (l *Lambertian) Reflectance(out core.Vec3, component Component, unit Unit, mask core.Mask) Spectrum {
	if mask && component.Has(Diffuse) {
		return l.Albedo
	}
	return Spectrum{}
}
