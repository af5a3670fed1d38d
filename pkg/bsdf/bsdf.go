// Package bsdf implements BSDF models with Monte-Carlo sampling support:
// evaluation, importance sampling, pdf queries, and approximate
// hemispherical reflectance, all in a Z-up shading frame.
package bsdf

import (
	"github.com/bsdfbenchmark/go-bbm/pkg/core"
)

// Spectrum carries per-channel reflectance values.
type Spectrum = core.Vec3

// Component selects which reflectance lobes an operation addresses.
type Component uint8

const (
	None     Component = 0x0
	Diffuse  Component = 0x1
	Specular Component = 0x2
	All      Component = Diffuse | Specular
)

// Has reports whether all bits of flag are set.
func (c Component) Has(flag Component) bool {
	return c&flag == flag
}

func (c Component) String() string {
	switch c {
	case None:
		return "none"
	case Diffuse:
		return "diffuse"
	case Specular:
		return "specular"
	case All:
		return "all"
	}
	return "invalid"
}

// Unit is the quantity being transported. Importance transport swaps the
// role of the in and out directions for non-reciprocal models.
type Unit uint8

const (
	Radiance Unit = iota
	Importance
)

// Adjoint transport is importance transport.
const Adjoint = Importance

func (u Unit) String() string {
	switch u {
	case Radiance:
		return "radiance"
	case Importance:
		return "importance"
	}
	return "invalid"
}

// Sample is the result of drawing an incident direction from a model.
// A failed draw has a zero direction, zero pdf, and the None flag.
type Sample struct {
	Direction core.Vec3
	Pdf       float64
	Flag      Component
}

// Model is a BSDF model. Directions point away from the surface in the
// shading frame. The mask argument gates computation: an inactive call
// returns zeros without touching the model.
type Model interface {
	// Eval returns the BSDF value for an in/out direction pair,
	// excluding foreshortening
	Eval(in, out core.Vec3, component Component, unit Unit, mask core.Mask) Spectrum

	// Sample draws an incident direction for the given outgoing
	// direction from two uniform random variables in [0,1]²
	Sample(out core.Vec3, xi core.Vec2, component Component, unit Unit, mask core.Mask) Sample

	// Pdf returns the solid-angle density with which Sample draws in
	Pdf(in, out core.Vec3, component Component, unit Unit, mask core.Mask) float64

	// Reflectance returns the approximate hemispherical reflectance
	// for the given outgoing direction
	Reflectance(out core.Vec3, component Component, unit Unit, mask core.Mask) Spectrum
}
