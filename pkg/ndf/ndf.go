// Package ndf implements microfacet normal distribution functions and a
// data-driven sampler that can replace any NDF's sampling routines with
// a tabulated inverse-CDF approximation.
package ndf

import (
	"github.com/bsdfbenchmark/go-bbm/pkg/core"
)

// NDF is a microfacet normal distribution over the upper hemisphere.
// Directions use a Z-up shading frame; halfway vectors below the horizon
// evaluate to zero.
type NDF interface {
	// Eval returns the distribution value for a microfacet normal
	Eval(halfway core.Vec3, mask core.Mask) float64

	// Sample draws a microfacet normal for a view direction from two
	// uniform random variables in [0,1]²
	Sample(view core.Vec3, xi core.Vec2, mask core.Mask) core.Vec3

	// Pdf returns the solid-angle density with which Sample draws m
	Pdf(view, m core.Vec3, mask core.Mask) float64

	// G1 returns the monodirectional shadowing-masking factor for a
	// direction v against a microfacet normal m
	G1(v, m core.Vec3, mask core.Mask) float64
}
