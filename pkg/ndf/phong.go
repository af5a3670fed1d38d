package ndf

import (
	"math"

	"github.com/bsdfbenchmark/go-bbm/pkg/core"
)

// Phong is the normalized Phong (cosine-power) normal distribution with
// Walter's rational approximation of the Smith shadowing term.
type Phong struct {
	Sharpness float64
}

// NewPhong creates a Phong distribution with the given cosine exponent.
func NewPhong(sharpness float64) *Phong {
	return &Phong{Sharpness: sharpness}
}

// Eval returns the distribution value for a microfacet normal.
func (p *Phong) Eval(halfway core.Vec3, mask core.Mask) float64 {
	mask = mask && halfway.Z > 0
	if !mask {
		return 0
	}
	return (p.Sharpness + 2) / (2 * math.Pi) * math.Pow(core.CosTheta(halfway), p.Sharpness)
}

// Sample draws a microfacet normal by inverting the cosine-power lobe.
// The view direction does not affect the drawn normal.
func (p *Phong) Sample(view core.Vec3, xi core.Vec2, mask core.Mask) core.Vec3 {
	mask = mask && xi.InUnitRange()
	if !mask {
		return core.Vec3{}
	}

	cosTheta := math.Pow(xi.X, 1/(p.Sharpness+2))
	sinTheta := core.SafeSqrt(1 - cosTheta*cosTheta)
	sinPhi, cosPhi := math.Sincos(2 * math.Pi * xi.Y)
	return core.Vec3{X: cosPhi * sinTheta, Y: sinPhi * sinTheta, Z: cosTheta}
}

// Pdf returns the density with which Sample draws m.
func (p *Phong) Pdf(view, m core.Vec3, mask core.Mask) float64 {
	mask = mask && m.Z > 0
	if !mask {
		return 0
	}
	return p.Eval(m, mask) * math.Abs(core.CosTheta(m))
}

// G1 returns Walter's rational fit of the Smith shadowing-masking factor.
func (p *Phong) G1(v, m core.Vec3, mask core.Mask) float64 {
	mask = mask && v.Z > 0 && v.Dot(m) > 0
	if !mask {
		return 0
	}

	a := math.Sqrt(0.5*p.Sharpness+1) / core.TanTheta(v)
	if a < 1.6 {
		return (3.535*a + 2.181*a*a) / (1 + 2.276*a + 2.577*a*a)
	}
	return 1
}
