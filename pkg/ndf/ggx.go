package ndf

import (
	"math"

	"github.com/bsdfbenchmark/go-bbm/pkg/core"
)

// GGX is the isotropic GGX (Trowbridge-Reitz) normal distribution.
// Sampling follows Heitz's visible-normal method when SampleVisible is
// set, and Walter's full-distribution inversion otherwise.
type GGX struct {
	Roughness     float64
	SampleVisible bool
}

// NewGGX creates a GGX distribution with visible-normal sampling enabled.
func NewGGX(roughness float64) *GGX {
	return &GGX{Roughness: roughness, SampleVisible: true}
}

// Eval returns the GGX distribution value for a microfacet normal.
func (g *GGX) Eval(halfway core.Vec3, mask core.Mask) float64 {
	mask = mask && halfway.Z > 0
	if !mask {
		return 0
	}

	alpha2 := g.Roughness * g.Roughness
	d := (halfway.X*halfway.X+halfway.Y*halfway.Y)/alpha2 + halfway.Z*halfway.Z
	return 1 / (math.Pi * alpha2 * d * d)
}

// Sample draws a microfacet normal for the given view direction.
func (g *GGX) Sample(view core.Vec3, xi core.Vec2, mask core.Mask) core.Vec3 {
	mask = mask && xi.InUnitRange()
	if !mask {
		return core.Vec3{}
	}

	if !g.SampleVisible {
		// invert the marginal distribution of the full NDF
		sinPhi, cosPhi := math.Sincos(2 * math.Pi * xi.X)
		tanTheta2 := g.Roughness * g.Roughness * xi.Y / (1 - xi.Y)
		cosTheta := 1 / math.Sqrt(1+tanTheta2)
		sinTheta := core.SafeSqrt(1 - cosTheta*cosTheta)
		return core.Vec3{X: cosPhi * sinTheta, Y: sinPhi * sinTheta, Z: cosTheta}
	}

	// visible-normal sampling after Heitz, "Sampling the GGX Distribution
	// of Visible Normals", JCGT 2018.
	viewS := core.Vec3{
		X: view.X * g.Roughness,
		Y: view.Y * g.Roughness,
		Z: view.Z,
	}.Normalize()

	t1 := core.Vec3{X: 1}
	if viewS.Z < 1-core.Epsilon {
		t1 = viewS.Cross(core.Vec3{Z: 1}).Normalize()
	}
	t2 := t1.Cross(viewS)

	a := 1 / (1 + viewS.Z)
	r := math.Sqrt(xi.X)
	phi := core.Select(xi.Y < a, xi.Y/a, 1+(xi.Y-a)/(1-a)) * math.Pi
	sinPhi, cosPhi := math.Sincos(phi)
	p1 := r * cosPhi
	p2 := core.Select(xi.Y < a, 1.0, viewS.Z) * r * sinPhi

	normal := t1.Multiply(p1).
		Add(t2.Multiply(p2)).
		Add(viewS.Multiply(core.SafeSqrt(1 - p1*p1 - p2*p2)))

	return core.Vec3{
		X: normal.X * g.Roughness,
		Y: normal.Y * g.Roughness,
		Z: math.Max(0, normal.Z),
	}.Normalize()
}

// Pdf returns the density with which Sample draws m for the view direction.
func (g *GGX) Pdf(view, m core.Vec3, mask core.Mask) float64 {
	mask = mask && m.Z > 0
	if !mask {
		return 0
	}

	pdf := g.Eval(m, mask)
	if g.SampleVisible {
		pdf *= g.G1(view, m, mask) * math.Abs(view.Dot(m)) / core.CosTheta(view)
	} else {
		pdf *= core.CosTheta(m)
	}

	mask = mask && pdf > 0
	return core.Select(mask, pdf, 0)
}

// G1 returns the Smith monodirectional shadowing-masking factor.
func (g *GGX) G1(v, m core.Vec3, mask core.Mask) float64 {
	mask = mask && v.Z > 0 && v.Dot(m) > 0
	if !mask {
		return 0
	}

	alpha2 := g.Roughness * g.Roughness
	return 2 / (1 + math.Sqrt(1+alpha2*core.TanTheta2(v)))
}
