package bsdf

import (
	"math"

	"github.com/bsdfbenchmark/go-bbm/pkg/core"
	"github.com/bsdfbenchmark/go-bbm/pkg/ndf"
)

// Predefined microfacet normalization factors.
const (
	Unnormalized = 1.0
	Walter       = 4.0
	Cook         = math.Pi
)

// Microfacet is the general microfacet BRDF after Walter et al. 2007,
// assembled from a normal distribution, a joint masking-shadowing term,
// and a Fresnel reflectance.
type Microfacet struct {
	NDF           ndf.NDF
	Shadowing     MaskingShadowing
	Fresnel       Fresnel
	Normalization float64
}

var _ Model = (*Microfacet)(nil)

// NewMicrofacet assembles a microfacet model. The normalization factor
// is one of Unnormalized, Walter, or Cook.
func NewMicrofacet(n ndf.NDF, shadowing MaskingShadowing, fresnel Fresnel, normalization float64) *Microfacet {
	return &Microfacet{NDF: n, Shadowing: shadowing, Fresnel: fresnel, Normalization: normalization}
}

// Eval returns D·G·F / (normalization · cos(in) · cos(out)).
func (m *Microfacet) Eval(in, out core.Vec3, component Component, unit Unit, mask core.Mask) Spectrum {
	mask = mask && component.Has(Specular)
	mask = mask && in.Z > 0 && out.Z > 0
	if !mask {
		return Spectrum{}
	}

	h := core.Halfway(in, out)
	d := m.NDF.Eval(h, mask)
	g := m.Shadowing.Eval(m.NDF, in, out, h, mask)

	// average the two cosines so rounding cannot break reciprocity
	f := m.Fresnel.Eval(0.5*(in.Dot(h)+out.Dot(h)), mask)

	return f.Multiply(d * g / m.Normalization / (in.Z * out.Z))
}

// Sample draws a microfacet normal from the NDF and reflects the
// outgoing direction about it.
func (m *Microfacet) Sample(out core.Vec3, xi core.Vec2, component Component, unit Unit, mask core.Mask) Sample {
	var sample Sample

	mask = mask && component.Has(Specular)
	mask = mask && xi.InUnitRange()
	mask = mask && out.Z > 0
	if !mask {
		return sample
	}

	normal := m.NDF.Sample(out, xi, mask)

	sample.Direction = core.Reflect(out, normal)
	sample.Pdf = m.Pdf(sample.Direction, out, component, unit, mask)
	sample.Flag = Specular
	return sample
}

// Pdf transforms the NDF's halfway-vector density to incident solid angle.
func (m *Microfacet) Pdf(in, out core.Vec3, component Component, unit Unit, mask core.Mask) float64 {
	mask = mask && component.Has(Specular)
	mask = mask && out.Z > 0 && in.Z > 0
	if !mask {
		return 0
	}

	// the halfway vector must lie above the horizon
	h := core.Halfway(in, out)
	if h.Z < 0 {
		h = h.Negate()
	}

	return m.NDF.Pdf(out, h, mask) / (4 * math.Abs(out.Dot(h)))
}

// Reflectance approximates the model as a perfect mirror.
func (m *Microfacet) Reflectance(out core.Vec3, component Component, unit Unit, mask core.Mask) Spectrum {
	mask = mask && component.Has(Specular)
	mask = mask && out.Z > 0
	if !mask {
		return Spectrum{}
	}

	return m.Fresnel.Eval(out.Z, mask).Multiply(4 / m.Normalization)
}
