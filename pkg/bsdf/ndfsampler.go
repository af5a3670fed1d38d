package bsdf

import (
	"math"
	"sync"

	"github.com/bsdfbenchmark/go-bbm/pkg/core"
	"github.com/bsdfbenchmark/go-bbm/pkg/ndf"
)

// backscatter exposes a model's retro-reflective slice eval(h, h) as an
// NDF so a data-driven sampler can tabulate it. The remaining NDF
// operations cannot be derived from a model and must never be called.
type backscatter struct {
	Model     Model
	Component Component
	Unit      Unit
}

func (b backscatter) Eval(halfway core.Vec3, mask core.Mask) float64 {
	return b.Model.Eval(halfway, halfway, b.Component, b.Unit, mask).Sum()
}

func (b backscatter) Sample(view core.Vec3, xi core.Vec2, mask core.Mask) core.Vec3 {
	panic("bsdf: backscatter NDF cannot sample")
}

func (b backscatter) Pdf(view, m core.Vec3, mask core.Mask) float64 {
	panic("bsdf: backscatter NDF has no pdf")
}

func (b backscatter) G1(v, m core.Vec3, mask core.Mask) float64 {
	panic("bsdf: backscatter NDF has no shadowing")
}

type samplerKey struct {
	component Component
	unit      Unit
}

// NDFSampler replaces a model's Sample and Pdf with data-driven halfway
// vector sampling tabulated from its retro-reflective evaluation. The
// model must be isotropic. Eval and Reflectance pass through unchanged.
//
// One table is kept per (component, unit) pair that sampling is asked
// for; each follows attribute changes of the wrapped model.
type NDFSampler struct {
	Model

	samplesTheta int
	samplesPhi   int

	mu       sync.Mutex
	samplers map[samplerKey]*ndf.Sampler
}

var _ Model = (*NDFSampler)(nil)

// NewNDFSampler wraps a model with default table resolution.
func NewNDFSampler(model Model) *NDFSampler {
	return NewNDFSamplerSized(model, ndf.DefaultSamplesTheta, ndf.DefaultSamplesPhi)
}

// NewNDFSamplerSized wraps a model with an explicit table resolution.
func NewNDFSamplerSized(model Model, samplesTheta, samplesPhi int) *NDFSampler {
	return &NDFSampler{
		Model:        model,
		samplesTheta: samplesTheta,
		samplesPhi:   samplesPhi,
		samplers:     make(map[samplerKey]*ndf.Sampler),
	}
}

// sampler returns the table-backed sampler for a component and unit,
// creating it on first use. Samplers are never evicted.
func (s *NDFSampler) sampler(component Component, unit Unit) *ndf.Sampler {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := samplerKey{component: component, unit: unit}
	smp, ok := s.samplers[key]
	if !ok {
		smp = ndf.NewSamplerSized(
			backscatter{Model: s.Model, Component: component, Unit: unit},
			s.samplesTheta, s.samplesPhi)
		s.samplers[key] = smp
	}
	return smp
}

// Sample draws a halfway vector from the tabulated distribution and
// reflects the outgoing direction about it.
func (s *NDFSampler) Sample(out core.Vec3, xi core.Vec2, component Component, unit Unit, mask core.Mask) Sample {
	var sample Sample

	mask = mask && xi.InUnitRange()
	mask = mask && out.Z > 0
	if !mask {
		return sample
	}

	halfway := s.sampler(component, unit).Sample(out, xi, mask)

	sample.Direction = core.Reflect(out, halfway)
	sample.Pdf = s.Pdf(sample.Direction, out, component, unit, mask)
	sample.Flag = component
	return sample
}

// Pdf transforms the tabulated halfway-vector density to incident solid
// angle.
func (s *NDFSampler) Pdf(in, out core.Vec3, component Component, unit Unit, mask core.Mask) float64 {
	mask = mask && out.Z > 0 && in.Z > 0
	if !mask {
		return 0
	}

	h := core.Halfway(in, out)
	pdf := s.sampler(component, unit).Pdf(out, h, mask)
	return pdf / math.Abs(4*out.Dot(h))
}
