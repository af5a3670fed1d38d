package bsdf

import (
	"github.com/bsdfbenchmark/go-bbm/pkg/core"
)

// Scaled multiplies the evaluation and reflectance of a wrapped model by
// a per-channel scale. Sampling and pdfs pass through unchanged.
type Scaled struct {
	Model
	Albedo Spectrum
}

var _ Model = (*Scaled)(nil)

// NewScaled wraps a model with a per-channel scale.
func NewScaled(model Model, albedo Spectrum) *Scaled {
	return &Scaled{Model: model, Albedo: albedo}
}

func (s *Scaled) Eval(in, out core.Vec3, component Component, unit Unit, mask core.Mask) Spectrum {
	return s.Model.Eval(in, out, component, unit, mask).MultiplyVec(s.Albedo)
}

func (s *Scaled) Reflectance(out core.Vec3, component Component, unit Unit, mask core.Mask) Spectrum {
	return s.Model.Reflectance(out, component, unit, mask).MultiplyVec(s.Albedo)
}
