package bsdf

import (
	"github.com/bsdfbenchmark/go-bbm/pkg/core"
)

// reflectanceWeights gathers per-model sampling weights proportional to
// the hemispherical reflectance, plus their sum.
func reflectanceWeights(models []Model, out core.Vec3, component Component, unit Unit, mask core.Mask) ([]float64, float64) {
	weights := make([]float64, len(models))
	sum := 0.0
	for i, m := range models {
		weights[i] = m.Reflectance(out, component, unit, mask).Sum()
		sum += weights[i]
	}
	return weights, sum
}

// Aggregate is the sum of two or more BSDF models. Sampling selects one
// model with probability proportional to its hemispherical reflectance;
// the pdf is the matching reflectance-weighted mixture.
type Aggregate struct {
	Models []Model
}

var _ Model = (*Aggregate)(nil)

// NewAggregate sums the given models. The list is copied; it panics when
// fewer than two models are supplied.
func NewAggregate(models ...Model) *Aggregate {
	if len(models) < 2 {
		panic("bsdf: an aggregate needs at least two models")
	}
	owned := make([]Model, len(models))
	copy(owned, models)
	return &Aggregate{Models: owned}
}

// Eval sums the evaluations of all models.
func (a *Aggregate) Eval(in, out core.Vec3, component Component, unit Unit, mask core.Mask) Spectrum {
	var result Spectrum
	for _, m := range a.Models {
		result = result.Add(m.Eval(in, out, component, unit, mask))
	}
	return result
}

// Sample selects a model proportional to its reflectance and samples it.
func (a *Aggregate) Sample(out core.Vec3, xi core.Vec2, component Component, unit Unit, mask core.Mask) Sample {
	var result Sample

	weights, sum := reflectanceWeights(a.Models, out, component, unit, mask)

	// Walk the weight windows linearly: aggregates are small, and the
	// walk yields the renormalized random number in the same pass. An
	// exact boundary hit falls through to the next model, so models
	// with zero weight never keep the pick.
	xi0 := xi.X * sum
	for i, model := range a.Models {
		m := mask && xi0 >= 0 && xi0 <= weights[i]
		if m {
			nxi0 := 0.0
			if weights[i] > core.Epsilon {
				nxi0 = xi0 / weights[i]
			}
			result = model.Sample(out, core.Vec2{X: nxi0, Y: xi.Y}, component, unit, m)
		}
		xi0 -= weights[i]
	}

	// the mixture pdf spans all models, not just the sampled one
	weighted := 0.0
	for i, model := range a.Models {
		weighted += model.Pdf(result.Direction, out, component, unit, mask) * weights[i]
	}
	result.Pdf = core.Select(sum > core.Epsilon, weighted/sum, 0)

	return result
}

// Pdf returns the reflectance-weighted mixture of the model pdfs.
func (a *Aggregate) Pdf(in, out core.Vec3, component Component, unit Unit, mask core.Mask) float64 {
	if !mask {
		return 0
	}

	weights, sum := reflectanceWeights(a.Models, out, component, unit, mask)

	weighted := 0.0
	for i, model := range a.Models {
		weighted += model.Pdf(in, out, component, unit, mask) * weights[i]
	}
	return core.Select(sum > core.Epsilon, weighted/sum, 0)
}

// Reflectance sums the reflectances of all models.
func (a *Aggregate) Reflectance(out core.Vec3, component Component, unit Unit, mask core.Mask) Spectrum {
	var result Spectrum
	if !mask {
		return result
	}
	for _, m := range a.Models {
		result = result.Add(m.Reflectance(out, component, unit, mask))
	}
	return result
}

// AggregateBSDF aggregates models at run time. Unlike Aggregate it
// accepts any number of models, shares them with the caller, and bails
// out of sampling as soon as the total reflectance vanishes.
type AggregateBSDF struct {
	Models []Model
}

var _ Model = (*AggregateBSDF)(nil)

// NewAggregateBSDF aggregates the given models; an empty list is valid
// and evaluates to zero everywhere.
func NewAggregateBSDF(models ...Model) *AggregateBSDF {
	return &AggregateBSDF{Models: models}
}

// Eval sums the evaluations of all models.
func (a *AggregateBSDF) Eval(in, out core.Vec3, component Component, unit Unit, mask core.Mask) Spectrum {
	var result Spectrum
	for _, m := range a.Models {
		result = result.Add(m.Eval(in, out, component, unit, mask))
	}
	return result
}

// Sample selects a model proportional to its reflectance and samples it.
func (a *AggregateBSDF) Sample(out core.Vec3, xi core.Vec2, component Component, unit Unit, mask core.Mask) Sample {
	var result Sample

	weights, sum := reflectanceWeights(a.Models, out, component, unit, mask)

	mask = mask && sum > core.Epsilon
	if !mask {
		return result
	}

	residual := xi.X * sum
	for i, model := range a.Models {
		m := mask && residual >= 0 && residual <= weights[i]
		if m {
			normalized := 0.0
			if weights[i] > core.Epsilon {
				normalized = residual / weights[i]
			}
			result = model.Sample(out, core.Vec2{X: normalized, Y: xi.Y}, component, unit, m)
		}
		residual -= weights[i]
	}

	result.Pdf = 0
	for i, model := range a.Models {
		result.Pdf += weights[i] * model.Pdf(result.Direction, out, component, unit, mask) / sum
	}

	return result
}

// Pdf returns the reflectance-weighted mixture of the model pdfs.
func (a *AggregateBSDF) Pdf(in, out core.Vec3, component Component, unit Unit, mask core.Mask) float64 {
	weights, sum := reflectanceWeights(a.Models, out, component, unit, mask)

	mask = mask && sum > core.Epsilon
	if !mask {
		return 0
	}

	pdf := 0.0
	for i, model := range a.Models {
		pdf += weights[i] * model.Pdf(in, out, component, unit, mask) / sum
	}
	return pdf
}

// Reflectance sums the reflectances of all models.
func (a *AggregateBSDF) Reflectance(out core.Vec3, component Component, unit Unit, mask core.Mask) Spectrum {
	var result Spectrum
	for _, m := range a.Models {
		result = result.Add(m.Reflectance(out, component, unit, mask))
	}
	return result
}
