package ndf

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/bsdfbenchmark/go-bbm/pkg/core"
)

// Default table resolution for data-driven sampling.
const (
	DefaultSamplesTheta = 90
	DefaultSamplesPhi   = 1
)

// Sampler replaces the Sample and Pdf methods of a wrapped NDF with a
// tabulated inverse-CDF approximation built from its Eval. The table
// discretizes elevation as theta = (i/N)² * π/2, concentrating bins
// near the zenith where specular lobes live. Only isotropic NDFs are
// supported; Eval is averaged over SamplesPhi azimuths per bin.
//
// The table is built lazily and rebuilt whenever an attribute of the
// wrapped NDF changes. Concurrent callers share one table; a rebuild
// swaps it atomically.
type Sampler struct {
	ndf          NDF
	samplesTheta int
	samplesPhi   int

	cache   atomic.Pointer[samplerTable]
	buildMu sync.Mutex
}

type samplerTable struct {
	cdf     core.CDF
	monitor []core.Attribute
}

// NewSampler wraps an NDF with default table resolution.
func NewSampler(n NDF) *Sampler {
	return NewSamplerSized(n, DefaultSamplesTheta, DefaultSamplesPhi)
}

// NewSamplerSized wraps an NDF with an explicit table resolution.
// Panics if either sample count is not positive.
func NewSamplerSized(n NDF, samplesTheta, samplesPhi int) *Sampler {
	if samplesTheta <= 0 || samplesPhi <= 0 {
		panic("ndf: sampler table resolution must be positive")
	}
	return &Sampler{ndf: n, samplesTheta: samplesTheta, samplesPhi: samplesPhi}
}

// Eval forwards to the wrapped NDF.
func (s *Sampler) Eval(halfway core.Vec3, mask core.Mask) float64 {
	return s.ndf.Eval(halfway, mask)
}

// G1 forwards to the wrapped NDF.
func (s *Sampler) G1(v, m core.Vec3, mask core.Mask) float64 {
	return s.ndf.G1(v, m, mask)
}

// initialize returns a table consistent with the wrapped NDF's current
// attributes, rebuilding it first when they changed since the last build.
func (s *Sampler) initialize() *samplerTable {
	attrs := core.Attributes(s.ndf)

	table := s.cache.Load()
	if table != nil && core.AttributesEqual(table.monitor, attrs) {
		return table
	}

	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	// another goroutine may have rebuilt while we waited for the lock
	table = s.cache.Load()
	if table != nil && core.AttributesEqual(table.monitor, attrs) {
		return table
	}

	table = &samplerTable{cdf: s.buildCDF(), monitor: attrs}
	s.cache.Store(table)
	return table
}

// buildCDF tabulates the wrapped NDF over the warped elevation bins.
func (s *Sampler) buildCDF() core.CDF {
	n := float64(s.samplesTheta)
	samples := make([]float64, s.samplesTheta)

	for i := range samples {
		theta := math.Pow(float64(i)/n, 2) * (math.Pi / 2)

		value := 0.0
		for j := 0; j < s.samplesPhi; j++ {
			phi := float64(j) / float64(s.samplesPhi) * 2 * math.Pi
			value += s.ndf.Eval(core.SphericalDirection(theta, phi), true)
		}
		value /= float64(s.samplesPhi)

		// weight by the upper bin bound; sqrt(theta) absorbs the
		// quadratic warp, sin(theta) the solid-angle measure
		upper := math.Pow(float64(i+1)/n, 2) * (math.Pi / 2)
		samples[i] = value * math.Sin(upper) * math.Sqrt(upper)
	}

	return core.NewCDF(samples)
}

// Sample draws a microfacet normal by inverting the tabulated CDF. The
// view direction is ignored; the table marginalizes over azimuth.
func (s *Sampler) Sample(view core.Vec3, xi core.Vec2, mask core.Mask) core.Vec3 {
	mask = mask && xi.InUnitRange()
	if !mask {
		return core.Vec3{}
	}

	cs := s.initialize().cdf.Sample(xi.X, mask)

	// tent-interpolate the fractional index between neighboring bins so
	// the reconstructed density is piecewise linear instead of stepped
	offset := 1 - core.SafeSqrt(1-2*math.Abs(cs.Residual-0.5))
	index := float64(cs.Index) + 0.5 + core.Sign(cs.Residual-0.5)*offset

	theta := math.Pow(index/float64(s.samplesTheta), 2) * (math.Pi / 2)
	phi := 2 * math.Pi * xi.Y

	// reflect overshoot at the horizon; undershoot at the zenith is
	// already folded back by the squaring
	if theta > math.Pi/2 {
		theta = math.Pi - theta
	}

	return core.SphericalDirection(theta, phi)
}

// Pdf returns the density with which Sample draws m, interpolating the
// masses of the two bins bracketing m's elevation.
func (s *Sampler) Pdf(view, m core.Vec3, mask core.Mask) float64 {
	mask = mask && m.Z > 0
	if !mask {
		return 0
	}

	table := s.initialize()

	n := float64(s.samplesTheta)
	theta := core.SphericalTheta(m)
	thetaIndex := math.Sqrt(theta/(math.Pi/2))*n - 0.5

	// clamping the bracketing bins into range mirrors the reflection of
	// samples at the zenith and horizon
	w := thetaIndex - math.Floor(thetaIndex)
	lower := int(core.Clamp(math.Floor(thetaIndex), 0, n-1))
	upper := int(core.Clamp(math.Ceil(thetaIndex), 0, n-1))
	pdf := core.Lerp(table.cdf.Pdf(lower, mask), table.cdf.Pdf(upper, mask), w)

	// Jacobian of the index-to-theta warp times the solid-angle measure
	jac := math.Sqrt(theta) * (math.Pi * math.Pi / 4) / n * math.Abs(math.Sin(theta)) * (2 * math.Pi)

	mask = mask && jac > core.Epsilon
	if !mask {
		return 0
	}
	return pdf / jac
}
