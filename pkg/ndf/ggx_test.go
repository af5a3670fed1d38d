package ndf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsdfbenchmark/go-bbm/pkg/core"
)

func TestGGX_EvalNormalization(t *testing.T) {
	g := NewGGX(0.5)
	smp := core.NewRandomSampler(3)

	// ∫ D(m) cos(theta) dω over the hemisphere must be one
	const n = 200000
	sum := 0.0
	for i := 0; i < n; i++ {
		dir, pdf := core.SampleUniformHemisphere(smp.Get2D())
		sum += g.Eval(dir, true) * dir.Z / pdf
	}

	assert.InDelta(t, 1.0, sum/n, 0.03)
}

func TestGGX_EvalMasking(t *testing.T) {
	g := NewGGX(0.3)
	below := core.Vec3{X: 0.3, Y: 0.1, Z: -0.9}.Normalize()

	assert.Zero(t, g.Eval(below, true))
	assert.Zero(t, g.Eval(core.Vec3{Z: 1}, false))
}

func TestGGX_WalterSampleStatistics(t *testing.T) {
	g := &GGX{Roughness: 1, SampleVisible: false}
	smp := core.NewRandomSampler(11)
	view := core.Vec3{Z: 1}

	// for roughness 1 the sampled elevation satisfies cos(theta) =
	// sqrt(1-xi), so the mean cosine is exactly 2/3
	const n = 100000
	sum := 0.0
	for i := 0; i < n; i++ {
		m := g.Sample(view, smp.Get2D(), true)
		require.GreaterOrEqual(t, m.Z, 0.0)
		sum += m.Z
	}

	assert.InDelta(t, 2.0/3.0, sum/n, 0.01)
}

func TestGGX_WalterPdf(t *testing.T) {
	g := &GGX{Roughness: 0.4, SampleVisible: false}
	smp := core.NewRandomSampler(5)
	view := core.Vec3{X: 0.3, Z: 0.95}.Normalize()

	for i := 0; i < 100; i++ {
		m := g.Sample(view, smp.Get2D(), true)
		pdf := g.Pdf(view, m, true)

		require.Greater(t, pdf, 0.0)
		assert.InEpsilon(t, g.Eval(m, true)*core.CosTheta(m), pdf, 1e-12)
	}
}

func TestGGX_VisiblePdf(t *testing.T) {
	g := NewGGX(0.5)
	smp := core.NewRandomSampler(17)
	view := core.Vec3{X: 0.5, Y: 0.1, Z: 0.8}.Normalize()

	for i := 0; i < 100; i++ {
		m := g.Sample(view, smp.Get2D(), true)
		pdf := g.Pdf(view, m, true)

		require.Greater(t, pdf, 0.0)
		want := g.Eval(m, true) * g.G1(view, m, true) *
			math.Abs(view.Dot(m)) / core.CosTheta(view)
		assert.InEpsilon(t, want, pdf, 1e-12)
	}
}

func TestGGX_VisiblePdfIntegratesToOne(t *testing.T) {
	g := NewGGX(0.5)
	smp := core.NewRandomSampler(23)
	view := core.SphericalDirection(math.Pi/3, 0)

	// the visible-normal density integrates to one over microfacet
	// normals for any view above the horizon
	const n = 300000
	sum := 0.0
	for i := 0; i < n; i++ {
		m, pdf := core.SampleUniformHemisphere(smp.Get2D())
		sum += g.Pdf(view, m, true) / pdf
	}

	assert.InDelta(t, 1.0, sum/n, 0.03)
}

func TestGGX_G1(t *testing.T) {
	g := NewGGX(0.5)
	m := core.Vec3{Z: 1}

	assert.InDelta(t, 1.0, g.G1(core.Vec3{Z: 1}, m, true), 1e-12)

	grazing := core.SphericalDirection(1.45, 0.3)
	assert.Less(t, g.G1(grazing, m, true), 1.0)
	assert.Greater(t, g.G1(grazing, m, true), 0.0)

	// below the horizon or backfacing the microfacet it vanishes
	assert.Zero(t, g.G1(core.Vec3{Z: -1}, m, true))
	assert.Zero(t, g.G1(core.Vec3{Z: 1}, core.Vec3{Z: -1}, true))
	assert.Zero(t, g.G1(core.Vec3{Z: 1}, m, false))
}

func TestGGX_SampleInvalidXi(t *testing.T) {
	g := NewGGX(0.5)
	view := core.Vec3{Z: 1}

	assert.Equal(t, core.Vec3{}, g.Sample(view, core.Vec2{X: 1.2, Y: 0.5}, true))
	assert.Equal(t, core.Vec3{}, g.Sample(view, core.Vec2{X: 0.5, Y: -0.1}, true))
	assert.Equal(t, core.Vec3{}, g.Sample(view, core.Vec2{X: 0.5, Y: 0.5}, false))
}
