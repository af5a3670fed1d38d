package main

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mathext"

	"github.com/bsdfbenchmark/go-bbm/pkg/bsdf"
	"github.com/bsdfbenchmark/go-bbm/pkg/core"
)

// checkConfig bundles the knobs shared by the validation runs
type checkConfig struct {
	samples    int
	numTheta   int
	trials     int
	binsTheta  int
	binsPhi    int
	pdfSamples int
	importance bool
	sphere     bool
	workers    int
	seed       int64
}

func rndVec2(rng *rand.Rand) core.Vec2 {
	return core.NewVec2(rng.Float64(), rng.Float64())
}

// testDirection draws the direction a validation probes, uniform over the
// upper hemisphere or over the full sphere
func testDirection(rng *rand.Rand, sphere bool) core.Vec3 {
	if sphere {
		dir, _ := core.SampleUniformSphere(rndVec2(rng))
		return dir
	}
	dir, _ := core.SampleUniformHemisphere(rndVec2(rng))
	return dir
}

// reflectanceResult compares a Monte-Carlo integral of eval against the
// closed-form reflectance for one outgoing direction
type reflectanceResult struct {
	Out      core.Vec3
	Estimate bsdf.Spectrum
	Closed   bsdf.Spectrum
}

// checkReflectance integrates eval·cosθ over incident directions for a set
// of outgoing polar angles. With importance enabled the model's own sampling
// drives the estimate; otherwise directions are drawn uniformly from the
// sphere, where eval vanishes below the horizon.
func checkReflectance(model bsdf.Model, cfg checkConfig) []reflectanceResult {
	results := make([]reflectanceResult, cfg.numTheta)

	for i := range results {
		out := core.SphericalDirection(float64(i)*0.5*math.Pi/float64(cfg.numTheta), 0)

		chunks := splitSamples(cfg.samples, cfg.workers)
		partials := make([]bsdf.Spectrum, len(chunks))
		pool := newWorkerPool(cfg.workers, cfg.seed+int64(i))
		for c, n := range chunks {
			pool.submit(func(rng *rand.Rand) {
				var sum bsdf.Spectrum
				for s := 0; s < n; s++ {
					xi := rndVec2(rng)
					var dir core.Vec3
					var pdf float64
					if cfg.importance {
						sample := model.Sample(out, xi, bsdf.All, bsdf.Radiance, true)
						dir, pdf = sample.Direction, sample.Pdf
					} else {
						dir, pdf = core.SampleUniformSphere(xi)
					}
					if pdf > core.Epsilon {
						sum = sum.Add(model.Eval(dir, out, bsdf.All, bsdf.Radiance, true).Multiply(dir.Z / pdf))
					}
				}
				partials[c] = sum // each chunk owns its slot
			})
		}
		pool.wait()

		var estimate bsdf.Spectrum
		for _, part := range partials {
			estimate = estimate.Add(part)
		}
		results[i] = reflectanceResult{
			Out:      out,
			Estimate: estimate.Multiply(1.0 / float64(cfg.samples)),
			Closed:   model.Reflectance(out, bsdf.All, bsdf.Radiance, true),
		}
	}
	return results
}

// symmetryResult reports the average and worst absolute difference found by
// a pairwise direction scan, plus the pair that produced the worst case
type symmetryResult struct {
	Average bsdf.Spectrum
	Max     bsdf.Spectrum
	In      core.Vec3
	Out     core.Vec3
}

func symmetryScan(cfg checkConfig, diff func(in, out core.Vec3) bsdf.Spectrum) symmetryResult {
	chunks := splitSamples(cfg.samples, cfg.workers)
	partials := make([]symmetryResult, len(chunks))

	pool := newWorkerPool(cfg.workers, cfg.seed)
	for c, n := range chunks {
		pool.submit(func(rng *rand.Rand) {
			var part symmetryResult
			for s := 0; s < n; s++ {
				in, _ := core.SampleUniformSphere(rndVec2(rng))
				out, _ := core.SampleUniformSphere(rndVec2(rng))

				d := diff(in, out)
				part.Average = part.Average.Add(d)
				if d.Sum() > part.Max.Sum() {
					part.Max, part.In, part.Out = d, in, out
				}
			}
			partials[c] = part
		})
	}
	pool.wait()

	var total symmetryResult
	for _, part := range partials {
		total.Average = total.Average.Add(part.Average)
		if part.Max.Sum() > total.Max.Sum() {
			total.Max, total.In, total.Out = part.Max, part.In, part.Out
		}
	}
	total.Average = total.Average.Multiply(1.0 / float64(cfg.samples))
	return total
}

// checkReciprocity scans for |f(in,out) - f(out,in)| under one unit
func checkReciprocity(model bsdf.Model, unit bsdf.Unit, cfg checkConfig) symmetryResult {
	return symmetryScan(cfg, func(in, out core.Vec3) bsdf.Spectrum {
		forward := model.Eval(in, out, bsdf.All, unit, true)
		reverse := model.Eval(out, in, bsdf.All, unit, true)
		return forward.Subtract(reverse).Abs()
	})
}

// checkAdjoint scans for differences between radiance transport and the
// importance transport with in and out swapped
func checkAdjoint(model bsdf.Model, cfg checkConfig) symmetryResult {
	return symmetryScan(cfg, func(in, out core.Vec3) bsdf.Spectrum {
		forward := model.Eval(in, out, bsdf.All, bsdf.Radiance, true)
		adjoint := model.Eval(out, in, bsdf.All, bsdf.Importance, true)
		return forward.Subtract(adjoint).Abs()
	})
}

// pdfResult counts pdf sign violations and sampled directions below the
// horizon, and reports the average |sample.Pdf - Pdf()| disagreement
type pdfResult struct {
	Negative     int
	BelowHorizon int
	Mismatch     float64
}

func checkPdf(model bsdf.Model, unit bsdf.Unit, cfg checkConfig) pdfResult {
	chunks := splitSamples(cfg.samples, cfg.workers)
	partials := make([]pdfResult, len(chunks))

	pool := newWorkerPool(cfg.workers, cfg.seed)
	for c, n := range chunks {
		pool.submit(func(rng *rand.Rand) {
			var part pdfResult
			for s := 0; s < n; s++ {
				view := testDirection(rng, cfg.sphere)
				sample := model.Sample(view, rndVec2(rng), bsdf.All, unit, true)
				if sample.Direction.Z < 0 {
					part.BelowHorizon++
				}

				pdf := model.Pdf(sample.Direction, view, bsdf.All, unit, true)
				if pdf < 0 {
					part.Negative++
				}
				part.Mismatch += math.Abs(sample.Pdf - pdf)
			}
			partials[c] = part
		})
	}
	pool.wait()

	var total pdfResult
	for _, part := range partials {
		total.Negative += part.Negative
		total.BelowHorizon += part.BelowHorizon
		total.Mismatch += part.Mismatch
	}
	total.Mismatch /= float64(cfg.samples)
	return total
}

// pdfIntegralResult holds the Monte-Carlo integral of the pdf over the
// sphere for one view direction; a proper density integrates to one
type pdfIntegralResult struct {
	View     core.Vec3
	Integral float64
}

func checkPdfIntegral(model bsdf.Model, unit bsdf.Unit, cfg checkConfig) []pdfIntegralResult {
	results := make([]pdfIntegralResult, cfg.trials)
	viewRng := rand.New(rand.NewSource(cfg.seed))

	for trial := range results {
		view := testDirection(viewRng, cfg.sphere)

		chunks := splitSamples(cfg.samples, cfg.workers)
		partials := make([]float64, len(chunks))
		pool := newWorkerPool(cfg.workers, cfg.seed+int64(trial))
		for c, n := range chunks {
			pool.submit(func(rng *rand.Rand) {
				sum := 0.0
				for s := 0; s < n; s++ {
					dir, pdf := core.SampleUniformSphere(rndVec2(rng))
					sum += model.Pdf(dir, view, bsdf.All, unit, true) / pdf
				}
				partials[c] = sum
			})
		}
		pool.wait()

		integral := 0.0
		for _, part := range partials {
			integral += part
		}
		results[trial] = pdfIntegralResult{View: view, Integral: integral / float64(cfg.samples)}
	}
	return results
}

// chiSquareResult reports one trial of the sample-versus-pdf histogram
// comparison. PValue is NaN when too few bins passed the count threshold.
type chiSquareResult struct {
	View   core.Vec3
	Chi2   float64
	Dof    int
	PValue float64
}

// checkSample bins sampled directions over a longitude/latitude grid and
// compares the counts against a per-bin Monte-Carlo integral of the pdf
// with Pearson's chi-square statistic.
func checkSample(model bsdf.Model, cfg checkConfig) []chiSquareResult {
	results := make([]chiSquareResult, cfg.trials)
	viewRng := rand.New(rand.NewSource(cfg.seed))
	bins := cfg.binsTheta * cfg.binsPhi

	for trial := range results {
		view := testDirection(viewRng, cfg.sphere)

		// expected probability mass per bin
		masses := make([]float64, bins)
		pool := newWorkerPool(cfg.workers, cfg.seed+int64(trial))
		for t := 0; t < cfg.binsTheta; t++ {
			pool.submit(func(rng *rand.Rand) {
				for p := 0; p < cfg.binsPhi; p++ {
					sum := 0.0
					for s := 0; s < cfg.pdfSamples; s++ {
						xi := rndVec2(rng)
						phi := 2 * math.Pi * (float64(p) + xi.X) / float64(cfg.binsPhi)
						theta := math.Pi * (float64(t) + xi.Y) / float64(cfg.binsTheta)
						dir := core.SphericalDirection(theta, phi)

						weight := 2 * math.Pi * math.Pi * math.Abs(math.Sin(theta)) / float64(bins)
						sum += model.Pdf(dir, view, bsdf.All, bsdf.Radiance, true) * weight
					}
					masses[t*cfg.binsPhi+p] = sum / float64(cfg.pdfSamples) // each row owns its slots
				}
			})
		}
		pool.wait()

		// observed counts per bin, zero-pdf samples dropped
		chunks := splitSamples(cfg.samples, cfg.workers)
		counts := make([][]int, len(chunks))
		pool = newWorkerPool(cfg.workers, cfg.seed+int64(trial))
		for c, n := range chunks {
			pool.submit(func(rng *rand.Rand) {
				grid := make([]int, bins)
				for s := 0; s < n; s++ {
					sample := model.Sample(view, rndVec2(rng), bsdf.All, bsdf.Radiance, true)
					if sample.Pdf <= core.Epsilon {
						continue
					}

					t := int(math.Min(core.SphericalTheta(sample.Direction)/math.Pi*float64(cfg.binsTheta), float64(cfg.binsTheta-1)))
					p := int(math.Min(core.SphericalPhi(sample.Direction)/(2*math.Pi)*float64(cfg.binsPhi), float64(cfg.binsPhi-1)))
					grid[t*cfg.binsPhi+p]++
				}
				counts[c] = grid
			})
		}
		pool.wait()

		observed := make([]int, bins)
		for _, grid := range counts {
			for idx, n := range grid {
				observed[idx] += n
			}
		}

		// bins with a tiny expectation or too few hits carry no evidence
		chi2, accepted := 0.0, 0
		for idx, mass := range masses {
			expected := mass * float64(cfg.samples)
			if expected > core.Epsilon && observed[idx] > 5 {
				d := float64(observed[idx]) - expected
				chi2 += d * d / expected
				accepted++
			}
		}

		dof := accepted - 1
		pValue := math.NaN()
		if dof > 1 {
			pValue = mathext.GammaIncRegComp(float64(dof-1)/2, chi2/2)
		}
		results[trial] = chiSquareResult{View: view, Chi2: chi2, Dof: dof, PValue: pValue}
	}
	return results
}
