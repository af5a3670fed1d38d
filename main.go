package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/bsdfbenchmark/go-bbm/pkg/bsdf"
	"github.com/bsdfbenchmark/go-bbm/pkg/core"
	"github.com/bsdfbenchmark/go-bbm/pkg/loaders"
	"github.com/bsdfbenchmark/go-bbm/pkg/ndf"
)

func main() {
	// Parse command line flags
	materialFile := flag.String("material", "", "Material description file (.yaml or .toml)")
	testName := flag.String("test", "", "Validation to run: reflectance, reciprocity, adjoint, pdf, pdfint or sample")
	plotFile := flag.String("plot", "", "Write a plot of the lobe to this PNG file")
	mode := flag.String("mode", "eval", "Plot mode: eval, pdf, sample or render")
	samples := flag.Int("samples", 0, "Monte-Carlo samples (default 100000 per test, 1 per plot pixel)")
	numTheta := flag.Int("theta", 1, "Outgoing polar angles probed by the reflectance test")
	trials := flag.Int("trials", 10, "View directions probed by the pdfint and sample tests")
	binsTheta := flag.Int("bins-theta", 10, "Polar bins for the sample test")
	binsPhi := flag.Int("bins-phi", 20, "Azimuthal bins for the sample test")
	pdfSamples := flag.Int("pdf-samples", 4096, "Per-bin pdf integration samples for the sample test")
	importance := flag.Bool("importance", false, "Importance-sample the reflectance integral")
	sphere := flag.Bool("sphere", false, "Probe view directions on the full sphere instead of the hemisphere")
	width := flag.Int("width", 512, "Plot width in pixels")
	height := flag.Int("height", 256, "Plot height in pixels")
	view := flag.Float64("view", 0, "Polar angle of the plot view direction, in degrees")
	light := flag.String("light", "0,0,-1", "Directional light for render mode, pointing at the surface")
	scale := flag.Float64("scale", 1.0, "Scale factor applied to plot values")
	workers := flag.Int("workers", 0, "Parallel workers (0 uses all CPUs)")
	seed := flag.Int64("seed", 42, "Random seed")
	verbose := flag.Bool("v", false, "Enable debug logging")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	// Show help if requested or when there is nothing to do
	if *help || (*testName == "" && *plotFile == "") {
		fmt.Println("BSDF validator and plotter")
		fmt.Println("Usage: bsdfcheck [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Available tests:")
		fmt.Println("  reflectance - compare a Monte-Carlo integral of eval against the closed-form reflectance")
		fmt.Println("  reciprocity - scan for in/out asymmetries under both transport units")
		fmt.Println("  adjoint     - compare radiance transport against swapped importance transport")
		fmt.Println("  pdf         - count negative pdfs and sample/pdf disagreements")
		fmt.Println("  pdfint      - integrate the pdf over the sphere, which should give one")
		fmt.Println("  sample      - chi-square comparison of sampled directions against the pdf")
		fmt.Println()
		fmt.Println("Plot modes (with -plot <file.png>):")
		fmt.Println("  eval   - longitude/latitude map of eval times the incident cosine")
		fmt.Println("  pdf    - longitude/latitude map of the sampling density")
		fmt.Println("  sample - histogram of directions drawn from the model")
		fmt.Println("  render - orthographic sphere lit by a directional light")
		return
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	model, err := loadModel(*materialFile)
	if err != nil {
		slog.Error("Failed to load material", "file", *materialFile, "error", err)
		os.Exit(1)
	}
	if *verbose {
		for _, attr := range core.Attributes(model) {
			slog.Debug("Model parameter", "name", attr.Name, "value", attr.Value)
		}
	}

	if *plotFile != "" {
		lightDir, err := parseDirection(*light)
		if err != nil {
			slog.Error("Invalid light direction", "light", *light, "error", err)
			os.Exit(1)
		}

		cfg := plotConfig{
			width:   *width,
			height:  *height,
			samples: *samples,
			view:    core.SphericalDirection(*view*math.Pi/180, 0),
			light:   lightDir,
			scale:   *scale,
			workers: *workers,
			seed:    *seed,
		}
		if cfg.samples <= 0 {
			cfg.samples = 1
		}
		if err := runPlot(model, *plotFile, *mode, cfg); err != nil {
			slog.Error("Plot failed", "error", err)
			os.Exit(1)
		}
		return
	}

	cfg := checkConfig{
		samples:    *samples,
		numTheta:   *numTheta,
		trials:     *trials,
		binsTheta:  *binsTheta,
		binsPhi:    *binsPhi,
		pdfSamples: *pdfSamples,
		importance: *importance,
		sphere:     *sphere,
		workers:    *workers,
		seed:       *seed,
	}
	if cfg.samples <= 0 {
		cfg.samples = 100000
	}
	if err := runCheck(model, *testName, cfg); err != nil {
		slog.Error("Validation failed", "error", err)
		os.Exit(1)
	}
}

// parseDirection reads a comma-separated vector like "0,0,-1"
func parseDirection(s string) (core.Vec3, error) {
	var v core.Vec3
	if _, err := fmt.Sscanf(s, "%g,%g,%g", &v.X, &v.Y, &v.Z); err != nil {
		return core.Vec3{}, fmt.Errorf("expected x,y,z components: %v", err)
	}
	if v.Length() == 0 {
		return core.Vec3{}, fmt.Errorf("direction cannot be zero")
	}
	return v, nil
}

// loadModel reads a material description, falling back to a built-in
// diffuse base with a rough specular coat
func loadModel(filename string) (bsdf.Model, error) {
	if filename == "" {
		return defaultModel(), nil
	}
	return loaders.LoadMaterial(filename)
}

func defaultModel() bsdf.Model {
	return bsdf.NewAggregate(
		bsdf.NewLambertian(bsdf.Spectrum{X: 0.6, Y: 0.5, Z: 0.4}),
		bsdf.NewMicrofacet(
			ndf.NewGGX(0.3),
			bsdf.HeightCorrelated{},
			bsdf.NewSchlick(bsdf.Spectrum{X: 0.95, Y: 0.93, Z: 0.88}),
			bsdf.Walter,
		),
	)
}

func runCheck(model bsdf.Model, name string, cfg checkConfig) error {
	units := []bsdf.Unit{bsdf.Radiance, bsdf.Importance}

	switch name {
	case "reflectance":
		slog.Info("Reflectance test", "directions", cfg.numTheta, "samples", cfg.samples, "importance", cfg.importance)
		for _, r := range checkReflectance(model, cfg) {
			slog.Info("Reflectance", "out", r.Out, "estimate", r.Estimate, "closed", r.Closed)
		}
	case "reciprocity":
		slog.Info("Reciprocity test", "samples", cfg.samples)
		for _, unit := range units {
			r := checkReciprocity(model, unit, cfg)
			slog.Info("Reciprocity", "unit", unit, "average", r.Average, "max", r.Max, "in", r.In, "out", r.Out)
		}
	case "adjoint":
		slog.Info("Adjoint test", "samples", cfg.samples)
		r := checkAdjoint(model, cfg)
		slog.Info("Adjoint difference", "average", r.Average, "max", r.Max, "in", r.In, "out", r.Out)
	case "pdf":
		slog.Info("PDF consistency test", "samples", cfg.samples)
		for _, unit := range units {
			r := checkPdf(model, unit, cfg)
			slog.Info("PDF consistency", "unit", unit, "negative", r.Negative, "belowHorizon", r.BelowHorizon, "mismatch", r.Mismatch)
		}
	case "pdfint":
		slog.Info("PDF integral test", "samples", cfg.samples, "trials", cfg.trials)
		for _, unit := range units {
			for _, r := range checkPdfIntegral(model, unit, cfg) {
				slog.Info("PDF integral", "unit", unit, "view", r.View, "integral", r.Integral)
			}
		}
	case "sample":
		slog.Info("Sample distribution test", "samples", cfg.samples, "trials", cfg.trials,
			"bins", fmt.Sprintf("%dx%d", cfg.binsTheta, cfg.binsPhi), "pdfSamples", cfg.pdfSamples)
		for _, r := range checkSample(model, cfg) {
			slog.Info("Chi-square", "view", r.View, "chi2", r.Chi2, "dof", r.Dof, "p", r.PValue)
		}
	default:
		return fmt.Errorf("unknown test %q", name)
	}
	return nil
}

func runPlot(model bsdf.Model, filename, mode string, cfg plotConfig) error {
	var grid []bsdf.Spectrum
	switch mode {
	case "eval":
		grid = plotEval(model, cfg)
	case "pdf":
		grid = plotPdf(model, cfg)
	case "sample":
		grid = plotSample(model, cfg)
	case "render":
		grid = renderSphere(model, cfg)
	default:
		return fmt.Errorf("unknown plot mode %q", mode)
	}

	if err := writePNG(filename, grid, cfg.width, cfg.height, cfg.scale); err != nil {
		return err
	}
	slog.Info("Plot saved", "mode", mode, "file", filename, "width", cfg.width, "height", cfg.height, "samples", cfg.samples)
	return nil
}
