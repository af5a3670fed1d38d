package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"math/rand"
	"os"

	"github.com/bsdfbenchmark/go-bbm/pkg/bsdf"
	"github.com/bsdfbenchmark/go-bbm/pkg/core"
)

// plotConfig describes a longitude/latitude plot of the lobe around one
// view direction. Pixel (x, y) covers azimuth 2π·x/width and polar angle
// π·y/height, so the upper hemisphere fills the top half of the image.
type plotConfig struct {
	width   int
	height  int
	samples int
	view    core.Vec3
	light   core.Vec3
	scale   float64
	workers int
	seed    int64
}

func gray(v float64) bsdf.Spectrum {
	return bsdf.Spectrum{X: v, Y: v, Z: v}
}

// plotEval renders eval·cosθ of the incident direction per pixel
func plotEval(model bsdf.Model, cfg plotConfig) []bsdf.Spectrum {
	grid := make([]bsdf.Spectrum, cfg.width*cfg.height)

	pool := newWorkerPool(cfg.workers, cfg.seed)
	for y := 0; y < cfg.height; y++ {
		pool.submit(func(rng *rand.Rand) {
			for x := 0; x < cfg.width; x++ {
				var sum bsdf.Spectrum
				for s := 0; s < cfg.samples; s++ {
					theta := math.Pi * (float64(y) + rng.Float64()) / float64(cfg.height)
					phi := 2 * math.Pi * (float64(x) + rng.Float64()) / float64(cfg.width)
					light := core.SphericalDirection(theta, phi)

					sum = sum.Add(model.Eval(light, cfg.view, bsdf.All, bsdf.Radiance, true).Multiply(core.CosTheta(light)))
				}
				grid[y*cfg.width+x] = sum.Multiply(1.0 / float64(cfg.samples)) // rows never overlap
			}
		})
	}
	pool.wait()

	return grid
}

// plotPdf renders the probability mass each pixel's solid angle receives,
// so the full image sums to the pdf integral
func plotPdf(model bsdf.Model, cfg plotConfig) []bsdf.Spectrum {
	grid := make([]bsdf.Spectrum, cfg.width*cfg.height)
	pixels := float64(cfg.width * cfg.height)

	pool := newWorkerPool(cfg.workers, cfg.seed)
	for y := 0; y < cfg.height; y++ {
		pool.submit(func(rng *rand.Rand) {
			for x := 0; x < cfg.width; x++ {
				sum := 0.0
				for s := 0; s < cfg.samples; s++ {
					theta := math.Pi * (float64(y) + rng.Float64()) / float64(cfg.height)
					phi := 2 * math.Pi * (float64(x) + rng.Float64()) / float64(cfg.width)
					light := core.SphericalDirection(theta, phi)

					weight := 2 * math.Pi * math.Pi * math.Abs(math.Sin(theta)) / pixels
					sum += model.Pdf(light, cfg.view, bsdf.All, bsdf.Radiance, true) * weight
				}
				grid[y*cfg.width+x] = gray(sum / float64(cfg.samples))
			}
		})
	}
	pool.wait()

	return grid
}

// plotSample bins directions drawn from the model, normalized so the image
// sums to the fraction of draws that carried a usable pdf
func plotSample(model bsdf.Model, cfg plotConfig) []bsdf.Spectrum {
	chunks := splitSamples(cfg.samples*cfg.width*cfg.height, cfg.workers)
	counts := make([][]int, len(chunks))

	pool := newWorkerPool(cfg.workers, cfg.seed)
	for c, n := range chunks {
		pool.submit(func(rng *rand.Rand) {
			grid := make([]int, cfg.width*cfg.height)
			for s := 0; s < n; s++ {
				sample := model.Sample(cfg.view, rndVec2(rng), bsdf.All, bsdf.Radiance, true)
				if sample.Pdf <= core.Epsilon {
					continue
				}

				x := int(math.Min(core.SphericalPhi(sample.Direction)/(2*math.Pi)*float64(cfg.width), float64(cfg.width-1)))
				y := int(math.Min(core.SphericalTheta(sample.Direction)/math.Pi*float64(cfg.height), float64(cfg.height-1)))
				grid[y*cfg.width+x]++
			}
			counts[c] = grid
		})
	}
	pool.wait()

	weight := 1.0 / float64(cfg.width*cfg.height*cfg.samples)
	grid := make([]bsdf.Spectrum, cfg.width*cfg.height)
	for _, chunk := range counts {
		for idx, n := range chunk {
			grid[idx] = grid[idx].Add(gray(float64(n) * weight))
		}
	}
	return grid
}

// vec3ToColor converts a Vec3 color to RGBA with proper clamping and gamma correction
func vec3ToColor(colorVec core.Vec3) color.RGBA {
	// Apply gamma correction (gamma = 2.0)
	colorVec = colorVec.GammaCorrect(2.0)

	// Clamp to valid color range
	colorVec = colorVec.Clamp(0.0, 1.0)

	return color.RGBA{
		R: uint8(255 * colorVec.X),
		G: uint8(255 * colorVec.Y),
		B: uint8(255 * colorVec.Z),
		A: 255,
	}
}

// writePNG scales the grid and encodes it as a PNG image
func writePNG(filename string, grid []bsdf.Spectrum, width, height int, scale float64) error {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, vec3ToColor(grid[y*width+x].Multiply(scale)))
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create plot file: %v", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %v", err)
	}
	return nil
}
