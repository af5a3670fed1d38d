package main

import (
	"math"
	"math/rand"

	"github.com/bsdfbenchmark/go-bbm/pkg/bsdf"
	"github.com/bsdfbenchmark/go-bbm/pkg/core"
)

// sphereNormals builds an orthographic normal map of a sphere filling the
// image. Pixels outside the silhouette hold a zero normal.
func sphereNormals(width, height int) []core.Vec3 {
	normals := make([]core.Vec3, width*height)
	radius := float64(min(width, height)) / 2.0
	center := core.Vec3{X: float64(width) / 2, Y: float64(height) / 2}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			n := center.Subtract(core.Vec3{X: float64(x), Y: float64(y)}).Multiply(1.0 / radius)
			if len2 := n.LengthSquared(); len2 < 1.0 {
				n.Z = math.Sqrt(1.0 - len2)
				normals[y*width+x] = n
			}
		}
	}
	return normals
}

// renderSphere shades the sphere under one directional light viewed head
// on. The light arrives pointing toward the surface and is flipped into
// the away-from-surface convention eval expects.
func renderSphere(model bsdf.Model, cfg plotConfig) []bsdf.Spectrum {
	normals := sphereNormals(cfg.width, cfg.height)
	grid := make([]bsdf.Spectrum, len(normals))

	light := cfg.light.Normalize().Negate()
	view := core.Vec3{Z: 1}

	pool := newWorkerPool(cfg.workers, cfg.seed)
	for y := 0; y < cfg.height; y++ {
		pool.submit(func(_ *rand.Rand) {
			for x := 0; x < cfg.width; x++ {
				n := normals[y*cfg.width+x]
				if n.LengthSquared() <= core.Epsilon {
					continue
				}

				frame := core.NewFrame(n)
				in := frame.ToLocal(light)
				out := frame.ToLocal(view)
				grid[y*cfg.width+x] = model.Eval(in, out, bsdf.All, bsdf.Radiance, true).Multiply(math.Abs(in.Z))
			}
		})
	}
	pool.wait()

	return grid
}
