package core

import (
	"math"
	"testing"
)

func frameTestNormals() []Vec3 {
	return []Vec3{
		{Z: 1},
		{Z: -1},
		{X: 1},
		{Y: -1},
		{X: 1, Y: 1, Z: 1},
		{X: 1e-9, Z: 1},
		{X: 0.3, Y: -0.4, Z: -0.5},
	}
}

func TestNewFrameOrthonormal(t *testing.T) {
	for _, normal := range frameTestNormals() {
		f := NewFrame(normal)

		for name, length := range map[string]float64{
			"tangent":   f.Tangent.Length(),
			"bitangent": f.Bitangent.Length(),
			"normal":    f.Normal.Length(),
		} {
			if math.Abs(length-1.0) > 1e-12 {
				t.Errorf("Frame %s for normal %v has length %g, expected 1", name, normal, length)
			}
		}

		if dot := f.Tangent.Dot(f.Bitangent); math.Abs(dot) > 1e-12 {
			t.Errorf("Tangent and bitangent not perpendicular for %v: dot = %g", normal, dot)
		}
		if dot := f.Tangent.Dot(f.Normal); math.Abs(dot) > 1e-12 {
			t.Errorf("Tangent and normal not perpendicular for %v: dot = %g", normal, dot)
		}
		if dot := f.Bitangent.Dot(f.Normal); math.Abs(dot) > 1e-12 {
			t.Errorf("Bitangent and normal not perpendicular for %v: dot = %g", normal, dot)
		}

		// right-handed: tangent x bitangent points along the normal
		if cross := f.Tangent.Cross(f.Bitangent).Subtract(f.Normal); cross.Length() > 1e-12 {
			t.Errorf("Frame for %v is not right-handed: %v", normal, cross)
		}
	}
}

func TestFrameToLocalNormal(t *testing.T) {
	for _, normal := range frameTestNormals() {
		f := NewFrame(normal)

		local := f.ToLocal(normal.Normalize())
		if local.Subtract(Vec3{Z: 1}).Length() > 1e-12 {
			t.Errorf("Normal %v does not map onto the local Z axis: %v", normal, local)
		}
	}
}

func TestFrameRoundTrip(t *testing.T) {
	directions := []Vec3{
		{X: 1},
		{Z: -1},
		{X: 0.5, Y: -0.3, Z: 0.8},
		{X: -0.2, Y: 0.9, Z: -0.1},
	}

	for _, normal := range frameTestNormals() {
		f := NewFrame(normal)
		for _, dir := range directions {
			back := f.ToWorld(f.ToLocal(dir))
			if back.Subtract(dir).Length() > 1e-12 {
				t.Errorf("Round trip through frame %v moved %v to %v", normal, dir, back)
			}
		}
	}
}
