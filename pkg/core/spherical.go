package core

import "math"

// Spherical coordinate conventions: Z is up, theta is the polar angle
// measured from +Z in [0, π], phi is the azimuth in [0, 2π).

// SphericalTheta returns the polar angle of a direction.
// It measures the chord from v to the nearest pole rather than calling
// acos(z), which loses precision for directions near the Z axis.
func SphericalTheta(v Vec3) float64 {
	diff := v
	diff.Z -= Sign(v.Z)
	t := 2.0 * math.Asin(0.5*diff.Length())
	if v.Z >= 0 {
		return t
	}
	return math.Pi - t
}

// SphericalPhi returns the azimuthal angle of a direction, wrapped to [0, 2π)
func SphericalPhi(v Vec3) float64 {
	p := math.Atan2(v.Y, v.X)
	if p < 0 {
		p += 2 * math.Pi
	}
	return p
}

// SphericalDirection converts (theta, phi) angles to a unit direction
func SphericalDirection(theta, phi float64) Vec3 {
	sinTheta, cosTheta := math.Sincos(theta)
	sinPhi, cosPhi := math.Sincos(phi)
	return Vec3{
		X: cosPhi * sinTheta,
		Y: sinPhi * sinTheta,
		Z: cosTheta,
	}
}

// CosTheta returns the cosine of the polar angle of a unit direction
func CosTheta(v Vec3) float64 {
	return v.Z
}

// SinTheta2 returns the squared sine of the polar angle of a unit direction
func SinTheta2(v Vec3) float64 {
	return math.Max(1-v.Z*v.Z, 0)
}

// SinTheta returns the sine of the polar angle of a unit direction
func SinTheta(v Vec3) float64 {
	return math.Sqrt(SinTheta2(v))
}

// TanTheta returns the tangent of the polar angle of a unit direction
func TanTheta(v Vec3) float64 {
	return SinTheta(v) / CosTheta(v)
}

// TanTheta2 returns the squared tangent of the polar angle of a unit direction
func TanTheta2(v Vec3) float64 {
	return SinTheta2(v) / (v.Z * v.Z)
}

// Reflect mirrors v about the normal n. Both v and the result point
// away from the surface.
func Reflect(v, n Vec3) Vec3 {
	return n.Multiply(2 * n.Dot(v)).Subtract(v)
}

// Halfway returns the normalized halfway vector between two directions
func Halfway(a, b Vec3) Vec3 {
	return a.Add(b).Normalize()
}
