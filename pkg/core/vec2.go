package core

// Vec2 represents a 2D vector, used for random-variable pairs and
// spherical (phi, theta) coordinates.
type Vec2 struct {
	X, Y float64
}

// NewVec2 creates a new Vec2
func NewVec2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns the sum of two vectors
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Multiply returns the vector scaled by a scalar
func (v Vec2) Multiply(scalar float64) Vec2 {
	return Vec2{v.X * scalar, v.Y * scalar}
}

// InUnitRange reports whether both components lie in [0, 1].
// Sampling routines use it to validate random-variable pairs.
func (v Vec2) InUnitRange() bool {
	return v.X >= 0 && v.X <= 1 && v.Y >= 0 && v.Y <= 1
}
