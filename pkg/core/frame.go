package core

// Frame is an orthonormal shading frame with the normal on the local Z
// axis. The tangent follows Duff et al., "Building an Orthonormal Basis,
// Revisited" (2017), which stays stable for normals near either pole.
type Frame struct {
	Tangent   Vec3
	Bitangent Vec3
	Normal    Vec3
}

// NewFrame builds the shading frame around a normal
func NewFrame(normal Vec3) Frame {
	n := normal.Normalize()
	sign := Sign(n.Z)
	a := -1.0 / (sign + n.Z)
	b := n.X * n.Y * a

	return Frame{
		Tangent:   Vec3{X: 1.0 + sign*n.X*n.X*a, Y: sign * b, Z: -sign * n.X},
		Bitangent: Vec3{X: b, Y: sign + n.Y*n.Y*a, Z: -n.Y},
		Normal:    n,
	}
}

// ToLocal expresses a world-space direction in the frame
func (f Frame) ToLocal(v Vec3) Vec3 {
	return Vec3{X: f.Tangent.Dot(v), Y: f.Bitangent.Dot(v), Z: f.Normal.Dot(v)}
}

// ToWorld expresses a frame-local direction in world space
func (f Frame) ToWorld(v Vec3) Vec3 {
	return f.Tangent.Multiply(v.X).Add(f.Bitangent.Multiply(v.Y)).Add(f.Normal.Multiply(v.Z))
}
