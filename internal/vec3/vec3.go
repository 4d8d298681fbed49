// Package vec3 implements a minimal immutable 3D vector used for
// fixture positions and the spatial phase some effects derive from
// them.
package vec3

import "math"

// Vec3 is an immutable (x, y, z) position.
type Vec3 struct {
	X, Y, Z float64
}

// New constructs a Vec3.
func New(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

// Add returns v+other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns v-other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Scale returns v scaled by factor.
func (v Vec3) Scale(factor float64) Vec3 {
	return Vec3{v.X * factor, v.Y * factor, v.Z * factor}
}

// Dist returns the Euclidean distance between v and other.
func (v Vec3) Dist(other Vec3) float64 {
	d := v.Sub(other)
	return math.Sqrt(d.X*d.X + d.Y*d.Y + d.Z*d.Z)
}
