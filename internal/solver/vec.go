package solver

import (
	"math"

	"github.com/ayusman/kathak/internal/landmark"
)

// vec is a plain 3-vector in the landmark coordinate frame (X+ right,
// Y+ down, Z+ toward the camera).
type vec struct {
	X, Y, Z float64
}

// sub returns the vector from b to a.
func sub(a, b landmark.Point) vec {
	return vec{X: a.X - b.X, Y: a.Y - b.Y, Z: a.Z - b.Z}
}

func (v vec) length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

func (v vec) dot(o vec) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v vec) scale(s float64) vec {
	return vec{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

func (v vec) minus(o vec) vec {
	return vec{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// normalize returns the unit vector and true, or the zero vector and false
// when the length is below eps. Callers must treat the false case as "no
// displacement" and emit a zero rotation.
func (v vec) normalize(eps float64) (vec, bool) {
	l := v.length()
	if l < eps {
		return vec{}, false
	}
	return vec{X: v.X / l, Y: v.Y / l, Z: v.Z / l}, true
}

// horizontal returns the magnitude of the XZ projection.
func (v vec) horizontal() float64 {
	return math.Sqrt(v.X*v.X + v.Z*v.Z)
}

// angleBetween returns the angle between two unit vectors, clamped into
// acos's domain so floating-point drift can never raise a domain fault.
func angleBetween(a, b vec) float64 {
	return math.Acos(clamp(a.dot(b), -1, 1))
}
