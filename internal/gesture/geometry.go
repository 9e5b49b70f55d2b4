package gesture

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const geomEpsilon = 1e-6

// DefaultAxis is the rotation axis used when the two rotation vectors are
// parallel and no cross product can be formed.
var DefaultAxis = r3.Vec{Z: 1}

// AngleBetween returns the planar angle in radians between a and b. Only the
// X and Y components are read. The angle is 0 when either vector has zero
// length.
func AngleBetween(a, b r3.Vec) float64 {
	a.Z, b.Z = 0, 0
	if r3.Norm(a) == 0 || r3.Norm(b) == 0 {
		return 0
	}
	// Same as acos(a.b / |a||b|), but stays exact at 0 and pi.
	return math.Atan2(r3.Norm(r3.Cross(a, b)), r3.Dot(a, b))
}

// RotationAxis returns the unit normal of the plane spanned by a and b, or
// DefaultAxis when they are parallel or anti-parallel.
func RotationAxis(a, b r3.Vec) r3.Vec {
	c := r3.Cross(a, b)
	if r3.Norm(c) < geomEpsilon {
		return DefaultAxis
	}
	return r3.Unit(c)
}
