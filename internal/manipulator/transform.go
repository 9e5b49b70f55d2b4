// Package manipulator accumulates zoom and rotate deltas into the transform
// of the displayed object.
package manipulator

import (
	"errors"
	"math"
	"sync"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Zoom response settings.
const (
	MaxZoomSpeed = 3.0
	ZoomGain     = 0.05

	DefaultMinScale = 0.1
	DefaultMaxScale = 5.0
)

// ErrZeroAxis is returned by Rotate when the axis cannot be normalized.
var ErrZeroAxis = errors.New("rotation axis has zero length")

// Transform is the accumulated object transform.
type Transform struct {
	Scale       float64
	Orientation quat.Number // unit quaternion
}

// Identity returns the untransformed state.
func Identity() Transform {
	return Transform{Scale: 1, Orientation: quat.Number{Real: 1}}
}

// Apply scales and rotates p about the origin.
func (t Transform) Apply(p r3.Vec) r3.Vec {
	return r3.Scale(t.Scale, r3.Rotation(t.Orientation).Rotate(p))
}

// Manipulator is a gesture sink holding one object transform. It is safe
// for concurrent use.
type Manipulator struct {
	mu       sync.Mutex
	t        Transform
	minScale float64
	maxScale float64
}

// New creates a Manipulator at the identity transform with the default
// scale bounds.
func New() *Manipulator {
	return &Manipulator{
		t:        Identity(),
		minScale: DefaultMinScale,
		maxScale: DefaultMaxScale,
	}
}

// SetScaleBounds changes the allowed scale range. Bounds that are not
// positive and ordered are ignored.
func (m *Manipulator) SetScaleBounds(min, max float64) {
	if min <= 0 || max < min {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.minScale, m.maxScale = min, max
	m.t.Scale = clamp(m.t.Scale, min, max)
}

// Zoom grows or shrinks the object by 5% per unit of pinch speed, with the
// speed clamped to ±3 and the result held inside the scale bounds.
func (m *Manipulator) Zoom(speed float64) error {
	if math.IsNaN(speed) {
		return nil
	}
	speed = clamp(speed, -MaxZoomSpeed, MaxZoomSpeed)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.t.Scale = clamp(m.t.Scale*(1+speed*ZoomGain), m.minScale, m.maxScale)
	return nil
}

// Rotate turns the object by angle radians about axis, applied after the
// current orientation.
func (m *Manipulator) Rotate(axis r3.Vec, angle float64) error {
	if r3.Norm(axis) == 0 {
		return ErrZeroAxis
	}
	q := quat.Number(r3.NewRotation(angle, r3.Unit(axis)))

	m.mu.Lock()
	defer m.mu.Unlock()
	o := quat.Mul(q, m.t.Orientation)
	m.t.Orientation = quat.Scale(1/quat.Abs(o), o)
	return nil
}

// Snapshot returns the current transform.
func (m *Manipulator) Snapshot() Transform {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.t
}

// Reset returns the object to the identity transform.
func (m *Manipulator) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.t = Identity()
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
