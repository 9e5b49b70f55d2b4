// Package detector provides hand detection interfaces and the landmark data model.
package detector

import (
	"errors"
	"fmt"
	"math"
)

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// ErrMalformedFrame is returned when a frame does not carry exactly
// NumLandmarks finite landmarks.
var ErrMalformedFrame = errors.New("malformed hand frame")

// Point3D represents a landmark in normalized camera space. X and Y are in
// [0,1]; Z is relative depth and may be zero when the tracker omits it.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks of one tracked hand.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// NewHandLandmarks builds a HandLandmarks from an untrusted point slice.
// It fails fast with ErrMalformedFrame instead of letting downstream
// arithmetic index missing landmarks.
func NewHandLandmarks(points []Point3D) (HandLandmarks, error) {
	var h HandLandmarks
	if len(points) != NumLandmarks {
		return h, fmt.Errorf("%w: got %d landmarks, want %d", ErrMalformedFrame, len(points), NumLandmarks)
	}

	for i, p := range points {
		if !finite(p.X) || !finite(p.Y) || !finite(p.Z) {
			return h, fmt.Errorf("%w: landmark %d is not finite", ErrMalformedFrame, i)
		}
		h.Points[i] = p
	}

	return h, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Distance2D returns the Euclidean distance between a and b in the image
// plane, ignoring depth.
func Distance2D(a, b Point3D) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// RefDistance returns the wrist to middle-finger-base distance used to
// normalize hand measurements against hand scale.
func (h *HandLandmarks) RefDistance() float64 {
	return Distance2D(h.Points[Wrist], h.Points[MiddleMCP])
}
