package detector

import (
	"math"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands []HandLandmarks
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Calls reports how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// Fixture geometry shared by the preset poses. The wrist sits 0.1 below the
// middle MCP, so every normalized measurement is the raw distance times ten.
var (
	fixtureWrist     = Point3D{X: 0.5, Y: 0.9}
	fixtureMiddleMCP = Point3D{X: 0.5, Y: 0.8}
)

func fixtureBase() HandLandmarks {
	lm := HandLandmarks{Handedness: "Right", Score: 0.95}
	lm.Points[Wrist] = fixtureWrist
	lm.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.85}
	lm.Points[ThumbMCP] = Point3D{X: 0.57, Y: 0.80}
	lm.Points[IndexMCP] = Point3D{X: 0.54, Y: 0.79}
	lm.Points[MiddleMCP] = fixtureMiddleMCP
	lm.Points[RingMCP] = Point3D{X: 0.46, Y: 0.80}
	lm.Points[PinkyMCP] = Point3D{X: 0.43, Y: 0.81}
	return lm
}

// ClosedFistLandmarks returns a closed fist: every finger joint and the thumb
// are bunched within a few thousandths of each other above the palm.
func ClosedFistLandmarks() HandLandmarks {
	lm := fixtureBase()

	lm.Points[ThumbIP] = Point3D{X: 0.503, Y: 0.752, Z: -0.01}
	lm.Points[ThumbTip] = Point3D{X: 0.502, Y: 0.750, Z: -0.01}

	fingers := [][3]int{
		{IndexPIP, IndexDIP, IndexTip},
		{MiddlePIP, MiddleDIP, MiddleTip},
		{RingPIP, RingDIP, RingTip},
		{PinkyPIP, PinkyDIP, PinkyTip},
	}
	for f, joints := range fingers {
		x := 0.503 - 0.002*float64(f)
		for j, idx := range joints {
			lm.Points[idx] = Point3D{X: x, Y: 0.748 + 0.002*float64(j), Z: -0.02}
		}
	}

	return lm
}

// ZoomPoseLandmarks returns the zoom cue: middle, ring and pinky curled
// together, index finger raised above them, and the thumb tip held pinch
// to the right of the index tip.
func ZoomPoseLandmarks(pinch float64) HandLandmarks {
	lm := fixtureBase()

	for _, idx := range []int{MiddlePIP, MiddleDIP, MiddleTip, RingPIP, RingDIP, RingTip, PinkyPIP, PinkyDIP, PinkyTip} {
		lm.Points[idx] = Point3D{X: 0.5, Y: 0.7}
	}
	for _, idx := range []int{IndexPIP, IndexDIP, IndexTip} {
		lm.Points[idx] = Point3D{X: 0.5, Y: 0.6}
	}
	lm.Points[ThumbIP] = Point3D{X: 0.5 + pinch, Y: 0.6}
	lm.Points[ThumbTip] = Point3D{X: 0.5 + pinch, Y: 0.6}

	return lm
}

// RotatePoseLandmarks returns the rotate cue: all four fingers curled to one
// point and the thumb extended 0.1 away from it. theta is the direction of
// the thumb-to-middle-tip vector in radians.
func RotatePoseLandmarks(theta float64) HandLandmarks {
	lm := fixtureBase()

	center := Point3D{X: 0.5, Y: 0.7}
	for _, idx := range []int{
		IndexPIP, IndexDIP, IndexTip,
		MiddlePIP, MiddleDIP, MiddleTip,
		RingPIP, RingDIP, RingTip,
		PinkyPIP, PinkyDIP, PinkyTip,
	} {
		lm.Points[idx] = center
	}

	thumb := Point3D{X: center.X - 0.1*math.Cos(theta), Y: center.Y - 0.1*math.Sin(theta)}
	lm.Points[ThumbIP] = thumb
	lm.Points[ThumbTip] = thumb

	return lm
}

// DegenerateLandmarks returns a frame whose wrist coincides with the middle
// MCP, so no scale reference can be derived from it.
func DegenerateLandmarks() HandLandmarks {
	lm := ClosedFistLandmarks()
	lm.Points[Wrist] = lm.Points[MiddleMCP]
	return lm
}

// OpenPalmLandmarks returns a preset HandLandmarks representing an open palm gesture.
// All fingers are extended outward.
func OpenPalmLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	landmarks.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
	landmarks.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
	landmarks.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}

	landmarks.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68, Z: 0.0}
	landmarks.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.55, Z: 0.0}
	landmarks.Points[IndexDIP] = Point3D{X: 0.58, Y: 0.45, Z: 0.0}
	landmarks.Points[IndexTip] = Point3D{X: 0.58, Y: 0.35, Z: 0.0}

	landmarks.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66, Z: 0.0}
	landmarks.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.52, Z: 0.0}
	landmarks.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.40, Z: 0.0}
	landmarks.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.28, Z: 0.0}

	landmarks.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68, Z: 0.0}
	landmarks.Points[RingPIP] = Point3D{X: 0.43, Y: 0.55, Z: 0.0}
	landmarks.Points[RingDIP] = Point3D{X: 0.42, Y: 0.45, Z: 0.0}
	landmarks.Points[RingTip] = Point3D{X: 0.42, Y: 0.35, Z: 0.0}

	landmarks.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70, Z: 0.0}
	landmarks.Points[PinkyPIP] = Point3D{X: 0.37, Y: 0.60, Z: 0.0}
	landmarks.Points[PinkyDIP] = Point3D{X: 0.35, Y: 0.50, Z: 0.0}
	landmarks.Points[PinkyTip] = Point3D{X: 0.34, Y: 0.42, Z: 0.0}

	return landmarks
}
