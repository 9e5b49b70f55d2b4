// Package gesture turns a stream of hand landmark frames into zoom and
// rotate gestures.
package gesture

import (
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"

	"github.com/DurjaMan27/hand-tracker/internal/detector"
)

// Landmark groups used for spread statistics.
var (
	appendageGroup = []int{
		detector.ThumbIP, detector.ThumbTip,
		detector.IndexPIP, detector.IndexDIP, detector.IndexTip,
		detector.MiddlePIP, detector.MiddleDIP, detector.MiddleTip,
		detector.RingPIP, detector.RingDIP, detector.RingTip,
		detector.PinkyPIP, detector.PinkyDIP, detector.PinkyTip,
	}
	fourFingerGroup = appendageGroup[2:]
	pinchContext    = appendageGroup[5:]
)

// Features are the per-frame geometric measurements the classifier reads.
// Spreads and distances are divided by the wrist to middle-MCP distance,
// except PinchDist which stays in raw image units.
type Features struct {
	AllX, AllY float64 // spread of the appendage group
	VertNorm   float64 // wrist to middle tip

	FourX, FourY float64 // spread of the four fingers without the thumb
	ThumbDist    float64 // thumb tip to the four-finger centroid

	ThreeX, ThreeY float64 // spread of middle, ring and pinky
	PinchDist      float64 // thumb tip to index tip, un-normalized

	// CurrVec points from the thumb tip to the middle tip in the image plane.
	CurrVec r3.Vec
	// CurrVec3 is CurrVec with the depth delta filled in.
	CurrVec3 r3.Vec
}

// Extract computes the features of hand. It returns false when the hand has
// no usable scale reference, in which case the frame must be skipped.
func Extract(hand *detector.HandLandmarks) (Features, bool) {
	refDist := hand.RefDistance()
	if refDist == 0 {
		return Features{}, false
	}

	p := &hand.Points
	var f Features

	f.AllX, f.AllY, _, _ = spread(p, appendageGroup, refDist)
	f.VertNorm = detector.Distance2D(p[detector.Wrist], p[detector.MiddleTip]) / refDist

	var cx, cy float64
	f.FourX, f.FourY, cx, cy = spread(p, fourFingerGroup, refDist)
	f.ThumbDist = detector.Distance2D(p[detector.ThumbTip], detector.Point3D{X: cx, Y: cy}) / refDist

	f.ThreeX, f.ThreeY, _, _ = spread(p, pinchContext, refDist)
	f.PinchDist = detector.Distance2D(p[detector.ThumbTip], p[detector.IndexTip])

	thumb, middle := p[detector.ThumbTip], p[detector.MiddleTip]
	f.CurrVec = r3.Vec{X: middle.X - thumb.X, Y: middle.Y - thumb.Y}
	f.CurrVec3 = r3.Vec{X: f.CurrVec.X, Y: f.CurrVec.Y, Z: middle.Z - thumb.Z}

	return f, true
}

// spread returns the population standard deviation of x and y over group,
// divided by refDist, along with the group centroid.
func spread(p *[detector.NumLandmarks]detector.Point3D, group []int, refDist float64) (sx, sy, cx, cy float64) {
	xs := make([]float64, len(group))
	ys := make([]float64, len(group))
	for i, idx := range group {
		xs[i] = p[idx].X
		ys[i] = p[idx].Y
	}

	cx, sx = stat.PopMeanStdDev(xs, nil)
	cy, sy = stat.PopMeanStdDev(ys, nil)
	return sx / refDist, sy / refDist, cx, cy
}

func (f Features) closedFist() bool {
	return f.AllX < 0.20 && f.AllY < 0.20 && f.PinchDist < 0.70 && f.ThumbDist < 0.35
}

func (f Features) zoomCue() bool {
	return f.ThumbDist > 0.50 && f.ThreeX < 0.08 && f.ThreeY < 0.25 && f.FourY > 0.31
}

func (f Features) rotateCue() bool {
	return f.ThumbDist > 0.70 && f.FourX < 0.10 && f.FourY < 0.27
}
