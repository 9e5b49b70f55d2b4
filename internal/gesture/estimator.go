package gesture

// minWindow is the number of samples the finite difference spans.
const minWindow = 5

// minDeltaT stands in for a zero time span between duplicate timestamps.
const minDeltaT = 1e-6

// Motion is the result of one finite-difference step over a history window.
type Motion struct {
	Speed float64 // (v2 - v1) / (t2 - t1)
	Delta float64 // v2 - v1
	T2    float64 // timestamp of the newest sample

	// Active is set when |Speed| exceeds the stop threshold.
	Active bool
	// Stopped is set when the hand has been still for longer than the grace period.
	Stopped bool
}

// Estimate differences the newest sample of window against the one four
// places before it. It returns false when the window holds fewer than five
// samples.
func Estimate(window *Ring[Sample], stopThreshold, grace, lastActive float64) (Motion, bool) {
	n := window.Len()
	if n < minWindow {
		return Motion{}, false
	}

	s1 := window.At(n - minWindow)
	s2 := window.At(n - 1)

	deltaT := s2.T - s1.T
	if deltaT == 0 {
		deltaT = minDeltaT
	}

	m := Motion{
		Delta: s2.Value - s1.Value,
		T2:    s2.T,
	}
	m.Speed = m.Delta / deltaT

	switch {
	case m.Speed > stopThreshold || -m.Speed > stopThreshold:
		m.Active = true
	case s2.T-lastActive > grace:
		m.Stopped = true
	}

	return m, true
}
