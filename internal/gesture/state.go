package gesture

import "gonum.org/v1/gonum/spatial/r3"

// Mode is the active manipulation of the classifier. Zooming and rotating
// share one field so they can never be active at the same time.
type Mode int

const (
	ModeIdle Mode = iota
	ModeZoomingIn
	ModeZoomingOut
	ModeRotating
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeZoomingIn:
		return "zooming_in"
	case ModeZoomingOut:
		return "zooming_out"
	case ModeRotating:
		return "rotating"
	default:
		return "unknown"
	}
}

// Zooming reports whether m is either zoom direction.
func (m Mode) Zooming() bool {
	return m == ModeZoomingIn || m == ModeZoomingOut
}

// Phase is the externally reported gesture phase.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseFistArmed  Phase = "fist_armed"
	PhaseZoomingIn  Phase = "zooming_in"
	PhaseZoomingOut Phase = "zooming_out"
	PhaseRotating   Phase = "rotating"
)

// State is the gesture state of one tracked hand.
type State struct {
	Mode Mode

	// Armed is set by a closed fist and cleared when a zoom or rotate cue
	// starts an episode.
	Armed bool

	// InitialVec is the rotation reference. It is captured when the first
	// rotation of an episode begins and cleared when rotation stops.
	InitialVec *r3.Vec

	// LastActive is the timestamp of the last frame whose motion exceeded
	// the stop threshold.
	LastActive *float64
}

// Phase folds the state into a single phase. An active manipulation wins
// over the armed flag.
func (s State) Phase() Phase {
	switch s.Mode {
	case ModeZoomingIn:
		return PhaseZoomingIn
	case ModeZoomingOut:
		return PhaseZoomingOut
	case ModeRotating:
		return PhaseRotating
	}
	if s.Armed {
		return PhaseFistArmed
	}
	return PhaseIdle
}

func (s State) clone() State {
	out := s
	if s.InitialVec != nil {
		v := *s.InitialVec
		out.InitialVec = &v
	}
	if s.LastActive != nil {
		t := *s.LastActive
		out.LastActive = &t
	}
	return out
}
