package gesture

import (
	"errors"

	"gonum.org/v1/gonum/spatial/r3"
)

// Sink receives the continuous manipulation deltas of an active gesture.
// It is called at most once per frame.
type Sink interface {
	// Zoom reports the signed pinch speed of an ongoing zoom.
	Zoom(speed float64) error
	// Rotate reports an incremental rotation about a unit axis.
	Rotate(axis r3.Vec, angle float64) error
}

// NopSink discards every delta.
type NopSink struct{}

func (NopSink) Zoom(float64) error          { return nil }
func (NopSink) Rotate(r3.Vec, float64) error { return nil }

type multiSink []Sink

// Sinks fans every delta out to each of sinks in order. All sinks are called
// even if one fails; the errors are joined.
func Sinks(sinks ...Sink) Sink {
	return multiSink(sinks)
}

func (m multiSink) Zoom(speed float64) error {
	var errs []error
	for _, s := range m {
		if err := s.Zoom(speed); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m multiSink) Rotate(axis r3.Vec, angle float64) error {
	var errs []error
	for _, s := range m {
		if err := s.Rotate(axis, angle); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// EventKind identifies a gesture transition.
type EventKind string

const (
	EventFistArmed       EventKind = "fist_armed"
	EventZoomingIn       EventKind = "zooming_in"
	EventZoomingOut      EventKind = "zooming_out"
	EventZoomCancelled   EventKind = "zoom_cancelled"
	EventRotating        EventKind = "rotating"
	EventZoomStopped     EventKind = "zoom_stopped"
	EventRotationStopped EventKind = "rotation_stopped"
)

var eventMessages = map[EventKind]string{
	EventFistArmed:       "Closed hand detected, ready to hear commands",
	EventZoomingIn:       "Zooming in motion detected",
	EventZoomingOut:      "Zooming out motion detected",
	EventZoomCancelled:   "Zooming cancelled, close hand again",
	EventRotating:        "Rotation motion detected",
	EventZoomStopped:     "Zooming motion stopped",
	EventRotationStopped: "Rotation movement stopped",
}

// Event describes one transition of the classifier.
type Event struct {
	Kind    EventKind
	Phase   Phase // phase after the transition
	Message string
	Time    float64 // frame timestamp in seconds
}

// Logger receives classifier events. Implementations must not block.
type Logger interface {
	Log(Event)
}

// LoggerFunc adapts a function to the Logger interface.
type LoggerFunc func(Event)

// Log calls f(e).
func (f LoggerFunc) Log(e Event) { f(e) }
