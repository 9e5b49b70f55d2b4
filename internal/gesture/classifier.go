package gesture

import (
	"fmt"
	"log"

	"github.com/DurjaMan27/hand-tracker/internal/detector"
)

// Pinch distances that pick the zoom direction when a zoom cue arms.
// Anything between them cancels the zoom.
const (
	zoomInBelow  = 0.10
	zoomOutAbove = 0.14
)

// Classifier is the gesture state machine for a single tracked hand.
// It is not safe for concurrent use.
type Classifier struct {
	cfg    Config
	sink   Sink
	logger Logger

	state       State
	orientation *Ring[detector.HandLandmarks]
	zoom        *Ring[Sample]
	rotation    *Ring[Sample]
}

// NewClassifier creates a classifier in the idle state. A nil sink discards
// deltas and a nil logger discards events.
func NewClassifier(cfg Config, sink Sink, logger Logger) (*Classifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sink == nil {
		sink = NopSink{}
	}

	return &Classifier{
		cfg:         cfg,
		sink:        sink,
		logger:      logger,
		orientation: NewRing[detector.HandLandmarks](cfg.OrientationHistorySize),
		zoom:        NewRing[Sample](cfg.ZoomHistorySize),
		rotation:    NewRing[Sample](cfg.RotationHistorySize),
	}, nil
}

// Config returns the thresholds the classifier runs with.
func (c *Classifier) Config() Config { return c.cfg }

// State returns a copy of the current state.
func (c *Classifier) State() State { return c.state.clone() }

// Phase returns the current gesture phase.
func (c *Classifier) Phase() Phase { return c.state.Phase() }

// ZoomHistory returns the zoom samples, oldest first.
func (c *Classifier) ZoomHistory() []Sample { return c.zoom.Snapshot() }

// RotationHistory returns the rotation samples, oldest first.
func (c *Classifier) RotationHistory() []Sample { return c.rotation.Snapshot() }

// OrientationHistoryLen returns the number of raw frames retained.
func (c *Classifier) OrientationHistoryLen() int { return c.orientation.Len() }

// OnPoints validates a raw landmark slice and feeds it to OnFrame.
func (c *Classifier) OnPoints(points []detector.Point3D, t float64) error {
	hand, err := detector.NewHandLandmarks(points)
	if err != nil {
		return err
	}
	return c.OnFrame(&hand, t)
}

// OnFrame advances the state machine by one frame captured at t seconds.
// Frames without a usable scale reference are skipped silently. The only
// error is ErrMalformedFrame for a nil hand.
func (c *Classifier) OnFrame(hand *detector.HandLandmarks, t float64) error {
	if hand == nil {
		return fmt.Errorf("%w: nil hand", detector.ErrMalformedFrame)
	}

	c.orientation.Push(*hand)

	f, ok := Extract(hand)
	if !ok {
		return nil
	}

	idleArmed := c.state.Mode == ModeIdle && c.state.Armed

	switch {
	case f.closedFist():
		c.zoom.Clear()
		c.rotation.Clear()
		if !c.state.Armed {
			c.state.Armed = true
			c.emit(EventFistArmed, t)
		}

	case idleArmed && f.zoomCue():
		c.startZoom(f, t)

	case idleArmed && f.rotateCue():
		c.startRotation(f, t)

	case c.state.Mode.Zooming():
		c.continueZoom(f, t)

	case c.state.Mode == ModeRotating:
		c.continueRotation(f, t)
	}

	return nil
}

func (c *Classifier) startZoom(f Features, t float64) {
	c.zoom.Clear()
	c.rotation.Clear()
	c.state.Armed = false

	c.zoom.Push(Sample{T: t, Value: f.PinchDist})
	c.setLastActive(t)

	switch {
	case f.PinchDist < zoomInBelow:
		c.state.Mode = ModeZoomingIn
		c.emit(EventZoomingIn, t)
	case f.PinchDist > zoomOutAbove:
		c.state.Mode = ModeZoomingOut
		c.emit(EventZoomingOut, t)
	default:
		c.state.Mode = ModeIdle
		c.emit(EventZoomCancelled, t)
	}
}

func (c *Classifier) startRotation(f Features, t float64) {
	c.rotation.Clear()
	c.zoom.Clear()
	c.state.Armed = false

	if c.state.InitialVec == nil {
		v := f.CurrVec
		if c.cfg.UseDepth {
			v = f.CurrVec3
		}
		c.state.InitialVec = &v
	}

	c.rotation.Push(Sample{T: t, Value: AngleBetween(f.CurrVec, *c.state.InitialVec)})
	c.state.Mode = ModeRotating
	c.setLastActive(t)
	c.emit(EventRotating, t)
}

func (c *Classifier) continueZoom(f Features, t float64) {
	c.zoom.Push(Sample{T: t, Value: f.PinchDist})

	m, ok := Estimate(c.zoom, c.cfg.MotionStopThreshold, c.cfg.GracePeriod, c.lastActive(t))
	if !ok {
		return
	}

	deliver("zoom", func() error { return c.sink.Zoom(m.Speed) })

	switch {
	case m.Active:
		c.setLastActive(m.T2)
	case m.Stopped:
		c.state.Mode = ModeIdle
		c.emit(EventZoomStopped, t)
	}
}

func (c *Classifier) continueRotation(f Features, t float64) {
	// A fist held mid-rotation clears the history but not the reference,
	// so InitialVec is always set here.
	initial := *c.state.InitialVec

	c.rotation.Push(Sample{T: t, Value: AngleBetween(f.CurrVec, initial)})

	m, ok := Estimate(c.rotation, c.cfg.AngularStopThreshold, c.cfg.GracePeriod, c.lastActive(t))
	if !ok {
		return
	}

	curr := f.CurrVec
	if c.cfg.UseDepth {
		curr = f.CurrVec3
	}
	axis := RotationAxis(curr, initial)

	deliver("rotation", func() error { return c.sink.Rotate(axis, m.Delta*c.cfg.RotationDamping) })

	switch {
	case m.Active:
		c.setLastActive(m.T2)
	case m.Stopped:
		c.state.Mode = ModeIdle
		c.state.InitialVec = nil
		c.emit(EventRotationStopped, t)
	}
}

// deliver runs one sink call. Errors and panics are logged and dropped so a
// failing sink never stalls the state machine.
func deliver(op string, apply func() error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Error applying %s: sink panicked: %v", op, r)
		}
	}()
	if err := apply(); err != nil {
		log.Printf("Error applying %s: %v", op, err)
	}
}

func (c *Classifier) lastActive(fallback float64) float64 {
	if c.state.LastActive == nil {
		return fallback
	}
	return *c.state.LastActive
}

func (c *Classifier) setLastActive(t float64) {
	c.state.LastActive = &t
}

func (c *Classifier) emit(kind EventKind, t float64) {
	if c.logger == nil {
		return
	}
	c.logger.Log(Event{
		Kind:    kind,
		Phase:   c.state.Phase(),
		Message: eventMessages[kind],
		Time:    t,
	})
}

