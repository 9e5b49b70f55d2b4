// Package app runs the camera pipeline: capture, hand detection, gesture
// classification and object manipulation.
package app

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/DurjaMan27/hand-tracker/internal/capture"
	"github.com/DurjaMan27/hand-tracker/internal/detector"
	"github.com/DurjaMan27/hand-tracker/internal/eventlog"
	"github.com/DurjaMan27/hand-tracker/internal/gesture"
	"github.com/DurjaMan27/hand-tracker/internal/manipulator"
)

// Config holds configuration options for the application.
type Config struct {
	CameraID int
	FPS      int

	// Gesture is the initial classifier config. SetGestureConfig replaces it.
	Gesture gesture.Config

	// Events receives gesture events tagged with the session id. May be nil.
	Events *eventlog.Log

	// Camera and Detector override the gocv webcam and the MediaPipe
	// detector.
	Camera   capture.Camera
	Detector detector.Detector
}

// App owns one camera session and the object it manipulates.
type App struct {
	config    Config
	sessionID string
	camera    capture.Camera
	detector  detector.Detector
	object    *manipulator.Manipulator
	logger    gesture.Logger

	mu         sync.RWMutex
	classifier *gesture.Classifier
	enabled    bool
	start      time.Time // capture time of the first processed frame
	stopCh     chan struct{}
	doneCh     chan struct{}
}

// New creates an App. Detection starts enabled.
func New(config Config) (*App, error) {
	if config.FPS <= 0 {
		config.FPS = capture.DefaultFPS
	}

	a := &App{
		config:    config,
		sessionID: uuid.New().String(),
		camera:    config.Camera,
		detector:  config.Detector,
		object:    manipulator.New(),
		enabled:   true,
	}

	if a.camera == nil {
		a.camera = capture.NewCamera(config.CameraID)
	}
	a.camera.SetFPS(config.FPS)

	if a.detector == nil {
		// Try MediaPipe first, fall back to mock detector
		if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
			a.detector = mp
			log.Println("Using MediaPipe hand detection")
		} else {
			log.Printf("MediaPipe not available (%v), using mock detector", err)
			a.detector = detector.NewMockDetector()
		}
	}

	if config.Events != nil {
		a.logger = config.Events.ForSession(a.sessionID)
	}

	c, err := gesture.NewClassifier(config.Gesture, a.object, a.logger)
	if err != nil {
		return nil, fmt.Errorf("create classifier: %w", err)
	}
	a.classifier = c

	return a, nil
}

// SessionID identifies this pipeline run in the event log.
func (a *App) SessionID() string { return a.sessionID }

// SetEnabled enables or disables gesture detection.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// Enabled reports whether gesture detection is on.
func (a *App) Enabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// Phase returns the classifier's current phase.
func (a *App) Phase() gesture.Phase {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.classifier.Phase()
}

// Transform returns the object's current transform.
func (a *App) Transform() manipulator.Transform {
	return a.object.Snapshot()
}

// ResetObject returns the object to the identity transform.
func (a *App) ResetObject() {
	a.object.Reset()
}

// GestureConfig returns the config the classifier runs with.
func (a *App) GestureConfig() gesture.Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.classifier.Config()
}

// SetGestureConfig swaps in a classifier built from cfg. Any gesture in
// progress is dropped and the classifier starts idle. An invalid cfg leaves
// the running classifier untouched.
func (a *App) SetGestureConfig(cfg gesture.Config) error {
	c, err := gesture.NewClassifier(cfg, a.object, a.logger)
	if err != nil {
		return fmt.Errorf("create classifier: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.classifier = c
	a.start = time.Time{}
	return nil
}

// ProcessHand feeds one hand captured at the given time to the classifier.
// Timestamps are seconds since the first processed frame.
func (a *App) ProcessHand(hand *detector.HandLandmarks, captured time.Time) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.start.IsZero() {
		a.start = captured
	}
	return a.classifier.OnFrame(hand, captured.Sub(a.start).Seconds())
}

// Running reports whether the detection pipeline is running.
func (a *App) Running() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stopCh != nil
}

// Start opens the camera and begins the detection pipeline. Starting a
// running App is a no-op. A pipeline that ended because the camera ran out
// of frames can be started again.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}

	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go a.runPipeline(a.stopCh, a.doneCh, time.Second/time.Duration(a.config.FPS))

	log.Printf("Detection pipeline started (session %s, %d fps)", a.sessionID, a.config.FPS)
	return nil
}

// Stop halts the pipeline and releases the camera and detector.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh, doneCh := a.stopCh, a.doneCh
	a.stopCh, a.doneCh = nil, nil
	a.mu.Unlock()

	if stopCh != nil {
		close(stopCh)
		<-doneCh
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	if err := a.detector.Close(); err != nil {
		log.Printf("Error closing detector: %v", err)
	}

	log.Println("Detection pipeline stopped")
}
