package gesture

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid gesture config")

// Config holds the tunable thresholds of the classifier.
type Config struct {
	// MotionStopThreshold is the zoom speed (pinch units per second) at or
	// below which the hand counts as still.
	MotionStopThreshold float64 `json:"motion_stop_threshold"`

	// AngularStopThreshold is the same bound for rotation, in radians per second.
	AngularStopThreshold float64 `json:"angular_stop_threshold"`

	// GracePeriod is how long, in seconds, the hand must stay still before a
	// zoom or rotation episode ends.
	GracePeriod float64 `json:"grace_period"`

	// RotationDamping scales every incremental rotation angle handed to the sink.
	RotationDamping float64 `json:"rotation_damping"`

	// UseDepth captures the rotation reference vector with landmark depth.
	UseDepth bool `json:"use_depth"`

	ZoomHistorySize        int `json:"zoom_history_size"`
	RotationHistorySize    int `json:"rotation_history_size"`
	OrientationHistorySize int `json:"orientation_history_size"`
}

// DefaultConfig returns the canonical thresholds: a shared 0.065 stillness
// bound, a one second grace period, undamped planar rotation.
func DefaultConfig() Config {
	return Config{
		MotionStopThreshold:    0.065,
		AngularStopThreshold:   0.065,
		GracePeriod:            1.0,
		RotationDamping:        1.0,
		UseDepth:               false,
		ZoomHistorySize:        50,
		RotationHistorySize:    50,
		OrientationHistorySize: 100,
	}
}

// BrowserConfig returns the thresholds tuned for in-browser tracking, which
// reports noisier angles: a looser angular bound, a shorter grace period and
// damped 3D rotation.
func BrowserConfig() Config {
	cfg := DefaultConfig()
	cfg.AngularStopThreshold = 0.2
	cfg.GracePeriod = 0.8
	cfg.RotationDamping = 0.8
	cfg.UseDepth = true
	return cfg
}

// Validate reports the first out-of-range field.
func (c Config) Validate() error {
	switch {
	case c.MotionStopThreshold < 0:
		return fmt.Errorf("%w: motion_stop_threshold must be >= 0, got %v", ErrInvalidConfig, c.MotionStopThreshold)
	case c.AngularStopThreshold < 0:
		return fmt.Errorf("%w: angular_stop_threshold must be >= 0, got %v", ErrInvalidConfig, c.AngularStopThreshold)
	case c.GracePeriod < 0:
		return fmt.Errorf("%w: grace_period must be >= 0, got %v", ErrInvalidConfig, c.GracePeriod)
	case c.RotationDamping <= 0 || c.RotationDamping > 1:
		return fmt.Errorf("%w: rotation_damping must be in (0, 1], got %v", ErrInvalidConfig, c.RotationDamping)
	case c.ZoomHistorySize < minWindow:
		return fmt.Errorf("%w: zoom_history_size must be >= %d, got %d", ErrInvalidConfig, minWindow, c.ZoomHistorySize)
	case c.RotationHistorySize < minWindow:
		return fmt.Errorf("%w: rotation_history_size must be >= %d, got %d", ErrInvalidConfig, minWindow, c.RotationHistorySize)
	case c.OrientationHistorySize < 1:
		return fmt.Errorf("%w: orientation_history_size must be >= 1, got %d", ErrInvalidConfig, c.OrientationHistorySize)
	}
	return nil
}
