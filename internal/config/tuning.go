package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/DurjaMan27/hand-tracker/internal/gesture"
)

const maxTuningFileSize = 1 << 20

// Tuning is a partial gesture.Config. Nil fields keep the value of the
// config it is applied to, so the same JSON works for a startup file and a
// runtime update.
type Tuning struct {
	MotionStopThreshold    *float64 `json:"motion_stop_threshold,omitempty"`
	AngularStopThreshold   *float64 `json:"angular_stop_threshold,omitempty"`
	GracePeriod            *float64 `json:"grace_period,omitempty"`
	RotationDamping        *float64 `json:"rotation_damping,omitempty"`
	UseDepth               *bool    `json:"use_depth,omitempty"`
	ZoomHistorySize        *int     `json:"zoom_history_size,omitempty"`
	RotationHistorySize    *int     `json:"rotation_history_size,omitempty"`
	OrientationHistorySize *int     `json:"orientation_history_size,omitempty"`
}

// LoadTuning reads a Tuning from a .json file of at most 1MB.
func LoadTuning(path string) (*Tuning, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("tuning file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("stat tuning file: %w", err)
	}
	if info.Size() > maxTuningFileSize {
		return nil, fmt.Errorf("tuning file too large: %d bytes (max %d)", info.Size(), maxTuningFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("read tuning file: %w", err)
	}
	return ParseTuning(data)
}

// ParseTuning decodes a Tuning and checks it against the default config.
func ParseTuning(data []byte) (*Tuning, error) {
	t := &Tuning{}
	if err := json.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("parse tuning JSON: %w", err)
	}
	if err := t.Apply(gesture.DefaultConfig()).Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// FromConfig returns a Tuning with every field set from cfg.
func FromConfig(cfg gesture.Config) *Tuning {
	return &Tuning{
		MotionStopThreshold:    &cfg.MotionStopThreshold,
		AngularStopThreshold:   &cfg.AngularStopThreshold,
		GracePeriod:            &cfg.GracePeriod,
		RotationDamping:        &cfg.RotationDamping,
		UseDepth:               &cfg.UseDepth,
		ZoomHistorySize:        &cfg.ZoomHistorySize,
		RotationHistorySize:    &cfg.RotationHistorySize,
		OrientationHistorySize: &cfg.OrientationHistorySize,
	}
}

// Apply returns cfg with the set fields of t replaced. A nil Tuning
// returns cfg unchanged.
func (t *Tuning) Apply(cfg gesture.Config) gesture.Config {
	if t == nil {
		return cfg
	}
	if t.MotionStopThreshold != nil {
		cfg.MotionStopThreshold = *t.MotionStopThreshold
	}
	if t.AngularStopThreshold != nil {
		cfg.AngularStopThreshold = *t.AngularStopThreshold
	}
	if t.GracePeriod != nil {
		cfg.GracePeriod = *t.GracePeriod
	}
	if t.RotationDamping != nil {
		cfg.RotationDamping = *t.RotationDamping
	}
	if t.UseDepth != nil {
		cfg.UseDepth = *t.UseDepth
	}
	if t.ZoomHistorySize != nil {
		cfg.ZoomHistorySize = *t.ZoomHistorySize
	}
	if t.RotationHistorySize != nil {
		cfg.RotationHistorySize = *t.RotationHistorySize
	}
	if t.OrientationHistorySize != nil {
		cfg.OrientationHistorySize = *t.OrientationHistorySize
	}
	return cfg
}

// Merge returns a Tuning with the set fields of other layered over t.
func (t *Tuning) Merge(other *Tuning) *Tuning {
	out := &Tuning{}
	if t != nil {
		*out = *t
	}
	if other == nil {
		return out
	}
	if other.MotionStopThreshold != nil {
		out.MotionStopThreshold = other.MotionStopThreshold
	}
	if other.AngularStopThreshold != nil {
		out.AngularStopThreshold = other.AngularStopThreshold
	}
	if other.GracePeriod != nil {
		out.GracePeriod = other.GracePeriod
	}
	if other.RotationDamping != nil {
		out.RotationDamping = other.RotationDamping
	}
	if other.UseDepth != nil {
		out.UseDepth = other.UseDepth
	}
	if other.ZoomHistorySize != nil {
		out.ZoomHistorySize = other.ZoomHistorySize
	}
	if other.RotationHistorySize != nil {
		out.RotationHistorySize = other.RotationHistorySize
	}
	if other.OrientationHistorySize != nil {
		out.OrientationHistorySize = other.OrientationHistorySize
	}
	return out
}
