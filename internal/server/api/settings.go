// Package api provides HTTP API handlers for hand-tracker.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/DurjaMan27/hand-tracker/internal/config"
	"github.com/DurjaMan27/hand-tracker/internal/gesture"
	"github.com/DurjaMan27/hand-tracker/internal/store"
)

// Settings holds the gesture config new sessions start from: a base config
// with user overrides layered on top. Overrides are persisted when a store
// is configured. It is safe for concurrent use.
type Settings struct {
	mu        sync.RWMutex
	base      gesture.Config
	overrides *config.Tuning
	store     *store.Store
	listeners []func(gesture.Config)
}

// NewSettings creates Settings over base, restoring any overrides saved in s.
// s may be nil.
func NewSettings(base gesture.Config, s *store.Store) (*Settings, error) {
	if err := base.Validate(); err != nil {
		return nil, err
	}

	st := &Settings{base: base, overrides: &config.Tuning{}, store: s}
	if s == nil {
		return st, nil
	}

	var saved config.Tuning
	err := s.Settings().GetJSON(store.KeyGestureTuning, &saved)
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("load gesture tuning: %w", err)
	case saved.Apply(base).Validate() != nil:
		// Saved against a different base; start clean.
	default:
		st.overrides = &saved
	}

	return st, nil
}

// Current returns the effective gesture config.
func (s *Settings) Current() gesture.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.overrides.Apply(s.base)
}

// OnChange registers fn to run with the new config after every successful
// Update or Reset.
func (s *Settings) OnChange(fn func(gesture.Config)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Settings) notify(cfg gesture.Config) {
	s.mu.RLock()
	listeners := s.listeners
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(cfg)
	}
}

// Update layers t over the current overrides, validates the result and
// persists it.
func (s *Settings) Update(t *config.Tuning) (gesture.Config, error) {
	cfg, err := s.update(t)
	if err != nil {
		return gesture.Config{}, err
	}
	s.notify(cfg)
	return cfg, nil
}

func (s *Settings) update(t *config.Tuning) (gesture.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := s.overrides.Merge(t)
	cfg := merged.Apply(s.base)
	if err := cfg.Validate(); err != nil {
		return gesture.Config{}, err
	}

	if s.store != nil {
		if err := s.store.Settings().SetJSON(store.KeyGestureTuning, merged); err != nil {
			return gesture.Config{}, fmt.Errorf("save gesture tuning: %w", err)
		}
	}

	s.overrides = merged
	return cfg, nil
}

// Reset drops every override.
func (s *Settings) Reset() (gesture.Config, error) {
	cfg, err := s.reset()
	if err != nil {
		return gesture.Config{}, err
	}
	s.notify(cfg)
	return cfg, nil
}

func (s *Settings) reset() (gesture.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store != nil {
		if err := s.store.Settings().Delete(store.KeyGestureTuning); err != nil && !errors.Is(err, store.ErrNotFound) {
			return gesture.Config{}, fmt.Errorf("clear gesture tuning: %w", err)
		}
	}

	s.overrides = &config.Tuning{}
	return s.base, nil
}

// TuningHandler serves /api/settings/tuning.
type TuningHandler struct {
	settings *Settings
}

// NewTuningHandler creates a new TuningHandler.
func NewTuningHandler(s *Settings) *TuningHandler {
	return &TuningHandler{settings: s}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// ServeHTTP implements the http.Handler interface.
func (h *TuningHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.settings.Current())
	case http.MethodPut, http.MethodPatch:
		h.update(w, r)
	case http.MethodDelete:
		cfg, err := h.settings.Reset()
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to reset tuning")
			return
		}
		writeJSON(w, http.StatusOK, cfg)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// update handles PUT /api/settings/tuning with a partial tuning body.
func (h *TuningHandler) update(w http.ResponseWriter, r *http.Request) {
	var req config.Tuning
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	cfg, err := h.settings.Update(&req)
	if err != nil {
		if errors.Is(err, gesture.ErrInvalidConfig) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to save tuning")
		return
	}

	writeJSON(w, http.StatusOK, cfg)
}
