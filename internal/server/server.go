// Package server provides the HTTP server for hand-tracker.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/DurjaMan27/hand-tracker/internal/gesture"
	"github.com/DurjaMan27/hand-tracker/internal/manipulator"
	"github.com/DurjaMan27/hand-tracker/internal/server/api"
)

// StateSource reports the live state of the camera pipeline.
type StateSource interface {
	Phase() gesture.Phase
	Transform() manipulator.Transform
	Enabled() bool
}

// Config holds the server configuration.
type Config struct {
	StaticDir string

	// Settings supplies the gesture config of new sessions. When nil,
	// sessions use gesture.DefaultConfig and the tuning API is disabled.
	Settings *api.Settings

	// SessionLogger returns the event logger of a new session. May be nil.
	SessionLogger func(sessionID string) gesture.Logger

	// State enables /api/state when set.
	State StateSource
}

// Server represents the HTTP server for the hand-tracker application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	gestureConfig := gesture.DefaultConfig
	if s.config.Settings != nil {
		s.mux.Handle("/api/settings/tuning", api.NewTuningHandler(s.config.Settings))
		gestureConfig = s.config.Settings.Current
	}

	s.mux.Handle("/api/session", NewSessionHandler(gestureConfig, s.config.SessionLogger))

	if s.config.State != nil {
		s.mux.HandleFunc("/api/state", s.handleState)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	writeJSON(w, response)
}

type stateResponse struct {
	Phase       gesture.Phase `json:"phase"`
	Enabled     bool          `json:"enabled"`
	Scale       float64       `json:"scale"`
	Orientation [4]float64    `json:"orientation"` // w, x, y, z
}

// handleState handles GET requests to /api/state.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	t := s.config.State.Transform()
	o := t.Orientation
	writeJSON(w, stateResponse{
		Phase:       s.config.State.Phase(),
		Enabled:     s.config.State.Enabled(),
		Scale:       t.Scale,
		Orientation: [4]float64{o.Real, o.Imag, o.Jmag, o.Kmag},
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
