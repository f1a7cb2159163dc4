// Package server provides the HTTP control surface for the installation:
// health, settings, key selection, the gesture/grid WebSocket feed, and the
// MJPEG debug stream.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/paolosand/ascii-drone/internal/audio"
	"github.com/paolosand/ascii-drone/internal/capture"
	"github.com/paolosand/ascii-drone/internal/music"
	"github.com/paolosand/ascii-drone/internal/server/api"
	"github.com/paolosand/ascii-drone/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Audio     *audio.Engine
	Menu      *music.Menu
	Camera    capture.Camera
}

// Server is the HTTP server for the installation's control surface.
type Server struct {
	config Config
	mux    *http.ServeMux
	events *EventsHandler
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

	if s.config.Store != nil {
		settingsHandler := api.NewSettingsHandler(s.config.Store, s.config.Audio)
		s.mux.Handle("/api/settings", settingsHandler)
	}

	if s.config.Audio != nil {
		keysHandler := api.NewKeysHandler(s.config.Store, s.config.Audio, s.config.Menu)
		s.mux.Handle("/api/keys", keysHandler)
		s.mux.Handle("/api/keys/", keysHandler)
	}

	s.events = NewEventsHandler(s.config.Menu)
	s.mux.Handle("/ws/events", s.events)

	if s.config.Camera != nil {
		s.mux.Handle("/stream/camera", NewStreamHandler(s.config.Camera))
	}

	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// Events returns the WebSocket broadcast handler so the composition root can
// feed it gesture events and ASCII grids.
func (s *Server) Events() *EventsHandler {
	return s.events
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

	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}
	if s.config.Audio != nil {
		response["audio"] = s.config.Audio.State().String()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
