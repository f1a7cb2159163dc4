// Package api provides the HTTP API handlers for the installation's control
// surface.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/paolosand/ascii-drone/internal/audio"
	"github.com/paolosand/ascii-drone/internal/store"
)

// SettingsHandler handles HTTP requests for the persisted settings. Writes
// that map to live audio parameters are also pushed into the engine.
type SettingsHandler struct {
	store *store.Store
	audio *audio.Engine
}

// NewSettingsHandler creates a new SettingsHandler. The audio engine may be
// nil, in which case writes only persist.
func NewSettingsHandler(s *store.Store, a *audio.Engine) *SettingsHandler {
	return &SettingsHandler{store: s, audio: a}
}

// ServeHTTP implements the http.Handler interface.
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPut:
		h.update(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type settingsResponse struct {
	CurrentKey string  `json:"currentKey"`
	Intensity  float64 `json:"intensity"`
	Width      float64 `json:"width"`
	CameraID   int     `json:"cameraId"`
}

type updateSettingsRequest struct {
	Intensity *float64 `json:"intensity"`
	Width     *float64 `json:"width"`
	CameraID  *int     `json:"cameraId"`
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

// get handles GET /api/settings.
func (h *SettingsHandler) get(w http.ResponseWriter, r *http.Request) {
	settings := h.store.Settings()

	resp := settingsResponse{
		CurrentKey: audio.DefaultKey,
		Intensity:  settings.GetFloat(store.SettingIntensity, 0.5),
		Width:      settings.GetFloat(store.SettingWidth, 0.5),
		CameraID:   int(settings.GetFloat(store.SettingCameraID, 0)),
	}

	if key, err := settings.Get(store.SettingCurrentKey); err == nil {
		resp.CurrentKey = key
	} else if !errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "Failed to read settings")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// update handles PUT /api/settings. Only the provided fields change.
func (h *SettingsHandler) update(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	settings := h.store.Settings()

	if req.Intensity != nil {
		if *req.Intensity < 0 || *req.Intensity > 1 {
			writeError(w, http.StatusBadRequest, "Intensity must be in [0,1]")
			return
		}
		if err := settings.SetFloat(store.SettingIntensity, *req.Intensity); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save setting")
			return
		}
		if h.audio != nil {
			h.audio.SetIntensity(*req.Intensity)
		}
	}

	if req.Width != nil {
		if *req.Width < 0 || *req.Width > 1 {
			writeError(w, http.StatusBadRequest, "Width must be in [0,1]")
			return
		}
		if err := settings.SetFloat(store.SettingWidth, *req.Width); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save setting")
			return
		}
		if h.audio != nil {
			h.audio.SetWidth(*req.Width)
		}
	}

	if req.CameraID != nil {
		if err := settings.SetFloat(store.SettingCameraID, float64(*req.CameraID)); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save setting")
			return
		}
	}

	h.get(w, r)
}
