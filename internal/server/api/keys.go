package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/paolosand/ascii-drone/internal/audio"
	"github.com/paolosand/ascii-drone/internal/music"
	"github.com/paolosand/ascii-drone/internal/store"
)

// KeysHandler handles HTTP requests for the circle-of-fifths key list and
// the current key. A PUT to /api/keys/current is the manual counterpart of a
// pinch selection: it retunes the drone, rotates the menu, and persists.
type KeysHandler struct {
	store *store.Store
	audio *audio.Engine
	menu  *music.Menu
}

// NewKeysHandler creates a new KeysHandler. Store and menu may be nil.
func NewKeysHandler(s *store.Store, a *audio.Engine, m *music.Menu) *KeysHandler {
	return &KeysHandler{store: s, audio: a, menu: m}
}

// ServeHTTP implements the http.Handler interface and routes requests to
// appropriate methods.
func (h *KeysHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/keys or /api/keys/current
	path := strings.TrimPrefix(r.URL.Path, "/api/keys")
	path = strings.TrimPrefix(path, "/")

	switch path {
	case "":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.list(w, r)
	case "current":
		switch r.Method {
		case http.MethodGet:
			h.current(w, r)
		case http.MethodPut:
			h.selectKey(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	default:
		http.NotFound(w, r)
	}
}

type listKeysResponse struct {
	Major   []string `json:"major"`
	Minor   []string `json:"minor"`
	Current string   `json:"current"`
}

type currentKeyResponse struct {
	Key       string  `json:"key"`
	Frequency float64 `json:"frequency"`
	Minor     bool    `json:"minor"`
}

type selectKeyRequest struct {
	Key string `json:"key"`
}

// list handles GET /api/keys and returns both rings of the wheel.
func (h *KeysHandler) list(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, listKeysResponse{
		Major:   music.MajorKeys[:],
		Minor:   music.MinorKeys[:],
		Current: h.audio.CurrentKey().Name,
	})
}

// current handles GET /api/keys/current.
func (h *KeysHandler) current(w http.ResponseWriter, r *http.Request) {
	key := h.audio.CurrentKey()
	writeJSON(w, http.StatusOK, currentKeyResponse{
		Key:       key.Name,
		Frequency: key.Frequency,
		Minor:     key.Minor,
	})
}

// selectKey handles PUT /api/keys/current and applies a manual key change.
func (h *KeysHandler) selectKey(w http.ResponseWriter, r *http.Request) {
	var req selectKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.audio.SetKey(req.Key); err != nil {
		writeError(w, http.StatusBadRequest, "Unknown key")
		return
	}

	if h.menu != nil {
		h.menu.SetCurrentKey(req.Key)
	}
	if h.store != nil {
		if err := h.store.Settings().Set(store.SettingCurrentKey, req.Key); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to persist key")
			return
		}
	}

	h.current(w, r)
}
