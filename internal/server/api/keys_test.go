package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gopxl/beep/v2"
	"github.com/paolosand/ascii-drone/internal/audio"
	"github.com/paolosand/ascii-drone/internal/music"
	"github.com/paolosand/ascii-drone/internal/store"
)

type noopSink struct{}

func (noopSink) Start(sampleRate int, s beep.Streamer) error { return nil }
func (noopSink) Close() error                                { return nil }

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

func TestKeysHandler_List(t *testing.T) {
	engine := audio.NewEngine(noopSink{})
	h := NewKeysHandler(nil, engine, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/keys", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var resp listKeysResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(resp.Major) != 12 || len(resp.Minor) != 12 {
		t.Errorf("ring sizes = %d/%d, want 12/12", len(resp.Major), len(resp.Minor))
	}
	if resp.Major[0] != "C" || resp.Minor[0] != "Am" {
		t.Errorf("top of wheel = %s/%s, want C/Am", resp.Major[0], resp.Minor[0])
	}
	if resp.Current != "C" {
		t.Errorf("current = %q, want default C", resp.Current)
	}
}

func TestKeysHandler_SelectKey(t *testing.T) {
	s := newTestStore(t)
	engine := audio.NewEngine(noopSink{})
	menu := music.NewMenu("C")
	h := NewKeysHandler(s, engine, menu)

	body := strings.NewReader(`{"key":"Em"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/keys/current", body)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var resp currentKeyResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Key != "Em" || !resp.Minor {
		t.Errorf("response = %+v, want key Em minor", resp)
	}

	if got := engine.CurrentKey().Name; got != "Em" {
		t.Errorf("engine key = %q, want Em", got)
	}
	if got := menu.CurrentKey(); got != "Em" {
		t.Errorf("menu key = %q, want Em", got)
	}
	if got, _ := s.Settings().Get(store.SettingCurrentKey); got != "Em" {
		t.Errorf("persisted key = %q, want Em", got)
	}
}

func TestKeysHandler_SelectUnknownKey(t *testing.T) {
	engine := audio.NewEngine(noopSink{})
	h := NewKeysHandler(nil, engine, nil)

	body := strings.NewReader(`{"key":"H#"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/keys/current", body)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
	if got := engine.CurrentKey().Name; got != "C" {
		t.Errorf("engine key = %q, want unchanged C", got)
	}
}

func TestKeysHandler_MethodNotAllowed(t *testing.T) {
	engine := audio.NewEngine(noopSink{})
	h := NewKeysHandler(nil, engine, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/keys/current", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/keys", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}
