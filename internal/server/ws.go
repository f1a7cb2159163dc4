package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/paolosand/ascii-drone/internal/gesture"
	"github.com/paolosand/ascii-drone/internal/music"
	"github.com/paolosand/ascii-drone/internal/render"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// EventsHandler broadcasts gesture events, menu state, and ASCII grids to
// WebSocket clients. The pipeline pushes into it via the Broadcast methods;
// it never reads the camera itself.
type EventsHandler struct {
	menu    *music.Menu
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewEventsHandler creates an EventsHandler. The menu may be nil, in which
// case gesture messages carry no menu snapshot.
func NewEventsHandler(menu *music.Menu) *EventsHandler {
	return &EventsHandler{
		menu:    menu,
		clients: make(map[*websocket.Conn]bool),
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// gestureMessage pairs a gesture event with the menu state it produced, so
// clients render both from one frame of truth.
type gestureMessage struct {
	Event     gesture.Event `json:"event"`
	Menu      *music.State  `json:"menu,omitempty"`
	Timestamp int64         `json:"timestamp"`
}

// BroadcastEvent sends one gesture event, with the current menu snapshot, to
// all connected clients.
func (h *EventsHandler) BroadcastEvent(ev gesture.Event) {
	msg := gestureMessage{
		Event:     ev,
		Timestamp: time.Now().UnixMilli(),
	}
	if h.menu != nil {
		state := h.menu.Snapshot()
		msg.Menu = &state
	}
	h.broadcast("gesture", msg)
}

// BroadcastGrid sends one converted ASCII grid to all connected clients.
func (h *EventsHandler) BroadcastGrid(grid *render.Grid) {
	h.broadcast("grid", grid)
}

// ClientCount returns the number of connected WebSocket clients.
func (h *EventsHandler) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *EventsHandler) broadcast(msgType string, data any) {
	h.mu.RLock()
	if len(h.clients) == 0 {
		h.mu.RUnlock()
		return
	}
	h.mu.RUnlock()

	msg, err := json.Marshal(map[string]any{
		"type": msgType,
		"data": data,
	})
	if err != nil {
		return
	}

	h.mu.RLock()
	for conn := range h.clients {
		conn.WriteMessage(websocket.TextMessage, msg)
	}
	h.mu.RUnlock()
}
