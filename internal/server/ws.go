package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// PoseHandler broadcasts solved poses to WebSocket clients. The capture
// pipeline calls Publish once per frame; a renderer page (or OBS overlay)
// subscribes at /api/pose and applies each message to the avatar.
type PoseHandler struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewPoseHandler creates a new PoseHandler with no subscribers.
func NewPoseHandler() *PoseHandler {
	return &PoseHandler{
		clients: make(map[*websocket.Conn]bool),
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *PoseHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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

// ClientCount returns the number of connected subscribers.
func (h *PoseHandler) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish marshals v and sends it to every connected client. With no
// subscribers it returns immediately, so the pipeline can call it
// unconditionally.
func (h *PoseHandler) Publish(v interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.clients) == 0 {
		return
	}

	msg, err := json.Marshal(v)
	if err != nil {
		log.Printf("marshal pose message: %v", err)
		return
	}

	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Printf("write pose message: %v", err)
		}
	}
}
