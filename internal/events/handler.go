package events

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5/middleware"
)

// Handler upgrades requests to WebSocket and subscribes them to the hub.
type Handler struct {
	hub           *Hub
	allowedOrigin string
	isDev         bool
	seq           atomic.Uint64
}

// NewHandler creates a handler. In dev mode every origin is accepted.
func NewHandler(hub *Hub, allowedOrigin string, isDev bool) *Handler {
	return &Handler{hub: hub, allowedOrigin: allowedOrigin, isDev: isDev}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "stream ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr)
		}
	}()

	id := middleware.GetReqID(r.Context())
	if id == "" {
		id = fmt.Sprintf("sub-%d", h.seq.Add(1))
	}

	h.hub.Register(id, ws)
	defer h.hub.Unregister(id, ws)

	// Clients never send anything meaningful; reading keeps control frames
	// flowing and detects the close.
	for {
		if _, _, err := ws.Read(r.Context()); err != nil {
			if websocket.CloseStatus(err) != -1 {
				slog.Debug("Event stream closed by client", "subscriber_id", id)
			} else {
				slog.Debug("Event stream read error", "subscriber_id", id, "error", err)
			}
			return
		}
	}
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	if h.isDev {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" || h.allowedOrigin == "*" || origin == h.allowedOrigin {
		return true
	}
	slog.Warn("WebSocket origin rejected", "origin", origin, "allowed", h.allowedOrigin)
	return false
}
