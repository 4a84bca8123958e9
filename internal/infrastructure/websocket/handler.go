package websocket

import (
	"log/slog"
	"net/http"

	ws "github.com/gorilla/websocket"
)

// Handler upgrades HTTP requests and keeps each connection registered until its read loop fails.
type Handler struct {
	hub      *Hub
	upgrader ws.Upgrader
	logger   *slog.Logger
}

// NewHandler builds the live-channel endpoint. Any origin is accepted.
func NewHandler(hub *Hub, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		hub: hub,
		upgrader: ws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

// ServeHTTP blocks for the lifetime of the connection.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	conn := newWSConn(raw)
	h.hub.Register(conn)
	defer func() {
		h.hub.Unregister(conn)
		_ = conn.Close()
	}()

	// client messages are discarded; the loop only detects disconnects
	for {
		if _, _, err := raw.ReadMessage(); err != nil {
			return
		}
	}
}
