package websocket

import (
	"context"
	"log/slog"
	"sync"

	"NewsPortal/internal/metrics"
)

// Conn is a live subscriber connection.
type Conn interface {
	Send(ctx context.Context, data []byte) error
	Close() error
}

// Hub owns the set of live connections. It is safe for concurrent use.
type Hub struct {
	mu      sync.Mutex
	conns   map[Conn]struct{}
	metrics *metrics.WebSocketMetrics
	logger  *slog.Logger
}

// NewHub builds an empty hub. m may be nil.
func NewHub(m *metrics.WebSocketMetrics, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		conns:   make(map[Conn]struct{}),
		metrics: m,
		logger:  logger,
	}
}

// Register adds a connection whose handshake has completed.
func (h *Hub) Register(c Conn) {
	h.mu.Lock()
	h.conns[c] = struct{}{}
	n := len(h.conns)
	h.mu.Unlock()

	h.metrics.SetActive(n)
	h.logger.Debug("connection registered", "active", n)
}

// Unregister removes a connection. Unknown connections are ignored.
func (h *Hub) Unregister(c Conn) {
	h.mu.Lock()
	_, ok := h.conns[c]
	delete(h.conns, c)
	n := len(h.conns)
	h.mu.Unlock()

	if !ok {
		return
	}
	h.metrics.SetActive(n)
	h.logger.Debug("connection unregistered", "active", n)
}

// Count returns the number of registered connections.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Broadcast sends data to every registered connection and returns how many
// sends succeeded. Failed connections stay registered; their own read loop
// removes them.
func (h *Hub) Broadcast(ctx context.Context, data []byte) int {
	h.mu.Lock()
	targets := make([]Conn, 0, len(h.conns))
	for c := range h.conns {
		targets = append(targets, c)
	}
	h.mu.Unlock()

	delivered := 0
	for _, c := range targets {
		if err := c.Send(ctx, data); err != nil {
			h.metrics.ObserveSendFailure()
			h.logger.Debug("broadcast send failed", "error", err)
			continue
		}
		delivered++
	}

	h.metrics.ObserveBroadcast()
	return delivered
}

// CloseAll closes every registered connection.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	targets := make([]Conn, 0, len(h.conns))
	for c := range h.conns {
		targets = append(targets, c)
	}
	h.mu.Unlock()

	for _, c := range targets {
		_ = c.Close()
	}
}
