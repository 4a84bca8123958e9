package metrics

import "github.com/prometheus/client_golang/prometheus"

// WebSocketMetrics holds Prometheus metrics for live connections.
// A nil *WebSocketMetrics is valid and records nothing.
type WebSocketMetrics struct {
	ActiveConnections prometheus.Gauge
	MessagesPublished prometheus.Counter
	SendFailures      prometheus.Counter
}

// NewWebSocketMetrics creates and registers WebSocket metrics on the given registry.
func NewWebSocketMetrics(reg prometheus.Registerer) *WebSocketMetrics {
	m := &WebSocketMetrics{
		ActiveConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "active_connections",
			Help:      "Number of active WebSocket connections.",
		}),
		MessagesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "messages_published_total",
			Help:      "Total number of broadcast messages.",
		}),
		SendFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "send_failures_total",
			Help:      "Per-connection send failures during broadcast.",
		}),
	}

	reg.MustRegister(m.ActiveConnections, m.MessagesPublished, m.SendFailures)
	return m
}

// SetActive records the current connection count.
func (m *WebSocketMetrics) SetActive(n int) {
	if m == nil {
		return
	}
	m.ActiveConnections.Set(float64(n))
}

// ObserveBroadcast counts one broadcast message.
func (m *WebSocketMetrics) ObserveBroadcast() {
	if m == nil {
		return
	}
	m.MessagesPublished.Inc()
}

// ObserveSendFailure counts one failed per-connection send.
func (m *WebSocketMetrics) ObserveSendFailure() {
	if m == nil {
		return
	}
	m.SendFailures.Inc()
}
