package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// resultOK labels requests that got a state or advice reply.
const resultOK = "ok"

// metrics are registered per Server so several servers can share a
// process.
type metrics struct {
	registry        *prometheus.Registry
	connections     prometheus.Gauge
	requests        *prometheus.CounterVec
	matchesStarted  prometheus.Counter
	matchesFinished prometheus.Counter
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "yahtzee_connections",
			Help: "Open websocket connections",
		}),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "yahtzee_requests_total",
				Help: "Requests handled, by message type and result code",
			},
			[]string{"type", "result"},
		),
		matchesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "yahtzee_matches_started_total",
			Help: "Matches started by new requests",
		}),
		matchesFinished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "yahtzee_matches_finished_total",
			Help: "Matches played through the last round",
		}),
	}
	m.registry.MustRegister(m.connections, m.requests, m.matchesStarted, m.matchesFinished)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *metrics) observe(msgType MessageType, result string) {
	m.requests.WithLabelValues(msgType.String(), result).Inc()
}
