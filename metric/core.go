package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains the transport-level metrics shared by the HTTP and NATS
// gateways. Summarization metrics live with the summarizer.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ErrorsTotal     *prometheus.CounterVec
	InFlight        *prometheus.GaugeVec

	// NATS metrics
	NATSConnected  prometheus.Gauge
	NATSReconnects prometheus.Counter
}

// NewMetrics creates a new Metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "lexrank",
				Subsystem: "transport",
				Name:      "requests_total",
				Help:      "Summarization requests received per transport and outcome",
			},
			[]string{"transport", "status"},
		),

		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "lexrank",
				Subsystem: "transport",
				Name:      "request_duration_seconds",
				Help:      "Request handling duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"transport"},
		),

		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "lexrank",
				Subsystem: "transport",
				Name:      "errors_total",
				Help:      "Failed requests by error class",
			},
			[]string{"transport", "class"},
		),

		InFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "lexrank",
				Subsystem: "transport",
				Name:      "in_flight",
				Help:      "Requests currently being handled",
			},
			[]string{"transport"},
		),

		NATSConnected: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "lexrank",
				Subsystem: "nats",
				Name:      "connected",
				Help:      "NATS connection status (0=disconnected, 1=connected)",
			},
		),

		NATSReconnects: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "lexrank",
				Subsystem: "nats",
				Name:      "reconnects_total",
				Help:      "Total number of NATS reconnections",
			},
		),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.RequestsTotal,
		m.RequestDuration,
		m.ErrorsTotal,
		m.InFlight,
		m.NATSConnected,
		m.NATSReconnects,
	}
}

// RecordRequest records a handled request and its duration
func (m *Metrics) RecordRequest(transport, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(transport, status).Inc()
	m.RequestDuration.WithLabelValues(transport).Observe(duration.Seconds())
}

// RecordError records a failed request by error class
func (m *Metrics) RecordError(transport, class string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(transport, class).Inc()
}

// TrackInFlight increments the in-flight gauge and returns the matching decrement
func (m *Metrics) TrackInFlight(transport string) func() {
	if m == nil {
		return func() {}
	}
	g := m.InFlight.WithLabelValues(transport)
	g.Inc()
	return g.Dec
}

// RecordNATSStatus records NATS connection status
func (m *Metrics) RecordNATSStatus(connected bool) {
	if m == nil {
		return
	}
	if connected {
		m.NATSConnected.Set(1)
	} else {
		m.NATSConnected.Set(0)
	}
}

// RecordNATSReconnect increments the reconnection counter
func (m *Metrics) RecordNATSReconnect() {
	if m == nil {
		return
	}
	m.NATSReconnects.Inc()
}
