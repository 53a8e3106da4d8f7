// Package metric provides the Prometheus registry and HTTP exposition server
// shared by the summarizer and its transports.
//
// MetricsRegistry owns a private prometheus.Registry preloaded with the Go
// runtime and process collectors and the core transport metrics (Metrics).
// Packages register their own collectors through the MetricsRegistrar
// interface, keyed by service and metric name, so the same collector cannot
// be registered twice.
//
// # Basic Usage
//
//	registry := metric.NewMetricsRegistry()
//	server := metric.NewServer(9090, "/metrics", registry)
//
//	go func() {
//	    if err := server.Start(); err != nil {
//	        slog.Error("Metrics server failed", "error", err)
//	    }
//	}()
//	defer server.Stop()
//
//	registry.CoreMetrics().RecordRequest("http", "ok", 12*time.Millisecond)
//
// The server exposes the metrics at /metrics and a liveness probe at /health.
//
// # Core Metrics
//
//   - lexrank_transport_requests_total{transport,status}
//   - lexrank_transport_request_duration_seconds{transport}
//   - lexrank_transport_errors_total{transport,class}
//   - lexrank_transport_in_flight{transport}
//   - lexrank_nats_connected, lexrank_nats_reconnects_total
package metric
