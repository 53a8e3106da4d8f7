package summarizer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360/lexrank/metric"
	"github.com/c360/lexrank/pkg/pagerank"
)

const metricsService = "summarizer"

// Metrics holds the Prometheus collectors of the pipeline.
type Metrics struct {
	requests     *prometheus.CounterVec
	duration     prometheus.Histogram
	sentences    prometheus.Histogram
	iterations   prometheus.Histogram
	nonConverged prometheus.Counter
}

// NewMetrics creates the summarizer collectors and registers them with
// registry. A nil registry returns nil metrics, which disables recording.
func NewMetrics(registry *metric.MetricsRegistry) (*Metrics, error) {
	if registry == nil {
		return nil, nil
	}

	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lexrank",
			Subsystem: "summarizer",
			Name:      "requests_total",
			Help:      "Summarizations by terminal state",
		}, []string{"state"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "lexrank",
			Subsystem: "summarizer",
			Name:      "duration_seconds",
			Help:      "Time spent in one summarization",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}),
		sentences: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "lexrank",
			Subsystem: "summarizer",
			Name:      "sentences",
			Help:      "Sentences per summarized document",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		iterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "lexrank",
			Subsystem: "pagerank",
			Name:      "iterations",
			Help:      "Power iterations per ranking",
			Buckets:   []float64{1, 5, 10, 20, 30, 50, 75, 100},
		}),
		nonConverged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lexrank",
			Subsystem: "pagerank",
			Name:      "nonconverged_total",
			Help:      "Rankings that stopped before reaching the tolerance",
		}),
	}

	if err := registry.RegisterCounterVec(metricsService, "requests_total", m.requests); err != nil {
		return nil, err
	}
	if err := registry.RegisterHistogram(metricsService, "duration_seconds", m.duration); err != nil {
		return nil, err
	}
	if err := registry.RegisterHistogram(metricsService, "sentences", m.sentences); err != nil {
		return nil, err
	}
	if err := registry.RegisterHistogram(metricsService, "pagerank_iterations", m.iterations); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(metricsService, "pagerank_nonconverged_total", m.nonConverged); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) recordError() {
	if m == nil {
		return
	}
	m.requests.WithLabelValues("error").Inc()
}

func (m *Metrics) record(state State, sentences int, pr *pagerank.Result, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(string(state)).Inc()
	m.duration.Observe(elapsed.Seconds())
	m.sentences.Observe(float64(sentences))
	if pr != nil {
		m.iterations.Observe(float64(pr.Iterations))
		if !pr.Converged {
			m.nonConverged.Inc()
		}
	}
}
