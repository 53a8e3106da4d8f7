// Package http serves the summarizer over HTTP.
package http

import (
	"context"
	"crypto/tls"
	"encoding/json"
	stderrors "errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/c360/lexrank/config"
	"github.com/c360/lexrank/errors"
	"github.com/c360/lexrank/gateway"
	"github.com/c360/lexrank/health"
	"github.com/c360/lexrank/metric"
	"github.com/c360/lexrank/pkg/tlsutil"
)

const transport = "http"

// Gateway exposes POST /v1/summarize and GET /health.
type Gateway struct {
	summarizer gateway.Summarizer
	config     config.HTTPConfig
	limiter    *rate.Limiter
	tlsConfig  *tls.Config
	metrics    *metric.Metrics
	monitor    *health.Monitor
	logger     *slog.Logger

	server   *http.Server
	serverMu sync.Mutex

	stopping  atomic.Bool
	startTime time.Time

	requestsTotal   atomic.Uint64
	requestsSuccess atomic.Uint64
	requestsFailed  atomic.Uint64
	bytesReceived   atomic.Uint64
	bytesSent       atomic.Uint64
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithMetrics records transport metrics in m.
func WithMetrics(m *metric.Metrics) Option {
	return func(g *Gateway) {
		g.metrics = m
	}
}

// WithHealth reports the components tracked by monitor on /health.
func WithHealth(monitor *health.Monitor) Option {
	return func(g *Gateway) {
		g.monitor = monitor
	}
}

// Stats is a snapshot of the gateway counters.
type Stats struct {
	RequestsTotal   uint64        `json:"requests_total"`
	RequestsSuccess uint64        `json:"requests_success"`
	RequestsFailed  uint64        `json:"requests_failed"`
	BytesReceived   uint64        `json:"bytes_received"`
	BytesSent       uint64        `json:"bytes_sent"`
	Uptime          time.Duration `json:"uptime_ns"`
}

// NewGateway creates an HTTP gateway in front of s. A non-positive
// cfg.RateLimit disables rate limiting. Certificates named in cfg.TLS are
// loaded here so a bad pair fails before Start.
func NewGateway(s gateway.Summarizer, cfg config.HTTPConfig, opts ...Option) (*Gateway, error) {
	if s == nil {
		return nil, errors.WrapFatal(errors.ErrMissingConfig, "Gateway", "NewGateway",
			"summarizer is required")
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}

	g := &Gateway{
		summarizer: s,
		config:     cfg,
		logger:     slog.Default(),
		startTime:  time.Now(),
	}
	tlsConfig, err := tlsutil.ServerConfig(cfg.TLS)
	if err != nil {
		return nil, errors.Wrap(err, "Gateway", "NewGateway", "load TLS config")
	}
	g.tlsConfig = tlsConfig

	if cfg.RateLimit > 0 {
		g.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), max(cfg.Burst, 1))
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// RegisterHTTPHandlers registers the gateway routes on mux under prefix.
func (g *Gateway) RegisterHTTPHandlers(prefix string, mux *http.ServeMux) {
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	mux.HandleFunc("POST "+prefix+"v1/summarize", g.handleSummarize)
	mux.HandleFunc("GET "+prefix+"health", g.handleHealth)
}

// Handler returns a mux with the gateway routes at the root.
func (g *Gateway) Handler() http.Handler {
	mux := http.NewServeMux()
	g.RegisterHTTPHandlers("/", mux)
	return mux
}

// Start serves on the configured address and blocks until Stop. It returns
// immediately if Stop was already called.
func (g *Gateway) Start() error {
	g.serverMu.Lock()
	if g.stopping.Load() {
		g.serverMu.Unlock()
		return nil
	}
	g.server = &http.Server{
		Addr:         g.config.Addr,
		Handler:      g.Handler(),
		ReadTimeout:  g.config.ReadTimeout.Std(),
		WriteTimeout: g.config.WriteTimeout.Std(),
		TLSConfig:    g.tlsConfig,
	}
	srv := g.server
	g.serverMu.Unlock()

	g.logger.Info("HTTP gateway listening", "addr", g.config.Addr, "tls", g.tlsConfig != nil)

	var err error
	if g.tlsConfig != nil {
		err = srv.ListenAndServeTLS("", "")
	} else {
		err = srv.ListenAndServe()
	}
	if err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return errors.WrapTransient(err, "Gateway", "Start", "listen")
	}
	return nil
}

// Stop gracefully shuts the server down. /health reports 503 from here on.
func (g *Gateway) Stop(ctx context.Context) error {
	g.stopping.Store(true)

	g.serverMu.Lock()
	srv := g.server
	g.serverMu.Unlock()

	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "Gateway", "Stop", "shutdown")
	}
	return nil
}

// Stats returns the current counters.
func (g *Gateway) Stats() Stats {
	return Stats{
		RequestsTotal:   g.requestsTotal.Load(),
		RequestsSuccess: g.requestsSuccess.Load(),
		RequestsFailed:  g.requestsFailed.Load(),
		BytesReceived:   g.bytesReceived.Load(),
		BytesSent:       g.bytesSent.Load(),
		Uptime:          time.Since(g.startTime),
	}
}

func (g *Gateway) handleSummarize(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := gateway.RequestID(r.Header.Get(gateway.RequestIDHeader))
	w.Header().Set(gateway.RequestIDHeader, requestID)

	g.requestsTotal.Add(1)
	defer g.metrics.TrackInFlight(transport)()

	if g.limiter != nil && !g.limiter.Allow() {
		g.writeError(w, requestID, start, errors.WrapTransient(errors.ErrRateLimited,
			"Gateway", "handleSummarize", "admit request"))
		return
	}

	defer r.Body.Close()
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, g.config.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			err = errors.WrapInvalid(errors.ErrTooLarge, "Gateway", "handleSummarize", "read body")
		} else {
			err = errors.WrapInvalid(errors.ErrInvalidData, "Gateway", "handleSummarize", "read body")
		}
		g.writeError(w, requestID, start, err)
		return
	}
	g.bytesReceived.Add(uint64(len(body)))

	ctx := r.Context()
	if timeout := g.config.RequestTimeout.Std(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	result, err := gateway.Process(ctx, g.summarizer, body)
	if err != nil {
		g.writeError(w, requestID, start, err)
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		g.writeError(w, requestID, start, errors.WrapFatal(err, "Gateway", "handleSummarize", "encode result"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		g.requestsFailed.Add(1)
		g.logger.Debug("Write response failed", "request_id", requestID, "error", err)
		return
	}

	g.bytesSent.Add(uint64(len(data)))
	g.requestsSuccess.Add(1)
	g.metrics.RecordRequest(transport, strconv.Itoa(http.StatusOK), time.Since(start))
}

type healthResponse struct {
	Status     string          `json:"status"`
	Stats      Stats           `json:"stats"`
	Components []health.Status `json:"components,omitempty"`
}

// handleHealth answers 200 while serving, including when degraded, and 503
// once stopping or when a tracked component is unhealthy.
func (g *Gateway) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := healthResponse{Status: "ok", Stats: g.Stats()}
	code := http.StatusOK

	if g.monitor != nil {
		agg := g.monitor.Aggregate(transport)
		resp.Components = agg.SubStatuses
		switch agg.State {
		case health.StateDegraded:
			resp.Status = string(health.StateDegraded)
		case health.StateUnhealthy:
			resp.Status, code = string(health.StateUnhealthy), http.StatusServiceUnavailable
		}
	}
	if g.stopping.Load() {
		resp.Status, code = "stopping", http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}

// mapErrorToHTTPStatus maps classified errors to HTTP status codes
func mapErrorToHTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusInternalServerError
	case stderrors.Is(err, errors.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case stderrors.Is(err, errors.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.IsInvalid(err):
		return http.StatusBadRequest
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.IsFatal(err):
		return http.StatusInternalServerError
	case errors.IsTransient(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (g *Gateway) writeError(w http.ResponseWriter, requestID string, start time.Time, err error) {
	statusCode := mapErrorToHTTPStatus(err)
	resp := gateway.NewErrorResponse(err, requestID)

	g.requestsFailed.Add(1)
	g.metrics.RecordError(transport, resp.Class)
	g.metrics.RecordRequest(transport, strconv.Itoa(statusCode), time.Since(start))

	if statusCode >= http.StatusInternalServerError {
		g.logger.Warn("Summarize request failed", "request_id", requestID, "status", statusCode, "error", err)
	} else {
		g.logger.Debug("Summarize request rejected", "request_id", requestID, "status", statusCode, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(resp)
}
