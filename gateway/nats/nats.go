// Package nats serves the summarizer as a NATS request/reply responder.
package nats

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/c360/lexrank/config"
	"github.com/c360/lexrank/errors"
	"github.com/c360/lexrank/gateway"
	"github.com/c360/lexrank/metric"
	"github.com/c360/lexrank/natsclient"
)

const transport = "nats"

// ErrorClassHeader is set on replies that carry an ErrorResponse.
const ErrorClassHeader = "Lexrank-Error-Class"

// Subscriber is the part of natsclient.Client the responder needs.
type Subscriber interface {
	QueueSubscribe(ctx context.Context, subject, queue string, handler natsclient.MsgHandler) error
}

// Responder answers summarize requests published on one subject. Members of
// the same queue group share the load.
type Responder struct {
	sub        Subscriber
	summarizer gateway.Summarizer
	subject    string
	queue      string
	timeout    time.Duration
	metrics    *metric.Metrics
	logger     *slog.Logger
}

// Option configures a Responder.
type Option func(*Responder)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Responder) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics records transport metrics in m.
func WithMetrics(m *metric.Metrics) Option {
	return func(r *Responder) {
		r.metrics = m
	}
}

// NewResponder creates a responder for cfg.Subject in cfg.QueueGroup.
func NewResponder(sub Subscriber, s gateway.Summarizer, cfg config.NATSConfig, opts ...Option) (*Responder, error) {
	if sub == nil || s == nil {
		return nil, errors.WrapFatal(errors.ErrMissingConfig, "Responder", "NewResponder",
			"subscriber and summarizer are required")
	}
	if cfg.Subject == "" {
		return nil, errors.WrapFatal(errors.ErrInvalidConfig, "Responder", "NewResponder",
			"subject cannot be empty")
	}

	r := &Responder{
		sub:        sub,
		summarizer: s,
		subject:    cfg.Subject,
		queue:      cfg.QueueGroup,
		timeout:    cfg.RequestTimeout.Std(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Start subscribes the responder. Handlers run until ctx ends or the
// client is closed.
func (r *Responder) Start(ctx context.Context) error {
	if err := r.sub.QueueSubscribe(ctx, r.subject, r.queue, r.handleMsg); err != nil {
		return errors.Wrap(err, "Responder", "Start", "subscribe")
	}
	r.logger.Info("NATS responder subscribed", "subject", r.subject, "queue", r.queue)
	return nil
}

// Handle summarizes one request body and returns the reply payload, which
// is either a summarizer.Result or a gateway.ErrorResponse. The returned
// error is the summarization failure, if any, already encoded in the reply.
func (r *Responder) Handle(ctx context.Context, requestID string, data []byte) ([]byte, error) {
	start := time.Now()
	defer r.metrics.TrackInFlight(transport)()

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	result, err := gateway.Process(ctx, r.summarizer, data)
	if err == nil {
		reply, mErr := json.Marshal(result)
		if mErr == nil {
			r.metrics.RecordRequest(transport, "ok", time.Since(start))
			return reply, nil
		}
		err = errors.WrapFatal(mErr, "Responder", "Handle", "encode result")
	}

	resp := gateway.NewErrorResponse(err, requestID)
	r.metrics.RecordError(transport, resp.Class)
	r.metrics.RecordRequest(transport, resp.Class, time.Since(start))
	r.logger.Debug("Summarize request failed", "request_id", requestID, "class", resp.Class, "error", err)

	// ErrorResponse always marshals.
	reply, _ := json.Marshal(resp)
	return reply, err
}

func (r *Responder) handleMsg(ctx context.Context, msg *nats.Msg) {
	if msg.Reply == "" {
		r.logger.Warn("Dropping summarize request without reply subject", "subject", msg.Subject)
		return
	}

	requestID := gateway.RequestID(msg.Header.Get(gateway.RequestIDHeader))
	reply, err := r.Handle(ctx, requestID, msg.Data)

	out := nats.NewMsg(msg.Reply)
	out.Data = reply
	out.Header.Set(gateway.RequestIDHeader, requestID)
	if err != nil {
		out.Header.Set(ErrorClassHeader, errors.Classify(err).String())
	}

	if err := msg.RespondMsg(out); err != nil {
		r.logger.Error("Failed to send reply", "request_id", requestID, "error", err)
	}
}
