package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/c360/lexrank/config"
	"github.com/c360/lexrank/errors"
	"github.com/c360/lexrank/health"
	httpgateway "github.com/c360/lexrank/gateway/http"
	natsgateway "github.com/c360/lexrank/gateway/nats"
	"github.com/c360/lexrank/metric"
	"github.com/c360/lexrank/natsclient"
	"github.com/c360/lexrank/pkg/retry"
	"github.com/c360/lexrank/summarizer"
)

// serve runs the enabled gateways until SIGINT or SIGTERM, then shuts them
// down within cli.ShutdownTimeout.
func serve(
	ctx context.Context,
	cli *CLIConfig,
	cfg *config.Config,
	s *summarizer.Summarizer,
	registry *metric.MetricsRegistry,
	logger *slog.Logger,
) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// At least one transport must run.
	if !cfg.HTTP.Enabled && !cfg.NATS.Enabled {
		cfg.HTTP.Enabled = true
	}

	logger.Info("Starting lexrank",
		"version", Version,
		"build_time", BuildTime,
		"http", cfg.HTTP.Enabled,
		"nats", cfg.NATS.Enabled,
		"metrics", cfg.Metrics.Enabled)

	core := registry.CoreMetrics()
	monitor := health.NewMonitor()
	g, gctx := errgroup.WithContext(ctx)

	var shutdown []func(context.Context) error

	if cfg.Metrics.Enabled {
		ms := metric.NewServer(cfg.Metrics.Port, cfg.Metrics.Path, registry)
		g.Go(ms.Start)
		shutdown = append(shutdown, ms.Stop)
		logger.Info("Metrics server started", "addr", ms.Address())
	}

	// abort stops whatever already started when setup fails part way.
	abort := func(err error) error {
		_ = runShutdown(shutdown, cli.ShutdownTimeout, logger)
		_ = g.Wait()
		return err
	}

	if cfg.HTTP.Enabled {
		gw, err := httpgateway.NewGateway(s, cfg.HTTP,
			httpgateway.WithLogger(logger),
			httpgateway.WithMetrics(core),
			httpgateway.WithHealth(monitor))
		if err != nil {
			return abort(err)
		}
		monitor.Set("http", health.StateHealthy, "serving")
		g.Go(gw.Start)
		shutdown = append(shutdown, gw.Stop)
	}

	if cfg.NATS.Enabled {
		client, err := connectToNATS(gctx, cfg.NATS, core, monitor, logger)
		if err != nil {
			return abort(err)
		}
		shutdown = append(shutdown, client.Close)

		responder, err := natsgateway.NewResponder(client, s, cfg.NATS,
			natsgateway.WithLogger(logger),
			natsgateway.WithMetrics(core))
		if err != nil {
			return abort(err)
		}
		if err := responder.Start(gctx); err != nil {
			return abort(err)
		}
		monitor.Set("nats", health.StateHealthy, "subscribed to "+cfg.NATS.Subject)
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down", "timeout", cli.ShutdownTimeout)
		return runShutdown(shutdown, cli.ShutdownTimeout, logger)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("lexrank stopped")
	return nil
}

// runShutdown calls hooks in reverse order and returns the first error.
func runShutdown(hooks []func(context.Context) error, timeout time.Duration, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var firstErr error
	for i := len(hooks) - 1; i >= 0; i-- {
		if err := hooks[i](ctx); err != nil {
			logger.Error("Shutdown step failed", "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// natsHealthReporter mirrors NATS connection health into monitor. A lost
// connection is degraded because nats.go keeps reconnecting.
func natsHealthReporter(monitor *health.Monitor) func(healthy bool) {
	return func(healthy bool) {
		if healthy {
			monitor.Set("nats", health.StateHealthy, "connected")
		} else {
			monitor.Set("nats", health.StateDegraded, "reconnecting")
		}
	}
}

// connectToNATS connects with retry. The client's circuit breaker limits
// how hard an unreachable server is hit.
func connectToNATS(
	ctx context.Context,
	cfg config.NATSConfig,
	m *metric.Metrics,
	monitor *health.Monitor,
	logger *slog.Logger,
) (*natsclient.Client, error) {
	if len(cfg.URLs) == 0 {
		return nil, errors.WrapFatal(errors.ErrMissingConfig, "main", "connectToNATS", "nats.urls is empty")
	}

	opts := []natsclient.ClientOption{
		natsclient.WithName(appName),
		natsclient.WithLogger(logger),
		natsclient.WithMetrics(m),
		natsclient.WithMaxReconnects(cfg.MaxReconnects),
		natsclient.WithReconnectWait(cfg.ReconnectWait.Std()),
		natsclient.WithHandlerTimeout(cfg.RequestTimeout.Std()),
		natsclient.WithHealthChangeCallback(natsHealthReporter(monitor)),
	}
	if cfg.Username != "" {
		opts = append(opts, natsclient.WithCredentials(cfg.Username, cfg.Password))
	}
	if cfg.Token != "" {
		opts = append(opts, natsclient.WithToken(cfg.Token))
	}
	if cfg.TLSCertFile != "" || cfg.TLSCAFile != "" {
		opts = append(opts, natsclient.WithTLS(cfg.TLSCertFile, cfg.TLSKeyFile, cfg.TLSCAFile))
	}

	client, err := natsclient.NewClient(strings.Join(cfg.URLs, ","), opts...)
	if err != nil {
		return nil, err
	}

	err = retry.Do(ctx, retry.Quick(), func() error {
		return client.Connect(ctx)
	})
	if err != nil {
		return nil, errors.Wrap(err, "main", "connectToNATS", "connect")
	}

	logger.Info("Connected to NATS", "url", client.URL())
	return client, nil
}
