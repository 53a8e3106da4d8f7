// Package main implements the lexrank command. It summarizes files or stdin
// with LexRank, or with -serve runs the HTTP and NATS gateways.
package main

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/c360/lexrank/config"
	"github.com/c360/lexrank/errors"
	"github.com/c360/lexrank/metric"
	"github.com/c360/lexrank/pkg/worker"
	"github.com/c360/lexrank/summarizer"
)

// Build information constants
const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "lexrank"
)

// batchStopTimeout bounds how long a batch waits for in-flight documents.
const batchStopTimeout = 10 * time.Minute

// errUsage marks command-line mistakes; they exit with status 2.
var errUsage = stderrors.New("usage error")

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if stderrors.Is(err, errUsage) || errors.IsInvalid(err) {
		return 2
	}
	return 1
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cli, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if err := validateFlags(cli); err != nil {
		return err
	}
	if cli.ShowHelp {
		return nil
	}
	if cli.ShowVersion {
		_, _ = fmt.Fprintf(stdout, "%s version %s\n", appName, Version)
		return nil
	}

	cfg, err := loadConfig(cli)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, closer := setupLogger(cfg.Log, stderr)
	defer closer.Close()
	slog.SetDefault(logger)

	if cli.Validate {
		_, _ = fmt.Fprintln(stdout, "configuration is valid")
		return nil
	}

	var registry *metric.MetricsRegistry
	if cfg.Metrics.Enabled || cli.Serve {
		registry = metric.NewMetricsRegistry()
	}

	s, err := summarizer.New(nil, cfg.Summarizer,
		summarizer.WithLogger(logger),
		summarizer.WithMetrics(registry))
	if err != nil {
		return fmt.Errorf("create summarizer: %w", err)
	}

	if cli.Serve {
		return serve(ctx, cli, cfg, s, registry, logger)
	}

	ratio := cfg.Summarizer.Ratio
	if cli.RatioSet {
		ratio = cli.Ratio
	}

	docs, err := readInputs(cli.Files, stdin)
	if err != nil {
		return err
	}

	outcomes, err := summarizeAll(ctx, s, docs, ratio, cli.Workers, registry)
	if err != nil {
		return err
	}
	return writeOutcomes(stdout, stderr, outcomes, cli.Output)
}

// loadConfig layers the -config files over the defaults, applies LEXRANK_*
// overrides and then the logging flags.
func loadConfig(cli *CLIConfig) (*config.Config, error) {
	loader := config.NewLoader()
	for _, path := range cli.ConfigPaths {
		loader.AddLayer(path)
	}
	loader.EnableValidation(true)

	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}

	if cli.LogLevel != "" {
		cfg.Log.Level = cli.LogLevel
	}
	if cli.LogFormat != "" {
		cfg.Log.Format = cli.LogFormat
	}
	if cli.LogFile != "" {
		cfg.Log.File = cli.LogFile
	}
	if cli.LogMaxSizeMB > 0 {
		cfg.Log.MaxSizeMB = cli.LogMaxSizeMB
	}
	return cfg, nil
}

type document struct {
	source string
	text   string
}

type outcome struct {
	Source string             `json:"source"`
	Result *summarizer.Result `json:"result,omitempty"`
	Error  string             `json:"error,omitempty"`
	err    error
}

func readInputs(files []string, stdin io.Reader) ([]document, error) {
	if len(files) == 0 {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return []document{{source: "-", text: string(data)}}, nil
	}

	docs := make([]document, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		docs = append(docs, document{source: path, text: string(data)})
	}
	return docs, nil
}

// summarizeAll summarizes docs, concurrently when there is more than one.
// Outcomes keep the order of docs.
func summarizeAll(
	ctx context.Context,
	s *summarizer.Summarizer,
	docs []document,
	ratio float64,
	workers int,
	registry *metric.MetricsRegistry,
) ([]outcome, error) {
	outcomes := make([]outcome, len(docs))

	if len(docs) == 1 {
		res, err := s.Summarize(ctx, docs[0].text, ratio)
		outcomes[0] = outcome{Source: docs[0].source, Result: res, err: err}
		return outcomes, nil
	}

	var opts []worker.Option[int]
	if registry != nil {
		opts = append(opts, worker.WithMetricsRegistry[int](registry, "lexrank_batch"))
	}

	// Each worker writes only its own index.
	pool := worker.NewPool(min(workers, len(docs)), len(docs), func(ctx context.Context, i int) error {
		res, err := s.Summarize(ctx, docs[i].text, ratio)
		outcomes[i] = outcome{Source: docs[i].source, Result: res, err: err}
		return err
	}, opts...)

	if err := pool.Start(ctx); err != nil {
		return nil, errors.Wrap(err, "main", "summarizeAll", "start pool")
	}
	for i := range docs {
		if err := pool.SubmitWait(ctx, i); err != nil {
			_ = pool.Stop(batchStopTimeout)
			return nil, errors.Wrap(err, "main", "summarizeAll", "submit document")
		}
	}
	if err := pool.Stop(batchStopTimeout); err != nil {
		return nil, errors.Wrap(err, "main", "summarizeAll", "wait for documents")
	}

	for i := range outcomes {
		if outcomes[i].Result == nil && outcomes[i].err == nil {
			outcomes[i] = outcome{Source: docs[i].source, err: context.Cause(ctx)}
		}
	}
	return outcomes, nil
}

// writeOutcomes prints every outcome in order. Failed documents are
// reported on stderr and the first failure is returned.
func writeOutcomes(stdout, stderr io.Writer, outcomes []outcome, format string) error {
	var (
		firstErr error
		failed   int
	)
	enc := json.NewEncoder(stdout)

	for i, o := range outcomes {
		if o.err != nil {
			failed++
			if firstErr == nil {
				firstErr = o.err
			}
		}

		if format == "json" {
			if o.err != nil {
				o.Error = o.err.Error()
			}
			if err := enc.Encode(o); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			continue
		}

		if o.err != nil {
			_, _ = fmt.Fprintf(stderr, "%s: %v\n", o.Source, o.err)
			continue
		}
		if len(outcomes) > 1 {
			if i > 0 {
				_, _ = fmt.Fprintln(stdout)
			}
			_, _ = fmt.Fprintf(stdout, "==> %s <==\n", o.Source)
		}
		if err := writeText(stdout, o.Result); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}

	if firstErr != nil {
		if len(outcomes) == 1 {
			return firstErr
		}
		return fmt.Errorf("%d of %d documents failed: %w", failed, len(outcomes), firstErr)
	}
	return nil
}

// writeText prints the ranking, the summary and the length report.
func writeText(w io.Writer, res *summarizer.Result) error {
	if _, err := fmt.Fprintln(w, "--- Sentence Rankings ---"); err != nil {
		return err
	}
	for rank, entry := range res.RankedEntries {
		if _, err := fmt.Fprintf(w, "Rank %d: (Score: %.4f) %s\n", rank+1, entry.Score, entry.Text); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "\n--- Summary ---\n%s\n\nOriginal Length: %d words\nSummary Length: %d words\n",
		res.SummaryText, res.OriginalWordCount, res.SummaryWordCount)
	return err
}
