package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/c360/lexrank/summarizer"
)

// CLIConfig holds command-line configuration
type CLIConfig struct {
	ConfigPaths     []string
	Ratio           float64
	RatioSet        bool
	Output          string
	LogLevel        string
	LogFormat       string
	LogFile         string
	LogMaxSizeMB    int
	Workers         int
	Serve           bool
	ShutdownTimeout time.Duration
	ShowVersion     bool
	ShowHelp        bool
	Validate        bool
	Files           []string
}

func parseFlags(args []string, stderr io.Writer) (*CLIConfig, error) {
	cfg := &CLIConfig{}
	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	fs.SetOutput(stderr)

	configPaths := getEnv("LEXRANK_CONFIG", "")
	fs.StringVar(&configPaths, "config", configPaths,
		"Comma separated configuration layers, later files win (env: LEXRANK_CONFIG)")

	fs.Float64Var(&cfg.Ratio, "ratio", 0,
		"Fraction of sentences to keep, in (0, 1] (default from config)")

	fs.StringVar(&cfg.Output, "output",
		getEnv("LEXRANK_OUTPUT", "text"),
		"Output format: text, json (env: LEXRANK_OUTPUT)")

	fs.StringVar(&cfg.LogLevel, "log-level", "",
		"Log level: debug, info, warn, error (default from config)")

	fs.StringVar(&cfg.LogFormat, "log-format", "",
		"Log format: json, text (default from config)")

	fs.StringVar(&cfg.LogFile, "log-file", "",
		"Write logs to a rotated file instead of stderr")

	fs.IntVar(&cfg.LogMaxSizeMB, "log-max-size-mb", 0,
		"Rotate the log file at this size (default from config)")

	fs.IntVar(&cfg.Workers, "batch-workers",
		getEnvInt("LEXRANK_BATCH_WORKERS", 4),
		"Documents summarized concurrently when several files are given (env: LEXRANK_BATCH_WORKERS)")

	fs.BoolVar(&cfg.Serve, "serve", false,
		"Run the HTTP and NATS gateways instead of summarizing input")

	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout",
		getEnvDuration("LEXRANK_SHUTDOWN_TIMEOUT", 15*time.Second),
		"Graceful shutdown timeout (env: LEXRANK_SHUTDOWN_TIMEOUT)")

	fs.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	fs.BoolVar(&cfg.ShowHelp, "help", false, "Show help information")
	fs.BoolVar(&cfg.ShowHelp, "h", false, "Show help information")
	fs.BoolVar(&cfg.Validate, "validate", false, "Validate configuration and exit")

	fs.Usage = func() {
		printDetailedHelp(stderr, fs)
	}

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %v", errUsage, err)
	}

	for _, p := range strings.Split(configPaths, ",") {
		if p = strings.TrimSpace(p); p != "" {
			cfg.ConfigPaths = append(cfg.ConfigPaths, p)
		}
	}
	cfg.Files = fs.Args()
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "ratio" {
			cfg.RatioSet = true
		}
	})

	if cfg.ShowHelp {
		fs.Usage()
	}
	return cfg, nil
}

func validateFlags(cfg *CLIConfig) error {
	if cfg.ShowVersion || cfg.ShowHelp {
		return nil
	}

	// Without -ratio the configured ratio applies; it is validated with
	// the rest of the config.
	if cfg.RatioSet {
		if err := summarizer.ValidateRatio(cfg.Ratio); err != nil {
			return fmt.Errorf("%w: ratio must be in (0, 1], got %v", errUsage, cfg.Ratio)
		}
	}

	if !contains([]string{"text", "json"}, cfg.Output) {
		return fmt.Errorf("%w: invalid output format: %s", errUsage, cfg.Output)
	}

	if cfg.LogLevel != "" && !contains([]string{"debug", "info", "warn", "error"}, cfg.LogLevel) {
		return fmt.Errorf("%w: invalid log level: %s", errUsage, cfg.LogLevel)
	}

	if cfg.LogFormat != "" && !contains([]string{"json", "text"}, cfg.LogFormat) {
		return fmt.Errorf("%w: invalid log format: %s", errUsage, cfg.LogFormat)
	}

	if cfg.LogMaxSizeMB < 0 {
		return fmt.Errorf("%w: log-max-size-mb must not be negative", errUsage)
	}

	if cfg.Workers < 1 {
		return fmt.Errorf("%w: batch-workers must be at least 1", errUsage)
	}

	if cfg.Serve && len(cfg.Files) > 0 {
		return fmt.Errorf("%w: -serve does not take input files", errUsage)
	}

	return nil
}

func printDetailedHelp(w io.Writer, fs *flag.FlagSet) {
	_, _ = fmt.Fprintf(w, `%s - extractive summarization with LexRank

Usage: %s [options] [file ...]

Reads stdin when no file is given.

Options:
`, appName, appName)
	fs.PrintDefaults()
	_, _ = fmt.Fprintf(w, `
Examples:
  # Keep half of the sentences of a file
  %s -ratio 0.5 article.txt

  # Summarize several files concurrently as JSON lines
  %s -output json a.txt b.txt c.txt

  # Serve HTTP and NATS with layered configuration
  %s -serve -config configs/base.json,configs/prod.yaml

Version: %s
Build: %s
`, appName, appName, appName, Version, BuildTime)
}

// Environment variable helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
