package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/c360/lexrank/errors"
	"github.com/c360/lexrank/summarizer"
)

// Config represents the complete application configuration
type Config struct {
	Summarizer summarizer.Config `json:"summarizer"`
	Log        LogConfig         `json:"log"`
	HTTP       HTTPConfig        `json:"http"`
	NATS       NATSConfig        `json:"nats"`
	Metrics    MetricsConfig     `json:"metrics"`
}

// LogConfig controls the process logger
type LogConfig struct {
	Level      string `json:"level"`
	Format     string `json:"format"`
	File       string `json:"file,omitempty"` // rotated with lumberjack when set
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
	Compress   bool   `json:"compress"`
}

// HTTPConfig defines the HTTP gateway
type HTTPConfig struct {
	Enabled      bool     `json:"enabled"`
	Addr         string   `json:"addr"`
	MaxBodyBytes int64    `json:"max_body_bytes"`
	RateLimit    float64  `json:"rate_limit"` // requests per second, 0 disables limiting
	Burst        int      `json:"burst"`
	ReadTimeout  Duration `json:"read_timeout"`
	WriteTimeout Duration `json:"write_timeout"`
	// RequestTimeout bounds one summarization
	RequestTimeout Duration  `json:"request_timeout"`
	TLS            TLSConfig `json:"tls"`
}

// TLSConfig enables HTTPS on the HTTP gateway. Listing ClientCAFiles turns
// on client certificate verification.
type TLSConfig struct {
	Enabled           bool     `json:"enabled"`
	CertFile          string   `json:"cert_file,omitempty"`
	KeyFile           string   `json:"key_file,omitempty"`
	MinVersion        string   `json:"min_version,omitempty"` // "1.2" or "1.3"
	ClientCAFiles     []string `json:"client_ca_files,omitempty"`
	RequireClientCert bool     `json:"require_client_cert"`
	AllowedClientCNs  []string `json:"allowed_client_cns,omitempty"`
}

// NATSConfig defines NATS connection settings
type NATSConfig struct {
	Enabled        bool     `json:"enabled"`
	URLs           []string `json:"urls,omitempty"`
	Subject        string   `json:"subject"`
	QueueGroup     string   `json:"queue_group"`
	MaxReconnects  int      `json:"max_reconnects"`
	ReconnectWait  Duration `json:"reconnect_wait"`
	Username       string   `json:"username,omitempty"`
	Password       string   `json:"password,omitempty"`
	Token          string   `json:"token,omitempty"`
	RequestTimeout Duration `json:"request_timeout"`
	TLSCertFile    string   `json:"tls_cert_file,omitempty"`
	TLSKeyFile     string   `json:"tls_key_file,omitempty"`
	TLSCAFile      string   `json:"tls_ca_file,omitempty"`
}

// MetricsConfig defines the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `json:"enabled"`
	Port    int    `json:"port"`
	Path    string `json:"path"`
}

// Duration is a time.Duration that reads Go duration strings or integer
// nanoseconds and writes duration strings.
type Duration time.Duration

// Std returns the value as a time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// MarshalJSON implements json.Marshaler
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case string:
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return err
		}
		*d = Duration(parsed)
	case float64:
		*d = Duration(time.Duration(val))
	default:
		return fmt.Errorf("invalid duration %v", v)
	}
	return nil
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Summarizer: summarizer.DefaultConfig(),
		Log: LogConfig{
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		HTTP: HTTPConfig{
			Addr:           ":8080",
			MaxBodyBytes:   1 << 20,
			RateLimit:      50,
			Burst:          100,
			ReadTimeout:    Duration(10 * time.Second),
			WriteTimeout:   Duration(30 * time.Second),
			RequestTimeout: Duration(10 * time.Second),
		},
		NATS: NATSConfig{
			URLs:           []string{"nats://localhost:4222"},
			Subject:        "lexrank.summarize",
			QueueGroup:     "lexrank",
			MaxReconnects:  -1,
			ReconnectWait:  Duration(2 * time.Second),
			RequestTimeout: Duration(10 * time.Second),
		},
		Metrics: MetricsConfig{
			Port: 9090,
			Path: "/metrics",
		},
	}
}

// Validate checks if the config is valid
func (c *Config) Validate() error {
	if err := c.Summarizer.Validate(); err != nil {
		return errors.Wrap(err, "Config", "Validate", "summarizer section")
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return invalidField("log.level", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return invalidField("log.format", c.Log.Format)
	}

	if c.HTTP.Enabled {
		if _, _, err := net.SplitHostPort(c.HTTP.Addr); err != nil {
			return invalidField("http.addr", c.HTTP.Addr)
		}
		if c.HTTP.MaxBodyBytes <= 0 {
			return invalidField("http.max_body_bytes", c.HTTP.MaxBodyBytes)
		}
		if c.HTTP.RateLimit < 0 || (c.HTTP.RateLimit > 0 && c.HTTP.Burst < 1) {
			return invalidField("http.burst", c.HTTP.Burst)
		}
		if tls := c.HTTP.TLS; tls.Enabled {
			if tls.CertFile == "" || tls.KeyFile == "" {
				return errors.WrapFatal(errors.ErrMissingConfig, "Config", "Validate", "http.tls cert_file and key_file")
			}
			switch tls.MinVersion {
			case "", "1.2", "1.3":
			default:
				return invalidField("http.tls.min_version", tls.MinVersion)
			}
		}
	}

	if c.NATS.Enabled {
		if len(c.NATS.URLs) == 0 {
			return errors.WrapFatal(errors.ErrMissingConfig, "Config", "Validate", "nats.urls")
		}
		if c.NATS.Subject == "" || strings.ContainsAny(c.NATS.Subject, " \t\r\n") {
			return invalidField("nats.subject", c.NATS.Subject)
		}
		if (c.NATS.TLSCertFile == "") != (c.NATS.TLSKeyFile == "") {
			return invalidField("nats.tls_key_file", c.NATS.TLSKeyFile)
		}
	}

	if c.Metrics.Enabled && (c.Metrics.Port < 1 || c.Metrics.Port > 65535) {
		return invalidField("metrics.port", c.Metrics.Port)
	}

	return nil
}

func invalidField(field string, value any) error {
	return errors.WrapFatal(errors.ErrInvalidConfig, "Config", "Validate",
		fmt.Sprintf("%s %v", field, value))
}

// String returns an indented JSON representation with secrets masked
func (c *Config) String() string {
	masked := *c
	if masked.NATS.Password != "" {
		masked.NATS.Password = "***"
	}
	if masked.NATS.Token != "" {
		masked.NATS.Token = "***"
	}
	data, _ := json.MarshalIndent(&masked, "", "  ")
	return string(data)
}

// Loader handles configuration loading with layers and overrides
type Loader struct {
	layers     []string
	validation bool
	envPrefix  string
	lookupEnv  func(string) (string, bool)
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{
		layers:     []string{},
		validation: false,
		envPrefix:  "LEXRANK",
		lookupEnv:  os.LookupEnv,
	}
}

// AddLayer adds a configuration file layer
func (l *Loader) AddLayer(path string) {
	l.layers = append(l.layers, path)
}

// EnableValidation enables or disables configuration validation
func (l *Loader) EnableValidation(enable bool) {
	l.validation = enable
}

// LoadFile loads configuration from a single file
func (l *Loader) LoadFile(path string) (*Config, error) {
	l.layers = []string{path}
	return l.Load()
}

// Load loads and merges all configuration layers
func (l *Loader) Load() (*Config, error) {
	cfg := Default()

	for _, path := range l.layers {
		raw, err := l.loadRaw(path)
		if err != nil {
			return nil, errors.Wrap(err, "Loader", "Load", fmt.Sprintf("load %s", path))
		}
		cfg, err = l.mergeFromMap(cfg, raw)
		if err != nil {
			return nil, errors.Wrap(err, "Loader", "Load", fmt.Sprintf("merge %s", path))
		}
	}

	if err := l.applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if l.validation {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// loadRaw reads one layer as a generic map and checks it against the schema
func (l *Loader) loadRaw(path string) (map[string]any, error) {
	data, err := safeReadFile(path)
	if err != nil {
		return nil, errors.WrapFatal(err, "Loader", "loadRaw", "read file")
	}

	var raw map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, errors.WrapFatal(err, "Loader", "loadRaw", "parse YAML")
		}
	default:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, errors.WrapFatal(err, "Loader", "loadRaw", "parse JSON")
		}
	}
	if err := validateNesting(raw); err != nil {
		return nil, errors.WrapFatal(err, "Loader", "loadRaw", "check structure")
	}
	if raw == nil {
		raw = map[string]any{}
	}

	if err := validateSchema(raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// mergeFromMap merges configuration from a raw map, only overriding fields present in the map
func (l *Loader) mergeFromMap(base *Config, override map[string]any) (*Config, error) {
	baseJSON, err := json.Marshal(base)
	if err != nil {
		return nil, err
	}

	var baseMap map[string]any
	if err := json.Unmarshal(baseJSON, &baseMap); err != nil {
		return nil, err
	}

	mergedJSON, err := json.Marshal(deepMergeMaps(baseMap, override))
	if err != nil {
		return nil, errors.WrapFatal(err, "Loader", "mergeFromMap", "encode merged layer")
	}

	var merged Config
	if err := json.Unmarshal(mergedJSON, &merged); err != nil {
		return nil, errors.WrapFatal(err, "Loader", "mergeFromMap", "decode merged layer")
	}
	return &merged, nil
}

// deepMergeMaps recursively merges two maps, with override taking precedence
func deepMergeMaps(base, override map[string]any) map[string]any {
	result := make(map[string]any, len(base))
	for k, v := range base {
		result[k] = v
	}

	for k, v := range override {
		if v == nil {
			continue
		}
		if baseMap, ok := base[k].(map[string]any); ok {
			if overrideMap, ok := v.(map[string]any); ok {
				result[k] = deepMergeMaps(baseMap, overrideMap)
				continue
			}
		}
		result[k] = v
	}

	return result
}

// applyEnvOverrides applies environment variable overrides
func (l *Loader) applyEnvOverrides(cfg *Config) error {
	get := func(name string) (string, bool, error) {
		key := l.envPrefix + "_" + name
		val, ok := l.lookupEnv(key)
		if !ok || val == "" {
			return "", false, nil
		}
		if err := validateEnvVar(key, val); err != nil {
			return "", false, errors.WrapFatal(err, "Loader", "applyEnvOverrides", key)
		}
		return val, true, nil
	}

	strs := []struct {
		name string
		dst  *string
	}{
		{"LOG_LEVEL", &cfg.Log.Level},
		{"LOG_FORMAT", &cfg.Log.Format},
		{"LOG_FILE", &cfg.Log.File},
		{"HTTP_ADDR", &cfg.HTTP.Addr},
		{"NATS_SUBJECT", &cfg.NATS.Subject},
		{"NATS_TOKEN", &cfg.NATS.Token},
	}
	for _, s := range strs {
		val, ok, err := get(s.name)
		if err != nil {
			return err
		}
		if ok {
			*s.dst = val
		}
	}

	if val, ok, err := get("TIE_BREAK"); err != nil {
		return err
	} else if ok {
		cfg.Summarizer.TieBreak = summarizer.TieBreak(val)
	}
	if val, ok, err := get("HIGHLIGHT_MODE"); err != nil {
		return err
	} else if ok {
		cfg.Summarizer.HighlightMode = summarizer.HighlightMode(val)
	}
	if val, ok, err := get("NATS_URLS"); err != nil {
		return err
	} else if ok {
		cfg.NATS.URLs = strings.Split(val, ",")
	}

	if val, ok, err := get("RATIO"); err != nil {
		return err
	} else if ok {
		ratio, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return errors.WrapFatal(err, "Loader", "applyEnvOverrides", l.envPrefix+"_RATIO")
		}
		cfg.Summarizer.Ratio = ratio
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"WORKERS", &cfg.Summarizer.Workers},
		{"METRICS_PORT", &cfg.Metrics.Port},
	}
	for _, s := range ints {
		val, ok, err := get(s.name)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		n, err := strconv.Atoi(val)
		if err != nil {
			return errors.WrapFatal(err, "Loader", "applyEnvOverrides", l.envPrefix+"_"+s.name)
		}
		*s.dst = n
	}

	return nil
}
