package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/lexrank/errors"
	"github.com/c360/lexrank/summarizer"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoader_Defaults(t *testing.T) {
	loader := NewLoader()
	loader.EnableValidation(true)

	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, summarizer.DefaultConfig(), cfg.Summarizer)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "lexrank.summarize", cfg.NATS.Subject)
	assert.Equal(t, 2*time.Second, cfg.NATS.ReconnectWait.Std())
	assert.Equal(t, int64(1<<20), cfg.HTTP.MaxBodyBytes)
}

func TestLoader_LoadJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{
		"summarizer": {"ratio": 0.5, "tie_break": "index", "exclude_self_similarity": true},
		"nats": {"enabled": true, "urls": ["nats://a:4222", "nats://b:4222"], "reconnect_wait": "5s"},
		"http": {"enabled": true, "request_timeout": 2000000000}
	}`)

	loader := NewLoader()
	loader.EnableValidation(true)
	cfg, err := loader.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 0.5, cfg.Summarizer.Ratio)
	assert.Equal(t, summarizer.TieBreakIndex, cfg.Summarizer.TieBreak)
	assert.True(t, cfg.Summarizer.ExcludeSelfSimilarity)
	// untouched keys keep their defaults
	assert.Equal(t, 0.85, cfg.Summarizer.Damping)
	assert.Equal(t, summarizer.DefaultHighlightOpen, cfg.Summarizer.HighlightOpen)
	assert.Equal(t, "lexrank.summarize", cfg.NATS.Subject)

	assert.Equal(t, []string{"nats://a:4222", "nats://b:4222"}, cfg.NATS.URLs)
	assert.Equal(t, 5*time.Second, cfg.NATS.ReconnectWait.Std())
	assert.Equal(t, 2*time.Second, cfg.HTTP.RequestTimeout.Std())
}

func TestLoader_LayersAndYAML(t *testing.T) {
	base := writeFile(t, "base.json", `{
		"summarizer": {"ratio": 0.4, "workers": 2},
		"log": {"level": "debug", "format": "text"}
	}`)
	override := writeFile(t, "override.yaml", `
summarizer:
  workers: 8
  highlight_mode: replace_all
  abbreviations: [corp, inc]
log:
  level: warn
metrics:
  enabled: true
  port: 9191
`)

	loader := NewLoader()
	loader.AddLayer(base)
	loader.AddLayer(override)
	loader.EnableValidation(true)

	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, 0.4, cfg.Summarizer.Ratio)
	assert.Equal(t, 8, cfg.Summarizer.Workers)
	assert.Equal(t, summarizer.HighlightReplaceAll, cfg.Summarizer.HighlightMode)
	assert.Equal(t, []string{"corp", "inc"}, cfg.Summarizer.Abbreviations)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 9191, cfg.Metrics.Port)
}

func TestLoader_SchemaRejectsBadLayers(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		field   string
	}{
		{"unknown section", "a.json", `{"platform": {}}`, "platform"},
		{"unknown key", "b.json", `{"summarizer": {"damping_factor": 0.5}}`, "damping_factor"},
		{"ratio out of range", "c.json", `{"summarizer": {"ratio": 1.5}}`, "summarizer.ratio"},
		{"bad enum", "d.yaml", "summarizer:\n  tie_break: random\n", "summarizer.tie_break"},
		{"bad duration", "e.json", `{"nats": {"reconnect_wait": "soon"}}`, "nats.reconnect_wait"},
		{"wrong type", "f.json", `{"http": {"max_body_bytes": "big"}}`, "http.max_body_bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)

			_, err := NewLoader().LoadFile(path)
			require.Error(t, err)
			assert.True(t, errors.IsFatal(err))
			assert.ErrorIs(t, err, errors.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestLoader_FileErrors(t *testing.T) {
	_, err := NewLoader().LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	txt := writeFile(t, "config.txt", `{}`)
	_, err = NewLoader().LoadFile(txt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only JSON or YAML")

	broken := writeFile(t, "broken.json", `{"summarizer": {"ratio": 0.3}`)
	_, err = NewLoader().LoadFile(broken)
	assert.Error(t, err)

	levels := maxNesting + 5
	deep := writeFile(t, "deep.json", strings.Repeat(`{"a":`, levels)+"1"+strings.Repeat("}", levels))
	_, err = NewLoader().LoadFile(deep)
	require.Error(t, err)
	assert.True(t, errors.IsFatal(err))
	assert.Contains(t, err.Error(), "nesting too deep")
}

func TestLoader_DeepYAMLRejected(t *testing.T) {
	var b strings.Builder
	for i := 0; i < maxNesting+5; i++ {
		b.WriteString(strings.Repeat("  ", i))
		b.WriteString("a:\n")
	}
	b.WriteString(strings.Repeat("  ", maxNesting+5))
	b.WriteString("b: 1\n")

	deep := writeFile(t, "deep.yaml", b.String())
	_, err := NewLoader().LoadFile(deep)
	require.Error(t, err)
	assert.True(t, errors.IsFatal(err))
	assert.Contains(t, err.Error(), "nesting too deep")

	shallow := writeFile(t, "shallow.yaml", "summarizer:\n  ratio: 0.4\n")
	cfg, err := NewLoader().LoadFile(shallow)
	require.NoError(t, err)
	assert.Equal(t, 0.4, cfg.Summarizer.Ratio)
}

func TestLoader_EnvOverrides(t *testing.T) {
	t.Setenv("LEXRANK_RATIO", "0.25")
	t.Setenv("LEXRANK_TIE_BREAK", "index")
	t.Setenv("LEXRANK_WORKERS", "3")
	t.Setenv("LEXRANK_LOG_LEVEL", "debug")
	t.Setenv("LEXRANK_NATS_URLS", "nats://x:4222,nats://y:4222")
	t.Setenv("LEXRANK_NATS_TOKEN", "s3cret")
	t.Setenv("LEXRANK_METRICS_PORT", "9300")

	path := writeFile(t, "config.json", `{"summarizer": {"ratio": 0.9}}`)

	loader := NewLoader()
	loader.EnableValidation(true)
	cfg, err := loader.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 0.25, cfg.Summarizer.Ratio, "environment wins over files")
	assert.Equal(t, summarizer.TieBreakIndex, cfg.Summarizer.TieBreak)
	assert.Equal(t, 3, cfg.Summarizer.Workers)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, []string{"nats://x:4222", "nats://y:4222"}, cfg.NATS.URLs)
	assert.Equal(t, 9300, cfg.Metrics.Port)

	assert.NotContains(t, cfg.String(), "s3cret")
	assert.Equal(t, "s3cret", cfg.NATS.Token, "masking must not modify the config")
}

func TestLoader_EnvOverrideErrors(t *testing.T) {
	tests := map[string]string{
		"LEXRANK_RATIO":        "lots",
		"LEXRANK_WORKERS":      "many",
		"LEXRANK_METRICS_PORT": "port",
		"LEXRANK_LOG_FILE":     strings.Repeat("x", maxEnvVarLen+1),
	}

	for key, val := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			_, err := NewLoader().Load()
			require.Error(t, err)
			assert.True(t, errors.IsFatal(err))
		})
	}
}

func TestLoader_ValidationAfterOverrides(t *testing.T) {
	t.Setenv("LEXRANK_HIGHLIGHT_MODE", "bold")

	loader := NewLoader()
	_, err := loader.Load()
	require.NoError(t, err, "validation is off by default")

	loader.EnableValidation(true)
	_, err = loader.Load()
	require.Error(t, err)
	assert.True(t, errors.IsFatal(err))
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"log level", func(c *Config) { c.Log.Level = "trace" }},
		{"log format", func(c *Config) { c.Log.Format = "xml" }},
		{"http addr", func(c *Config) { c.HTTP.Enabled = true; c.HTTP.Addr = "8080" }},
		{"http body", func(c *Config) { c.HTTP.Enabled = true; c.HTTP.MaxBodyBytes = 0 }},
		{"http burst", func(c *Config) { c.HTTP.Enabled = true; c.HTTP.Burst = 0 }},
		{"http tls files", func(c *Config) { c.HTTP.Enabled = true; c.HTTP.TLS.Enabled = true }},
		{"http tls version", func(c *Config) {
			c.HTTP.Enabled = true
			c.HTTP.TLS = TLSConfig{Enabled: true, CertFile: "c.pem", KeyFile: "k.pem", MinVersion: "1.1"}
		}},
		{"nats tls pair", func(c *Config) { c.NATS.Enabled = true; c.NATS.TLSCertFile = "c.pem" }},
		{"nats urls", func(c *Config) { c.NATS.Enabled = true; c.NATS.URLs = nil }},
		{"nats subject", func(c *Config) { c.NATS.Enabled = true; c.NATS.Subject = "lex rank" }},
		{"metrics port", func(c *Config) { c.Metrics.Enabled = true; c.Metrics.Port = 70000 }},
		{"summarizer", func(c *Config) { c.Summarizer.MaxIterations = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsFatal(err))
		})
	}

	assert.NoError(t, Default().Validate())
}

func TestDuration_JSON(t *testing.T) {
	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`"1m30s"`), &d))
	assert.Equal(t, 90*time.Second, d.Std())

	require.NoError(t, json.Unmarshal([]byte(`1500000000`), &d))
	assert.Equal(t, 1500*time.Millisecond, d.Std())

	assert.Error(t, json.Unmarshal([]byte(`"fast"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`true`), &d))

	data, err := json.Marshal(Duration(250 * time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, `"250ms"`, string(data))
}

func TestSchema_IsValidJSON(t *testing.T) {
	var doc map[string]any
	require.NoError(t, json.Unmarshal(Schema(), &doc))
	assert.Equal(t, "object", doc["type"])
}
