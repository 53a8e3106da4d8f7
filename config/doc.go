// Package config loads the lexrank service configuration.
//
// Configuration is assembled from layers: built-in defaults, then each file
// added with AddLayer (JSON, or YAML when the file ends in .yaml or .yml),
// then LEXRANK_* environment variables. Later layers only override the keys
// they set; nested objects are merged key by key.
//
//	loader := config.NewLoader()
//	loader.AddLayer("configs/base.json")
//	loader.AddLayer("configs/production.yaml")
//	loader.EnableValidation(true)
//
//	cfg, err := loader.Load()
//	if err != nil {
//	    return err
//	}
//
// Every file layer is checked against an embedded JSON schema before it is
// merged, so unknown keys and mistyped values are reported with their field
// path. Files are read through size, nesting-depth and path-traversal guards.
//
// Durations accept Go duration strings ("2s", "250ms") or integer
// nanoseconds.
//
// # Environment Overrides
//
//	LEXRANK_RATIO              summarizer.ratio
//	LEXRANK_TIE_BREAK          summarizer.tie_break
//	LEXRANK_HIGHLIGHT_MODE     summarizer.highlight_mode
//	LEXRANK_WORKERS            summarizer.workers
//	LEXRANK_LOG_LEVEL          log.level
//	LEXRANK_LOG_FORMAT         log.format
//	LEXRANK_LOG_FILE           log.file
//	LEXRANK_HTTP_ADDR          http.addr
//	LEXRANK_NATS_URLS          nats.urls (comma separated)
//	LEXRANK_NATS_SUBJECT       nats.subject
//	LEXRANK_NATS_TOKEN         nats.token
//	LEXRANK_METRICS_PORT       metrics.port
package config
