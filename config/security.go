package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Limits applied to every config layer before it reaches the schema.
const (
	maxConfigSize = 10 << 20
	maxNesting    = 100
	maxEnvVarLen  = 10000
	maxPathLen    = 4096
)

// validateConfigPath rejects empty or oversized paths, relative paths that
// climb out of the working directory, and extensions other than JSON/YAML.
func validateConfigPath(path string) error {
	if path == "" {
		return errors.New("empty config path")
	}
	if len(path) > maxPathLen {
		return fmt.Errorf("path too long: %d > %d", len(path), maxPathLen)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
	default:
		return fmt.Errorf("only JSON or YAML config files allowed: %s", path)
	}

	if filepath.IsAbs(path) {
		return nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}
	rel, err := filepath.Rel(cwd, filepath.Join(cwd, path))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("path traversal not allowed: %s resolves outside working directory", path)
	}
	return nil
}

// safeReadFile reads one config layer after checking its path, type and size.
func safeReadFile(path string) ([]byte, error) {
	if err := validateConfigPath(path); err != nil {
		return nil, fmt.Errorf("invalid config path: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat config file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("not a regular file: %s", path)
	}
	if info.Size() > maxConfigSize {
		return nil, fmt.Errorf("config file too large: %d bytes > %d", info.Size(), maxConfigSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return data, nil
}

func validateEnvVar(key, value string) error {
	if len(value) > maxEnvVarLen {
		return fmt.Errorf("environment variable %s too long: %d > %d", key, len(value), maxEnvVarLen)
	}
	if strings.IndexByte(value, 0) >= 0 {
		return fmt.Errorf("null byte in environment variable %s", key)
	}
	return nil
}

// validateNesting walks a decoded layer and fails once maps and lists nest
// deeper than maxNesting. It runs after decoding so JSON and YAML layers
// share one limit.
func validateNesting(v any) error {
	if depth := nesting(v, 0); depth > maxNesting {
		return fmt.Errorf("config nesting too deep: more than %d levels", maxNesting)
	}
	return nil
}

// nesting returns the depth of v, stopping early once it passes maxNesting.
func nesting(v any, depth int) int {
	if depth > maxNesting {
		return depth
	}
	deepest := depth
	visit := func(child any) {
		if d := nesting(child, depth+1); d > deepest {
			deepest = d
		}
	}
	switch t := v.(type) {
	case map[string]any:
		for _, child := range t {
			visit(child)
		}
	case map[any]any:
		for _, child := range t {
			visit(child)
		}
	case []any:
		for _, child := range t {
			visit(child)
		}
	}
	return deepest
}
