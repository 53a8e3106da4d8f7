package config

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/c360/lexrank/errors"
)

//go:embed schema.json
var schemaJSON []byte

var configSchema = gojsonschema.NewBytesLoader(schemaJSON)

// Schema returns the JSON schema configuration layers are validated against
func Schema() []byte {
	return append([]byte(nil), schemaJSON...)
}

// validateSchema checks one decoded layer against the embedded schema
func validateSchema(raw map[string]any) error {
	result, err := gojsonschema.Validate(configSchema, gojsonschema.NewGoLoader(raw))
	if err != nil {
		return errors.WrapFatal(err, "Loader", "validateSchema", "run schema validation")
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	return errors.WrapFatal(
		fmt.Errorf("%w: %s", errors.ErrInvalidConfig, strings.Join(problems, "; ")),
		"Loader", "validateSchema", "validate against schema")
}
