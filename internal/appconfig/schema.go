// internal/appconfig/schema.go
package appconfig

import (
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// configSchema constrains the optional JSON config file to the same ranges
// Validate enforces, so a bad file is reported against the file rather than
// as a flag error later.
const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "ollamaUrl": { "type": "string", "pattern": "^https?://" },
    "iterations": { "type": "integer", "minimum": 1, "maximum": 1000 },
    "prompt": { "type": "string", "minLength": 1 },
    "temperature": { "type": "number", "minimum": 0.0, "maximum": 2.0 },
    "maxTokens": { "type": "integer", "minimum": 1, "maximum": 4096 },
    "timeout": { "type": "integer", "minimum": 1 },
    "iterationDelayMs": { "type": "integer", "minimum": 0 },
    "modelDelayMs": { "type": "integer", "minimum": 0 },
    "output": { "type": "string", "enum": ["table", "json", "csv", "markdown", "yaml"] },
    "export": { "type": "string" },
    "quiet": { "type": "boolean" },
    "verbose": { "type": "boolean" },
    "debug": { "type": "boolean" },
    "logFile": { "type": "string" }
  }
}`

// ValidateFile checks a JSON config file against the embedded schema before
// it is loaded, so typos and out-of-range values surface with the offending
// field named.
func ValidateFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read config file %q: %w", path, err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(configSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("could not parse config file %q: %w", path, err)
	}

	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return fmt.Errorf("invalid config file %q: %s", path, strings.Join(problems, "; "))
	}

	return nil
}
