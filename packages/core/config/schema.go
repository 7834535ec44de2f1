package config

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "rootDir": {"type": "string"},
    "outputDir": {"type": "string"},
    "noColor": {"type": "boolean"},
    "reporter": {
      "oneOf": [
        {"type": "string", "minLength": 1},
        {
          "type": "array",
          "items": {
            "oneOf": [
              {"type": "string", "minLength": 1},
              {
                "type": "array",
                "minItems": 1,
                "maxItems": 2,
                "items": [{"type": "string", "minLength": 1}]
              }
            ]
          }
        }
      ]
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(configSchema)

// Validate checks a decoded config document against the config schema
func Validate(doc any) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
