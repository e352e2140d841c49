package config

import (
	"encoding/json"
	"strings"

	verrors "github.com/systmms/vaultenv/internal/errors"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// fileSchema constrains vaultenv.yaml. additionalProperties is false so a
// misspelled key (or an attempt to put credentials in the file) fails loudly
// instead of being silently ignored.
const fileSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "namespace": {"type": "string"},
    "prefix":    {"type": "string", "minLength": 1},
    "ca_cert":   {"type": "string"},
    "tls_skip":  {"type": "boolean"}
  }
}`

// validateFile checks raw YAML against the schema before it is decoded into
// the File struct.
func validateFile(data []byte, path string) error {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return verrors.ConfigFileError{
			Path:    path,
			Message: "invalid YAML",
			Err:     err,
		}
	}
	if doc == nil {
		// Empty file, nothing to validate.
		return nil
	}

	jsonData, err := json.Marshal(doc)
	if err != nil {
		return verrors.ConfigFileError{
			Path:    path,
			Message: "cannot convert to JSON for validation",
			Err:     err,
		}
	}

	schemaLoader := gojsonschema.NewStringLoader(fileSchema)
	documentLoader := gojsonschema.NewBytesLoader(jsonData)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return verrors.ConfigFileError{
			Path:    path,
			Message: "schema validation error",
			Err:     err,
		}
	}

	if !result.Valid() {
		var messages []string
		for _, desc := range result.Errors() {
			messages = append(messages, desc.String())
		}
		return verrors.ConfigFileError{
			Path:    path,
			Message: "schema validation failed: " + strings.Join(messages, "; "),
		}
	}

	return nil
}
