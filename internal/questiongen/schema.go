package questiongen

import (
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const questionSchemaURL = "schema://question-record.json"

// questionSchemaJSON describes one element of the model's JSON array.
// Scalars may be strings, numbers, booleans or null; they are rendered as
// text and null becomes "". A null key still counts as present.
const questionSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "$defs": {
    "scalar": {"type": ["string", "number", "boolean", "null"]}
  },
  "properties": {
    "context":        {"$ref": "#/$defs/scalar"},
    "question":       {"$ref": "#/$defs/scalar"},
    "correct_option": {"$ref": "#/$defs/scalar"},
    "explanation":    {"$ref": "#/$defs/scalar"},
    "category":       {"$ref": "#/$defs/scalar"},
    "difficulty":     {"$ref": "#/$defs/scalar"},
    "options": {
      "type": "object",
      "properties": {
        "A": {"$ref": "#/$defs/scalar"},
        "B": {"$ref": "#/$defs/scalar"},
        "C": {"$ref": "#/$defs/scalar"},
        "D": {"$ref": "#/$defs/scalar"}
      },
      "required": ["A", "B", "C", "D"],
      "additionalProperties": false
    }
  },
  "required": ["context", "question", "options", "correct_option", "explanation", "category", "difficulty"]
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// questionSchema returns the compiled question schema, compiling it on
// first use.
func questionSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(questionSchemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("parse question schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(questionSchemaURL, doc); err != nil {
			schemaErr = fmt.Errorf("add resource: %w", err)
			return
		}

		compiledSchema, schemaErr = c.Compile(questionSchemaURL)
	})
	return compiledSchema, schemaErr
}
