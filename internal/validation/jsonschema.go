package validation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rendis/flowtree/pkg/schema"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// processSchemaJSON is the JSON Schema for process document validation.
// Embedded as a constant to avoid filesystem dependencies. The schema is
// recursive: subprocess nodes carry a nested process document under "graph".
const processSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://flowtree.dev/schemas/process.json",
  "type": "object",
  "required": ["id", "nodes", "edges"],
  "properties": {
    "id": {
      "type": "string",
      "minLength": 1
    },
    "name": { "type": "string" },
    "attributes": { "$ref": "#/$defs/attributes" },
    "nodes": {
      "type": "array",
      "minItems": 1,
      "items": { "$ref": "#/$defs/node" }
    },
    "edges": {
      "type": "array",
      "items": { "$ref": "#/$defs/edge" }
    }
  },
  "additionalProperties": false,
  "$defs": {
    "attributes": {
      "type": "object",
      "additionalProperties": { "type": "string" }
    },
    "node": {
      "type": "object",
      "required": ["id", "kind"],
      "properties": {
        "id": {
          "type": "string",
          "minLength": 1
        },
        "kind": {
          "type": "string",
          "enum": ["start", "end", "task", "exclusive", "parallel", "subprocess"]
        },
        "name": { "type": "string" },
        "attributes": { "$ref": "#/$defs/attributes" },
        "graph": { "$ref": "#" }
      },
      "additionalProperties": false
    },
    "edge": {
      "type": "object",
      "required": ["source", "target"],
      "properties": {
        "id": { "type": "string" },
        "source": {
          "type": "string",
          "minLength": 1
        },
        "target": {
          "type": "string",
          "minLength": 1
        },
        "condition": { "type": "string" }
      },
      "additionalProperties": false
    }
  }
}`

// JSONSchemaValidator validates raw process documents against the process
// JSON Schema (Draft 2020-12). It is safe for concurrent use.
type JSONSchemaValidator struct {
	processSchema *jsonschema.Schema
}

// NewJSONSchemaValidator creates a JSONSchemaValidator with the process
// schema pre-compiled.
func NewJSONSchemaValidator() (*JSONSchemaValidator, error) {
	c := jsonschema.NewCompiler()
	c.AssertFormat()

	schemaDoc, err := jsonschema.UnmarshalJSON(strings.NewReader(processSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("unmarshal process schema: %w", err)
	}
	if err := c.AddResource("https://flowtree.dev/schemas/process.json", schemaDoc); err != nil {
		return nil, fmt.Errorf("add process schema resource: %w", err)
	}

	ps, err := c.Compile("https://flowtree.dev/schemas/process.json")
	if err != nil {
		return nil, fmt.Errorf("compile process schema: %w", err)
	}

	return &JSONSchemaValidator{processSchema: ps}, nil
}

// ValidateDocument validates a decoded process document (as produced by a
// JSON or YAML decoder) against the process schema.
func (v *JSONSchemaValidator) ValidateDocument(doc any) error {
	normalized, err := toJSONValue(doc)
	if err != nil {
		return schema.NewError(schema.ErrCodeValidation, "failed to serialize process document").WithCause(err)
	}
	if err := v.processSchema.Validate(normalized); err != nil {
		return toFlowtreeError(err)
	}
	return nil
}

// ValidateGraph validates an in-memory ProcessGraph against the process schema.
func (v *JSONSchemaValidator) ValidateGraph(g *schema.ProcessGraph) error {
	if g == nil {
		return schema.NewError(schema.ErrCodeValidation, "process graph is nil")
	}
	return v.ValidateDocument(g)
}

// toJSONValue round-trips a Go value through JSON encoding/decoding so that
// numeric values become json.Number (required by the jsonschema library).
func toJSONValue(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return jsonschema.UnmarshalJSON(strings.NewReader(string(b)))
}

// toFlowtreeError converts a jsonschema.ValidationError into a FlowtreeError
// with clear, actionable messages for diagram authors.
func toFlowtreeError(err error) *schema.FlowtreeError {
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return schema.NewError(schema.ErrCodeValidation, err.Error())
	}

	violations := collectViolations(verr)
	if len(violations) == 0 {
		return schema.NewError(schema.ErrCodeValidation, verr.Error())
	}

	if len(violations) == 1 {
		return schema.NewError(schema.ErrCodeValidation, violations[0]).
			WithDetails(map[string]any{"violations": violations})
	}

	msg := fmt.Sprintf("validation failed with %d errors", len(violations))
	return schema.NewError(schema.ErrCodeValidation, msg).
		WithDetails(map[string]any{"violations": violations})
}

// collectViolations walks a ValidationError tree and collects leaf error
// messages with their instance locations.
func collectViolations(verr *jsonschema.ValidationError) []string {
	if len(verr.Causes) == 0 {
		loc := "/"
		if len(verr.InstanceLocation) > 0 {
			loc = "/" + strings.Join(verr.InstanceLocation, "/")
		}
		return []string{fmt.Sprintf("%s: %s", loc, verr.Error())}
	}

	var violations []string
	for _, cause := range verr.Causes {
		violations = append(violations, collectViolations(cause)...)
	}
	return violations
}
