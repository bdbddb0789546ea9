package flow

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "https://pagewizard.dev/schemas/flow.json"

// documentSchema describes the authored shape of a flow file.
// Cross-step rules (closure, legal type combinations) live in the compiler and validator.
const documentSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["steps"],
  "additionalProperties": false,
  "properties": {
    "entry": {"type": "string", "minLength": 1},
    "steps": {
      "type": "array",
      "minItems": 1,
      "items": {"$ref": "#/$defs/step"}
    }
  },
  "$defs": {
    "step": {
      "type": "object",
      "required": ["id", "type"],
      "additionalProperties": false,
      "properties": {
        "id": {"type": "string", "pattern": "^[A-Za-z0-9_.-]+$"},
        "type": {"enum": ["message", "question", "loading", "product_display", "preview"]},
        "content": {"type": "string"},
        "inputType": {"enum": ["text", "url", "buttons", "image_select"]},
        "field": {"type": "string", "minLength": 1},
        "options": {"type": "array", "items": {"$ref": "#/$defs/option"}},
        "action": {"type": "string", "minLength": 1},
        "next": {"type": "string", "minLength": 1},
        "hint": {"type": "string"}
      }
    },
    "option": {
      "type": "object",
      "required": ["value", "label"],
      "additionalProperties": false,
      "properties": {
        "value": {"type": ["string", "number", "boolean"]},
        "label": {"type": "string", "minLength": 1},
        "desc": {"type": "string"},
        "action": {"type": "string", "minLength": 1},
        "next": {"type": "string", "minLength": 1}
      }
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func flowSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(documentSchema))
		if err != nil {
			schemaErr = fmt.Errorf("unmarshal flow schema: %w", err)
			return
		}
		if err := c.AddResource(schemaURL, doc); err != nil {
			schemaErr = fmt.Errorf("add flow schema resource: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

// SchemaError lists every shape violation of a flow document.
type SchemaError struct {
	Violations []string
}

func (e *SchemaError) Error() string {
	if len(e.Violations) == 1 {
		return "invalid flow document: " + e.Violations[0]
	}
	return fmt.Sprintf("invalid flow document: %d errors:\n- %s", len(e.Violations), strings.Join(e.Violations, "\n- "))
}

// ValidateDocument checks a decoded document (YAML or JSON) against the flow schema.
func ValidateDocument(doc any) error {
	sch, err := flowSchema()
	if err != nil {
		return err
	}

	inst, err := toJSONValue(doc)
	if err != nil {
		return fmt.Errorf("failed to serialize flow document: %w", err)
	}

	if err := sch.Validate(inst); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return &SchemaError{Violations: collectViolations(verr)}
		}
		return err
	}
	return nil
}

// toJSONValue round-trips a value through JSON so numbers become json.Number,
// which is what the schema validator expects.
func toJSONValue(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return jsonschema.UnmarshalJSON(strings.NewReader(string(b)))
}

func collectViolations(verr *jsonschema.ValidationError) []string {
	if len(verr.Causes) == 0 {
		loc := "/" + strings.Join(verr.InstanceLocation, "/")
		return []string{fmt.Sprintf("%s: %s", loc, verr.Error())}
	}

	var out []string
	for _, cause := range verr.Causes {
		out = append(out, collectViolations(cause)...)
	}
	return out
}
