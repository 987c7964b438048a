package planning

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// planResponseSchema is the explicit contract of the /plan-reading
// response. Validating against it keeps malformed capability output out
// of the domain layer: a violation becomes a typed ErrPlanningFailed
// instead of a zero-valued stage slipping into the database.
//
// Vocabulary list sizes are deliberately unbounded here; 5-15 items is
// an expectation on the capability, not an invariant.
const planResponseSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["stages"],
  "properties": {
    "stages": {
      "type": "array",
      "minItems": 3,
      "maxItems": 7,
      "items": {
        "type": "object",
        "required": ["title", "objective", "stage_text", "suggested_vocab"],
        "properties": {
          "title": {"type": "string", "minLength": 1},
          "objective": {"type": "string"},
          "stage_text": {"type": "string", "minLength": 1},
          "suggested_vocab": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["word", "definition"],
              "properties": {
                "word": {"type": "string"},
                "definition": {"type": "string"}
              }
            }
          }
        }
      }
    }
  }
}`

// compilePlanResponseSchema compiles the embedded schema. Compilation
// failure is a programming error surfaced at client construction time.
func compilePlanResponseSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("plan-response.schema.json", strings.NewReader(planResponseSchema)); err != nil {
		return nil, fmt.Errorf("failed to add plan response schema: %w", err)
	}
	schema, err := compiler.Compile("plan-response.schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile plan response schema: %w", err)
	}
	return schema, nil
}

// validatePlanResponse checks a raw response body against the schema.
func validatePlanResponse(schema *jsonschema.Schema, body []byte) error {
	var payload any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return fmt.Errorf("response is not valid JSON: %w", err)
	}
	if err := schema.Validate(payload); err != nil {
		return fmt.Errorf("response violates plan schema: %w", err)
	}
	return nil
}
