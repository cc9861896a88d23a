package aiextract

import (
	"bytes"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// extractionSchema validates the recovered AI payload before any row is
// trusted. Shape errors degrade to "no AI markers" upstream instead of
// corrupting a draft.
const extractionSchema = `{
  "type": "object",
  "required": ["markers"],
  "properties": {
    "testDate": {"type": "string"},
    "markers": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["marker", "value"],
        "properties": {
          "marker": {"type": "string", "minLength": 1},
          "value": {"type": "number"},
          "unit": {"type": "string"},
          "referenceMin": {"type": ["number", "null"]},
          "referenceMax": {"type": ["number", "null"]},
          "confidence": {"type": "number", "minimum": 0, "maximum": 1}
        }
      }
    }
  }
}`

var compiledSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("extraction.json", bytes.NewReader([]byte(extractionSchema))); err != nil {
		panic(err)
	}
	return c.MustCompile("extraction.json")
}

// ValidatePayload checks a decoded payload against the extraction schema.
func ValidatePayload(doc any) error {
	if err := compiledSchema.Validate(doc); err != nil {
		return fmt.Errorf("ai payload failed schema validation: %w", err)
	}
	return nil
}
