package jsonschema

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Validate checks that document (a JSON text) conforms to the schema.
// A non-nil error describes every violation found, one per line fragment,
// so callers can surface a single actionable message.
func Validate(schema *Schema, document string) error {
	if schema == nil {
		return nil
	}

	schemaJSON, err := schema.JSON()
	if err != nil {
		return fmt.Errorf("encode schema: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewStringLoader(document),
	)
	if err != nil {
		return fmt.Errorf("validate against schema: %w", err)
	}

	if result.Valid() {
		return nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, resultError := range result.Errors() {
		violations = append(violations, resultError.String())
	}
	return fmt.Errorf("document does not conform to schema: %s", strings.Join(violations, "; "))
}
