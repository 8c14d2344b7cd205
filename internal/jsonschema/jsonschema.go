package jsonschema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Schema represents the structure of a JSON Schema used for guided output.
// It follows the JSON Schema standard, supporting the types, properties and
// validation rules the supported providers understand.
type Schema struct {
	// Type specifies the data type (e.g. "object", "array", "string", "number").
	Type        string   `json:"type,omitempty"`
	Description string   `json:"description,omitempty"`
	Required    []string `json:"required,omitempty"`
	// Properties of an object, each with its own schema.
	Properties map[string]*Schema `json:"properties,omitempty"`
	// Items defines the schema of array elements.
	Items *Schema `json:"items,omitempty"`
	// AdditionalProperties controls whether undeclared properties are allowed.
	AdditionalProperties any `json:"additionalProperties,omitempty"`
	// Enum contains the list of allowed values.
	Enum []any `json:"enum,omitempty"`
}

// FromMap builds a Schema from a JSON-Schema-shaped mapping, as accepted on
// the public request surface. Unknown keys are dropped rather than rejected.
func FromMap(m map[string]any) (*Schema, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode schema map: %w", err)
	}
	var schema Schema
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil, fmt.Errorf("decode schema map: %w", err)
	}
	return &schema, nil
}

// FromJSON parses a Schema from a JSON Schema document.
func FromJSON(data []byte) (*Schema, error) {
	var schema Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("decode schema document: %w", err)
	}
	return &schema, nil
}

// JSON returns the schema serialized as a JSON document.
func (s *Schema) JSON() ([]byte, error) {
	return json.Marshal(s)
}

// Generate derives a Schema from the Go type T using reflection. Struct
// fields use their json tag names; fields tagged json:"-" are skipped and
// fields without omitempty are marked required. Objects reject undeclared
// properties so strict providers can enforce the shape.
func Generate[T any]() *Schema {
	return generate(reflect.TypeFor[T]())
}

func generate(t reflect.Type) *Schema {
	switch t.Kind() {
	case reflect.Pointer:
		return generate(t.Elem())

	case reflect.String:
		return &Schema{Type: "string"}

	case reflect.Bool:
		return &Schema{Type: "boolean"}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: "integer"}

	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}

	case reflect.Slice, reflect.Array:
		return &Schema{Type: "array", Items: generate(t.Elem())}

	case reflect.Map:
		return &Schema{Type: "object", AdditionalProperties: generate(t.Elem())}

	case reflect.Struct:
		return generateStruct(t)

	default:
		// interfaces, channels, funcs: no constraint we can express
		return &Schema{}
	}
}

func generateStruct(t reflect.Type) *Schema {
	schema := &Schema{
		Type:                 "object",
		Properties:           map[string]*Schema{},
		AdditionalProperties: false,
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name := field.Name
		omitEmpty := false
		if tag, ok := field.Tag.Lookup("json"); ok {
			parts := strings.Split(tag, ",")
			if parts[0] == "-" {
				continue
			}
			if parts[0] != "" {
				name = parts[0]
			}
			for _, opt := range parts[1:] {
				if opt == "omitempty" {
					omitEmpty = true
				}
			}
		}

		fieldSchema := generate(field.Type)
		if desc, ok := field.Tag.Lookup("description"); ok {
			fieldSchema.Description = desc
		}
		schema.Properties[name] = fieldSchema

		if !omitEmpty && field.Type.Kind() != reflect.Pointer {
			schema.Required = append(schema.Required, name)
		}
	}

	return schema
}
