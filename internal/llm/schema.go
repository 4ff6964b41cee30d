package llm

import "sort"

type Type string

const (
	TypeObject  Type = "object"
	TypeArray   Type = "array"
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeInteger Type = "integer"
	TypeBoolean Type = "boolean"
)

// Schema is a provider-neutral response schema. Each StructuredModel translates it to
// its vendor's dialect.
type Schema struct {
	Type        Type
	Description string
	Properties  map[string]*Schema
	Required    []string
	Items       *Schema
	Enum        []string
	Minimum     *float64
	Maximum     *float64
}

func Object(props map[string]*Schema, required ...string) *Schema {
	return &Schema{Type: TypeObject, Properties: props, Required: required}
}

func ArrayOf(items *Schema, description string) *Schema {
	return &Schema{Type: TypeArray, Items: items, Description: description}
}

func String(description string) *Schema {
	return &Schema{Type: TypeString, Description: description}
}

func Enum(description string, values ...string) *Schema {
	return &Schema{Type: TypeString, Description: description, Enum: values}
}

func Number(description string, minimum, maximum float64) *Schema {
	return &Schema{Type: TypeNumber, Description: description, Minimum: &minimum, Maximum: &maximum}
}

// JSONSchema renders the schema in the strict JSON Schema subset: every property is
// required, optional ones are nullable, and no additional properties are allowed.
func (s *Schema) JSONSchema() map[string]any {
	return s.jsonSchema(false)
}

func (s *Schema) jsonSchema(nullable bool) map[string]any {
	out := map[string]any{}
	if nullable {
		out["type"] = []string{string(s.Type), "null"}
	} else {
		out["type"] = string(s.Type)
	}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if len(s.Enum) > 0 {
		out["enum"] = append([]string(nil), s.Enum...)
	}
	if s.Minimum != nil {
		out["minimum"] = *s.Minimum
	}
	if s.Maximum != nil {
		out["maximum"] = *s.Maximum
	}
	if s.Items != nil {
		out["items"] = s.Items.jsonSchema(false)
	}
	if s.Type == TypeObject {
		required := make(map[string]bool, len(s.Required))
		for _, name := range s.Required {
			required[name] = true
		}
		names := s.propertyNames()
		props := make(map[string]any, len(names))
		for _, name := range names {
			props[name] = s.Properties[name].jsonSchema(!required[name])
		}
		out["properties"] = props
		out["required"] = names
		out["additionalProperties"] = false
	}
	return out
}

func (s *Schema) propertyNames() []string {
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
