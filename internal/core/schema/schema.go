// Package schema builds the JSON schemas collection payloads are validated
// against.
package schema

// JSON Schema property types
type PropertyType string

const (
	PropertyTypeString  PropertyType = "string"
	PropertyTypeNumber  PropertyType = "number"
	PropertyTypeInteger PropertyType = "integer"
	PropertyTypeBoolean PropertyType = "boolean"
	PropertyTypeArray   PropertyType = "array"
	PropertyTypeObject  PropertyType = "object"
)

type Property struct {
	Type        PropertyType         `json:"type"`
	Title       string               `json:"title,omitempty"`
	Description string               `json:"description,omitempty"`
	Format      string               `json:"format,omitempty"`
	Pattern     string               `json:"pattern,omitempty"`
	Enum        []interface{}        `json:"enum,omitempty"`
	Default     interface{}          `json:"default,omitempty"`
	MinLength   *int                 `json:"minLength,omitempty"`
	Minimum     *float64             `json:"minimum,omitempty"`
	Items       *Property            `json:"items,omitempty"`
	Properties  map[string]*Property `json:"properties,omitempty"`
	Required    []string             `json:"required,omitempty"`
}

// Object builds a top-level object schema. required may be nil.
func Object(title string, properties map[string]*Property, required []string) map[string]interface{} {
	props := make(map[string]interface{}, len(properties))
	for k, v := range properties {
		props[k] = v
	}
	if required == nil {
		required = []string{}
	}

	return map[string]interface{}{
		"type":       "object",
		"title":      title,
		"properties": props,
		"required":   required,
	}
}

func String() *Property { return &Property{Type: PropertyTypeString} }

// Text is a string that must not be empty.
func Text() *Property {
	min := 1
	return &Property{Type: PropertyTypeString, MinLength: &min}
}

func Number() *Property { return &Property{Type: PropertyTypeNumber} }

// NonNegative is a number >= 0.
func NonNegative() *Property {
	zero := 0.0
	return &Property{Type: PropertyTypeNumber, Minimum: &zero}
}

func Integer() *Property { return &Property{Type: PropertyTypeInteger} }

func Boolean() *Property { return &Property{Type: PropertyTypeBoolean} }

func DateTime() *Property { return &Property{Type: PropertyTypeString, Format: "date-time"} }

// Date is a calendar date (YYYY-MM-DD) or a full date-time.
func Date() *Property {
	return &Property{Type: PropertyTypeString, Pattern: `^\d{4}-\d{2}-\d{2}([Tt ].+)?$`}
}

func Email() *Property { return &Property{Type: PropertyTypeString, Format: "email"} }

func Enum(values ...string) *Property {
	enum := make([]interface{}, len(values))
	for i, v := range values {
		enum[i] = v
	}
	return &Property{Type: PropertyTypeString, Enum: enum}
}

func ArrayOf(items *Property) *Property {
	return &Property{Type: PropertyTypeArray, Items: items}
}

func ObjectOf(properties map[string]*Property, required ...string) *Property {
	return &Property{Type: PropertyTypeObject, Properties: properties, Required: required}
}
