package tool

// Type represents JSON Schema types.
type Type string

const (
	TypeString  Type = "string"
	TypeInteger Type = "integer"
	TypeBoolean Type = "boolean"
	TypeArray   Type = "array"
	TypeObject  Type = "object"
)

// Schema represents a JSON Schema for tool parameters.
type Schema struct {
	Type        Type               `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Default     any                `json:"default,omitempty"`
	Minimum     *int               `json:"minimum,omitempty"`
}

// Declaration declares a tool's function signature for the calling host.
type Declaration struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Parameters  *Schema `json:"parameters,omitempty"`
}

// Object builds an object schema from its properties.
func Object(required []string, props map[string]*Schema) *Schema {
	return &Schema{Type: TypeObject, Properties: props, Required: required}
}

// String builds a string property.
func String(desc string) *Schema {
	return &Schema{Type: TypeString, Description: desc}
}

// Boolean builds a boolean property.
func Boolean(desc string, def bool) *Schema {
	return &Schema{Type: TypeBoolean, Description: desc, Default: def}
}

// Integer builds an integer property with an inclusive lower bound.
func Integer(desc string, minimum int) *Schema {
	return &Schema{Type: TypeInteger, Description: desc, Minimum: &minimum}
}

// Array builds an array property whose elements follow items.
func Array(desc string, items *Schema) *Schema {
	return &Schema{Type: TypeArray, Description: desc, Items: items}
}
