package model

// Schema is the JSON-Schema subset the engine understands. A schema carrying
// a Ref stands in for the referenced definition and usually has no inline
// structure of its own.
type Schema struct {
	Name        string
	Description string
	Type        SchemaType
	Format      string
	Example     *Value

	// Object properties, in declaration order
	Properties []Property
	Required   []string

	// Array items
	Items *Schema

	// Enum values, in declaration order
	Enum []Value

	// Reference
	Ref string

	// Constraints
	Minimum   *float64
	Maximum   *float64
	MinLength *int64
	MaxLength *int64
}

// IsRef reports whether the schema is a reference placeholder.
func (s *Schema) IsRef() bool {
	return s != nil && s.Ref != ""
}

type SchemaType string

const (
	TypeString  SchemaType = "string"
	TypeNumber  SchemaType = "number"
	TypeInteger SchemaType = "integer"
	TypeBoolean SchemaType = "boolean"
	TypeArray   SchemaType = "array"
	TypeObject  SchemaType = "object"
	TypeNull    SchemaType = "null"
)

type Property struct {
	Name   string
	Schema *Schema
}
