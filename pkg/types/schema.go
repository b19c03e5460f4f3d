// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package types provides the data model shared by every stage of SDK generation.
package types

// SchemaKind is the JSON value type a Schema describes.
type SchemaKind string

const (
	KindObject  SchemaKind = "object"
	KindArray   SchemaKind = "array"
	KindString  SchemaKind = "string"
	KindNumber  SchemaKind = "number"
	KindBoolean SchemaKind = "boolean"
)

// SchemaKinds lists every supported kind in declaration order.
var SchemaKinds = []SchemaKind{KindObject, KindArray, KindString, KindNumber, KindBoolean}

// Valid reports whether k is one of the supported kinds.
func (k SchemaKind) Valid() bool {
	for _, kind := range SchemaKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Schema describes the shape of a request or response body.
type Schema struct {
	// Kind is the value type (object, array, string, number, boolean)
	Kind SchemaKind `json:"type" yaml:"type"`

	// Properties maps property names to nested shape descriptors (object only)
	Properties map[string]any `json:"properties,omitempty" yaml:"properties,omitempty"`

	// Items is the element schema (array only)
	Items *Schema `json:"items,omitempty" yaml:"items,omitempty"`

	// Example is an example value
	Example any `json:"example,omitempty" yaml:"example,omitempty"`
}

// NewSchema builds a Schema and checks its nesting invariants.
func NewSchema(kind SchemaKind, properties map[string]any, items *Schema, example any) (*Schema, error) {
	s := &Schema{
		Kind:       kind,
		Properties: properties,
		Items:      items,
		Example:    example,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks that properties only appear on objects and items only on arrays.
// Nested item schemas are validated recursively.
func (s *Schema) Validate() error {
	if s == nil {
		return nil
	}
	if !s.Kind.Valid() {
		return invalid("schema", "type", string(s.Kind), "must be one of object, array, string, number, boolean")
	}
	if len(s.Properties) > 0 && s.Kind != KindObject {
		return invalid("schema", "properties", nil, "properties can only be set for object schemas, not %s", s.Kind)
	}
	if s.Items != nil {
		if s.Kind != KindArray {
			return invalid("schema", "items", nil, "items can only be set for array schemas, not %s", s.Kind)
		}
		if err := s.Items.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// HasExample reports whether the schema carries an example value.
func (s *Schema) HasExample() bool {
	return s != nil && s.Example != nil
}

// PropertyNames returns the property names in sorted order.
func (s *Schema) PropertyNames() []string {
	if s == nil {
		return nil
	}
	return sortedKeys(s.Properties)
}
