package contentmodel

import "fmt"

// FieldCollection is implemented by the nodes of a content model that own fields:
// content types and array fields.
type FieldCollection interface {
	Fields() *ContentFieldCollection
	AddContentFields(defs []FieldDefinition) error
	ValidContentField(fieldType string) bool
	APIEndpoint() (string, error)
	SetAPIEndpoint(endpoint string) error
}

// ContentFieldCollection is an ordered set of uniquely named field definitions.
type ContentFieldCollection struct {
	fields []Field
	index  map[string]int
}

// NewContentFieldCollection creates an empty collection
func NewContentFieldCollection() *ContentFieldCollection {
	return &ContentFieldCollection{index: make(map[string]int)}
}

// Add appends a field. A name already present is rejected with ErrDuplicateField.
func (c *ContentFieldCollection) Add(field Field) error {
	if _, exists := c.index[field.Name()]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateField, field.Name())
	}
	c.index[field.Name()] = len(c.fields)
	c.fields = append(c.fields, field)
	return nil
}

// Get returns the field with the given name
func (c *ContentFieldCollection) Get(name string) (Field, bool) {
	i, ok := c.index[name]
	if !ok {
		return nil, false
	}
	return c.fields[i], true
}

// Has reports whether a field with the given name exists
func (c *ContentFieldCollection) Has(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Len returns the number of fields
func (c *ContentFieldCollection) Len() int {
	return len(c.fields)
}

// All returns the fields in insertion order
func (c *ContentFieldCollection) All() []Field {
	out := make([]Field, len(c.fields))
	copy(out, c.fields)
	return out
}

// Names returns the field names in insertion order
func (c *ContentFieldCollection) Names() []string {
	names := make([]string, len(c.fields))
	for i, f := range c.fields {
		names[i] = f.Name()
	}
	return names
}

// ValidContentField reports whether fieldType is an accepted field type.
func (c *ContentFieldCollection) ValidContentField(fieldType string) bool {
	_, ok := fieldTypes[fieldType]
	return ok
}

// ParseField builds the concrete field for a definition, recursing into array fields.
func (c *ContentFieldCollection) ParseField(def FieldDefinition) (Field, error) {
	if def.Name == "" {
		return nil, fmt.Errorf("%w: field name is required", ErrInvalidDefinition)
	}
	if !c.ValidContentField(def.Type) {
		return nil, &ConfigParsingError{Path: def.Name, Err: fmt.Errorf("%w: %q", ErrUnknownFieldType, def.Type)}
	}
	if def.Type == TypeArray {
		field, err := NewArrayField(def.Name, def.Fields...)
		if err != nil {
			return nil, prefixPath(def.Name, err)
		}
		return field, nil
	}
	field, err := NewContentField(def.Name, def.Type, def.Options)
	if err != nil {
		return nil, &ConfigParsingError{Path: def.Name, Err: err}
	}
	return field, nil
}

// AddContentFields parses and appends definitions in order. The collection is left
// unchanged when any definition fails.
func (c *ContentFieldCollection) AddContentFields(defs []FieldDefinition) error {
	parsed := make([]Field, 0, len(defs))
	seen := make(map[string]struct{}, len(defs))
	for _, def := range defs {
		field, err := c.ParseField(def)
		if err != nil {
			return err
		}
		if _, dup := seen[field.Name()]; dup || c.Has(field.Name()) {
			return &ConfigParsingError{Path: field.Name(), Err: fmt.Errorf("%w: %q", ErrDuplicateField, field.Name())}
		}
		seen[field.Name()] = struct{}{}
		parsed = append(parsed, field)
	}
	for _, field := range parsed {
		if err := c.Add(field); err != nil {
			return err
		}
	}
	return nil
}

// prefixPath nests the path of a ConfigParsingError under parent.
func prefixPath(parent string, err error) error {
	if pe, ok := err.(*ConfigParsingError); ok {
		return &ConfigParsingError{Path: parent + "." + pe.Path, Err: pe.Err}
	}
	return &ConfigParsingError{Path: parent, Err: err}
}
