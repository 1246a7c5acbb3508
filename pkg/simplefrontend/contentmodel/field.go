package contentmodel

import (
	"fmt"
	"sort"
)

// Field type tags accepted in a content model.
const (
	TypeText      = "text"
	TypePlainText = "plaintext"
	TypeRichText  = "richtext"
	TypeNumber    = "number"
	TypeDecimal   = "decimal"
	TypeBoolean   = "boolean"
	TypeDate      = "date"
	TypeDateTime  = "datetime"
	TypeImage     = "image"
	TypeDocument  = "document"
	TypeRelation  = "relation"
	TypeArray     = "array"
)

var fieldTypes = map[string]struct{}{
	TypeText:      {},
	TypePlainText: {},
	TypeRichText:  {},
	TypeNumber:    {},
	TypeDecimal:   {},
	TypeBoolean:   {},
	TypeDate:      {},
	TypeDateTime:  {},
	TypeImage:     {},
	TypeDocument:  {},
	TypeRelation:  {},
	TypeArray:     {},
}

// FieldTypes returns the accepted field type tags in sorted order.
func FieldTypes() []string {
	types := make([]string, 0, len(fieldTypes))
	for t := range fieldTypes {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Field is a content field definition.
type Field interface {
	Name() string
	Type() string
	// Option returns a type-specific option and whether it was set.
	Option(name string) (any, bool)
	HasOption(name string) bool
}

// FieldDefinition is the raw, ordered definition of a field as read from configuration.
type FieldDefinition struct {
	Name    string            `validate:"required"`
	Type    string            `validate:"required"`
	Options map[string]any    `validate:"-"`
	Fields  []FieldDefinition `validate:"-"`
}

// ContentField is a scalar field definition such as a title or a publish date.
type ContentField struct {
	name    string
	typ     string
	options map[string]any
}

// NewContentField creates a scalar field. Array fields must be built with NewArrayField.
func NewContentField(name, fieldType string, options map[string]any) (*ContentField, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: field name is required", ErrInvalidDefinition)
	}
	if _, ok := fieldTypes[fieldType]; !ok || fieldType == TypeArray {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFieldType, fieldType)
	}
	opts := make(map[string]any, len(options))
	for k, v := range options {
		opts[k] = v
	}
	return &ContentField{name: name, typ: fieldType, options: opts}, nil
}

func (f *ContentField) Name() string {
	return f.name
}

func (f *ContentField) Type() string {
	return f.typ
}

func (f *ContentField) Option(name string) (any, bool) {
	v, ok := f.options[name]
	return v, ok
}

func (f *ContentField) HasOption(name string) bool {
	_, ok := f.options[name]
	return ok
}

// Options returns a copy of all options set on the field.
func (f *ContentField) Options() map[string]any {
	opts := make(map[string]any, len(f.options))
	for k, v := range f.options {
		opts[k] = v
	}
	return opts
}

// OptionOf returns a field option converted to T. The second result is false when
// the option is absent or holds a different type.
func OptionOf[T any](f Field, name string) (T, bool) {
	var zero T
	raw, ok := f.Option(name)
	if !ok {
		return zero, false
	}
	v, ok := raw.(T)
	if !ok {
		return zero, false
	}
	return v, true
}
