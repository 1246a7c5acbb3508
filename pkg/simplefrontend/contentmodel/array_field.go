package contentmodel

import "fmt"

// ArrayField is a field holding repeated groups of child fields. It is both a field
// definition and a collection of field definitions.
type ArrayField struct {
	name   string
	fields *ContentFieldCollection
}

var (
	_ Field           = (*ArrayField)(nil)
	_ FieldCollection = (*ArrayField)(nil)
)

// NewArrayField creates an array field and adds the given child definitions.
func NewArrayField(name string, defs ...FieldDefinition) (*ArrayField, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: field name is required", ErrInvalidDefinition)
	}
	f := &ArrayField{name: name, fields: NewContentFieldCollection()}
	if len(defs) > 0 {
		if err := f.AddContentFields(defs); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (f *ArrayField) Name() string {
	return f.name
}

// Type always returns TypeArray.
func (f *ArrayField) Type() string {
	return TypeArray
}

// Option always reports absent; array fields have no options.
func (f *ArrayField) Option(name string) (any, bool) {
	return nil, false
}

func (f *ArrayField) HasOption(name string) bool {
	return false
}

// Fields returns the child field definitions
func (f *ArrayField) Fields() *ContentFieldCollection {
	return f.fields
}

// AddContentFields adds child field definitions in order
func (f *ArrayField) AddContentFields(defs []FieldDefinition) error {
	return f.fields.AddContentFields(defs)
}

// ValidContentField reports whether fieldType is an accepted child field type
func (f *ArrayField) ValidContentField(fieldType string) bool {
	return f.fields.ValidContentField(fieldType)
}

// APIEndpoint is only defined for content types.
func (f *ArrayField) APIEndpoint() (string, error) {
	return "", fmt.Errorf("%w: APIEndpoint on array field %q", ErrUnimplemented, f.name)
}

// SetAPIEndpoint is only defined for content types.
func (f *ArrayField) SetAPIEndpoint(endpoint string) error {
	return fmt.Errorf("%w: SetAPIEndpoint on array field %q", ErrUnimplemented, f.name)
}
