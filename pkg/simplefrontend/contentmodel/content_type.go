package contentmodel

import "fmt"

// ContentType is a named schema for one kind of content, e.g. news or case studies.
type ContentType struct {
	name        string
	apiEndpoint string
	fields      *ContentFieldCollection
}

var _ FieldCollection = (*ContentType)(nil)

// NewContentType creates a content type with no fields
func NewContentType(name string) *ContentType {
	return &ContentType{name: name, fields: NewContentFieldCollection()}
}

func (t *ContentType) Name() string {
	return t.name
}

// APIEndpoint returns the API endpoint content of this type is read from
func (t *ContentType) APIEndpoint() (string, error) {
	return t.apiEndpoint, nil
}

// SetAPIEndpoint sets the API endpoint content of this type is read from
func (t *ContentType) SetAPIEndpoint(endpoint string) error {
	t.apiEndpoint = endpoint
	return nil
}

func (t *ContentType) Fields() *ContentFieldCollection {
	return t.fields
}

// Field returns a top-level field definition by name
func (t *ContentType) Field(name string) (Field, bool) {
	return t.fields.Get(name)
}

func (t *ContentType) AddContentFields(defs []FieldDefinition) error {
	return t.fields.AddContentFields(defs)
}

func (t *ContentType) ValidContentField(fieldType string) bool {
	return t.fields.ValidContentField(fieldType)
}

// ContentModel holds the content types available to a site.
type ContentModel struct {
	types map[string]*ContentType
	order []string
}

// NewContentModel creates an empty content model
func NewContentModel() *ContentModel {
	return &ContentModel{types: make(map[string]*ContentType)}
}

// AddContentType registers a content type. Names must be unique.
func (m *ContentModel) AddContentType(ct *ContentType) error {
	if ct == nil || ct.Name() == "" {
		return fmt.Errorf("%w: content type name is required", ErrInvalidDefinition)
	}
	if _, exists := m.types[ct.Name()]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateContentType, ct.Name())
	}
	m.types[ct.Name()] = ct
	m.order = append(m.order, ct.Name())
	return nil
}

// ContentType looks up a content type by exact, case-sensitive name
func (m *ContentModel) ContentType(name string) (*ContentType, bool) {
	ct, ok := m.types[name]
	return ct, ok
}

// HasContentType reports whether a content type is registered under name
func (m *ContentModel) HasContentType(name string) bool {
	_, ok := m.types[name]
	return ok
}

// ContentTypes returns the registered content types in registration order
func (m *ContentModel) ContentTypes() []*ContentType {
	out := make([]*ContentType, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.types[name])
	}
	return out
}

func (m *ContentModel) Len() int {
	return len(m.order)
}
