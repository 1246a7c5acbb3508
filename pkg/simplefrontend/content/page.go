// Package content holds the content objects produced from API payloads.
package content

import (
	"encoding/json"

	"github.com/tendant/simple-frontend/pkg/simplefrontend/contentmodel"
)

// Collection is an ordered set of field values keyed by field name.
type Collection struct {
	values []Value
	index  map[string]int
}

// NewCollection creates an empty collection
func NewCollection() *Collection {
	return &Collection{index: make(map[string]int)}
}

// Set adds a value, replacing any value with the same name in place.
func (c *Collection) Set(v Value) {
	if i, ok := c.index[v.Name()]; ok {
		c.values[i] = v
		return
	}
	c.index[v.Name()] = len(c.values)
	c.values = append(c.values, v)
}

func (c *Collection) Get(name string) (Value, bool) {
	i, ok := c.index[name]
	if !ok {
		return nil, false
	}
	return c.values[i], true
}

func (c *Collection) Len() int {
	return len(c.values)
}

// All returns the values in insertion order
func (c *Collection) All() []Value {
	out := make([]Value, len(c.values))
	copy(out, c.values)
	return out
}

// MarshalJSON renders the collection as an ordered list of values.
func (c *Collection) MarshalJSON() ([]byte, error) {
	if c == nil || c.values == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.values)
}

// Page is a content object such as a news article or case study. It is bound to
// exactly one content type; its field values are set after creation.
type Page struct {
	ID    string
	Title string
	Slug  string

	contentType *contentmodel.ContentType
	content     *Collection
}

// NewPage creates an empty page
func NewPage() *Page {
	return &Page{content: NewCollection()}
}

// SetContentType binds the page to its content type
func (p *Page) SetContentType(ct *contentmodel.ContentType) {
	p.contentType = ct
}

func (p *Page) ContentType() *contentmodel.ContentType {
	return p.contentType
}

// Content returns the populated field values
func (p *Page) Content() *Collection {
	return p.content
}

// Get returns a field value by name
func (p *Page) Get(name string) (Value, bool) {
	return p.content.Get(name)
}

// Set adds or replaces a field value
func (p *Page) Set(v Value) {
	p.content.Set(v)
}

type pageJSON struct {
	ID          string      `json:"id,omitempty"`
	Title       string      `json:"title,omitempty"`
	Slug        string      `json:"slug,omitempty"`
	ContentType string      `json:"content_type,omitempty"`
	Content     *Collection `json:"content"`
}

func (p *Page) MarshalJSON() ([]byte, error) {
	out := pageJSON{ID: p.ID, Title: p.Title, Slug: p.Slug, Content: p.content}
	if p.contentType != nil {
		out.ContentType = p.contentType.Name()
	}
	return json.Marshal(out)
}
