package content

import (
	"encoding/json"
	"strconv"
	"time"
)

// Value is a populated content field.
type Value interface {
	Name() string
	// Type returns the content model field type this value was mapped from.
	Type() string
	// Value returns the underlying Go value.
	Value() any
	String() string
}

// Text holds text, plaintext and richtext fields.
type Text struct {
	FieldName string `json:"name"`
	FieldType string `json:"type"`
	Content   string `json:"value"`
}

func (v *Text) Name() string   { return v.FieldName }
func (v *Text) Type() string   { return v.FieldType }
func (v *Text) Value() any     { return v.Content }
func (v *Text) String() string { return v.Content }

// Number holds a number field. Whole numbers are kept as int64.
type Number struct {
	FieldName string
	Int       int64
	Float     float64
	IsFloat   bool
}

func (v *Number) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name  string `json:"name"`
		Value any    `json:"value"`
	}{v.FieldName, v.Value()})
}

func (v *Number) Name() string { return v.FieldName }
func (v *Number) Type() string { return "number" }

func (v *Number) Value() any {
	if v.IsFloat {
		return v.Float
	}
	return v.Int
}

func (v *Number) String() string {
	if v.IsFloat {
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	}
	return strconv.FormatInt(v.Int, 10)
}

// Decimal holds a decimal field rounded to Precision places.
type Decimal struct {
	FieldName string  `json:"name"`
	Content   float64 `json:"value"`
	Precision int     `json:"precision"`
}

func (v *Decimal) Name() string   { return v.FieldName }
func (v *Decimal) Type() string   { return "decimal" }
func (v *Decimal) Value() any     { return v.Content }
func (v *Decimal) String() string { return strconv.FormatFloat(v.Content, 'f', v.Precision, 64) }

// Boolean holds a boolean field.
type Boolean struct {
	FieldName string `json:"name"`
	Content   bool   `json:"value"`
}

func (v *Boolean) Name() string   { return v.FieldName }
func (v *Boolean) Type() string   { return "boolean" }
func (v *Boolean) Value() any     { return v.Content }
func (v *Boolean) String() string { return strconv.FormatBool(v.Content) }

// Date holds date and datetime fields.
type Date struct {
	FieldName string    `json:"name"`
	FieldType string    `json:"type"`
	Content   time.Time `json:"value"`
}

func (v *Date) Name() string { return v.FieldName }
func (v *Date) Type() string { return v.FieldType }
func (v *Date) Value() any   { return v.Content }

func (v *Date) String() string {
	if v.FieldType == "date" {
		return v.Content.Format(time.DateOnly)
	}
	return v.Content.Format(time.RFC3339)
}

// Asset holds image and document fields.
type Asset struct {
	FieldName string `json:"name"`
	FieldType string `json:"type"`
	URL       string `json:"url"`
	Title     string `json:"title,omitempty"`
}

func (v *Asset) Name() string   { return v.FieldName }
func (v *Asset) Type() string   { return v.FieldType }
func (v *Asset) Value() any     { return v.URL }
func (v *Asset) String() string { return v.URL }

// Relation references another content item by ID.
type Relation struct {
	FieldName string `json:"name"`
	ID        string `json:"id"`
}

func (v *Relation) Name() string   { return v.FieldName }
func (v *Relation) Type() string   { return "relation" }
func (v *Relation) Value() any     { return v.ID }
func (v *Relation) String() string { return v.ID }

// ArrayContent holds the repeated groups of an array field.
type ArrayContent struct {
	FieldName string        `json:"name"`
	Items     []*Collection `json:"items"`
}

func (v *ArrayContent) Name() string { return v.FieldName }
func (v *ArrayContent) Type() string { return "array" }
func (v *ArrayContent) Value() any   { return v.Items }

func (v *ArrayContent) String() string {
	return strconv.Itoa(len(v.Items)) + " items"
}

// Len returns the number of groups
func (v *ArrayContent) Len() int {
	return len(v.Items)
}
