package simplefrontend

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/tendant/simple-frontend/pkg/simplefrontend/content"
	"github.com/tendant/simple-frontend/pkg/simplefrontend/contentmodel"
)

// Payload keys copied onto the page itself rather than into its field values.
const (
	KeyID    = "id"
	KeyTitle = "title"
	KeySlug  = "slug"
)

const defaultDecimalPrecision = 2

var dateLayouts = []string{time.RFC3339, time.DateTime, time.DateOnly}

// SchemaPopulator maps payloads whose keys are the field names declared by the
// page's content type. Keys without a field definition are ignored.
type SchemaPopulator struct{}

var _ FieldPopulator = (*SchemaPopulator)(nil)

// NewSchemaPopulator creates a SchemaPopulator
func NewSchemaPopulator() *SchemaPopulator {
	return &SchemaPopulator{}
}

// SetContentFields sets page metadata and one value per defined field present in data.
func (p *SchemaPopulator) SetContentFields(page *content.Page, data map[string]any) error {
	ct := page.ContentType()
	if ct == nil {
		return ErrContentTypeNotSet
	}

	if id, ok := scalarText(data[KeyID]); ok {
		page.ID = id
	}
	if title, ok := data[KeyTitle].(string); ok {
		page.Title = title
	}
	if slug, ok := data[KeySlug].(string); ok {
		page.Slug = slug
	}

	values, err := populateCollection(ct.Name(), "", ct.Fields(), data)
	if err != nil {
		return err
	}
	for _, v := range values.All() {
		page.Set(v)
	}
	return nil
}

func populateCollection(typeName, path string, fields *contentmodel.ContentFieldCollection, data map[string]any) (*content.Collection, error) {
	values := content.NewCollection()
	for _, field := range fields.All() {
		raw, ok := data[field.Name()]
		if !ok || raw == nil {
			continue
		}
		fieldPath := field.Name()
		if path != "" {
			fieldPath = path + "." + field.Name()
		}
		v, err := mapValue(typeName, fieldPath, field, raw)
		if err != nil {
			return nil, err
		}
		values.Set(v)
	}
	return values, nil
}

func mapValue(typeName, path string, field contentmodel.Field, raw any) (content.Value, error) {
	invalid := func(expected string) error {
		return &ContentError{
			ContentType: typeName,
			Field:       path,
			Op:          "populate",
			Err:         fmt.Errorf("%w: expected %s, got %T", ErrInvalidFieldValue, expected, raw),
		}
	}

	switch field.Type() {
	case contentmodel.TypeText, contentmodel.TypePlainText, contentmodel.TypeRichText:
		s, ok := scalarText(raw)
		if !ok {
			return nil, invalid("text")
		}
		return &content.Text{FieldName: field.Name(), FieldType: field.Type(), Content: s}, nil

	case contentmodel.TypeNumber:
		n, ok := toNumber(raw)
		if !ok {
			return nil, invalid("number")
		}
		n.FieldName = field.Name()
		return n, nil

	case contentmodel.TypeDecimal:
		f, ok := toFloat(raw)
		if !ok {
			return nil, invalid("decimal")
		}
		precision := defaultDecimalPrecision
		if p, ok := contentmodel.OptionOf[int](field, "precision"); ok && p >= 0 {
			precision = p
		}
		scale := math.Pow10(precision)
		return &content.Decimal{FieldName: field.Name(), Content: math.Round(f*scale) / scale, Precision: precision}, nil

	case contentmodel.TypeBoolean:
		switch b := raw.(type) {
		case bool:
			return &content.Boolean{FieldName: field.Name(), Content: b}, nil
		case string:
			parsed, err := strconv.ParseBool(b)
			if err != nil {
				return nil, invalid("boolean")
			}
			return &content.Boolean{FieldName: field.Name(), Content: parsed}, nil
		}
		return nil, invalid("boolean")

	case contentmodel.TypeDate, contentmodel.TypeDateTime:
		s, ok := raw.(string)
		if !ok {
			return nil, invalid("date string")
		}
		t, err := parseDate(field, s)
		if err != nil {
			return nil, invalid("date string")
		}
		return &content.Date{FieldName: field.Name(), FieldType: field.Type(), Content: t}, nil

	case contentmodel.TypeImage, contentmodel.TypeDocument:
		switch a := raw.(type) {
		case string:
			return &content.Asset{FieldName: field.Name(), FieldType: field.Type(), URL: a}, nil
		case map[string]any:
			url, _ := a["url"].(string)
			if url == "" {
				return nil, invalid("asset with url")
			}
			title, _ := a["title"].(string)
			if title == "" {
				title, _ = a["alt"].(string)
			}
			return &content.Asset{FieldName: field.Name(), FieldType: field.Type(), URL: url, Title: title}, nil
		}
		return nil, invalid("asset")

	case contentmodel.TypeRelation:
		if m, ok := raw.(map[string]any); ok {
			raw = m[KeyID]
		}
		id, ok := scalarText(raw)
		if !ok || id == "" {
			return nil, invalid("relation id")
		}
		return &content.Relation{FieldName: field.Name(), ID: id}, nil

	case contentmodel.TypeArray:
		af, ok := field.(*contentmodel.ArrayField)
		if !ok {
			return nil, invalid("array field definition")
		}
		items, ok := raw.([]any)
		if !ok {
			return nil, invalid("list")
		}
		out := &content.ArrayContent{FieldName: field.Name(), Items: make([]*content.Collection, 0, len(items))}
		for i, item := range items {
			itemData, ok := item.(map[string]any)
			if !ok {
				return nil, invalid("list of objects")
			}
			values, err := populateCollection(typeName, path+"."+strconv.Itoa(i), af.Fields(), itemData)
			if err != nil {
				return nil, err
			}
			out.Items = append(out.Items, values)
		}
		return out, nil
	}

	return nil, &ContentError{
		ContentType: typeName,
		Field:       path,
		Op:          "populate",
		Err:         fmt.Errorf("%w: %q", contentmodel.ErrUnknownFieldType, field.Type()),
	}
}

func parseDate(field contentmodel.Field, s string) (time.Time, error) {
	if layout, ok := contentmodel.OptionOf[string](field, "format"); ok && layout != "" {
		return time.Parse(layout, s)
	}
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func scalarText(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case json.Number:
		return val.String(), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	}
	return "", false
}

func toNumber(v any) (*content.Number, bool) {
	switch val := v.(type) {
	case int:
		return &content.Number{Int: int64(val)}, true
	case int64:
		return &content.Number{Int: val}, true
	case float64:
		if val == math.Trunc(val) && math.Abs(val) < 1<<53 {
			return &content.Number{Int: int64(val)}, true
		}
		return &content.Number{Float: val, IsFloat: true}, true
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return &content.Number{Int: i}, true
		}
		if f, err := val.Float64(); err == nil {
			return &content.Number{Float: f, IsFloat: true}, true
		}
	case string:
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			return &content.Number{Int: i}, true
		}
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return &content.Number{Float: f, IsFloat: true}, true
		}
	}
	return nil, false
}

func toFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case float64:
		return val, true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(val, 64)
		return f, err == nil
	}
	return 0, false
}
