package content_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-frontend/pkg/simplefrontend/content"
	"github.com/tendant/simple-frontend/pkg/simplefrontend/contentmodel"
)

func TestCollectionSetReplacesInPlace(t *testing.T) {
	c := content.NewCollection()
	c.Set(&content.Text{FieldName: "a", FieldType: "text", Content: "1"})
	c.Set(&content.Boolean{FieldName: "b", Content: true})
	c.Set(&content.Text{FieldName: "a", FieldType: "text", Content: "2"})

	require.Equal(t, 2, c.Len())
	all := c.All()
	assert.Equal(t, "a", all[0].Name())
	assert.Equal(t, "2", all[0].String())

	_, ok := c.Get("missing")
	assert.False(t, ok)
}

func TestPageJSON(t *testing.T) {
	ct := contentmodel.NewContentType("news")
	page := content.NewPage()
	page.SetContentType(ct)
	page.ID = "7"
	page.Title = "Hello"
	page.Set(&content.Text{FieldName: "headline", FieldType: "plaintext", Content: "Hi"})
	page.Set(&content.Number{FieldName: "views", Int: 3})
	page.Set(&content.Decimal{FieldName: "price", Content: 9.5, Precision: 2})
	page.Set(&content.Date{FieldName: "day", FieldType: "date", Content: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)})

	data, err := json.Marshal(page)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "7",
		"title": "Hello",
		"content_type": "news",
		"content": [
			{"name": "headline", "type": "plaintext", "value": "Hi"},
			{"name": "views", "value": 3},
			{"name": "price", "value": 9.5, "precision": 2},
			{"name": "day", "type": "date", "value": "2024-01-02T00:00:00Z"}
		]
	}`, string(data))
}

func TestEmptyPageJSON(t *testing.T) {
	data, err := json.Marshal(content.NewPage())
	require.NoError(t, err)
	assert.JSONEq(t, `{"content": []}`, string(data))
}

func TestValueStrings(t *testing.T) {
	tests := []struct {
		name  string
		value content.Value
		want  string
		typ   string
	}{
		{"int number", &content.Number{FieldName: "n", Int: -4}, "-4", "number"},
		{"float number", &content.Number{FieldName: "n", Float: 2.5, IsFloat: true}, "2.5", "number"},
		{"decimal pads precision", &content.Decimal{FieldName: "d", Content: 3, Precision: 2}, "3.00", "decimal"},
		{"boolean", &content.Boolean{FieldName: "b"}, "false", "boolean"},
		{"date", &content.Date{FieldName: "d", FieldType: "date", Content: time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)}, "2024-05-06", "date"},
		{"datetime", &content.Date{FieldName: "d", FieldType: "datetime", Content: time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)}, "2024-05-06T07:08:09Z", "datetime"},
		{"asset", &content.Asset{FieldName: "a", FieldType: "image", URL: "/a.png"}, "/a.png", "image"},
		{"relation", &content.Relation{FieldName: "r", ID: "12"}, "12", "relation"},
		{"array", &content.ArrayContent{FieldName: "l", Items: []*content.Collection{content.NewCollection()}}, "1 items", "array"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.value.String())
			assert.Equal(t, tt.typ, tt.value.Type())
		})
	}
}
