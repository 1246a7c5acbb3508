package simplefrontend_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-frontend/pkg/simplefrontend"
	"github.com/tendant/simple-frontend/pkg/simplefrontend/content"
	"github.com/tendant/simple-frontend/pkg/simplefrontend/contentmodel"
)

const populatorModel = `
content_types:
  product:
    api_endpoint: /products
    content_fields:
      name:
        type: plaintext
      description:
        type: richtext
      stock:
        type: number
      price:
        type: decimal
        options:
          precision: 1
      weight:
        type: decimal
      available:
        type: boolean
      released:
        type: date
      updated:
        type: datetime
      launch:
        type: date
        options:
          format: "02.01.2006"
      photo:
        type: image
      manual:
        type: document
      category:
        type: relation
      variants:
        type: array
        content_fields:
          sku:
            type: text
          size:
            type: number
`

func newProductPage(t *testing.T, data map[string]any) (*content.Page, error) {
	t.Helper()
	model, err := contentmodel.Parse([]byte(populatorModel))
	require.NoError(t, err)

	repo := simplefrontend.New(
		simplefrontend.WithContentModel(model),
		simplefrontend.WithFieldPopulator(simplefrontend.NewSchemaPopulator()),
	)
	repo.SetContentType("product")
	return repo.CreatePage(data)
}

func TestSchemaPopulator(t *testing.T) {
	page, err := newProductPage(t, map[string]any{
		"id":          json.Number("17"),
		"title":       "Desk Lamp",
		"slug":        "desk-lamp",
		"name":        "Lamp",
		"description": "<p>Bright</p>",
		"stock":       json.Number("12"),
		"price":       19.96,
		"weight":      "1.234",
		"available":   "true",
		"released":    "2024-03-01",
		"updated":     "2024-03-01T12:30:00Z",
		"launch":      "15.04.2024",
		"photo":       map[string]any{"url": "https://cdn.example.com/lamp.jpg", "alt": "A lamp"},
		"manual":      "https://cdn.example.com/lamp.pdf",
		"category":    map[string]any{"id": 4, "name": "Lighting"},
		"variants": []any{
			map[string]any{"sku": "L-1", "size": 1},
			map[string]any{"sku": "L-2"},
		},
		"unknown": "ignored",
	})
	require.NoError(t, err)

	assert.Equal(t, "17", page.ID)
	assert.Equal(t, "Desk Lamp", page.Title)
	assert.Equal(t, "desk-lamp", page.Slug)

	names := make([]string, 0, page.Content().Len())
	for _, v := range page.Content().All() {
		names = append(names, v.Name())
	}
	assert.Equal(t, []string{
		"name", "description", "stock", "price", "weight", "available",
		"released", "updated", "launch", "photo", "manual", "category", "variants",
	}, names, "values follow field definition order")

	get := func(name string) content.Value {
		v, ok := page.Get(name)
		require.True(t, ok, name)
		return v
	}

	assert.Equal(t, "Lamp", get("name").String())
	assert.Equal(t, "richtext", get("description").Type())
	assert.Equal(t, int64(12), get("stock").Value())
	assert.Equal(t, 20.0, get("price").Value())
	assert.Equal(t, "20.0", get("price").String())
	assert.Equal(t, 1.23, get("weight").Value())
	assert.Equal(t, true, get("available").Value())
	assert.Equal(t, "2024-03-01", get("released").String())
	assert.Equal(t, time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC), get("updated").Value())
	assert.Equal(t, time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC), get("launch").Value())

	photo, ok := get("photo").(*content.Asset)
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example.com/lamp.jpg", photo.URL)
	assert.Equal(t, "A lamp", photo.Title)
	assert.Equal(t, "https://cdn.example.com/lamp.pdf", get("manual").String())
	assert.Equal(t, "4", get("category").String())

	variants, ok := get("variants").(*content.ArrayContent)
	require.True(t, ok)
	require.Equal(t, 2, variants.Len())
	sku, ok := variants.Items[0].Get("sku")
	require.True(t, ok)
	assert.Equal(t, "L-1", sku.String())
	size, ok := variants.Items[0].Get("size")
	require.True(t, ok)
	assert.Equal(t, int64(1), size.Value())
	_, ok = variants.Items[1].Get("size")
	assert.False(t, ok, "missing item values are skipped")
}

func TestSchemaPopulatorSkipsMissingValues(t *testing.T) {
	page, err := newProductPage(t, map[string]any{"name": "Lamp", "stock": nil})
	require.NoError(t, err)

	assert.Equal(t, 1, page.Content().Len())
	_, ok := page.Get("stock")
	assert.False(t, ok)
}

func TestSchemaPopulatorFloatNumbers(t *testing.T) {
	page, err := newProductPage(t, map[string]any{"stock": 2.5})
	require.NoError(t, err)

	v, ok := page.Get("stock")
	require.True(t, ok)
	assert.Equal(t, 2.5, v.Value())
}

func TestSchemaPopulatorInvalidValues(t *testing.T) {
	tests := []struct {
		name      string
		data      map[string]any
		wantField string
	}{
		{"text from list", map[string]any{"name": []any{"x"}}, "name"},
		{"number from word", map[string]any{"stock": "many"}, "stock"},
		{"decimal from bool", map[string]any{"price": true}, "price"},
		{"boolean from word", map[string]any{"available": "perhaps"}, "available"},
		{"date from number", map[string]any{"released": 20240301}, "released"},
		{"date in wrong format", map[string]any{"launch": "2024-04-15"}, "launch"},
		{"asset without url", map[string]any{"photo": map[string]any{"alt": "x"}}, "photo"},
		{"relation without id", map[string]any{"category": map[string]any{"name": "x"}}, "category"},
		{"array from object", map[string]any{"variants": map[string]any{"sku": "x"}}, "variants"},
		{"array item not object", map[string]any{"variants": []any{"x"}}, "variants"},
		{"invalid nested value", map[string]any{"variants": []any{map[string]any{"size": "big"}}}, "variants.0.size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newProductPage(t, tt.data)
			require.Error(t, err)
			assert.ErrorIs(t, err, simplefrontend.ErrInvalidFieldValue)

			var contentErr *simplefrontend.ContentError
			require.ErrorAs(t, err, &contentErr)
			assert.Equal(t, "product", contentErr.ContentType)
			assert.Equal(t, tt.wantField, contentErr.Field)
			assert.Equal(t, "populate", contentErr.Op)
		})
	}
}

func TestSchemaPopulatorRequiresContentType(t *testing.T) {
	err := simplefrontend.NewSchemaPopulator().SetContentFields(content.NewPage(), map[string]any{})
	assert.ErrorIs(t, err, simplefrontend.ErrContentTypeNotSet)
}
