package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/frugal-finder/internal/app/models"
)

func ptr(f float64) *float64 { return &f }

func groundingAt(title, uri string, lat, lng float64) models.GroundingPlace {
	return models.GroundingPlace{Title: title, URI: uri, LatLng: &models.LatLng{Latitude: ptr(lat), Longitude: ptr(lng)}}
}

func TestStripCodeFence(t *testing.T) {
	tests := map[string]string{
		"[]":                        "[]",
		"```json\n[1]\n```":         "[1]",
		"```\n[1]\n```":             "[1]",
		"  ```JSON [1] ```  ":       "[1]",
		"```json\n{\"a\":1}\n```\n": "{\"a\":1}",
	}
	for in, want := range tests {
		assert.Equal(t, want, stripCodeFence(in), in)
	}
}

func TestNormalizeGrounded(t *testing.T) {
	n := NewResponseNormalizer(nil)

	t.Run("pairs by position", func(t *testing.T) {
		grounding := []models.GroundingPlace{
			groundingAt("No Frills", "https://maps.example/1", 43.1, -79.1),
			groundingAt("Shell", "https://maps.example/2", 43.2, -79.2),
		}
		raw := `[{"summary":"Cheap","product":"Milk","price":"$4","category":"Grocery store"},
		         {"summary":"Fuel","product":"Regular","price":"$1.45/L","category":"Gas Station"}]`

		places, err := n.Normalize(models.ResponseGrounded, raw, grounding)
		require.NoError(t, err)
		require.Len(t, places, 2)
		assert.Equal(t, models.Place{
			Title:    "No Frills",
			Summary:  "Cheap",
			Product:  "Milk",
			Price:    "$4",
			Category: models.CategoryGroceries,
			Location: models.Coordinate{Latitude: 43.1, Longitude: -79.1},
			URI:      "https://maps.example/1",
		}, places[0])
		assert.Equal(t, "Shell", places[1].Title)
		assert.Equal(t, models.CategoryGas, places[1].Category)
	})

	t.Run("fenced payload", func(t *testing.T) {
		grounding := []models.GroundingPlace{groundingAt("A", "u", 1, 1)}
		places, err := n.Normalize(models.ResponseGrounded, "```json\n[{\"summary\":\"s\"}]\n```", grounding)
		require.NoError(t, err)
		require.Len(t, places, 1)
		assert.Equal(t, "s", places[0].Summary)
	})

	t.Run("extra attributes are ignored", func(t *testing.T) {
		grounding := []models.GroundingPlace{groundingAt("A", "u", 1, 1)}
		places, err := n.Normalize(models.ResponseGrounded, `[{"summary":"a"},{"summary":"b"},{"summary":"c"}]`, grounding)
		require.NoError(t, err)
		require.Len(t, places, 1)
		assert.Equal(t, "a", places[0].Summary)
	})

	t.Run("extra grounding entries are ignored", func(t *testing.T) {
		grounding := []models.GroundingPlace{groundingAt("A", "u", 1, 1), groundingAt("B", "u", 2, 2)}
		places, err := n.Normalize(models.ResponseGrounded, `[{"summary":"a"}]`, grounding)
		require.NoError(t, err)
		require.Len(t, places, 1)
		assert.Equal(t, "A", places[0].Title)
	})

	t.Run("entries without coordinates are dropped", func(t *testing.T) {
		grounding := []models.GroundingPlace{
			{Title: "No coords"},
			{Title: "Half", LatLng: &models.LatLng{Latitude: ptr(10)}},
			groundingAt("Kept", "u", 0, 0),
		}
		places, err := n.Normalize(models.ResponseGrounded, `[{},{},{}]`, grounding)
		require.NoError(t, err)
		require.Len(t, places, 1)
		assert.Equal(t, "Kept", places[0].Title)
		assert.Equal(t, models.Coordinate{}, places[0].Location)
	})

	t.Run("defaults fill missing fields", func(t *testing.T) {
		grounding := []models.GroundingPlace{{LatLng: &models.LatLng{Latitude: ptr(5), Longitude: ptr(6)}}}
		places, err := n.Normalize(models.ResponseGrounded, `[{"summary":"","price":42}]`, grounding)
		require.NoError(t, err)
		require.Len(t, places, 1)
		assert.Equal(t, models.DefaultTitle, places[0].Title)
		assert.Equal(t, models.DefaultSummary, places[0].Summary)
		assert.Equal(t, models.DefaultProduct, places[0].Product)
		assert.Equal(t, "42", places[0].Price)
		assert.Equal(t, models.CategoryOther, places[0].Category)
		assert.Equal(t, models.DefaultURI, places[0].URI)
	})

	t.Run("empty grounding returns empty result without parsing", func(t *testing.T) {
		places, err := n.Normalize(models.ResponseGrounded, "I could not find anything.", nil)
		require.NoError(t, err)
		assert.NotNil(t, places)
		assert.Empty(t, places)
	})

	t.Run("malformed payload", func(t *testing.T) {
		grounding := []models.GroundingPlace{groundingAt("A", "u", 1, 1)}
		for _, raw := range []string{"not json", `{"summary":"x"}`, "", "[{"} {
			_, err := n.Normalize(models.ResponseGrounded, raw, grounding)
			assert.ErrorIs(t, err, models.ErrMalformedResponse, raw)
		}
	})
}

func TestNormalizeGenerated(t *testing.T) {
	n := NewResponseNormalizer(nil)

	t.Run("full records", func(t *testing.T) {
		raw := `[{"title":"Value Village","summary":"Thrift","product":"Jacket","price":"$12",
		          "category":"Apparel","uri":"https://maps.example/vv","location":{"latitude":45.42,"longitude":-75.69}}]`
		places, err := n.Normalize(models.ResponseGenerated, raw, nil)
		require.NoError(t, err)
		require.Len(t, places, 1)
		assert.Equal(t, models.Place{
			Title:    "Value Village",
			Summary:  "Thrift",
			Product:  "Jacket",
			Price:    "$12",
			Category: models.CategoryClothing,
			Location: models.Coordinate{Latitude: 45.42, Longitude: -75.69},
			URI:      "https://maps.example/vv",
		}, places[0])
	})

	t.Run("invalid records are dropped", func(t *testing.T) {
		raw := `[
			{"title":"no location"},
			{"title":"bad lat","location":{"latitude":"north","longitude":1}},
			{"title":"out of range","location":{"latitude":91,"longitude":1}},
			{"title":"missing lng","location":{"latitude":1}},
			"just a string",
			{"title":"string coords","location":{"latitude":"1.5","longitude":" 2.5 "}}
		]`
		places, err := n.Normalize(models.ResponseGenerated, raw, nil)
		require.NoError(t, err)
		require.Len(t, places, 1)
		assert.Equal(t, "string coords", places[0].Title)
		assert.Equal(t, models.Coordinate{Latitude: 1.5, Longitude: 2.5}, places[0].Location)
	})

	t.Run("empty array", func(t *testing.T) {
		places, err := n.Normalize(models.ResponseGenerated, "[]", nil)
		require.NoError(t, err)
		assert.Empty(t, places)
	})

	t.Run("non array payload", func(t *testing.T) {
		_, err := n.Normalize(models.ResponseGenerated, `{"places":[]}`, nil)
		assert.ErrorIs(t, err, models.ErrMalformedResponse)
		assert.Equal(t, "AI response was not in the expected format. Try rephrasing your search.", models.UserMessage(err))
	})

	t.Run("every place is well formed", func(t *testing.T) {
		raw := `[{"location":{"latitude":0,"longitude":0}},{"title":" ","category":"Supermarket","location":{"latitude":-90,"longitude":180}}]`
		places, err := n.Normalize(models.ResponseGenerated, raw, nil)
		require.NoError(t, err)
		require.Len(t, places, 2)
		for _, p := range places {
			assert.NotEmpty(t, p.Title)
			assert.NotEmpty(t, p.Summary)
			assert.NotEmpty(t, p.Product)
			assert.NotEmpty(t, p.Price)
			assert.NotEmpty(t, p.URI)
			assert.True(t, p.Location.Valid())
			assert.Equal(t, p.Category, NormalizeCategory(string(p.Category)))
		}
		assert.Equal(t, models.CategoryGroceries, places[1].Category)
	})
}

func TestNormalizeUnknownKind(t *testing.T) {
	_, err := NewResponseNormalizer(nil).Normalize(models.ResponseKind("other"), "[]", nil)
	assert.ErrorIs(t, err, models.ErrMalformedResponse)
}
