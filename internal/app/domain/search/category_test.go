package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/FACorreiaa/frugal-finder/internal/app/models"
)

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		raw  string
		want models.Category
	}{
		{"Gas Station", models.CategoryGas},
		{"FUEL", models.CategoryGas},
		{"petrol pump", models.CategoryGas},
		{"Grocery store", models.CategoryGroceries},
		{"supermarket", models.CategoryGroceries},
		{"Fast food", models.CategoryGroceries},
		{"Fashion outlet", models.CategoryClothing},
		{"apparel", models.CategoryClothing},
		{"electronics", models.CategoryOther},
		{"", models.CategoryOther},
		{"   ", models.CategoryOther},
		// gas keywords are checked first
		{"food station", models.CategoryGas},
		{"groceries", models.CategoryGroceries},
		{"Clothing", models.CategoryClothing},
		{"other", models.CategoryOther},
	}

	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeCategory(tc.raw))
		})
	}
}

func TestNormalizeCategoryIdempotent(t *testing.T) {
	for _, raw := range []string{"Gas Station", "supermarket", "Fashion", "toys", "groceries", "gas"} {
		once := NormalizeCategory(raw)
		assert.Equal(t, once, NormalizeCategory(string(once)), raw)
	}
}
