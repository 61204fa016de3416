package search

import (
	"strings"
	"sync"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/FACorreiaa/frugal-finder/internal/app/models"
)

type keywordSet struct {
	category models.Category
	keywords []string
}

// Checked in order; the first set with a substring hit wins.
var categoryKeywords = []keywordSet{
	{category: models.CategoryGas, keywords: []string{"gas", "fuel", "petrol", "station"}},
	{category: models.CategoryGroceries, keywords: []string{"grocery", "supermarket", "food"}},
	{category: models.CategoryClothing, keywords: []string{"clothing", "apparel", "fashion"}},
}

type categoryMatcher struct {
	mu       sync.Mutex
	lower    cases.Caser
	automata []ahocorasick.AhoCorasick
}

var defaultMatcher = newCategoryMatcher()

func newCategoryMatcher() *categoryMatcher {
	m := &categoryMatcher{lower: cases.Lower(language.Und)}
	for _, set := range categoryKeywords {
		builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
			AsciiCaseInsensitive: true,
			MatchOnlyWholeWords:  false,
			MatchKind:            ahocorasick.LeftMostLongestMatch,
			DFA:                  true,
		})
		m.automata = append(m.automata, builder.Build(set.keywords))
	}
	return m
}

func (m *categoryMatcher) match(raw string) models.Category {
	m.mu.Lock()
	defer m.mu.Unlock()

	text := m.lower.String(strings.TrimSpace(raw))
	if text == "" {
		return models.CategoryOther
	}
	// Already-normalized values map to themselves; "groceries" contains no keyword.
	switch c := models.Category(text); c {
	case models.CategoryGroceries, models.CategoryClothing, models.CategoryGas, models.CategoryOther:
		return c
	}
	for i, ac := range m.automata {
		if len(ac.FindAll(text)) > 0 {
			return categoryKeywords[i].category
		}
	}
	return models.CategoryOther
}

// NormalizeCategory maps free-text provider output onto the four display categories.
// Missing or unrecognised input is CategoryOther.
func NormalizeCategory(raw string) models.Category {
	return defaultMatcher.match(raw)
}
