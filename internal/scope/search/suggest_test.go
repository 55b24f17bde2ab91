package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func suggestCatalog() []*Product {
	avanza := car("avanza", "Toyota", "Avanza", 140_000_000, "2024-01-01")
	avanza.CarName = "Toyota Avanza 1.3 G"
	brio := car("brio", "Honda", "Brio", 160_000_000, "2024-06-01")
	brio.CarName = "Honda Brio Satya"
	return []*Product{avanza, brio}
}

func TestSuggest(t *testing.T) {
	e := newEngine(t)
	products := suggestCatalog()

	tests := []struct {
		name     string
		query    string
		expected string
		ok       bool
	}{
		{"brand typo", "toyata", "Toyota", true},
		{"model typo", "avamza", "Avanza", true},
		{"composite typo", "honda brip", "Honda Brio", true},
		{"unrelated", "xyz123", "", false},
		{"exact match is not a suggestion", "TOYOTA", "", false},
		{"short query threshold is one", "bri", "Brio", true},
		{"too far for short query", "bx", "", false},
		{"whitespace only", "   ", "", false},
		{"padded typo is trimmed", "  toyata  ", "Toyota", true},
		{"padded exact match is not a suggestion", " toyota ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := e.Suggest(products, tt.query, 0, false)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSuggestOnlyWhenEmpty(t *testing.T) {
	e := newEngine(t)
	products := suggestCatalog()

	_, ok := e.Suggest(products, "toyata", 1, false)
	assert.False(t, ok, "results exist")

	_, ok = e.Suggest(products, "toyata", 0, true)
	assert.False(t, ok, "still loading")

	_, ok = e.Suggest(nil, "toyata", 0, false)
	assert.False(t, ok, "empty catalog")
}

func TestSuggestAfterProcess(t *testing.T) {
	e := newEngine(t)
	products := suggestCatalog()

	result := e.Process(products, "toyota", Filters{}, SortLatest, nil)
	require.NotEmpty(t, result)
	_, ok := e.Suggest(products, "toyota", len(result), false)
	assert.False(t, ok)

	result = e.Process(products, "toyata", Filters{}, SortLatest, nil)
	require.Empty(t, result)
	got, ok := e.Suggest(products, "toyata", len(result), false)
	require.True(t, ok)
	assert.Equal(t, "Toyota", got)
}

func TestSuggestPrefersShorterCandidate(t *testing.T) {
	e := newEngine(t)
	products := []*Product{
		{ID: "1", Brand: "Kiaz"},
		{ID: "2", Brand: "Kia"},
	}

	got, ok := e.Suggest(products, "kiaa", 0, false)
	require.True(t, ok)
	assert.Equal(t, "Kia", got)
}

func TestSuggestFirstSeenWinsOnFullTie(t *testing.T) {
	e := newEngine(t)
	products := []*Product{
		{ID: "1", Brand: "Mazda"},
		{ID: "2", Brand: "Mazdu"},
	}

	got, ok := e.Suggest(products, "mazdo", 0, false)
	require.True(t, ok)
	assert.Equal(t, "Mazda", got)
}

func TestSuggestTargetsConfigurable(t *testing.T) {
	e, err := New(Options{SuggestionTargets: []FieldKey{FieldModel}})
	require.NoError(t, err)
	products := suggestCatalog()

	_, ok := e.Suggest(products, "toyata", 0, false)
	assert.False(t, ok, "brand is not a target")

	_, ok = e.Suggest(products, "honda brip", 0, false)
	assert.False(t, ok, "composite needs brand and model targets")

	got, ok := e.Suggest(products, "avamza", 0, false)
	require.True(t, ok)
	assert.Equal(t, "Avanza", got)
}
