package search

import (
	"math"
	"strconv"
	"strings"
)

// SortMode selects the ordering (and for price buckets, an extra filter).
type SortMode string

// Sort modes accepted in the "sort" URL parameter
const (
	SortRecommendation     SortMode = "recommendation"
	SortLatest             SortMode = "latest"
	SortYearDesc           SortMode = "year_desc"
	SortPriceAsc           SortMode = "price_asc"
	SortPriceUnder150      SortMode = "price_under_150"
	SortPriceBetween150300 SortMode = "price_between_150_300"
	SortPriceOver300       SortMode = "price_over_300"
)

// Price bucket bounds in rupiah
const (
	PriceLowerBound int64 = 150_000_000
	PriceUpperBound int64 = 300_000_000
)

var sortModes = map[SortMode]struct{}{
	SortRecommendation:     {},
	SortLatest:             {},
	SortYearDesc:           {},
	SortPriceAsc:           {},
	SortPriceUnder150:      {},
	SortPriceBetween150300: {},
	SortPriceOver300:       {},
}

// ParseSortMode returns the mode for s, or fallback when s is not a known mode.
func ParseSortMode(s string, fallback SortMode) SortMode {
	m := SortMode(s)
	if _, ok := sortModes[m]; ok {
		return m
	}
	return fallback
}

// IsPriceBucket reports whether the mode also filters by price.
func (m SortMode) IsPriceBucket() bool {
	return m == SortPriceUnder150 || m == SortPriceBetween150300 || m == SortPriceOver300
}

// Filters holds faceted filter values exactly as they arrive in the URL.
// Empty values are not applied. Malformed numbers are ignored.
type Filters struct {
	Brand        string `json:"brand,omitempty" schema:"brand"`
	Model        string `json:"model,omitempty" schema:"model"`
	Type         string `json:"type,omitempty" schema:"type"`
	Transmission string `json:"transmission,omitempty" schema:"transmission"`
	FuelType     string `json:"fuelType,omitempty" schema:"fuelType"`
	YearMin      string `json:"yearMin,omitempty" schema:"yearMin"`
	YearMax      string `json:"yearMax,omitempty" schema:"yearMax"`
	PriceMin     string `json:"priceMin,omitempty" schema:"priceMin"`
	PriceMax     string `json:"priceMax,omitempty" schema:"priceMax"`
}

// key is a stable encoding used for memoization.
func (f Filters) key() string {
	return strings.Join([]string{
		f.Brand, f.Model, f.Type, f.Transmission, f.FuelType,
		f.YearMin, f.YearMax, f.PriceMin, f.PriceMax,
	}, "\x1f")
}

// parseYear reads a leading integer the way browsers parse "2020abc" as 2020.
func parseYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	v, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return v, true
}

// parsePrice reads a whole-string number; anything else is malformed.
func parsePrice(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}
