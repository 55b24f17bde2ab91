// Package search implements the listing filter, sort and "did you mean" engine.
package search

import (
	"cmp"
	"slices"
	"strings"
)

// Options configures which fields the engine reads.
type Options struct {
	SearchFields      []FieldKey
	SuggestionTargets []FieldKey
}

// DefaultOptions returns the field sets used by the listing pages.
func DefaultOptions() Options {
	return Options{
		SearchFields:      slices.Clone(DefaultSearchFields),
		SuggestionTargets: slices.Clone(DefaultSuggestionTargets),
	}
}

// Engine filters, sorts and suggests over an in-memory product slice.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	searchFields  []Accessor
	targets       []Accessor
	brandAndModel bool
}

// New creates an engine, validating every configured field.
func New(opts Options) (*Engine, error) {
	if opts.SearchFields == nil {
		opts.SearchFields = DefaultSearchFields
	}
	if opts.SuggestionTargets == nil {
		opts.SuggestionTargets = DefaultSuggestionTargets
	}

	searchFields, err := resolve(opts.SearchFields)
	if err != nil {
		return nil, err
	}
	targets, err := resolve(opts.SuggestionTargets)
	if err != nil {
		return nil, err
	}

	brandAndModel := slices.Contains(opts.SuggestionTargets, FieldBrand) &&
		slices.Contains(opts.SuggestionTargets, FieldModel)

	return &Engine{
		searchFields:  searchFields,
		targets:       targets,
		brandAndModel: brandAndModel,
	}, nil
}

// Process returns the products matching query and filters, ordered by mode.
// The input slice and products are left untouched.
func (e *Engine) Process(products []*Product, query string, filters Filters, mode SortMode, viewed []ViewedItem) []*Product {
	if len(products) == 0 {
		return []*Product{}
	}

	result := make([]*Product, 0, len(products))
	tokens := strings.Fields(strings.ToLower(strings.TrimSpace(query)))
	facets := compileFacets(filters)

	for _, p := range products {
		if p == nil {
			continue
		}
		if len(tokens) > 0 && !e.matchesTokens(p, tokens) {
			continue
		}
		if !facets.match(p) {
			continue
		}
		if !inPriceBucket(p, mode) {
			continue
		}
		result = append(result, p)
	}

	sortProducts(result, mode, viewed)
	return result
}

// matchesTokens requires every token to be contained in at least one field.
func (e *Engine) matchesTokens(p *Product, tokens []string) bool {
	values := make([]string, len(e.searchFields))
	for i, get := range e.searchFields {
		values[i] = strings.ToLower(get(p))
	}
	for _, tok := range tokens {
		found := false
		for _, v := range values {
			if strings.Contains(v, tok) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

type facets struct {
	brand, model, bodyType, transmission, fuelType string

	yearMin, yearMax   int
	hasYearMin         bool
	hasYearMax         bool
	priceMin, priceMax float64
	hasPriceMin        bool
	hasPriceMax        bool
}

func compileFacets(f Filters) facets {
	c := facets{
		brand:        strings.ToLower(f.Brand),
		model:        strings.ToLower(f.Model),
		bodyType:     strings.ToLower(f.Type),
		transmission: strings.ToLower(f.Transmission),
		fuelType:     strings.ToLower(f.FuelType),
	}
	c.yearMin, c.hasYearMin = parseYear(f.YearMin)
	c.yearMax, c.hasYearMax = parseYear(f.YearMax)
	c.priceMin, c.hasPriceMin = parsePrice(f.PriceMin)
	c.priceMax, c.hasPriceMax = parsePrice(f.PriceMax)
	return c
}

func equalFold(want, got string) bool {
	return want == "" || want == strings.ToLower(got)
}

func (c facets) match(p *Product) bool {
	if !equalFold(c.brand, p.Brand) ||
		!equalFold(c.model, p.Model) ||
		!equalFold(c.bodyType, p.Type) ||
		!equalFold(c.transmission, p.Transmission) ||
		!equalFold(c.fuelType, p.FuelType) {
		return false
	}

	if c.hasYearMin || c.hasYearMax {
		year := p.Year()
		if year == 0 {
			return false
		}
		if c.hasYearMin && year < c.yearMin {
			return false
		}
		if c.hasYearMax && year > c.yearMax {
			return false
		}
	}

	if c.hasPriceMin || c.hasPriceMax {
		price, ok := p.PriceValue()
		if !ok {
			return false
		}
		if c.hasPriceMin && float64(price) < c.priceMin {
			return false
		}
		if c.hasPriceMax && float64(price) > c.priceMax {
			return false
		}
	}
	return true
}

func inPriceBucket(p *Product, mode SortMode) bool {
	if !mode.IsPriceBucket() {
		return true
	}
	price, ok := p.PriceValue()
	if !ok {
		return false
	}
	switch mode {
	case SortPriceUnder150:
		return price < PriceLowerBound
	case SortPriceBetween150300:
		return price >= PriceLowerBound && price <= PriceUpperBound
	default:
		return price > PriceUpperBound
	}
}

// newestFirst orders by creation time, descending. Zero times sort last.
func newestFirst(a, b *Product) int {
	return b.CreatedAt.Compare(a.CreatedAt)
}

func sortProducts(products []*Product, mode SortMode, viewed []ViewedItem) {
	switch mode {
	case SortLatest:
		slices.SortStableFunc(products, newestFirst)
	case SortPriceAsc:
		slices.SortStableFunc(products, func(a, b *Product) int {
			return cmp.Compare(a.SortPrice(), b.SortPrice())
		})
	case SortYearDesc:
		slices.SortStableFunc(products, func(a, b *Product) int {
			if c := cmp.Compare(b.Year(), a.Year()); c != 0 {
				return c
			}
			return newestFirst(a, b)
		})
	case SortRecommendation:
		if len(viewed) == 0 {
			slices.SortStableFunc(products, newestFirst)
			return
		}
		affinity := newAffinity(viewed)
		scores := make(map[*Product]int, len(products))
		for _, p := range products {
			scores[p] = affinity.score(p)
		}
		slices.SortStableFunc(products, func(a, b *Product) int {
			if c := cmp.Compare(scores[b], scores[a]); c != 0 {
				return c
			}
			return newestFirst(a, b)
		})
	default:
		slices.SortStableFunc(products, newestFirst)
	}
}

// affinity scores products against a visitor's recently viewed history.
type affinity struct {
	brands map[string]struct{}
	models map[string]struct{}
}

func modelKey(brand, model string) string {
	return strings.ToLower(brand) + "-" + strings.ToLower(model)
}

func newAffinity(viewed []ViewedItem) affinity {
	a := affinity{
		brands: make(map[string]struct{}, len(viewed)),
		models: make(map[string]struct{}, len(viewed)),
	}
	for _, v := range viewed {
		if v.Brand == "" {
			continue
		}
		a.brands[strings.ToLower(v.Brand)] = struct{}{}
		a.models[modelKey(v.Brand, v.Model)] = struct{}{}
	}
	return a
}

// score is 2 for a viewed brand+model, 1 for a viewed brand, otherwise 0.
func (a affinity) score(p *Product) int {
	if p.Brand == "" {
		return 0
	}
	if _, ok := a.models[modelKey(p.Brand, p.Model)]; ok {
		return 2
	}
	if _, ok := a.brands[strings.ToLower(p.Brand)]; ok {
		return 1
	}
	return 0
}

// RecommendationScore exposes the affinity score of a single product.
func RecommendationScore(p *Product, viewed []ViewedItem) int {
	return newAffinity(viewed).score(p)
}
