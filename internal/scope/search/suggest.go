package search

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Suggest proposes a spelling correction when a search returned nothing.
// It only runs when not loading, the filtered result is empty and query is set.
// Candidates come from the unfiltered catalog.
func (e *Engine) Suggest(products []*Product, query string, filteredCount int, loading bool) (string, bool) {
	if loading || filteredCount > 0 || len(products) == 0 {
		return "", false
	}
	queryLower := strings.ToLower(strings.TrimSpace(query))
	if queryLower == "" {
		return "", false
	}

	threshold := max(1, utf8.RuneCountInString(queryLower)/3)
	best := ""
	bestLen := 0
	bestDistance := -1

	for _, target := range e.candidates(products) {
		targetLower := strings.ToLower(target)
		if targetLower == queryLower {
			continue
		}
		d := levenshtein.ComputeDistance(queryLower, targetLower)
		if d > threshold {
			continue
		}
		n := utf8.RuneCountInString(target)
		if bestDistance < 0 || d < bestDistance || (d == bestDistance && n < bestLen) {
			best, bestLen, bestDistance = target, n, d
		}
	}

	if bestDistance < 0 || strings.ToLower(best) == queryLower {
		return "", false
	}
	return best, true
}

// candidates lists distinct suggestion targets in first-seen order.
func (e *Engine) candidates(products []*Product) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(products)*len(e.targets))
	add := func(s string) {
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	for _, p := range products {
		if p == nil {
			continue
		}
		for _, get := range e.targets {
			add(get(p))
		}
		if e.brandAndModel && p.Brand != "" && p.Model != "" {
			add(p.Brand + " " + p.Model)
		}
	}
	return out
}
