// Package httpapi exposes the listing engine over HTTP.
package httpapi

import "github.com/dsjohal14/mukrindo/internal/scope/search"

// HealthResponse represents the health check response
type HealthResponse struct {
	Status         string `json:"status"`
	ProductCount   int    `json:"product_count"`
	CatalogVersion uint64 `json:"catalog_version"`
}

// ListingQuery is the query string of GET /products.
// Filter values stay strings so malformed numbers are ignored by the engine
// instead of rejecting the request.
type ListingQuery struct {
	search.Filters
	Search string `schema:"search"`
	Sort   string `schema:"sort"`
	Page   int    `schema:"page"` // 1-based
	Size   int    `schema:"size"`
}

// ListingResponse is one page of filtered and sorted products
type ListingResponse struct {
	Products   []*search.Product `json:"products"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	Size       int               `json:"size"`
	TotalPages int               `json:"totalPages"`
	Sort       search.SortMode   `json:"sort"`
	Suggestion string            `json:"suggestion,omitempty"` // Only set when nothing matched
}

// HistoryResponse lists recently viewed products, most recent first
type HistoryResponse struct {
	Items []search.ViewedItem `json:"items"`
}

// ErrorResponse represents API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}
