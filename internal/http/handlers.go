package httpapi

import (
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/dsjohal14/mukrindo/internal/history"
	"github.com/dsjohal14/mukrindo/internal/scope/db"
	"github.com/dsjohal14/mukrindo/internal/scope/search"
	"github.com/rs/zerolog"
)

// MaxPageSize caps the size query parameter
const MaxPageSize = 100

// Options are the listing defaults applied when a request leaves them out
type Options struct {
	PageSize    int
	DefaultSort search.SortMode
}

// Handler contains HTTP handlers for the API
type Handler struct {
	index   *db.MemIndex
	memo    *search.Memo
	history history.Repository
	opts    Options
	logger  zerolog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(index *db.MemIndex, memo *search.Memo, hist history.Repository, opts Options, logger zerolog.Logger) *Handler {
	if opts.PageSize <= 0 {
		opts.PageSize = search.DefaultPageSize
	}
	opts.DefaultSort = search.ParseSortMode(string(opts.DefaultSort), search.SortRecommendation)

	return &Handler{
		index:   index,
		memo:    memo,
		history: hist,
		opts:    opts,
		logger:  logger,
	}
}

// Helper functions used across all handlers

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(data)
}

// writeError writes an error response with the given status code
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
