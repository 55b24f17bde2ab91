package httpapi

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/dsjohal14/mukrindo/internal/libs/obs"
	"github.com/dsjohal14/mukrindo/internal/scope/search"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/schema"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

// decodeListingQuery fills q from the URL query string
func decodeListingQuery(values url.Values, q *ListingQuery) error {
	if err := decoder.Decode(q, values); err != nil {
		return fmt.Errorf("invalid query parameters: %w", err)
	}
	return nil
}

// HandleListProducts filters, sorts and pages the catalog.
// When nothing matches, the response carries a "did you mean" suggestion.
func (h *Handler) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	var q ListingQuery
	if err := decodeListingQuery(r.URL.Query(), &q); err != nil {
		h.logger.Warn().Err(err).Msg("invalid listing query")
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_QUERY")
		return
	}

	mode := search.ParseSortMode(q.Sort, h.opts.DefaultSort)
	size := q.Size
	if size <= 0 {
		size = h.opts.PageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	page := q.Page
	if page < 1 {
		page = 1
	}

	viewed := h.viewedFor(r)
	products, version := h.index.Snapshot()
	results, hit := h.memo.Process(version, products, q.Search, q.Filters, mode, viewed)

	obs.SearchesTotal.WithLabelValues(string(mode)).Inc()
	if hit {
		obs.MemoHitsTotal.Inc()
	}

	p := search.Paginate(results, page-1, size)
	resp := ListingResponse{
		Products:   p.Items,
		Total:      p.Total,
		Page:       page,
		Size:       p.Size,
		TotalPages: p.TotalPages,
		Sort:       mode,
	}
	if suggestion, ok := h.memo.Engine().Suggest(products, q.Search, len(results), false); ok {
		resp.Suggestion = suggestion
		obs.SuggestionsTotal.Inc()
	}

	h.logger.Debug().
		Str("query", q.Search).
		Str("sort", string(mode)).
		Int("results", len(results)).
		Bool("memo_hit", hit).
		Msg("listing served")

	writeJSON(w, http.StatusOK, resp)
}

// HandleGetProduct returns a single product
func (h *Handler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, ok := h.index.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "product not found", "NOT_FOUND")
		return
	}
	writeJSON(w, http.StatusOK, p)
}
