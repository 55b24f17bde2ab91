package httpapi

import (
	"net/http"

	"github.com/dsjohal14/mukrindo/internal/libs/obs"
	"github.com/dsjohal14/mukrindo/internal/scope/search"
	"github.com/go-chi/chi/v5"
)

// viewedFor loads the session history for recommendation sorting.
// A failing repository degrades to an empty history.
func (h *Handler) viewedFor(r *http.Request) []search.ViewedItem {
	session := SessionFrom(r.Context())
	if session == "" {
		return nil
	}
	items, err := h.history.Get(r.Context(), session)
	if err != nil {
		h.logger.Warn().Err(err).Msg("failed to read recently viewed history")
		return nil
	}
	return items
}

// HandleRecentlyViewed returns the session's recently viewed products
func (h *Handler) HandleRecentlyViewed(w http.ResponseWriter, r *http.Request) {
	items, err := h.history.Get(r.Context(), SessionFrom(r.Context()))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to read recently viewed history")
		writeError(w, http.StatusServiceUnavailable, "history unavailable", "HISTORY_UNAVAILABLE")
		return
	}
	writeJSON(w, http.StatusOK, HistoryResponse{Items: items})
}

// HandleViewProduct records that the session opened a product's detail page
// and returns the updated history
func (h *Handler) HandleViewProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, ok := h.index.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "product not found", "NOT_FOUND")
		return
	}

	ctx := r.Context()
	session := SessionFrom(ctx)
	if err := h.history.Append(ctx, session, search.ViewedFrom(p)); err != nil {
		h.logger.Error().Err(err).Str("product_id", id).Msg("failed to record view")
		writeError(w, http.StatusServiceUnavailable, "history unavailable", "HISTORY_UNAVAILABLE")
		return
	}
	obs.HistoryAppendsTotal.Inc()

	items, err := h.history.Get(ctx, session)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to read recently viewed history")
		writeError(w, http.StatusServiceUnavailable, "history unavailable", "HISTORY_UNAVAILABLE")
		return
	}

	h.logger.Info().Str("product_id", id).Int("history", len(items)).Msg("product viewed")
	writeJSON(w, http.StatusOK, HistoryResponse{Items: items})
}
