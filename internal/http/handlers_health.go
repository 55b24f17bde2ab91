package httpapi

import "net/http"

// HandleHealth returns API health status and catalog size
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := HealthResponse{
		Status:         "healthy",
		ProductCount:   h.index.Count(),
		CatalogVersion: h.index.Version(),
	}

	h.logger.Debug().Int("product_count", resp.ProductCount).Msg("health check")

	writeJSON(w, http.StatusOK, resp)
}
