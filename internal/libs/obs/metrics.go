package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SearchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mukrindo_searches_total",
		Help: "The total number of processed listing searches",
	}, []string{"sort"})
	SuggestionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mukrindo_suggestions_total",
		Help: "The total number of did-you-mean suggestions returned",
	})
	MemoHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mukrindo_memo_hits_total",
		Help: "Searches answered from the result memo",
	})
	HistoryAppendsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mukrindo_history_appends_total",
		Help: "Products added to a recently viewed history",
	})
	CatalogReloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mukrindo_catalog_reloads_total",
		Help: "Catalog reloads by result",
	}, []string{"result"})
	CatalogProducts = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mukrindo_catalog_products",
		Help: "Products in the current catalog snapshot",
	})
)

// ObserveReload records a reload outcome and the resulting catalog size
func ObserveReload(count int, err error) {
	if err != nil {
		CatalogReloadsTotal.WithLabelValues("error").Inc()
		return
	}
	CatalogReloadsTotal.WithLabelValues("ok").Inc()
	CatalogProducts.Set(float64(count))
}
