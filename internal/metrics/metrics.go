package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	searches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quote_service",
		Name:      "searches_total",
		Help:      "Quotation searches by entry point",
	}, []string{"source"})
	extractFallbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quote_service",
		Name:      "extraction_fallbacks_total",
		Help:      "Searches where item extraction fell back to the line splitter",
	}, []string{"reason"})
	catalogLoads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quote_service",
		Name:      "catalog_loads_total",
		Help:      "Catalog load attempts by outcome",
	}, []string{"outcome"})
	rankDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "quote_service",
		Name:      "rank_duration_seconds",
		Help:      "Time to rank one query term against the catalog",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms .. ~1s
	})
	panics = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quote_service",
		Name:      "http_panics_total",
		Help:      "Handler panics recovered by method",
	}, []string{"method"})
	catalogItems = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "quote_service",
		Name:      "catalog_items",
		Help:      "Items in the current catalog snapshot",
	})
)

// Register adds the collectors to the default registry. Idempotent.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(searches, extractFallbacks, catalogLoads, rankDuration, panics, catalogItems)
	})
}

func IncSearch(source string)          { searches.WithLabelValues(source).Inc() }
func IncExtractFallback(reason string) { extractFallbacks.WithLabelValues(reason).Inc() }
func IncCatalogLoad(outcome string)    { catalogLoads.WithLabelValues(outcome).Inc() }
func IncPanic(method string)           { panics.WithLabelValues(method).Inc() }
func SetCatalogItems(n int)            { catalogItems.Set(float64(n)) }
func ObserveRank(d time.Duration)      { rankDuration.Observe(d.Seconds()) }
