package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// cacheHits tracks responses served from the disk store.
	cacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nyt_cache_hits_total",
			Help: "Total number of query pages served from the response cache",
		},
	)

	// cacheMisses tracks lookups that fell through to the network.
	cacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nyt_cache_misses_total",
			Help: "Total number of response cache misses",
		},
	)

	// cacheErrors tracks store operation errors.
	cacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nyt_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "put", "len"
	)
)
