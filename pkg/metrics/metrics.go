// Package metrics documents the Prometheus metrics exported by this module.
// The collectors themselves live in the packages that own the measured
// behavior (pkg/nyt, pkg/cache) and are registered via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the module.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request metrics (pkg/nyt):
//   - nyt_requests_total{status} (Counter): Article Search requests by HTTP
//     status ("network_error" for transport failures)
//   - nyt_request_duration_seconds (Histogram): request duration
//   - nyt_pages_skipped_total (Counter): result pages skipped after an error
//
// Cache metrics (pkg/cache):
//   - nyt_cache_hits_total (Counter): pages served from the disk store
//   - nyt_cache_misses_total (Counter): lookups that went to the network
//   - nyt_cache_errors_total{operation} (Counter): store operation errors
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(nyt_cache_hits_total[5m])) /
//   (sum(rate(nyt_cache_hits_total[5m])) + sum(rate(nyt_cache_misses_total[5m])))
//
//   # Skipped Page Rate
//   rate(nyt_pages_skipped_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(nyt_request_duration_seconds_bucket[5m]))
