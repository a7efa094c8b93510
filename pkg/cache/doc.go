// Package cache provides the on-disk response cache for Article Search
// queries.
//
// The store is a single SQLite file holding raw JSON response bodies keyed
// by a deterministic, structured key (date bounds, query terms, requested
// fields, page number). Entries never expire and are never evicted: the
// archive the API serves is immutable, so a response fetched once stays
// valid.
//
// # Basic Usage
//
//	store, err := cache.Open("/path/to/queries.db")
//	if err != nil {
//		return err
//	}
//	defer store.Close()
//
//	key := cache.Key{
//		BeginDate: "18510101",
//		EndDate:   "20250101",
//		Terms:     []string{"slovenia"},
//		Fields:    []string{"headline", "snippet"},
//		Page:      0,
//	}
//
//	body, err := store.Get(ctx, key)
//	if err == cache.ErrCacheMiss {
//		// fetch from the API, then store.Put(ctx, key, body)
//	}
//
// # Metrics
//
// The store exports Prometheus metrics:
//
//   - nyt_cache_hits_total - pages served from disk
//   - nyt_cache_misses_total - lookups that fell through to the network
//   - nyt_cache_errors_total{operation} - store operation errors
package cache
