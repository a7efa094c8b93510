// Package nyt provides the Article Search API client: query construction,
// API-key validation, and paginated fetching backed by the on-disk
// response cache.
package nyt

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/david-novak/nyt-corpus/pkg/cache"
	"github.com/david-novak/nyt-corpus/pkg/corpus"
)

// Prometheus metrics for Article Search requests.
var (
	nytRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nyt_requests_total",
		Help: "Total Article Search requests by status",
	}, []string{"status"})

	nytRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "nyt_request_duration_seconds",
		Help:    "Article Search request duration in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	})

	nytPagesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nyt_pages_skipped_total",
		Help: "Total result pages skipped after a fetch error",
	})
)

const (
	// DefaultBaseURL is the Article Search endpoint.
	DefaultBaseURL = "https://api.nytimes.com/svc/search/v2/articlesearch.json"

	// pageSize is the fixed number of records per result page.
	pageSize = 10

	// maxPages caps how many pages a single search will request.
	maxPages = 100

	// maxRecordsLimit is the most records the API serves for one query.
	maxRecordsLimit = 1000

	// articleFilter restricts results to the newspaper's own articles.
	articleFilter = "The New York Times"
)

// Client is the Article Search client.
type Client struct {
	httpClient *http.Client
	store      *cache.Store
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// APIKey authenticates requests (see developer.nytimes.com).
	APIKey string

	// BaseURL is the Article Search endpoint. Defaults to DefaultBaseURL.
	BaseURL string

	// CachePath is the SQLite file that stores raw responses.
	CachePath string

	// Timeout bounds each page request.
	Timeout time.Duration
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(apiKey, cachePath string) Config {
	return Config{
		APIKey:    apiKey,
		BaseURL:   DefaultBaseURL,
		CachePath: cachePath,
		Timeout:   30 * time.Second,
	}
}

// New creates a new Article Search client and opens its response cache.
func New(cfg Config) (*Client, error) {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if cfg.CachePath == "" {
		return nil, fmt.Errorf("cache path is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	store, err := cache.Open(cfg.CachePath)
	if err != nil {
		return nil, fmt.Errorf("opening response cache: %w", err)
	}

	logger := log.With().Str("component", "nyt-client").Logger()

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		store:  store,
		config: cfg,
		logger: logger,
	}, nil
}

// Close releases the response cache.
func (c *Client) Close() error {
	return c.store.Close()
}

// CheckAPIKey issues a probe request and reports whether the configured
// key is accepted. The probe bypasses the cache.
func (c *Client) CheckAPIKey(ctx context.Context) bool {
	probe := NewQuery("test", "", "")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.config.BaseURL+"?"+probe.values(c.config.APIKey, 0).Encode(), nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Msg("API key probe failed")
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return resp.StatusCode == http.StatusOK
}

// SearchResult bundles the assembled corpus with per-page outcome counts,
// so callers can tell partial results from complete ones without scraping
// logs.
type SearchResult struct {
	// Table is the assembled corpus.
	Table *corpus.Table

	// PagesFetched counts pages answered by the network.
	PagesFetched int

	// PagesCached counts pages answered from the disk store.
	PagesCached int

	// PagesFailed counts pages skipped after a fetch error.
	PagesFailed int
}

// Search fetches up to maxRecords records matching the query and assembles
// them into a corpus table.
//
// Pages are fetched sequentially, one request at a time, consulting the
// disk store before the network. A failing page is logged and skipped; if
// every page fails the result is an empty table, not an error. maxRecords
// above 1000 is warned about but paging is bounded by the 100-page cap
// either way. maxRecords below 1 falls back to a single page.
func (c *Client) Search(ctx context.Context, q Query, maxRecords int) (*SearchResult, error) {
	if maxRecords < 1 {
		maxRecords = pageSize
	}

	// Best-effort key validation: a bad key surfaces as failed pages below.
	if !c.CheckAPIKey(ctx) {
		c.logger.Warn().Msg("API key validation failed; results may be empty")
	}

	if maxRecords > maxRecordsLimit {
		c.logger.Warn().
			Int("max_records", maxRecords).
			Int("limit", maxRecordsLimit).
			Msg("Cannot retrieve more than 1000 records for a query")
	}

	numPages := (maxRecords + pageSize - 1) / pageSize
	if numPages > maxPages {
		numPages = maxPages
	}

	c.logger.Debug().
		Strs("terms", q.Terms).
		Int("pages", numPages).
		Msg("Starting search")

	result := &SearchResult{}
	var records []corpus.Record
	for page := 0; page < numPages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		docs, cached, err := c.fetchPage(ctx, q, page)
		if err != nil {
			result.PagesFailed++
			nytPagesSkipped.Inc()
			c.logger.Warn().
				Err(err).
				Int("page", page).
				Msg("Could not retrieve page; skipping")
			continue
		}

		if cached {
			result.PagesCached++
		} else {
			result.PagesFetched++
		}
		records = append(records, docs...)
	}

	// The last page can overshoot maxRecords; keep exactly the first
	// maxRecords records.
	if len(records) > maxRecords {
		records = records[:maxRecords]
	}

	table, err := corpus.BuildTable(records, q.Fields)
	if err != nil {
		return nil, fmt.Errorf("assembling corpus: %w", err)
	}
	result.Table = table

	c.logger.Info().
		Int("records", table.Len()).
		Int("pages_fetched", result.PagesFetched).
		Int("pages_cached", result.PagesCached).
		Int("pages_failed", result.PagesFailed).
		Msg("Search complete")

	return result, nil
}

// fetchPage returns the documents of one result page. The disk store is
// consulted first; on a miss the page is fetched and the raw body stored
// before decoding. Responses other than 200 are not cached.
func (c *Client) fetchPage(ctx context.Context, q Query, page int) ([]corpus.Record, bool, error) {
	key := q.cacheKey(page)

	body, err := c.store.Get(ctx, key)
	if err == nil {
		docs, err := decodeDocs(body)
		if err != nil {
			return nil, true, err
		}
		c.logger.Debug().
			Int("page", page).
			Bool("cache_hit", true).
			Msg("Page served from cache")
		return docs, true, nil
	}
	if err != cache.ErrCacheMiss {
		c.logger.Warn().Err(err).Str("key", key.String()).Msg("Cache get error")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.config.BaseURL+"?"+q.values(c.config.APIKey, page).Encode(), nil)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		nytRequestsTotal.WithLabelValues("network_error").Inc()
		return nil, false, fmt.Errorf("page request: %w", err)
	}
	defer resp.Body.Close()

	nytRequestDuration.Observe(time.Since(start).Seconds())
	nytRequestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK {
		return nil, false, &APIError{
			StatusCode: resp.StatusCode,
			Message:    resp.Status,
		}
	}

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("read response body: %w", err)
	}

	if err := c.store.Put(ctx, key, body); err != nil {
		c.logger.Warn().Err(err).Str("key", key.String()).Msg("Failed to cache response")
	}

	docs, err := decodeDocs(body)
	if err != nil {
		return nil, false, err
	}
	return docs, false, nil
}

// decodeDocs parses the response envelope {"response": {"docs": [...]}}.
// A body without the envelope is malformed, even if it is valid JSON.
func decodeDocs(body []byte) ([]corpus.Record, error) {
	var envelope struct {
		Response *struct {
			Docs *[]corpus.Record `json:"docs"`
		} `json:"response"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if envelope.Response == nil || envelope.Response.Docs == nil {
		return nil, ErrMalformedResponse
	}
	return *envelope.Response.Docs, nil
}
