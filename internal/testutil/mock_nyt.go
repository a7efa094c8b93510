// Package testutil provides testing utilities for the Article Search client.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
)

// MockNYT is a configurable mock Article Search server for testing.
type MockNYT struct {
	server *httptest.Server
	mu     sync.RWMutex

	// ValidKey is the api-key the server accepts. Anything else gets 401.
	ValidKey string

	// pageDocs maps page number -> JSON array of docs for that page.
	pageDocs map[int]string

	// pageStatus maps page number -> forced HTTP status for that page.
	pageStatus map[int]int

	// pageBody maps page number -> raw body override (for malformed
	// payload tests).
	pageBody map[int]string

	// Tracking
	RequestCount int
	PageRequests []int
	LastQuery    map[string]string
}

// NewMockNYT creates a new mock server that accepts requests with the
// given api-key. Pages without configured docs return an empty docs list.
func NewMockNYT(validKey string) *MockNYT {
	mock := &MockNYT{
		ValidKey:   validKey,
		pageDocs:   make(map[int]string),
		pageStatus: make(map[int]int),
		pageBody:   make(map[int]string),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(mock.handle))
	return mock
}

// URL returns the mock server URL.
func (m *MockNYT) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockNYT) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockNYT) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.PageRequests = nil
	m.LastQuery = nil
}

// SetPageDocs configures the docs JSON array served for a page.
func (m *MockNYT) SetPageDocs(page int, docsJSON string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pageDocs[page] = docsJSON
}

// SetPageStatus forces an HTTP status for a page.
func (m *MockNYT) SetPageStatus(page int, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pageStatus[page] = status
}

// SetPageBody overrides the raw body served for a page, for malformed
// payload tests.
func (m *MockNYT) SetPageBody(page int, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pageBody[page] = body
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockNYT) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetPageRequests returns the page numbers requested, in order.
func (m *MockNYT) GetPageRequests() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]int{}, m.PageRequests...)
}

func (m *MockNYT) handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))

	m.mu.Lock()
	m.RequestCount++
	m.PageRequests = append(m.PageRequests, page)
	m.LastQuery = make(map[string]string)
	for k := range query {
		m.LastQuery[k] = query.Get(k)
	}
	validKey := m.ValidKey
	status, hasStatus := m.pageStatus[page]
	rawBody, hasBody := m.pageBody[page]
	docs, hasDocs := m.pageDocs[page]
	m.mu.Unlock()

	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	if query.Get("api-key") != validKey {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message": "invalid api key"}`)
		return
	}

	if hasStatus {
		w.WriteHeader(status)
		fmt.Fprint(w, `{"message": "error"}`)
		return
	}

	if hasBody {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, rawBody)
		return
	}

	if !hasDocs {
		docs = "[]"
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status": "OK", "response": {"docs": %s}}`, docs)
}

// DocsPage generates a JSON docs array of n generic records, numbered from
// offset, each with a headline, snippet, pub_date, section and keywords.
func DocsPage(offset, n int) string {
	docs := make([]string, 0, n)
	for i := 0; i < n; i++ {
		id := offset + i
		docs = append(docs, fmt.Sprintf(`{
			"headline": {"main": "Article %d"},
			"snippet": "Snippet %d",
			"lead_paragraph": "Lead %d",
			"abstract": "Abstract %d",
			"pub_date": "2020-03-05T00:00:00Z",
			"section_name": "Section %d",
			"keywords": [{"name": "glocations", "value": "Country %d"}]
		}`, id, id, id, id, id%3, id%2))
	}
	return "[" + strings.Join(docs, ",") + "]"
}
