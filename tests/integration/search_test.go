package integration

import (
	"bytes"
	"context"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/david-novak/nyt-corpus/internal/testutil"
	"github.com/david-novak/nyt-corpus/pkg/nyt"
)

const apiKey = "integration-key"

// setupMock starts a mock Article Search server with three pages of docs.
func setupMock(t *testing.T) *testutil.MockNYT {
	t.Helper()

	mock := testutil.NewMockNYT(apiKey)
	t.Cleanup(mock.Close)

	for page := 0; page < 3; page++ {
		mock.SetPageDocs(page, testutil.DocsPage(page*10, 10))
	}
	return mock
}

func newClient(t *testing.T, mock *testutil.MockNYT, cachePath string) *nyt.Client {
	t.Helper()

	cfg := nyt.DefaultConfig(apiKey, cachePath)
	cfg.BaseURL = mock.URL()

	client, err := nyt.New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return client
}

// TestSearch_EndToEnd runs the full flow: paginated fetch through the
// disk cache into an assembled corpus table.
func TestSearch_EndToEnd(t *testing.T) {
	mock := setupMock(t)
	cachePath := filepath.Join(t.TempDir(), "queries.db")

	client := newClient(t, mock, cachePath)
	defer client.Close()

	result, err := client.Search(context.Background(), nyt.NewQuery("economy", "2010", "2015"), 25)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	table := result.Table
	if table.Len() != 25 {
		t.Errorf("Len = %d, want 25", table.Len())
	}
	if got := len(table.Columns()); got != 7 {
		t.Errorf("Columns = %d, want 7 (5 text fields + pub_date + country)", got)
	}
	if len(table.Domain) != 3 {
		t.Errorf("Domain = %v, want 3 distinct sections", table.Domain)
	}
	if len(table.Y()) != 25 {
		t.Errorf("Y length = %d, want 25", len(table.Y()))
	}
}

// TestSearch_CacheSurvivesRestart closes the client, opens a fresh one on
// the same cache file, and verifies no page request hits the network again.
func TestSearch_CacheSurvivesRestart(t *testing.T) {
	mock := setupMock(t)
	cachePath := filepath.Join(t.TempDir(), "queries.db")
	ctx := context.Background()
	query := nyt.NewQuery("economy", "2010", "2015")

	first := newClient(t, mock, cachePath)
	warm, err := first.Search(ctx, query, 25)
	if err != nil {
		t.Fatalf("Warm-up search failed: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	requestsAfterWarmup := mock.GetRequestCount()

	second := newClient(t, mock, cachePath)
	defer second.Close()

	cold, err := second.Search(ctx, query, 25)
	if err != nil {
		t.Fatalf("Cached search failed: %v", err)
	}

	// Only the API key probe goes out; every page is served from disk.
	if got := mock.GetRequestCount(); got != requestsAfterWarmup+1 {
		t.Errorf("RequestCount = %d, want %d (probe only)", got, requestsAfterWarmup+1)
	}
	if cold.PagesCached != 3 {
		t.Errorf("PagesCached = %d, want 3", cold.PagesCached)
	}
	if !reflect.DeepEqual(warm.Table.Documents, cold.Table.Documents) {
		t.Error("Documents differ between warm and cached run")
	}
}

// TestSearch_CSVExport exercises the dataframe export path end to end.
func TestSearch_CSVExport(t *testing.T) {
	mock := setupMock(t)

	client := newClient(t, mock, filepath.Join(t.TempDir(), "queries.db"))
	defer client.Close()

	result, err := client.Search(context.Background(), nyt.NewQuery("economy", "", ""), 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	var buf bytes.Buffer
	if err := result.Table.WithLabelColumn().WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 11 {
		t.Errorf("CSV lines = %d, want 11 (header + 10 rows)", len(lines))
	}
	if !strings.Contains(lines[0], "section_name") {
		t.Errorf("CSV header = %q, missing section_name", lines[0])
	}
}
