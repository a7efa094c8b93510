// Command nytfetch runs one Article Search query and writes the assembled
// corpus as CSV.
//
// The API key is read from the NYT_API_KEY environment variable (a .env
// file in the working directory is honored). Responses are cached on disk,
// so repeating a query costs no API quota.
//
// Usage:
//
//	nytfetch -query "slovenia economy" -from 2010 -to 2015 -max 100 -out corpus.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"

	"github.com/david-novak/nyt-corpus/pkg/logging"
	"github.com/david-novak/nyt-corpus/pkg/nyt"
)

func main() {
	var (
		query     = flag.String("query", "", "query keywords, whitespace-separated (required)")
		yearFrom  = flag.String("from", "", "only articles from this year on")
		yearTo    = flag.String("to", "", "only articles up to this year")
		maxRecs   = flag.Int("max", 10, "maximum number of records to retrieve")
		cachePath = flag.String("cache", defaultCachePath(), "response cache file")
		out       = flag.String("out", "", "output CSV file (default: stdout)")
		verbose   = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := logging.LevelInfo
	if *verbose {
		level = logging.LevelDebug
	}
	logger := logging.Setup(logging.Config{
		Level:  level,
		Pretty: true,
		Output: os.Stderr,
	})

	if *query == "" {
		flag.Usage()
		os.Exit(2)
	}

	// A .env file is optional; the environment itself wins either way.
	_ = godotenv.Load()
	apiKey := os.Getenv("NYT_API_KEY")
	if apiKey == "" {
		logger.Fatal().Msg("NYT_API_KEY is not set")
	}

	client, err := nyt.New(nyt.DefaultConfig(apiKey, *cachePath))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create client")
	}
	defer client.Close()

	ctx := context.Background()
	result, err := client.Search(ctx, nyt.NewQuery(*query, *yearFrom, *yearTo), *maxRecs)
	if err != nil {
		logger.Fatal().Err(err).Msg("Search failed")
	}

	table := result.Table
	logger.Info().
		Int("records", table.Len()).
		Strs("sections", table.Domain).
		Msg("Corpus assembled")

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			logger.Fatal().Err(err).Str("path", *out).Msg("Failed to create output file")
		}
		defer f.Close()
		w = f
	}

	if err := table.WithLabelColumn().WriteCSV(w); err != nil {
		logger.Fatal().Err(err).Msg("Failed to write CSV")
	}

	if result.PagesFailed > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d of %d pages could not be retrieved\n",
			result.PagesFailed,
			result.PagesFailed+result.PagesFetched+result.PagesCached)
	}
}

// defaultCachePath places the query cache under the user cache directory.
func defaultCachePath() string {
	return filepath.Join(xdg.CacheHome, "nytfetch", "queries.db")
}
