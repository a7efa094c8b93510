package nyt

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/david-novak/nyt-corpus/pkg/cache"
	"github.com/david-novak/nyt-corpus/pkg/corpus"
)

// archiveStart is the earliest publication date the archive covers.
var archiveStart = time.Date(1851, time.January, 1, 0, 0, 0, 0, time.UTC)

// Query describes one Article Search query: keywords, optional year bounds,
// and the text fields to request. Build one with NewQuery and pass it to
// Client.Search; a Query carries no connection state and can be reused.
type Query struct {
	// Terms are the query keywords, in query order.
	Terms []string

	// Fields are the record fields extracted into text columns.
	Fields []string

	// BeginDate and EndDate are the resolved date bounds in YYYYMMDD form.
	// When no year bound was given they default to the archive start and
	// today, respectively, and are used for cache keying only.
	BeginDate string
	EndDate   string

	// beginBounded/endBounded record whether the bound came from user
	// input. Only user-supplied bounds are sent as request parameters.
	beginBounded bool
	endBounded   bool
}

// NewQuery builds a query from a whitespace-separated keyword string and
// optional year bounds. Year bounds must be digit strings; anything else is
// ignored with a warning.
func NewQuery(keywords, yearFrom, yearTo string) Query {
	q := Query{
		Terms:     strings.Fields(keywords),
		Fields:    append([]string{}, corpus.TextFields...),
		BeginDate: EncodeDate(archiveStart),
		EndDate:   EncodeDate(time.Now()),
	}

	if yearFrom != "" {
		if isDigits(yearFrom) {
			q.BeginDate = yearFrom + "0101"
			q.beginBounded = true
		} else {
			log.Warn().Str("year_from", yearFrom).Msg("Ignoring non-numeric lower year bound")
		}
	}
	if yearTo != "" {
		if isDigits(yearTo) {
			q.EndDate = yearTo + "1231"
			q.endBounded = true
		} else {
			log.Warn().Str("year_to", yearTo).Msg("Ignoring non-numeric upper year bound")
		}
	}

	return q
}

// EncodeDate encodes a date in the YYYYMMDD form the API expects.
// 2020-03-05 encodes as "20200305".
func EncodeDate(t time.Time) string {
	return t.Format("20060102")
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// values assembles the request parameters for one result page.
func (q Query) values(apiKey string, page int) url.Values {
	v := url.Values{}
	v.Set("q", strings.Join(q.Terms, " "))
	v.Set("fq", articleFilter)
	v.Set("api-key", apiKey)
	if q.beginBounded {
		v.Set("begin_date", q.BeginDate)
	}
	if q.endBounded {
		v.Set("end_date", q.EndDate)
	}
	v.Set("fl", q.fieldList())
	v.Set("page", strconv.Itoa(page))
	return v
}

// fieldList returns the fl parameter: the requested text fields plus
// pub_date and section_name, and keywords in every case since the country
// column is derived from them.
func (q Query) fieldList() string {
	fields := append([]string{}, q.Fields...)
	fields = append(fields, "pub_date", "section_name")

	hasKeywords := false
	for _, f := range q.Fields {
		if f == "keywords" {
			hasKeywords = true
			break
		}
	}
	if !hasKeywords {
		fields = append(fields, "keywords")
	}

	return strings.Join(fields, ",")
}

// cacheKey builds the structured cache key for one result page.
func (q Query) cacheKey(page int) cache.Key {
	return cache.Key{
		BeginDate: q.BeginDate,
		EndDate:   q.EndDate,
		Terms:     q.Terms,
		Fields:    q.Fields,
		Page:      page,
	}
}
