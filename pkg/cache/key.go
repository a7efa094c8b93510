package cache

import (
	"fmt"
	"strings"
)

// Key identifies a cached Article Search response. Two queries share an
// entry only when every part of the key matches, including the page number
// and the resolved date bounds (the default bounds are derived from "today",
// which keeps old responses from being reused across days).
type Key struct {
	// BeginDate is the lower date bound in YYYYMMDD form.
	BeginDate string

	// EndDate is the upper date bound in YYYYMMDD form.
	EndDate string

	// Terms are the query keywords, in query order.
	Terms []string

	// Fields are the requested text fields, in request order.
	Fields []string

	// Page is the zero-based result page.
	Page int
}

// String generates a deterministic cache key string.
// Format: nyt:begin-end:q=term1+term2:fl=field1,field2:page=N
//
// Example:
//
//	nyt:18510101-20250101:q=slovenia+economy:fl=headline,snippet:page=0
func (k Key) String() string {
	parts := []string{"nyt"}

	parts = append(parts, fmt.Sprintf("%s-%s", k.BeginDate, k.EndDate))
	parts = append(parts, "q="+strings.Join(k.Terms, "+"))
	parts = append(parts, "fl="+strings.Join(k.Fields, ","))
	parts = append(parts, fmt.Sprintf("page=%d", k.Page))

	return strings.Join(parts, ":")
}
