// Package corpus flattens Article Search records into a tabular corpus:
// one document string per record, fixed text metadata columns, and a
// categorical section label.
package corpus

import (
	"fmt"
	"sort"
	"strings"
)

// Missing marks an absent or empty cell value. It is distinct from the
// empty string so downstream consumers can tell "no value" from "value
// happens to be empty".
const Missing = "?"

// TextFields are the record fields extracted into text columns by default.
var TextFields = []string{"headline", "lead_paragraph", "snippet", "abstract", "keywords"}

// Record is one article document as decoded from the API response.
// Field values are heterogeneous: objects (headline), arrays of keyword
// objects (keywords), or plain strings.
type Record map[string]any

// fieldValue flattens a single record field into a cell value.
//
// Object values join their member values with spaces (in sorted member
// order, for determinism), arrays of keyword objects join their "value"
// entries, and scalars pass through. Absent fields and empty results
// collapse to Missing.
func fieldValue(rec Record, field string) string {
	raw, ok := rec[field]
	if !ok || raw == nil {
		return Missing
	}

	var value string
	switch v := raw.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			if s, ok := v[k].(string); ok && s != "" {
				parts = append(parts, s)
			}
		}
		value = strings.Join(parts, " ")
	case []any:
		parts := make([]string, 0, len(v))
		for _, elem := range v {
			kw, ok := elem.(map[string]any)
			if !ok {
				continue
			}
			if s, ok := kw["value"].(string); ok && s != "" {
				parts = append(parts, s)
			}
		}
		value = strings.Join(parts, " ")
	case string:
		value = v
	default:
		value = fmt.Sprint(v)
	}

	if value == "" {
		return Missing
	}
	return value
}

// glocations extracts the geographic tags of a record: the "value" entries
// of keywords whose "name" is "glocations", comma-joined.
func glocations(rec Record) string {
	raw, ok := rec["keywords"].([]any)
	if !ok {
		return Missing
	}

	var parts []string
	for _, elem := range raw {
		kw, ok := elem.(map[string]any)
		if !ok {
			continue
		}
		if name, _ := kw["name"].(string); name != "glocations" {
			continue
		}
		if s, ok := kw["value"].(string); ok && s != "" {
			parts = append(parts, s)
		}
	}

	if len(parts) == 0 {
		return Missing
	}
	return strings.Join(parts, ",")
}

// label extracts the categorical section name of a record.
func label(rec Record) string {
	if s, ok := rec["section_name"].(string); ok && s != "" {
		return s
	}
	return Missing
}

// FlattenRecords converts records into fixed-width text rows plus a
// parallel label slice. Each row holds one cell per requested field,
// followed by the raw publication date and the derived country cell.
func FlattenRecords(records []Record, fields []string) (rows [][]string, labels []string) {
	rows = make([][]string, 0, len(records))
	labels = make([]string, 0, len(records))

	for _, rec := range records {
		row := make([]string, 0, len(fields)+2)
		for _, field := range fields {
			row = append(row, fieldValue(rec, field))
		}

		pubDate := Missing
		if s, ok := rec["pub_date"].(string); ok && s != "" {
			pubDate = s
		}
		row = append(row, pubDate)
		row = append(row, glocations(rec))

		rows = append(rows, row)
		labels = append(labels, label(rec))
	}

	return rows, labels
}
