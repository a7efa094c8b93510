package corpus

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Table is the assembled corpus: one document string per record, the text
// metadata packaged as a dataframe, and a parallel categorical label column.
type Table struct {
	// Documents holds one space-joined document string per record.
	Documents []string

	// Frame holds the metadata columns: one string series per text field,
	// plus "pub_date" and "country".
	Frame dataframe.DataFrame

	// Labels holds the raw section name per record (Missing when absent).
	Labels []string

	// Domain is the sorted set of distinct label values observed.
	Domain []string
}

// BuildTable assembles a Table from flattened records. A nil or empty
// record list yields a zero-row table with an empty label domain.
func BuildTable(records []Record, fields []string) (*Table, error) {
	if len(fields) == 0 {
		fields = TextFields
	}

	rows, labels := FlattenRecords(records, fields)

	// Document string: non-missing cells joined with spaces.
	documents := make([]string, len(rows))
	for i, row := range rows {
		parts := make([]string, 0, len(row))
		for _, cell := range row {
			if cell != Missing {
				parts = append(parts, cell)
			}
		}
		documents[i] = strings.TrimSpace(strings.Join(parts, " "))
	}

	columns := append(append([]string{}, fields...), "pub_date", "country")
	cols := make([]series.Series, len(columns))
	for c, name := range columns {
		col := make([]string, len(rows))
		for r := range rows {
			col[r] = rows[r][c]
		}
		cols[c] = series.New(col, series.String, name)
	}

	frame := dataframe.New(cols...)
	if frame.Err != nil {
		return nil, fmt.Errorf("assembling dataframe: %w", frame.Err)
	}

	return &Table{
		Documents: documents,
		Frame:     frame,
		Labels:    labels,
		Domain:    labelDomain(labels),
	}, nil
}

// labelDomain returns the sorted distinct label values observed.
func labelDomain(labels []string) []string {
	seen := make(map[string]bool, len(labels))
	domain := make([]string, 0)
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			domain = append(domain, l)
		}
	}

	// Sort for a stable domain regardless of record order.
	sort.Strings(domain)
	return domain
}

// Len reports the number of rows.
func (t *Table) Len() int {
	return len(t.Documents)
}

// Columns returns the metadata column names.
func (t *Table) Columns() []string {
	return t.Frame.Names()
}

// Y maps each row's label to its index in the domain.
func (t *Table) Y() []int {
	index := make(map[string]int, len(t.Domain))
	for i, v := range t.Domain {
		index[v] = i
	}

	y := make([]int, len(t.Labels))
	for i, l := range t.Labels {
		y[i] = index[l]
	}
	return y
}

// WithLabelColumn returns a copy of the metadata frame with the label
// appended as a "section_name" column, convenient for CSV export.
func (t *Table) WithLabelColumn() dataframe.DataFrame {
	return t.Frame.Mutate(series.New(t.Labels, series.String, "section_name"))
}
