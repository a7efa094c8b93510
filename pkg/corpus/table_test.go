package corpus

import (
	"encoding/json"
	"reflect"
	"testing"
)

func testRecords(t *testing.T, raw string) []Record {
	t.Helper()

	var records []Record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		t.Fatalf("unmarshal records: %v", err)
	}
	return records
}

func TestBuildTable_Empty(t *testing.T) {
	table, err := BuildTable(nil, nil)
	if err != nil {
		t.Fatalf("BuildTable failed: %v", err)
	}

	if table.Len() != 0 {
		t.Errorf("Len = %d, want 0", table.Len())
	}
	if len(table.Domain) != 0 {
		t.Errorf("Domain = %v, want empty", table.Domain)
	}
	if table.Frame.Nrow() != 0 {
		t.Errorf("Frame.Nrow = %d, want 0", table.Frame.Nrow())
	}
}

func TestBuildTable_DefaultColumns(t *testing.T) {
	table, err := BuildTable(nil, nil)
	if err != nil {
		t.Fatalf("BuildTable failed: %v", err)
	}

	want := []string{"headline", "lead_paragraph", "snippet", "abstract", "keywords", "pub_date", "country"}
	if !reflect.DeepEqual(table.Columns(), want) {
		t.Errorf("Columns = %v, want %v", table.Columns(), want)
	}
}

func TestBuildTable_Documents(t *testing.T) {
	records := testRecords(t, `[
		{
			"headline": {"main": "First"},
			"snippet": "one",
			"section_name": "World",
			"pub_date": "2020-03-05T00:00:00Z",
			"keywords": []
		},
		{
			"headline": {"main": "Second"},
			"section_name": "Business",
			"keywords": [{"name": "glocations", "value": "Japan"}]
		}
	]`)

	table, err := BuildTable(records, []string{"headline", "snippet"})
	if err != nil {
		t.Fatalf("BuildTable failed: %v", err)
	}

	wantDocs := []string{
		"First one 2020-03-05T00:00:00Z",
		"Second Japan",
	}
	if !reflect.DeepEqual(table.Documents, wantDocs) {
		t.Errorf("Documents = %v, want %v", table.Documents, wantDocs)
	}
}

func TestBuildTable_LabelDomain(t *testing.T) {
	records := testRecords(t, `[
		{"snippet": "a", "section_name": "World", "keywords": []},
		{"snippet": "b", "section_name": "Business", "keywords": []},
		{"snippet": "c", "section_name": "World", "keywords": []},
		{"snippet": "d", "keywords": []}
	]`)

	table, err := BuildTable(records, []string{"snippet"})
	if err != nil {
		t.Fatalf("BuildTable failed: %v", err)
	}

	// Distinct observed values, sorted; the marker counts when observed.
	wantDomain := []string{Missing, "Business", "World"}
	if !reflect.DeepEqual(table.Domain, wantDomain) {
		t.Errorf("Domain = %v, want %v", table.Domain, wantDomain)
	}

	wantY := []int{2, 1, 2, 0}
	if !reflect.DeepEqual(table.Y(), wantY) {
		t.Errorf("Y = %v, want %v", table.Y(), wantY)
	}
}

func TestBuildTable_FrameCells(t *testing.T) {
	records := testRecords(t, `[
		{
			"headline": {"main": "Title"},
			"pub_date": "2020-03-05T00:00:00Z",
			"section_name": "World",
			"keywords": [
				{"name": "glocations", "value": "Slovenia"},
				{"name": "glocations", "value": "Austria"}
			]
		}
	]`)

	table, err := BuildTable(records, []string{"headline"})
	if err != nil {
		t.Fatalf("BuildTable failed: %v", err)
	}

	if got := table.Frame.Col("country").Records(); got[0] != "Slovenia,Austria" {
		t.Errorf("country cell = %q, want %q", got[0], "Slovenia,Austria")
	}
	if got := table.Frame.Col("pub_date").Records(); got[0] != "2020-03-05T00:00:00Z" {
		t.Errorf("pub_date cell = %q, want %q", got[0], "2020-03-05T00:00:00Z")
	}
}

func TestTable_WithLabelColumn(t *testing.T) {
	records := testRecords(t, `[
		{"snippet": "a", "section_name": "World", "keywords": []}
	]`)

	table, err := BuildTable(records, []string{"snippet"})
	if err != nil {
		t.Fatalf("BuildTable failed: %v", err)
	}

	frame := table.WithLabelColumn()
	if frame.Err != nil {
		t.Fatalf("WithLabelColumn failed: %v", frame.Err)
	}
	if got := frame.Col("section_name").Records(); got[0] != "World" {
		t.Errorf("section_name cell = %q, want %q", got[0], "World")
	}
}
