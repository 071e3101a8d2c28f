package core

import (
	"errors"
	"math"
	"testing"
)

func rawFixture() RawTable {
	return RawTable{
		Header: []string{" Project Number", "Project thematic Area ", "Indicator Definition", "Female Result", "Male Result", "Total Result"},
		Rows: [][]any{
			{"100", "Education", "Learners enrolled", "2", "3", "999"},
			{100.0, "Education", "Learners enrolled", 0, "N/A", nil},
			{"100", "Education", "Learners enrolled", 5.0, int64(1)},
		},
	}
}

func TestCleanColumnName(t *testing.T) {
	cases := map[string]string{
		"Project_Number":           "Project_Number",
		"  Project Number ":        "Project_Number",
		"Project thematic Area":    "Project_thematic_Area",
		"Female  Result":           "Female__Result",
		"\tIndicator Definition\n": "Indicator_Definition",
	}
	for in, want := range cases {
		if got := CleanColumnName(in); got != want {
			t.Fatalf("CleanColumnName(%q)=%q want %q", in, got, want)
		}
	}
}

func TestCoerceCount(t *testing.T) {
	cases := []struct {
		in   any
		want int64
	}{
		{nil, 0},
		{"", 0},
		{"  12 ", 12},
		{"N/A", 0},
		{"1,000", 0},
		{"7.9", 7},
		{"NaN", 0},
		{"inf", 0},
		{"-4", 0},
		{3, 3},
		{int64(42), 42},
		{12.0, 12},
		{math.NaN(), 0},
		{math.Inf(1), 0},
		{-1.5, 0},
		{1e30, 0},
		{true, 0},
		{[]byte("8"), 8},
	}
	for i, tc := range cases {
		if got := CoerceCount(tc.in); got != tc.want {
			t.Fatalf("case %d CoerceCount(%v)=%d want %d", i, tc.in, got, tc.want)
		}
	}
}

func TestCellText(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"13229", "13229"},
		{13229.0, "13229"},
		{int64(12274), "12274"},
		{7, "7"},
		{2.5, "2.5"},
		{"007", "007"},
		{true, "true"},
	}
	for i, tc := range cases {
		if got := CellText(tc.in); got != tc.want {
			t.Fatalf("case %d CellText(%v)=%q want %q", i, tc.in, got, tc.want)
		}
	}
}

func TestNormalizeRecomputesTotals(t *testing.T) {
	ds, err := Normalize(rawFixture())
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if ds.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", ds.Len())
	}
	for i, r := range ds.Records {
		if r.TotalResult != r.FemaleResult+r.MaleResult {
			t.Fatalf("row %d total %d != %d+%d", i, r.TotalResult, r.FemaleResult, r.MaleResult)
		}
		if r.ProjectNumber != "100" {
			t.Fatalf("row %d project %q", i, r.ProjectNumber)
		}
	}
	if r := ds.Records[1]; r.FemaleResult != 0 || r.MaleResult != 0 {
		t.Fatalf("row 2 expected zeros, got female=%d male=%d", r.FemaleResult, r.MaleResult)
	}
	if r := ds.Records[0]; r.TotalResult != 5 {
		t.Fatalf("source Total_Result must be ignored, got %d", r.TotalResult)
	}
}

func TestNormalizeShortRowsArePadded(t *testing.T) {
	raw := RawTable{
		Header: RequiredColumns,
		Rows:   [][]any{{"1", "Area"}, {}},
	}
	ds, err := Normalize(raw)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if ds.Len() != 2 {
		t.Fatalf("rows must never be dropped, got %d", ds.Len())
	}
	if r := ds.Records[0]; r.IndicatorDefinition != "" || r.TotalResult != 0 {
		t.Fatalf("unexpected padded row: %+v", r)
	}
}

func TestNormalizeMissingColumn(t *testing.T) {
	raw := RawTable{
		Header: []string{"Project_Number", "Project_thematic_Area", "Indicator_Definition", "Female_Result"},
	}
	_, err := Normalize(raw)
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
	var mce *MissingColumnError
	if !errors.As(err, &mce) || mce.Column != ColMaleResult {
		t.Fatalf("expected missing %s, got %v", ColMaleResult, err)
	}

	if _, err := Normalize(RawTable{}); !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("empty table must fail with missing column, got %v", err)
	}
}
