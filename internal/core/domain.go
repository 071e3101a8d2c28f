package core

import (
	"errors"
	"fmt"
)

// Source column names after header cleaning.
const (
	ColProjectNumber = "Project_Number"
	ColThematicArea  = "Project_thematic_Area"
	ColIndicator     = "Indicator_Definition"
	ColFemaleResult  = "Female_Result"
	ColMaleResult    = "Male_Result"
	ColTotalResult   = "Total_Result"
)

// RequiredColumns lists the columns every results source must provide.
var RequiredColumns = []string{
	ColProjectNumber,
	ColThematicArea,
	ColIndicator,
	ColFemaleResult,
	ColMaleResult,
}

type (
	// RawTable is a loosely-typed table as handed over by a source reader.
	// Cells may be strings, numbers or nil depending on the reader.
	RawTable struct {
		Header []string
		Rows   [][]any
	}

	// ResultRecord is one normalized results row.
	ResultRecord struct {
		ProjectNumber       string `json:"project_number"`
		ThematicArea        string `json:"thematic_area"`
		IndicatorDefinition string `json:"indicator_definition"`
		FemaleResult        int64  `json:"female_result"`
		MaleResult          int64  `json:"male_result"`
		TotalResult         int64  `json:"total_result"`
	}

	// Dataset is the ordered, read-only table loaded at startup.
	Dataset struct {
		Records []ResultRecord
	}

	// FilterSelection is the current state of the three filters.
	// A nil Projects slice means "not chosen yet" and triggers the default
	// project selection; an empty non-nil slice means "all projects".
	FilterSelection struct {
		ThematicArea string   `json:"thematic_area"`
		Indicator    string   `json:"indicator"`
		Projects     []string `json:"projects"`
	}

	// AggregatedRow holds the per-project sums for the current filter.
	AggregatedRow struct {
		ProjectNumber string `json:"project_number"`
		FemaleResult  int64  `json:"female_result"`
		MaleResult    int64  `json:"male_result"`
		TotalResult   int64  `json:"total_result"`
	}
)

// ErrMissingColumn is wrapped by MissingColumnError.
var ErrMissingColumn = errors.New("missing required column")

// MissingColumnError reports a required column absent from the source header.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s %q", ErrMissingColumn, e.Column)
}

func (e *MissingColumnError) Unwrap() error {
	return ErrMissingColumn
}

// Len returns the number of records.
func (d Dataset) Len() int {
	return len(d.Records)
}

// Key returns a canonical string for the selection as requested, keeping the
// nil/empty distinction of Projects.
func (s FilterSelection) Key() string {
	key := s.ThematicArea + "\x1f" + s.Indicator + "\x1f"
	if s.Projects == nil {
		return key + "\x00"
	}
	for _, p := range s.Projects {
		key += p + "\x1e"
	}
	return key
}
