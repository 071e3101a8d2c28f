package core

import (
	"sort"

	"github.com/dustin/go-humanize"
)

// DefaultTopRows is the length of the top results table.
const DefaultTopRows = 10

// Pie slice labels.
const (
	LabelFemale = "Female"
	LabelMale   = "Male"
)

// BarPoint is one bar of the per-project chart.
type BarPoint struct {
	Project string `json:"project"`
	Total   int64  `json:"total"`
	Male    int64  `json:"male"`
	Female  int64  `json:"female"`
	// Width is the bar length in percent of the tallest bar.
	Width int `json:"width"`
}

// PieSlice is one slice of the gender distribution chart.
type PieSlice struct {
	Label   string `json:"label"`
	Value   int64  `json:"value"`
	Percent string `json:"percent"`
}

// Summary holds the three headline figures and their display form.
type Summary struct {
	Total      int64  `json:"total"`
	Male       int64  `json:"male"`
	Female     int64  `json:"female"`
	TotalText  string `json:"total_text"`
	MaleText   string `json:"male_text"`
	FemaleText string `json:"female_text"`
}

// View is everything the dashboard shows below the filters.
// When Empty is set no other field is populated.
type View struct {
	Empty   bool           `json:"empty"`
	Bars    []BarPoint     `json:"bars,omitempty"`
	Pie     []PieSlice     `json:"pie,omitempty"`
	Summary *Summary       `json:"summary,omitempty"`
	Top     []ResultRecord `json:"top,omitempty"`
}

// Compose builds the view for the filtered rows and their per-project
// aggregation. topRows <= 0 selects DefaultTopRows.
func Compose(rows []ResultRecord, agg []AggregatedRow, topRows int) View {
	if len(rows) == 0 {
		return View{Empty: true}
	}
	if topRows <= 0 {
		topRows = DefaultTopRows
	}

	var total, male, female, maxTotal int64
	for _, a := range agg {
		total += a.TotalResult
		male += a.MaleResult
		female += a.FemaleResult
		if a.TotalResult > maxTotal {
			maxTotal = a.TotalResult
		}
	}

	bars := make([]BarPoint, 0, len(agg))
	for _, a := range agg {
		bars = append(bars, BarPoint{
			Project: a.ProjectNumber,
			Total:   a.TotalResult,
			Male:    a.MaleResult,
			Female:  a.FemaleResult,
			Width:   barWidth(a.TotalResult, maxTotal),
		})
	}

	return View{
		Bars: bars,
		Pie: []PieSlice{
			{Label: LabelFemale, Value: female, Percent: percent(female, female+male)},
			{Label: LabelMale, Value: male, Percent: percent(male, female+male)},
		},
		Summary: &Summary{
			Total:      total,
			Male:       male,
			Female:     female,
			TotalText:  FormatCount(total),
			MaleText:   FormatCount(male),
			FemaleText: FormatCount(female),
		},
		Top: TopRows(rows, topRows),
	}
}

// TopRows returns up to n rows ordered by total result, highest first.
// Rows with equal totals keep their input order.
func TopRows(rows []ResultRecord, n int) []ResultRecord {
	sorted := make([]ResultRecord, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalResult > sorted[j].TotalResult
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// FormatCount renders n with thousands separators, e.g. 12,345.
func FormatCount(n int64) string {
	return humanize.Comma(n)
}

// barWidth returns value as a rounded percentage of top, at least 2 for any
// positive value so small bars stay visible.
func barWidth(value, top int64) int {
	if top <= 0 || value <= 0 {
		return 0
	}
	width := int((value*100 + top/2) / top)
	if width < 2 {
		width = 2
	}
	if width > 100 {
		width = 100
	}
	return width
}

func percent(part, whole int64) string {
	if whole <= 0 {
		return "0%"
	}
	return humanize.FtoaWithDigits(float64(part)*100/float64(whole), 1) + "%"
}
