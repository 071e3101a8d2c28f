// Package core provides the results data model and the pure functions that
// turn a raw table into dashboard views.
//
// This file contains the schema normalizer: header cleaning, lossy numeric
// coercion and text casting of the categorical columns.
package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// CleanColumnName trims a header and replaces every space with an underscore.
// Case is preserved.
func CleanColumnName(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
}

// Normalize converts a raw table into a Dataset.
//
// Female_Result and Male_Result are coerced with CoerceCount, Total_Result is
// always recomputed, and the categorical columns are cast to text with
// CellText. Rows are never dropped. A missing required column returns a
// *MissingColumnError.
func Normalize(raw RawTable) (Dataset, error) {
	index := make(map[string]int, len(raw.Header))
	for i, h := range raw.Header {
		name := CleanColumnName(h)
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	cols := make(map[string]int, len(RequiredColumns))
	for _, name := range RequiredColumns {
		i, ok := index[name]
		if !ok {
			return Dataset{}, &MissingColumnError{Column: name}
		}
		cols[name] = i
	}

	records := make([]ResultRecord, 0, len(raw.Rows))
	for _, row := range raw.Rows {
		female := CoerceCount(cellAt(row, cols[ColFemaleResult]))
		male := CoerceCount(cellAt(row, cols[ColMaleResult]))
		records = append(records, ResultRecord{
			ProjectNumber:       CellText(cellAt(row, cols[ColProjectNumber])),
			ThematicArea:        CellText(cellAt(row, cols[ColThematicArea])),
			IndicatorDefinition: CellText(cellAt(row, cols[ColIndicator])),
			FemaleResult:        female,
			MaleResult:          male,
			TotalResult:         female + male,
		})
	}
	return Dataset{Records: records}, nil
}

// CoerceCount converts a raw cell into a beneficiary count. It never fails:
// missing, non-numeric, non-finite, negative or out-of-range values become 0.
// Decimal values are truncated toward zero. Negative values are clamped to 0
// on purpose instead of being kept as a plain integer cast would.
func CoerceCount(v any) int64 {
	switch n := v.(type) {
	case nil:
		return 0
	case int:
		return clampCount(int64(n))
	case int32:
		return clampCount(int64(n))
	case int64:
		return clampCount(n)
	case float32:
		return floatCount(float64(n))
	case float64:
		return floatCount(n)
	case []byte:
		return CoerceCount(string(n))
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0
		}
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return clampCount(i)
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return floatCount(f)
		}
		return 0
	default:
		return 0
	}
}

func clampCount(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}

func floatCount(f float64) int64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f >= math.MaxInt64 {
		return 0
	}
	return int64(f)
}

// CellText renders a raw cell as text. Integral numbers render without a
// fractional part, so a typed id cell 13229.0 becomes "13229".
func CellText(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case []byte:
		return string(c)
	case int:
		return strconv.Itoa(c)
	case int64:
		return strconv.FormatInt(c, 10)
	case float32:
		return floatText(float64(c))
	case float64:
		return floatText(c)
	case bool:
		return strconv.FormatBool(c)
	case time.Time:
		return c.Format(time.DateOnly)
	default:
		return fmt.Sprint(c)
	}
}

func floatText(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func cellAt(row []any, i int) any {
	if i < 0 || i >= len(row) {
		return nil
	}
	return row[i]
}
