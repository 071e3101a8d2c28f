package google

import (
	"fmt"
	"strings"

	"resultsdash/internal/core"
)

// parseResults converts a values matrix (as returned by Sheets API) into a
// raw table. The first non-empty row is the header; data cells keep the types
// the API returned so the normalizer can apply its own coercion.
func parseResults(values [][]interface{}) core.RawTable {
	start := 0
	for start < len(values) && isBlankRow(values[start]) {
		start++
	}
	if start == len(values) {
		return core.RawTable{}
	}

	table := core.RawTable{
		Header: toStrings(values[start]),
		Rows:   make([][]any, 0, len(values)-start-1),
	}
	for _, row := range values[start+1:] {
		cells := make([]any, len(row))
		copy(cells, row)
		table.Rows = append(table.Rows, cells)
	}
	return table
}

func isBlankRow(row []interface{}) bool {
	for _, v := range row {
		if strings.TrimSpace(fmt.Sprint(v)) != "" {
			return false
		}
	}
	return true
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = fmt.Sprint(v)
	}
	return out
}
