package sheets

import (
	"context"
	"errors"

	"resultsdash/internal/core"
)

// Ports for inbound data adapters.
type (
	// ResultsReader loads the raw results table from a tabular source.
	// Implementations do no cleaning; core.Normalize owns that.
	ResultsReader interface {
		ReadResults(ctx context.Context) (core.RawTable, error)
	}
)

// ErrSheetNotFound is returned when the configured sheet does not exist.
var ErrSheetNotFound = errors.New("sheet not found")

// TableFromStrings treats the first row as the header and the remaining rows
// as data cells.
func TableFromStrings(rows [][]string) core.RawTable {
	if len(rows) == 0 {
		return core.RawTable{}
	}
	table := core.RawTable{
		Header: append([]string(nil), rows[0]...),
		Rows:   make([][]any, 0, len(rows)-1),
	}
	for _, row := range rows[1:] {
		cells := make([]any, len(row))
		for i, v := range row {
			cells[i] = v
		}
		table.Rows = append(table.Rows, cells)
	}
	return table
}
