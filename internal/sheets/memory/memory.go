package memory

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"sync"

	"resultsdash/internal/core"
	ports "resultsdash/internal/sheets"
)

// Store serves a results table held in memory.
type Store struct {
	mu    sync.Mutex
	table core.RawTable
}

var _ ports.ResultsReader = (*Store)(nil)

func New(table core.RawTable) *Store {
	return &Store{table: table}
}

// NewFromCSV loads a comma separated file whose first line is the header.
func NewFromCSV(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv %s: %w", path, err)
	}
	return New(ports.TableFromStrings(rows)), nil
}

// ReadResults returns a copy of the stored table.
func (s *Store) ReadResults(_ context.Context) (core.RawTable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := core.RawTable{
		Header: append([]string(nil), s.table.Header...),
		Rows:   make([][]any, len(s.table.Rows)),
	}
	for i, row := range s.table.Rows {
		out.Rows[i] = append([]any(nil), row...)
	}
	return out, nil
}
