// Package xlsx reads the results sheet of an Excel workbook.
package xlsx

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"resultsdash/internal/core"
	ports "resultsdash/internal/sheets"
)

// Reader loads one sheet of a workbook on disk.
type Reader struct {
	path  string
	sheet string
}

var _ ports.ResultsReader = (*Reader)(nil)

// New returns a reader for sheet in the workbook at path. An empty sheet
// name selects the first sheet.
func New(path, sheet string) *Reader {
	return &Reader{path: path, sheet: sheet}
}

// ReadResults implements sheets.ResultsReader. Cells are read as raw values,
// so number formats such as thousands separators do not leak into the data.
func (r *Reader) ReadResults(ctx context.Context) (core.RawTable, error) {
	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return core.RawTable{}, fmt.Errorf("open workbook %s: %w", r.path, err)
	}
	defer f.Close()

	sheet := r.sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return core.RawTable{}, fmt.Errorf("%w: %q in %s (have %v)", ports.ErrSheetNotFound, sheet, r.path, f.GetSheetList())
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return core.RawTable{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	table := ports.TableFromStrings(rows)
	slog.DebugContext(ctx, "Workbook sheet read", "path", r.path, "sheet", sheet, "rows", len(table.Rows))
	return table, nil
}

// WriteResults writes table into a new workbook at path under sheet. It is
// used to export seed data and to build fixtures.
func WriteResults(path, sheet string, table core.RawTable) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Sheet1"
	}
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return fmt.Errorf("rename sheet: %w", err)
		}
	}

	header := make([]any, len(table.Header))
	for i, h := range table.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range table.Rows {
		cells := append([]any(nil), row...)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}
