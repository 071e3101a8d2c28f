package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"resultsdash/internal/core"
	ports "resultsdash/internal/sheets"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"
)

const resultsTable = "results"

// resultColumns maps table columns to the workbook headers they hold, in order.
var resultColumns = []struct {
	column string
	header string
	count  bool
}{
	{"project_number", core.ColProjectNumber, false},
	{"project_thematic_area", core.ColThematicArea, false},
	{"indicator_definition", core.ColIndicator, false},
	{"female_result", core.ColFemaleResult, true},
	{"male_result", core.ColMaleResult, true},
}

// SQLiteRepository stores the results table in a local SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

var _ ports.ResultsReader = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func columnNames() []string {
	out := make([]string, len(resultColumns))
	for i, c := range resultColumns {
		out[i] = c.column
	}
	return out
}

// ReadResults implements sheets.ResultsReader. Rows come back in insertion
// order under the cleaned workbook headers.
func (r *SQLiteRepository) ReadResults(ctx context.Context) (core.RawTable, error) {
	query, args, err := sq.Select(columnNames()...).
		From(resultsTable).
		OrderBy("id").
		ToSql()
	if err != nil {
		return core.RawTable{}, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return core.RawTable{}, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	table := core.RawTable{Header: make([]string, len(resultColumns))}
	for i, c := range resultColumns {
		table.Header[i] = c.header
	}

	for rows.Next() {
		vals := make([]sql.NullString, len(resultColumns))
		dest := make([]any, len(vals))
		for i := range vals {
			dest[i] = &vals[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return core.RawTable{}, fmt.Errorf("scan result row: %w", err)
		}
		cells := make([]any, len(vals))
		for i, v := range vals {
			if v.Valid {
				cells[i] = v.String
			}
		}
		table.Rows = append(table.Rows, cells)
	}
	if err := rows.Err(); err != nil {
		return core.RawTable{}, fmt.Errorf("iterate results: %w", err)
	}

	slog.DebugContext(ctx, "Results read from SQLite", "rows", len(table.Rows))
	return table, nil
}

// ReplaceResults swaps the stored table for the given raw table in a single
// transaction. Cells are stored as their text form; empty cells become NULL.
func (r *SQLiteRepository) ReplaceResults(ctx context.Context, table core.RawTable) (int, error) {
	index := make(map[string]int, len(table.Header))
	for i, h := range table.Header {
		name := core.CleanColumnName(h)
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}
	for _, c := range resultColumns {
		if _, ok := index[c.header]; !ok {
			return 0, &core.MissingColumnError{Column: c.header}
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	query, args, err := sq.Delete(resultsTable).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("clear results: %w", err)
	}

	for n, row := range table.Rows {
		values := make([]any, len(resultColumns))
		for i, c := range resultColumns {
			values[i] = storedCell(row, index[c.header], c.count)
		}
		query, args, err := sq.Insert(resultsTable).
			Columns(columnNames()...).
			Values(values...).
			ToSql()
		if err != nil {
			return 0, fmt.Errorf("build insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("insert row %d: %w", n+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit results: %w", err)
	}

	slog.InfoContext(ctx, "Results stored in SQLite", "rows", len(table.Rows))
	return len(table.Rows), nil
}

// storedCell returns the text of a cell. Count cells that are empty are NULL
// so they read back as missing; text cells are stored as "".
func storedCell(row []any, idx int, count bool) any {
	var v any
	if idx < len(row) {
		v = row[idx]
	}
	text := core.CellText(v)
	if count && text == "" {
		return nil
	}
	return text
}
