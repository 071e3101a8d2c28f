package backend

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"resultsdash/internal/config"
	"resultsdash/internal/core"
)

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
	if _, err := FromAppConfig(&config.Config{ResultsSource: "ftp"}); err == nil {
		t.Fatal("expected error for unknown source")
	}
	cfg, err := FromAppConfig(&config.Config{ResultsSource: "xlsx", ResultsFile: "r.xlsx", ResultsSheet: "S"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Type != XLSXBackend || cfg.ResultsFile != "r.xlsx" || cfg.ResultsSheet != "S" {
		t.Fatalf("unexpected backend config: %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"xlsx without file", Config{Type: XLSXBackend}, "results file is required"},
		{"memory without file", Config{Type: MemoryBackend}, "results file is required"},
		{"sqlite without path", Config{Type: SQLiteBackend}, "SQLite database path is required"},
		{"sheets without id", Config{Type: SheetsBackend}, "Google Spreadsheet ID is required"},
		{"unknown", Config{Type: "ftp"}, "invalid backend type"},
		{"valid sqlite", Config{Type: SQLiteBackend, SQLiteDBPath: "x.db"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error=%v want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestCreateMemoryBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	csv := "Project_Number,Project_thematic_Area,Indicator_Definition,Female_Result,Male_Result\n1,A,I,2,3\n"
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: MemoryBackend, ResultsFile: path})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer res.Close()

	table, err := res.Reader.ReadResults(context.Background())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	ds, err := core.Normalize(table)
	if err != nil || ds.Len() != 1 || ds.Records[0].TotalResult != 5 {
		t.Fatalf("unexpected dataset %+v err=%v", ds, err)
	}
}

func TestCreateSQLiteBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")
	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: SQLiteBackend, SQLiteDBPath: path})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if res.Cleanup == nil {
		t.Fatal("sqlite backend must provide cleanup")
	}
	table, err := res.Reader.ReadResults(context.Background())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(table.Rows) != 0 {
		t.Fatalf("expected empty table, got %d rows", len(table.Rows))
	}
	if err := res.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestCreateXLSXBackendDefersFileAccess(t *testing.T) {
	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: XLSXBackend, ResultsFile: "missing.xlsx"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := res.Reader.ReadResults(context.Background()); err == nil {
		t.Fatal("expected read error for missing workbook")
	}
}
