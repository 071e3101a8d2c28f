package google

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	ports "resultsdash/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

func fakeSheetsAPI(t *testing.T, titles []string, values [][]interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.Contains(r.URL.Path, "/values/") {
			if got := r.URL.Query().Get("valueRenderOption"); got != "UNFORMATTED_VALUE" {
				t.Errorf("expected unformatted values, got %q", got)
			}
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"range":          "Results!A1:E4",
				"majorDimension": "ROWS",
				"values":         values,
			})
			return
		}
		sheets := make([]map[string]interface{}, 0, len(titles))
		for _, title := range titles {
			sheets = append(sheets, map[string]interface{}{"properties": map[string]interface{}{"title": title}})
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"spreadsheetId": "sheet-id", "sheets": sheets})
	}))
}

func newTestClient(t *testing.T, srv *httptest.Server, sheetName string) *Client {
	t.Helper()
	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithoutAuthentication(),
		goption.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return NewWithService(svc, "sheet-id", sheetName)
}

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Config{SheetName: "Results"})
	if err == nil || err.Error() != "missing spreadsheet id" {
		t.Fatalf("expected missing spreadsheet id error, got %v", err)
	}
}

func TestNew_InvalidCredentials(t *testing.T) {
	_, err := New(context.Background(), Config{SpreadsheetID: "x", CredentialsFile: "/does/not/exist.json"})
	if err == nil || !strings.Contains(err.Error(), "read service account file") {
		t.Fatalf("expected credentials file error, got %v", err)
	}
}

func TestReadResults(t *testing.T) {
	srv := fakeSheetsAPI(t, []string{"Other", "Results"}, [][]interface{}{
		{"Project_Number", "Project_thematic_Area", "Indicator_Definition", "Female_Result", "Male_Result"},
		{13229, "Livelihoods", "Women trained", 12, 3},
	})
	defer srv.Close()

	table, err := newTestClient(t, srv, "Results").ReadResults(context.Background())
	if err != nil {
		t.Fatalf("read results: %v", err)
	}
	if len(table.Header) != 5 || len(table.Rows) != 1 {
		t.Fatalf("unexpected table: %+v", table)
	}
	if v, ok := table.Rows[0][3].(float64); !ok || v != 12 {
		t.Fatalf("expected numeric cell 12, got %#v", table.Rows[0][3])
	}
}

func TestReadResults_MissingSheet(t *testing.T) {
	srv := fakeSheetsAPI(t, []string{"Other"}, nil)
	defer srv.Close()

	_, err := newTestClient(t, srv, "Results").ReadResults(context.Background())
	if !errors.Is(err, ports.ErrSheetNotFound) {
		t.Fatalf("expected ErrSheetNotFound, got %v", err)
	}
}

func TestReadResults_NilService(t *testing.T) {
	c := &Client{spreadsheetID: "test"}
	if _, err := c.ReadResults(context.Background()); err == nil {
		t.Fatal("expected error with nil service")
	}
}
