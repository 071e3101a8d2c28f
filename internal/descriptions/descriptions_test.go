package descriptions

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	d := Defaults()
	if len(d) != 13 {
		t.Fatalf("expected 13 default descriptions, got %d", len(d))
	}
	got, ok := d.Describe("13331")
	if !ok || got != "Youth Employment and TVET in Kenya (TAMK)" {
		t.Fatalf("unexpected description %q ok=%v", got, ok)
	}
	if _, ok := d.Describe("99999"); ok {
		t.Fatal("unknown project must have no description")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "descriptions.yaml")
	content := `"100": "  Literacy programme "
"200": Clean water
"300": ""
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	table, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got, ok := table.Describe("100"); !ok || got != "Literacy programme" {
		t.Fatalf("unexpected description %q ok=%v", got, ok)
	}
	if got, _ := table.Describe(" 200 "); got != "Clean water" {
		t.Fatalf("unexpected description %q", got)
	}
	if _, ok := table.Describe("300"); ok {
		t.Fatal("blank description must be treated as missing")
	}
	if _, ok := table.Describe("13229"); ok {
		t.Fatal("file table must not include defaults")
	}
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	table, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(table) != len(Defaults()) {
		t.Fatalf("expected defaults, got %d entries", len(table))
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("- just\n- a list\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(bad); err == nil {
		t.Fatal("expected parse error for non-map yaml")
	}
}
