package master

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jslee/stockpick/pkg/logger"
)

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stock_master.json")

	data := `{
		"005930": {"kr_name": "삼성전자", "en_name": "Samsung Electronics", "sector": "반도체", "market": "KOSPI"},
		"AAPL":   {"kr_name": "애플", "en_name": "Apple Inc.", "sector": "IT", "market": "NASDAQ"}
	}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := LoadFile(path, logger.NewNop())
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if m.Count() != 2 {
		t.Errorf("Count() = %d, want 2", m.Count())
	}

	entry, ok := m.Lookup("005930")
	if !ok {
		t.Fatal("Lookup(005930) not found")
	}
	if entry.KrName != "삼성전자" || entry.Market != "KOSPI" {
		t.Errorf("entry = %+v", entry)
	}

	if _, ok := m.Lookup("없음"); ok {
		t.Error("Lookup() found an entry that does not exist")
	}
}

func TestLoadFile_MissingFileIsEmpty(t *testing.T) {
	m, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"), logger.NewNop())
	if err != nil {
		t.Fatalf("missing file should not be fatal, got %v", err)
	}
	if m.Count() != 0 {
		t.Errorf("Count() = %d, want 0", m.Count())
	}
}

func TestLoadFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFile(path, logger.NewNop()); err == nil {
		t.Error("LoadFile() should fail on malformed JSON")
	}
}
