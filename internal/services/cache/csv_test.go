package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ternarybob/linkcheck/internal/models"
)

func TestSaveThenLoadCSVRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.csv")

	c := New(time.Hour, time.Hour, nil, nil)
	c.Record("https://example.com/", models.CacheStatus{Ok: true, Code: 200})
	c.Record("https://example.com/missing", models.CacheStatus{Ok: false, Code: 404})

	if err := c.SaveCSV(path); err != nil {
		t.Fatalf("SaveCSV: %v", err)
	}

	reloaded := New(time.Hour, time.Hour, nil, nil)
	if err := reloaded.LoadCSV(path); err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}

	status, found := reloaded.Lookup("https://example.com/")
	if !found || !status.Ok || status.Code != 200 {
		t.Errorf("reloaded entry = (%+v, %v), want Ok=true Code=200", status, found)
	}

	status2, found2 := reloaded.Lookup("https://example.com/missing")
	if !found2 || status2.Ok || status2.Code != 404 {
		t.Errorf("reloaded error entry = (%+v, %v), want Ok=false Code=404", status2, found2)
	}
}

func TestLoadCSVMissingFileIsNoop(t *testing.T) {
	c := New(time.Hour, time.Hour, nil, nil)
	if err := c.LoadCSV(filepath.Join(t.TempDir(), "does-not-exist.csv")); err != nil {
		t.Errorf("LoadCSV on missing file should be a no-op, got error: %v", err)
	}
}

func TestLoadCSVSkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.csv")
	content := "https://good.example.com/,200,1700000000\nnot,enough\nhttps://bad-code.example.com/,notanumber,1700000000\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	// The fixture's epoch (1700000000) is in the past, so the max age must
	// be long enough for the loaded entry to still count as fresh.
	c := New(100*365*24*time.Hour, 100*365*24*time.Hour, nil, nil)
	if err := c.LoadCSV(path); err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}

	if _, found := c.Lookup("https://good.example.com/"); !found {
		t.Error("expected well-formed line to load")
	}
	if _, found := c.Lookup("https://bad-code.example.com/"); found {
		t.Error("expected malformed status-code line to be skipped")
	}
}
