package collector

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ternarybob/linkcheck/internal/models"
)

func TestCollectFsPathYieldsResolvedRequests(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.html")
	if err := os.WriteFile(path, []byte(`<a href="other.html">other</a><a href="https://example.com/abs">abs</a>`), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	c := New(nil, false, nil)
	var got []models.Request
	err := c.Collect(context.Background(), models.Input{Kind: models.InputKindFsPath, Path: path}, func(r models.Request) {
		got = append(got, r)
	})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2: %v", len(got), got)
	}

	var sawRelative, sawAbsolute bool
	for _, r := range got {
		switch r.Uri.String() {
		case "https://example.com/abs":
			sawAbsolute = true
		default:
			if r.Uri.Scheme() == "file" {
				sawRelative = true
			}
		}
	}
	if !sawRelative || !sawAbsolute {
		t.Errorf("expected both a resolved relative link and the absolute link, got %v", got)
	}
}

func TestCollectFsPathMissingFileErrors(t *testing.T) {
	c := New(nil, false, nil)
	err := c.Collect(context.Background(), models.Input{Kind: models.InputKindFsPath, Path: "/no/such/file.html"}, func(models.Request) {})
	if err == nil {
		t.Error("expected error for a missing file input")
	}
}

func TestCollectFsGlobMatchesMultipleFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.html", "b.html"} {
		content := `<a href="https://example.com/` + name + `">link</a>`
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	defer os.Chdir(wd)

	c := New(nil, false, nil)
	var got []models.Request
	err = c.Collect(context.Background(), models.Input{Kind: models.InputKindFsGlob, GlobPattern: "*.html"}, func(r models.Request) {
		got = append(got, r)
	})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("len(got) = %d, want 2: %v", len(got), got)
	}
}

func TestCollectStringInput(t *testing.T) {
	c := New(nil, true, nil)
	var got []models.Request
	err := c.Collect(context.Background(), models.Input{Kind: models.InputKindString, Text: "see https://example.com/plain"}, func(r models.Request) {
		got = append(got, r)
	})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(got) != 1 || got[0].Uri.String() != "https://example.com/plain" {
		t.Errorf("got %v, want one request for https://example.com/plain", got)
	}
}
