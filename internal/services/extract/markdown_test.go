package extract

import (
	"testing"

	"github.com/ternarybob/linkcheck/internal/models"
)

func collectMarkdown(t *testing.T, content string) []models.RawUri {
	t.Helper()
	var got []models.RawUri
	if err := Markdown([]byte(content), func(r models.RawUri) { got = append(got, r) }); err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	return got
}

func TestMarkdownExtractsLinksAndImages(t *testing.T) {
	md := "[docs](https://example.com/docs) and ![logo](https://example.com/logo.png)\n"
	got := collectMarkdown(t, md)

	var links, images int
	for _, r := range got {
		switch r.Element {
		case "md:link":
			links++
		case "md:image":
			images++
		}
	}
	if links != 1 {
		t.Errorf("links = %d, want 1", links)
	}
	if images != 1 {
		t.Errorf("images = %d, want 1", images)
	}
}

func TestMarkdownExtractsAutolinks(t *testing.T) {
	md := "See <https://example.com/auto> for details.\n"
	got := collectMarkdown(t, md)

	found := false
	for _, r := range got {
		if r.Element == "md:autolink" && r.Text == "https://example.com/auto" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected autolink to be extracted, got %v", got)
	}
}

func TestMarkdownExtractsEmbeddedHTML(t *testing.T) {
	md := "Some text.\n\n<a href=\"https://example.com/embedded\">embedded</a>\n"
	got := collectMarkdown(t, md)

	found := false
	for _, r := range got {
		if r.Text == "https://example.com/embedded" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected embedded raw HTML link to be extracted, got %v", got)
	}
}
