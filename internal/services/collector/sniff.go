package collector

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/ternarybob/linkcheck/internal/models"
)

// detectFileType applies a four-step precedence: an explicit hint wins,
// then the file extension, then the Content-Type header (for remote
// inputs), then a best-effort content sniff (HTML signature, commonmark
// fence/heading shapes).
func detectFileType(hint models.FileType, name string, contentType string, content []byte) models.FileType {
	if hint != "" {
		return hint
	}

	if ft, ok := byExtension(name); ok {
		return ft
	}

	if ft, ok := byContentType(contentType); ok {
		return ft
	}

	return sniff(content)
}

func byExtension(name string) (models.FileType, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm", ".xhtml":
		return models.FileTypeHTML, true
	case ".md", ".markdown", ".mdown":
		return models.FileTypeMarkdown, true
	case ".txt":
		return models.FileTypePlaintext, true
	case ".eml":
		return models.FileTypeEmail, true
	default:
		return "", false
	}
}

func byContentType(contentType string) (models.FileType, bool) {
	ct := strings.ToLower(contentType)
	switch {
	case ct == "":
		return "", false
	case strings.Contains(ct, "html"):
		return models.FileTypeHTML, true
	case strings.Contains(ct, "markdown"):
		return models.FileTypeMarkdown, true
	case strings.Contains(ct, "message/rfc822"):
		return models.FileTypeEmail, true
	case strings.HasPrefix(ct, "text/plain"):
		return models.FileTypePlaintext, true
	default:
		return "", false
	}
}

// sniff makes a best-effort guess from content alone, when neither a hint
// nor the extension/content-type settled the question. Unrecognised
// content falls through to FileTypeUnknown, which the extractor dispatcher
// treats as plaintext-or-skip depending on include_verbatim.
func sniff(content []byte) models.FileType {
	trimmed := bytes.TrimSpace(content)
	lower := bytes.ToLower(trimmed)

	if bytes.HasPrefix(lower, []byte("<!doctype html")) ||
		bytes.HasPrefix(lower, []byte("<html")) ||
		(bytes.Contains(lower, []byte("<html")) && bytes.Contains(lower, []byte("</html"))) {
		return models.FileTypeHTML
	}

	if looksLikeMarkdown(trimmed) {
		return models.FileTypeMarkdown
	}

	return models.FileTypeUnknown
}

func looksLikeMarkdown(content []byte) bool {
	lines := bytes.SplitN(content, []byte("\n"), 5)
	for _, line := range lines {
		t := bytes.TrimSpace(line)
		if bytes.HasPrefix(t, []byte("#")) ||
			bytes.HasPrefix(t, []byte("```")) ||
			bytes.HasPrefix(t, []byte("* ")) ||
			bytes.HasPrefix(t, []byte("- ")) ||
			bytes.HasPrefix(t, []byte("[")) && bytes.Contains(t, []byte("](")) {
			return true
		}
	}
	return false
}
