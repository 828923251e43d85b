package checker

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/ternarybob/linkcheck/internal/models"
	"github.com/ternarybob/linkcheck/internal/services/fragment"
)

// checkFile implements spec §4.7 step 5: check existence and readability
// of the URI's path as given (it is not canonicalised), fall back to
// index.html for a directory target, and optionally fragment-check the
// result.
func (c *Client) checkFile(_ context.Context, req models.Request) models.Status {
	u := req.Uri.URL()
	if u == nil {
		return models.ErrorStatus(models.InvalidUrl("file uri has no path"))
	}

	path := u.Path
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.ErrorStatus(models.Io(err))
		}
		return models.ErrorStatus(models.Io(err))
	}

	if info.IsDir() {
		indexPath := filepath.Join(path, "index.html")
		indexInfo, err := os.Stat(indexPath)
		if err != nil || indexInfo.IsDir() {
			return models.ErrorStatus(models.Io(os.ErrNotExist))
		}
		path = indexPath
	}

	f, err := os.Open(path)
	if err != nil {
		return models.ErrorStatus(models.Io(err))
	}
	defer f.Close()

	if !c.cfg.IncludeFragments {
		return models.Ok(0)
	}

	anchor, ok := req.Uri.Fragment()
	if !ok || anchor == "" {
		return models.Ok(0)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return models.ErrorStatus(models.Io(err))
	}

	idx, err := indexFor(path, data)
	if err != nil {
		return models.Ok(0)
	}
	if !idx.Has(anchor) {
		return models.ErrorStatus(models.FragmentMissing(anchor))
	}
	return models.Ok(0)
}

func indexFor(path string, data []byte) (fragment.Index, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".mdown":
		return fragment.FromMarkdown(data)
	default:
		return fragment.FromHTML(data)
	}
}
