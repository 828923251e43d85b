// Package collector implements C5: expanding Input values (remote URLs,
// filesystem paths and globs, stdin, inline strings) into InputContent,
// running them through the extract package, resolving each RawUri against
// the input's base, and yielding Request values with provenance attached.
//
// Grounded on internal/services/crawler's fetch/read shape, generalized
// from a web-crawl fetch loop to a heterogeneous multi-source collector.
package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/linkcheck/internal/httpclient"
	"github.com/ternarybob/linkcheck/internal/models"
	"github.com/ternarybob/linkcheck/internal/services/baseresolver"
	"github.com/ternarybob/linkcheck/internal/services/extract"
)

// Collector turns Input values into Request values.
type Collector struct {
	httpClient      *http.Client
	logger          arbor.ILogger
	includeVerbatim bool
}

// New builds a Collector. client is the same HTTP client the checking
// engine uses, per spec §4.5 ("remote URL inputs are fetched once with the
// same checking client to obtain their body").
func New(client *http.Client, includeVerbatim bool, logger arbor.ILogger) *Collector {
	return &Collector{httpClient: client, includeVerbatim: includeVerbatim, logger: logger}
}

// Collect expands in and yields one Request per surviving RawUri. It
// returns a non-nil error only for failures that prevent reading the input
// at all (network error fetching a remote URL, unreadable file); per-link
// resolution failures are logged and skipped rather than aborting the
// whole input.
func (c *Collector) Collect(ctx context.Context, in models.Input, yield func(models.Request)) error {
	switch in.Kind {
	case models.InputKindFsGlob:
		return c.collectGlob(ctx, in, yield)
	default:
		content, base, err := c.materialize(ctx, in)
		if err != nil {
			return err
		}
		return c.emit(content, base, in.Label(), yield)
	}
}

func (c *Collector) materialize(ctx context.Context, in models.Input) (models.InputContent, baseresolver.Base, error) {
	switch in.Kind {
	case models.InputKindRemoteURL:
		return c.fetchRemote(ctx, in)

	case models.InputKindFsPath:
		return c.readFile(in.Path, in.FileTypeHint)

	case models.InputKindStdin:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return models.InputContent{}, baseresolver.Base{}, models.Io(err)
		}
		wd, _ := os.Getwd()
		base, _ := baseresolver.NewFsDirBase(wd)
		ft := detectFileType(in.FileTypeHint, "", "", data)
		return models.InputContent{Source: in.Label(), FileType: ft, Content: data}, base, nil

	case models.InputKindString:
		wd, _ := os.Getwd()
		base, _ := baseresolver.NewFsDirBase(wd)
		data := []byte(in.Text)
		ft := detectFileType(in.FileTypeHint, "", "", data)
		return models.InputContent{Source: in.Label(), FileType: ft, Content: data}, base, nil

	default:
		return models.InputContent{}, baseresolver.Base{}, models.InvalidUrl(fmt.Sprintf("unsupported input kind %q", in.Kind))
	}
}

func (c *Collector) fetchRemote(ctx context.Context, in models.Input) (models.InputContent, baseresolver.Base, error) {
	u, err := url.Parse(in.RemoteURL)
	if err != nil {
		return models.InputContent{}, baseresolver.Base{}, models.InvalidUrl(err.Error())
	}

	result, err := httpclient.Fetch(ctx, c.httpClient, http.MethodGet, u.String(), nil, defaultMaxRedirects, nil)
	if err != nil {
		return models.InputContent{}, baseresolver.Base{}, models.Network(err)
	}
	defer result.Response.Body.Close()

	data, err := io.ReadAll(result.Response.Body)
	if err != nil {
		return models.InputContent{}, baseresolver.Base{}, models.Io(err)
	}

	ft := detectFileType(in.FileTypeHint, u.Path, result.Response.Header.Get("Content-Type"), data)
	base := baseresolver.NewURLBase(result.FinalURL)
	return models.InputContent{Source: in.Label(), FileType: ft, Content: data}, base, nil
}

// defaultMaxRedirects bounds the redirect chain the collector will follow
// when materializing a remote-URL input's body; the checker applies its
// own configured max_redirects when later verifying that same URL.
const defaultMaxRedirects = 10

func (c *Collector) readFile(path string, hint models.FileType) (models.InputContent, baseresolver.Base, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.InputContent{}, baseresolver.Base{}, models.Io(err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return models.InputContent{}, baseresolver.Base{}, models.Io(err)
	}
	ft := detectFileType(hint, path, "", data)
	base, err := baseresolver.NewFsDirBase(filepath.Dir(abs))
	if err != nil {
		return models.InputContent{}, baseresolver.Base{}, err
	}
	return models.InputContent{Source: path, FileType: ft, Content: data}, base, nil
}

func (c *Collector) collectGlob(ctx context.Context, in models.Input, yield func(models.Request)) error {
	root, err := os.Getwd()
	if err != nil {
		return models.Io(err)
	}

	pattern := in.GlobPattern
	if in.GlobIgnoreCase {
		pattern, err = caseInsensitivePattern(pattern)
		if err != nil {
			return models.InvalidUrl(err.Error())
		}
	}
	if err := doublestar.ValidatePattern(pattern); err != nil {
		return models.InvalidUrl(err.Error())
	}

	ignore := loadIgnore(root)

	matches, err := doublestar.Glob(os.DirFS(root), pattern)
	if err != nil {
		return models.Io(err)
	}

	for _, rel := range matches {
		if ignore.Matches(rel) {
			if c.logger != nil {
				c.logger.Debug().Str("path", rel).Msg("Skipping glob match excluded by ignore file")
			}
			continue
		}
		select {
		case <-ctx.Done():
			return models.Cancelled()
		default:
		}

		full := filepath.Join(root, rel)
		content, base, err := c.readFile(full, in.FileTypeHint)
		if err != nil {
			if c.logger != nil {
				c.logger.Warn().Err(err).Str("path", full).Msg("Skipping unreadable glob match")
			}
			continue
		}
		if err := c.emit(content, base, full, yield); err != nil && c.logger != nil {
			c.logger.Warn().Err(err).Str("path", full).Msg("Extraction failed for glob match")
		}
	}
	return nil
}

// caseInsensitivePattern rewrites each ASCII letter in pattern into a
// doublestar character class, e.g. "A" -> "[Aa]", giving glob-style
// case-insensitive matching without a library flag for it.
func caseInsensitivePattern(pattern string) (string, error) {
	var b strings.Builder
	for _, r := range pattern {
		lower := strings.ToLower(string(r))
		upper := strings.ToUpper(string(r))
		if lower != upper && len(lower) == 1 && len(upper) == 1 {
			b.WriteString("[" + upper + lower + "]")
		} else {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

func (c *Collector) emit(content models.InputContent, base baseresolver.Base, source string, yield func(models.Request)) error {
	return extract.FromContent(content, c.includeVerbatim, func(raw models.RawUri) {
		u, err := baseresolver.Resolve(base, raw.Text)
		if err != nil {
			if c.logger != nil {
				c.logger.Debug().Err(err).Str("text", raw.Text).Str("source", source).Msg("Dropping unresolvable link")
			}
			return
		}
		yield(models.Request{
			Uri:       u,
			Source:    source,
			Element:   raw.Element,
			Attribute: raw.Attribute,
		})
	})
}
