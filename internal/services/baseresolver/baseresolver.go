// Package baseresolver implements C3: resolving a possibly-relative
// reference against an input's base — either a URL or a filesystem
// directory — into an absolute Uri.
//
// Grounded on internal/services/crawler/link_extractor.go's resolveURL,
// extended to accept a filesystem directory base in addition to a URL
// base, and to pass mailto:/tel: references through untouched.
package baseresolver

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/ternarybob/linkcheck/internal/models"
)

// Kind distinguishes a URL base from a filesystem directory base.
type Kind int

const (
	KindURL Kind = iota
	KindFsDir
)

// Base is the reference point relative references are resolved against.
type Base struct {
	Kind   Kind
	URL    *url.URL // set when Kind == KindURL
	FsDir  string   // set when Kind == KindFsDir; absolute directory path
}

// NewURLBase builds a Base from an already-parsed absolute URL.
func NewURLBase(u *url.URL) Base { return Base{Kind: KindURL, URL: u} }

// NewFsDirBase builds a Base from a filesystem directory, resolved to an
// absolute path.
func NewFsDirBase(dir string) (Base, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Base{}, models.InvalidBase(err.Error())
	}
	return Base{Kind: KindFsDir, FsDir: abs}, nil
}

// Resolve turns ref into an absolute models.Uri given base. ref may
// already be absolute (any scheme), scheme-relative ("//host/path"),
// path-relative, or a mailto:/tel: reference (passed through untouched
// once it parses).
func Resolve(base Base, ref string) (models.Uri, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Uri{}, models.InvalidUrl("empty reference")
	}

	// mailto:/tel: are never relative references; parse and pass through.
	if looksLikeScheme(ref, "mailto") || looksLikeScheme(ref, "tel") {
		u, err := url.Parse(ref)
		if err != nil {
			return models.Uri{}, models.InvalidUrl(err.Error())
		}
		return models.MustWrap(u), nil
	}

	parsedRef, err := url.Parse(ref)
	if err != nil {
		return models.Uri{}, models.InvalidUrl(err.Error())
	}

	if parsedRef.IsAbs() {
		return models.MustWrap(parsedRef), nil
	}

	switch base.Kind {
	case KindURL:
		if base.URL == nil {
			return models.Uri{}, models.InvalidBase("nil URL base for relative reference")
		}
		resolved := base.URL.ResolveReference(parsedRef)
		return models.MustWrap(resolved), nil

	case KindFsDir:
		return resolveAgainstFsDir(base.FsDir, parsedRef)

	default:
		return models.Uri{}, models.InvalidBase("unknown base kind")
	}
}

// resolveAgainstFsDir turns a filesystem-relative reference into a
// file:// Uri rooted at dir. Fragment and query are preserved.
func resolveAgainstFsDir(dir string, ref *url.URL) (models.Uri, error) {
	// Protocol-relative ("//host/path") references have no meaning against
	// a filesystem base.
	if ref.Host != "" {
		return models.Uri{}, models.InvalidBase("protocol-relative reference against filesystem base")
	}

	joined := ref.Path
	if joined == "" {
		joined = dir
	} else if !filepath.IsAbs(joined) {
		joined = filepath.Join(dir, joined)
	}

	fileURL := &url.URL{
		Scheme:   "file",
		Path:     filepath.ToSlash(joined),
		RawQuery: ref.RawQuery,
		Fragment: ref.Fragment,
	}
	return models.MustWrap(fileURL), nil
}

func looksLikeScheme(ref, scheme string) bool {
	return strings.HasPrefix(strings.ToLower(ref), scheme+":")
}
