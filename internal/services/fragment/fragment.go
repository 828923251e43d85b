// Package fragment implements C11: extracting the set of anchor targets a
// fetched document exposes, so the checking engine can verify a URI's
// fragment actually resolves to something on the page.
//
// HTML ids are collected with goquery — the same library
// internal/services/crawler/link_extractor.go uses for DOM querying,
// generalized here from link extraction to id/name collection. Markdown
// heading ids are read back off goldmark's own WithAutoHeadingID parser
// extension via an ast.KindHeading walk, so the index matches whatever id
// a renderer using the same parser would produce.
package fragment

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/ternarybob/linkcheck/internal/models"
)

// Index is the set of anchor ids a document exposes.
type Index struct {
	ids map[string]struct{}

	// caseInsensitive marks an index built from Markdown, where ids are
	// goldmark's auto-generated heading slugs: folded to lower case here
	// and in Has, so "#MyHeading" resolves against a "myheading" slug.
	// HTML indexes leave this false, since id/name attributes are
	// case-sensitive per the HTML spec.
	caseInsensitive bool
}

// Has reports whether id is present in the index.
func (idx Index) Has(id string) bool {
	if idx.ids == nil {
		return false
	}
	if idx.caseInsensitive {
		id = strings.ToLower(id)
	}
	_, ok := idx.ids[id]
	return ok
}

// FromHTML collects every element id and a[name] target in content.
func FromHTML(content []byte) (Index, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return Index{}, models.Io(err)
	}

	ids := map[string]struct{}{}
	doc.Find("[id]").Each(func(_ int, s *goquery.Selection) {
		if v, ok := s.Attr("id"); ok && v != "" {
			ids[v] = struct{}{}
		}
	})
	doc.Find("a[name]").Each(func(_ int, s *goquery.Selection) {
		if v, ok := s.Attr("name"); ok && v != "" {
			ids[v] = struct{}{}
		}
	})

	return Index{ids: ids}, nil
}

var markdownParser = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID(), parser.WithAttribute()),
).Parser()

// FromMarkdown collects the slug id of every heading, plus any explicit
// {#id} attribute heading ids. The parser's own WithAutoHeadingID option
// assigns these, so reading them back here guarantees the index matches
// whatever id a renderer using the same parser would produce. Ids are
// folded to lower case: goldmark slugs are conventionally lower case, and
// spec §4.11/§C11 treats markdown anchor matching as case-insensitive
// (unlike HTML id/name attributes, which are case-sensitive).
func FromMarkdown(content []byte) (Index, error) {
	reader := text.NewReader(content)
	doc := markdownParser.Parse(reader)

	ids := map[string]struct{}{}

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok {
			if id, ok := h.AttributeString("id"); ok {
				ids[strings.ToLower(toString(id))] = struct{}{}
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return Index{}, err
	}

	return Index{ids: ids, caseInsensitive: true}, nil
}

func toString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return ""
	}
}
