package extract

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/ternarybob/linkcheck/internal/models"
)

var markdownParser = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
).Parser()

// Markdown walks a goldmark AST and yields RawUri for links, images,
// autolinks, and raw inline/block HTML (the latter re-fed through HTML so
// that embedded <a>/<img> tags inside a Markdown document are still
// caught). Grounded on the library choice used by the teacher's document
// pipeline for Markdown rendering, generalized here from rendering to a
// link-collecting AST walk.
func Markdown(content []byte, yield func(models.RawUri)) error {
	reader := text.NewReader(content)
	doc := markdownParser.Parse(reader)

	var walkErr error
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Link:
			yield(models.RawUri{Text: string(node.Destination), Element: "md:link", Attribute: "destination"})

		case *ast.Image:
			yield(models.RawUri{Text: string(node.Destination), Element: "md:image", Attribute: "destination"})

		case *ast.AutoLink:
			yield(models.RawUri{Text: string(node.URL(content)), Element: "md:autolink", Attribute: "url"})

		case *ast.RawHTML:
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				if e := HTML(seg.Value(content), yield); e != nil {
					walkErr = e
				}
			}

		case *ast.HTMLBlock:
			var buf bytes.Buffer
			for i := 0; i < node.Lines().Len(); i++ {
				seg := node.Lines().At(i)
				buf.Write(seg.Value(content))
			}
			if node.HasClosure() {
				closure := node.ClosureLine
				buf.Write(closure.Value(content))
			}
			if buf.Len() > 0 {
				if e := HTML(buf.Bytes(), yield); e != nil {
					walkErr = e
				}
			}
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return err
	}
	return walkErr
}
