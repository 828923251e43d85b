// Package extract implements C4: turning InputContent into a stream of
// RawUri values, dispatched by file type. HTML uses a streaming tokenizer,
// Markdown an AST walk that recurses into embedded HTML, and Plaintext a
// linkify pass — mirroring how the example corpus picks a dedicated
// library per format rather than one generic parser for all three.
package extract

import "github.com/ternarybob/linkcheck/internal/models"

// FromContent dispatches ic to the extractor matching its FileType and
// yields every RawUri found. FileTypeUnknown falls back to Plaintext
// unless verbatim is false, in which case nothing is extracted — per spec
// §4.4, an unrecognised file is only scanned for links when the caller
// opted into verbatim scanning.
func FromContent(ic models.InputContent, includeVerbatim bool, yield func(models.RawUri)) error {
	switch ic.FileType {
	case models.FileTypeHTML:
		return HTML(ic.Content, yield)
	case models.FileTypeMarkdown:
		return Markdown(ic.Content, yield)
	case models.FileTypePlaintext, models.FileTypeEmail:
		return Plaintext(ic.Content, yield)
	case models.FileTypeUnknown:
		if includeVerbatim {
			return Plaintext(ic.Content, yield)
		}
		return nil
	default:
		return nil
	}
}
