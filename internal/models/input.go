// Package models defines the core data types that flow through the link
// checker pipeline: Input, InputContent, RawUri, Uri, Request, Status,
// Response and Stats.
package models

// FileType classifies the content of an InputContent so the correct
// extractor (internal/services/extract) is dispatched.
type FileType string

const (
	FileTypeHTML      FileType = "html"
	FileTypeMarkdown  FileType = "markdown"
	FileTypePlaintext FileType = "plaintext"
	FileTypeEmail     FileType = "email"
	FileTypeUnknown   FileType = "unknown"
)

// InputKind is the tag of an Input sum value.
type InputKind string

const (
	InputKindRemoteURL InputKind = "remote_url"
	InputKindFsPath     InputKind = "fs_path"
	InputKindFsGlob     InputKind = "fs_glob"
	InputKindStdin      InputKind = "stdin"
	InputKindString     InputKind = "string"
)

// Input is a tagged value describing one source the Collector (C5) expands
// into InputContent. Exactly one of the kind-specific fields is meaningful,
// selected by Kind.
type Input struct {
	Kind InputKind

	// RemoteURL is set when Kind == InputKindRemoteURL.
	RemoteURL string
	// Path is set when Kind == InputKindFsPath.
	Path string
	// GlobPattern and GlobIgnoreCase are set when Kind == InputKindFsGlob.
	GlobPattern    string
	GlobIgnoreCase bool
	// Text is set when Kind == InputKindString.
	Text string

	// FileTypeHint overrides content-type sniffing when non-empty.
	FileTypeHint FileType
	// Source is an explicit provenance label; defaults to a rendering of
	// the kind-specific field when empty.
	Source string
}

// Label returns the input's provenance label for use on Request.Source.
func (i Input) Label() string {
	if i.Source != "" {
		return i.Source
	}
	switch i.Kind {
	case InputKindRemoteURL:
		return i.RemoteURL
	case InputKindFsPath:
		return i.Path
	case InputKindFsGlob:
		return i.GlobPattern
	case InputKindStdin:
		return "<stdin>"
	case InputKindString:
		return "<string>"
	default:
		return "<unknown input>"
	}
}

// InputContent is the short-lived materialization of an Input: its raw
// bytes/text plus the file type used to select an extractor.
type InputContent struct {
	Source   string
	FileType FileType
	Content  []byte
}

// Text returns Content decoded as UTF-8 text.
func (c InputContent) Text() string {
	return string(c.Content)
}

// RawUri is a candidate link string discovered by an extractor, tagged
// with the element/attribute it was found in so the Filter can suppress
// known-noisy locations (e.g. script/src).
type RawUri struct {
	Text      string
	Element   string
	Attribute string
}
