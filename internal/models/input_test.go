package models

import "testing"

func TestInputLabel(t *testing.T) {
	tests := []struct {
		name  string
		input Input
		want  string
	}{
		{"explicit source wins", Input{Kind: InputKindFsPath, Path: "a.html", Source: "custom"}, "custom"},
		{"remote url", Input{Kind: InputKindRemoteURL, RemoteURL: "https://example.com"}, "https://example.com"},
		{"fs path", Input{Kind: InputKindFsPath, Path: "docs/readme.md"}, "docs/readme.md"},
		{"fs glob", Input{Kind: InputKindFsGlob, GlobPattern: "docs/**/*.md"}, "docs/**/*.md"},
		{"stdin", Input{Kind: InputKindStdin}, "<stdin>"},
		{"string", Input{Kind: InputKindString}, "<string>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.input.Label(); got != tt.want {
				t.Errorf("Label() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInputContentText(t *testing.T) {
	c := InputContent{Content: []byte("hello world")}
	if c.Text() != "hello world" {
		t.Errorf("Text() = %q, want %q", c.Text(), "hello world")
	}
}
