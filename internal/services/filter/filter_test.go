package filter

import (
	"testing"

	"github.com/ternarybob/linkcheck/internal/models"
)

func mustUri(t *testing.T, s string) models.Uri {
	t.Helper()
	u, err := models.NewUri(s)
	if err != nil {
		t.Fatalf("NewUri(%q): %v", s, err)
	}
	return u
}

func TestFilterSchemeRejection(t *testing.T) {
	f := New(Config{Schemes: []string{"https"}}, nil)

	d := f.Check(mustUri(t, "http://example.com/"))
	if d.Accepted {
		t.Error("expected http to be rejected when only https is permitted")
	}

	d = f.Check(mustUri(t, "https://example.com/"))
	if !d.Accepted {
		t.Errorf("expected https to be accepted, got reason %q", d.Reason)
	}
}

func TestFilterPrivateLoopbackLinkLocal(t *testing.T) {
	f := New(Config{
		ExcludePrivate:   true,
		ExcludeLoopback:  true,
		ExcludeLinkLocal: true,
	}, nil)

	for _, uri := range []string{
		"http://192.168.1.1/",
		"http://127.0.0.1/",
		"http://169.254.1.1/",
	} {
		if d := f.Check(mustUri(t, uri)); d.Accepted {
			t.Errorf("expected %s to be excluded, got accepted", uri)
		}
	}

	if d := f.Check(mustUri(t, "https://example.com/")); !d.Accepted {
		t.Errorf("expected public host accepted, got reason %q", d.Reason)
	}
}

func TestFilterExcludeMail(t *testing.T) {
	f := New(Config{ExcludeMail: true}, nil)
	if d := f.Check(mustUri(t, "mailto:foo@example.com")); d.Accepted {
		t.Error("expected mailto: excluded")
	}
}

func TestFilterIncludeExcludePatterns(t *testing.T) {
	f := New(Config{
		Include: []string{`^https://allowed\.example\.com/`},
		Exclude: []string{`/private/`},
	}, nil)

	if d := f.Check(mustUri(t, "https://other.example.com/")); d.Accepted {
		t.Error("expected non-matching include pattern to reject")
	}
	if d := f.Check(mustUri(t, "https://allowed.example.com/private/x")); d.Accepted {
		t.Error("expected exclude pattern to win even when included")
	}
	if d := f.Check(mustUri(t, "https://allowed.example.com/public")); !d.Accepted {
		t.Errorf("expected accepted, got reason %q", d.Reason)
	}
}

func TestFilterExcludePath(t *testing.T) {
	f := New(Config{ExcludePath: []string{`^/admin`}}, nil)
	if d := f.Check(mustUri(t, "https://example.com/admin/users")); d.Accepted {
		t.Error("expected /admin path to be excluded")
	}
	if d := f.Check(mustUri(t, "https://example.com/public")); !d.Accepted {
		t.Errorf("expected /public accepted, got reason %q", d.Reason)
	}
}

func TestFilterExcludeFile(t *testing.T) {
	f := New(Config{ExcludeFile: true}, nil)
	if d := f.Check(mustUri(t, "file:///tmp/foo.txt")); d.Accepted {
		t.Error("expected file: scheme excluded")
	}
}

func TestFilterInvalidPatternSkipped(t *testing.T) {
	// A malformed regex must not panic New or reject everything; it should
	// simply be dropped from the compiled set.
	f := New(Config{Exclude: []string{"(unclosed"}}, nil)
	if d := f.Check(mustUri(t, "https://example.com/")); !d.Accepted {
		t.Errorf("expected accepted despite bad exclude pattern, got reason %q", d.Reason)
	}
}
