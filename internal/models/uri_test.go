package models

import "testing"

func TestNewUriRejectsRelative(t *testing.T) {
	if _, err := NewUri("/just/a/path"); err == nil {
		t.Error("expected error for relative reference, got nil")
	}
}

func TestNewUriAccepts(t *testing.T) {
	u, err := NewUri("https://example.com/foo?q=1#frag")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Scheme() != "https" {
		t.Errorf("Scheme() = %q, want https", u.Scheme())
	}
	if u.Host() != "example.com" {
		t.Errorf("Host() = %q, want example.com", u.Host())
	}
	frag, ok := u.Fragment()
	if !ok || frag != "frag" {
		t.Errorf("Fragment() = (%q, %v), want (frag, true)", frag, ok)
	}
}

func TestUriWithoutFragment(t *testing.T) {
	u, _ := NewUri("https://example.com/foo#frag")
	stripped := u.WithoutFragment()
	if _, ok := stripped.Fragment(); ok {
		t.Error("WithoutFragment() left a fragment behind")
	}
	if stripped.String() != "https://example.com/foo" {
		t.Errorf("String() = %q, want https://example.com/foo", stripped.String())
	}
}

func TestUriIsPrivateLoopbackLinkLocal(t *testing.T) {
	tests := []struct {
		uri          string
		wantPrivate  bool
		wantLoopback bool
		wantLinkLoc  bool
	}{
		{"http://192.168.1.1/", true, false, false},
		{"http://10.0.0.5/", true, false, false},
		{"http://127.0.0.1/", false, true, false},
		{"http://localhost/", false, true, false},
		{"http://169.254.1.1/", false, false, true},
		{"https://example.com/", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			u, err := NewUri(tt.uri)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := u.IsPrivate(); got != tt.wantPrivate {
				t.Errorf("IsPrivate() = %v, want %v", got, tt.wantPrivate)
			}
			if got := u.IsLoopback(); got != tt.wantLoopback {
				t.Errorf("IsLoopback() = %v, want %v", got, tt.wantLoopback)
			}
			if got := u.IsLinkLocal(); got != tt.wantLinkLoc {
				t.Errorf("IsLinkLocal() = %v, want %v", got, tt.wantLinkLoc)
			}
		})
	}
}

func TestUriIsExampleDomain(t *testing.T) {
	u, _ := NewUri("https://sub.example.com/path")
	if !u.IsExampleDomain() {
		t.Error("expected sub.example.com to be an example domain")
	}
	u2, _ := NewUri("https://real-domain.dev/path")
	if u2.IsExampleDomain() {
		t.Error("expected real-domain.dev to not be an example domain")
	}
}

func TestUriMailTelFile(t *testing.T) {
	mail, _ := NewUri("mailto:foo@example.com")
	if !mail.IsMail() {
		t.Error("expected mailto: uri to report IsMail()")
	}
	tel, _ := NewUri("tel:+1234567890")
	if !tel.IsTel() {
		t.Error("expected tel: uri to report IsTel()")
	}
	file, _ := NewUri("file:///tmp/foo.txt")
	if !file.IsFile() {
		t.Error("expected file: uri to report IsFile()")
	}
}
