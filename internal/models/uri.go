package models

import (
	"net"
	"net/url"
	"strings"
)

// exampleDomains are the RFC 2606 reserved domains treated as "example"
// hosts by is_example_domain.
var exampleDomains = map[string]bool{
	"example.com": true,
	"example.net": true,
	"example.org": true,
	"example":     true,
}

// Uri wraps an absolute net/url.URL and exposes the structural predicates
// the Filter (C2) and checking engine (C7) dispatch on. Constructing a Uri
// from a relative string is a programmer error: relative references must
// first pass through the base resolver (internal/services/baseresolver).
type Uri struct {
	raw *url.URL
}

// NewUri parses s as an absolute URI. A relative or unparsable string
// returns an error; callers holding a possibly-relative reference should
// resolve it first (see internal/services/baseresolver).
func NewUri(s string) (Uri, error) {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return Uri{}, err
	}
	if !u.IsAbs() {
		return Uri{}, &url.Error{Op: "parse", URL: s, Err: errNotAbsolute}
	}
	return Uri{raw: u}, nil
}

// MustWrap wraps an already-absolute *url.URL without re-parsing. Used by
// the base resolver once it has produced an absolute URL.
func MustWrap(u *url.URL) Uri {
	return Uri{raw: u}
}

// URL returns the underlying *url.URL. Callers must not mutate it.
func (u Uri) URL() *url.URL { return u.raw }

// String renders the absolute URI.
func (u Uri) String() string {
	if u.raw == nil {
		return ""
	}
	return u.raw.String()
}

// Scheme returns the lower-cased URI scheme.
func (u Uri) Scheme() string {
	if u.raw == nil {
		return ""
	}
	return strings.ToLower(u.raw.Scheme)
}

// Host returns the hostname without port.
func (u Uri) Host() string {
	if u.raw == nil {
		return ""
	}
	return u.raw.Hostname()
}

// Fragment returns the URI fragment without the leading '#', and whether
// a non-empty one was present. net/url keeps no trace of an empty
// fragment, so a bare trailing "#" reports the same as no fragment.
func (u Uri) Fragment() (string, bool) {
	if u.raw == nil || u.raw.RawFragment == "" && u.raw.Fragment == "" {
		return "", false
	}
	return u.raw.Fragment, true
}

// WithoutFragment returns a copy of the URI with any fragment stripped —
// used to build the cache Fingerprint.
func (u Uri) WithoutFragment() Uri {
	if u.raw == nil {
		return u
	}
	cp := *u.raw
	cp.Fragment = ""
	cp.RawFragment = ""
	return Uri{raw: &cp}
}

// IsMail reports whether the scheme is mailto.
func (u Uri) IsMail() bool { return u.Scheme() == "mailto" }

// IsTel reports whether the scheme is tel.
func (u Uri) IsTel() bool { return u.Scheme() == "tel" }

// IsFile reports whether the scheme is file.
func (u Uri) IsFile() bool { return u.Scheme() == "file" }

// hostIP parses Host() as an IP literal, returning nil for hostnames.
func (u Uri) hostIP() net.IP {
	return net.ParseIP(u.Host())
}

// HostIP returns the IP literal of the host, or nil if the host is a DNS
// name rather than a literal address.
func (u Uri) HostIP() net.IP { return u.hostIP() }

// IsLoopback reports whether the host is a loopback address (127.0.0.0/8,
// ::1) or the literal hostname "localhost".
func (u Uri) IsLoopback() bool {
	if strings.EqualFold(u.Host(), "localhost") {
		return true
	}
	if ip := u.hostIP(); ip != nil {
		return ip.IsLoopback()
	}
	return false
}

// IsPrivate reports whether the host is an RFC 1918 / RFC 4193 private
// address. Non-IP hosts are never private.
func (u Uri) IsPrivate() bool {
	if ip := u.hostIP(); ip != nil {
		return ip.IsPrivate()
	}
	return false
}

// IsLinkLocal reports whether the host is a link-local unicast address
// (169.254.0.0/16, fe80::/10) or a link-local multicast address
// (224.0.0.0/24, ff02::/16).
func (u Uri) IsLinkLocal() bool {
	if ip := u.hostIP(); ip != nil {
		return ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast()
	}
	return false
}

// IsExampleDomain reports whether the host is one of the RFC 2606 reserved
// documentation domains, or a subdomain of one.
func (u Uri) IsExampleDomain() bool {
	host := strings.ToLower(u.Host())
	if exampleDomains[host] {
		return true
	}
	for domain := range exampleDomains {
		if strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

type uriError string

func (e uriError) Error() string { return string(e) }

const errNotAbsolute = uriError("uri: reference is not absolute")
