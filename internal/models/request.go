package models

// Method is the HTTP method class used for a website Request.
type Method string

const (
	MethodGet          Method = "GET"
	MethodHead         Method = "HEAD"
	MethodHeadThenGet  Method = "HEAD_THEN_GET"
)

// Credentials carries optional per-request auth, redacted from any
// String()/log rendering via Secret.
type Credentials struct {
	BasicAuthUser   string
	BasicAuthSecret Secret
}

// Request pairs an absolute Uri with its provenance. Equality/fingerprint
// for caching purposes is Fingerprint(), which excludes the fragment —
// two requests differing only by fragment share one network verdict and
// are distinguished only by the fragment check (C11).
type Request struct {
	Uri       Uri
	Source    string
	Element   string
	Attribute string
	Credentials *Credentials
}

// Fingerprint is the cache key: scheme+host+port+path+query, with the
// fragment excluded, per spec §3/§4.9.
func (r Request) Fingerprint() string {
	u := r.Uri.WithoutFragment().URL()
	if u == nil {
		return ""
	}
	cp := *u
	cp.User = nil // credentials never participate in the fingerprint
	return cp.String()
}
