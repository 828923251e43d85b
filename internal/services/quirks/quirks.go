// Package quirks implements C6: a small per-host registry of pure,
// idempotent request rewrites applied immediately before dispatch — the
// same "keyed registry invoked just before doing the real work" shape as
// internal/services/crawler/filters.go's source-type switch, but keyed by
// hostname instead of crawl-source type.
package quirks

import (
	"net/http"
	"strings"

	"github.com/ternarybob/linkcheck/internal/models"
)

// Rule rewrites an outgoing request for one known host. It must not
// perform I/O and must be safe to apply more than once to the same
// request (idempotent), since retries re-apply the registry.
type Rule func(req *http.Request)

// Registry maps a lower-cased hostname to its Rule.
type Registry struct {
	rules map[string]Rule
}

// New builds an empty Registry; call Register to add host rules.
func New() *Registry {
	return &Registry{rules: make(map[string]Rule)}
}

// Register associates host (matched case-insensitively, without port)
// with rule.
func (r *Registry) Register(host string, rule Rule) {
	r.rules[strings.ToLower(host)] = rule
}

// Apply looks up u's host and, if a rule is registered, applies it to req.
// It is a no-op for unknown hosts.
func (r *Registry) Apply(u models.Uri, req *http.Request) {
	host := strings.ToLower(stripPort(u.Host()))
	if rule, ok := r.rules[host]; ok {
		rule(req)
	}
}

func stripPort(host string) string {
	if i := strings.LastIndex(host, ":"); i != -1 {
		return host[:i]
	}
	return host
}

// Default returns a Registry pre-populated with a handful of known-host
// rewrites that mirror the kind of source-specific accommodation
// internal/services/crawler/helpers.go made for Jira/Confluence: sites
// that return non-HTML or bot-hostile responses to a bare GET unless an
// Accept header nudges them toward a linkable representation.
func Default() *Registry {
	r := New()

	r.Register("crates.io", func(req *http.Request) {
		req.Header.Set("Accept", "text/html")
	})

	r.Register("stackoverflow.com", func(req *http.Request) {
		req.Header.Set("User-Agent", defaultBrowserUA)
	})

	r.Register("www.youtube.com", func(req *http.Request) {
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	})

	return r
}

const defaultBrowserUA = "Mozilla/5.0 (compatible; linkcheck/1.0)"
