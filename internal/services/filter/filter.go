// Package filter implements the include/exclude decision engine (C2):
// compiled regex sets, scheme permissions and private/loopback/link-local
// policy flags that decide whether a Uri is checkable or excluded.
//
// Grounded on internal/services/crawler/filters.go's LinkFilter, generalized
// from crawl-source link filtering to the full scheme/host policy surface
// of spec §4.2.
package filter

import (
	"regexp"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/linkcheck/internal/models"
)

// Decision is the outcome of filtering one Uri.
type Decision struct {
	Accepted bool
	Reason   string // populated when Accepted is false
}

// Config controls which parts of Filter.Check are enabled. Zero value is
// "exclude nothing, permit every scheme the caller passes in Schemes".
type Config struct {
	Include []string // regex source strings
	Exclude []string

	Schemes []string // permitted schemes, lower-case; empty = permit all

	ExcludePrivate   bool
	ExcludeLinkLocal bool
	ExcludeLoopback  bool
	ExcludeMail      bool
	ExcludeFile      bool
	ExcludePath      []string // regex source strings matched against URI path

	IncludeVerbatim bool
}

// Filter holds compiled include/exclude rules and policy flags.
type Filter struct {
	include     []*regexp.Regexp
	exclude     []*regexp.Regexp
	excludePath []*regexp.Regexp
	schemes     map[string]bool
	cfg         Config
	logger      arbor.ILogger
}

// New compiles cfg's regex sets. Patterns that fail to compile are logged
// and skipped — a single typo in a user-supplied pattern should not abort
// the whole run.
func New(cfg Config, logger arbor.ILogger) *Filter {
	f := &Filter{cfg: cfg, logger: logger}

	f.include = compileAll(cfg.Include, logger, "include")
	f.exclude = compileAll(cfg.Exclude, logger, "exclude")
	f.excludePath = compileAll(cfg.ExcludePath, logger, "exclude_path")

	if len(cfg.Schemes) > 0 {
		f.schemes = make(map[string]bool, len(cfg.Schemes))
		for _, s := range cfg.Schemes {
			f.schemes[strings.ToLower(s)] = true
		}
	}

	return f
}

func compileAll(patterns []string, logger arbor.ILogger, kind string) []*regexp.Regexp {
	var out []*regexp.Regexp
	for _, p := range patterns {
		if p == "" {
			continue
		}
		re, err := regexp.Compile(p)
		if err != nil {
			if logger != nil {
				logger.Warn().Err(err).Str("pattern", p).Str("kind", kind).Msg("Failed to compile filter pattern")
			}
			continue
		}
		out = append(out, re)
	}
	return out
}

// Check applies the decision order from spec §4.2, short-circuiting on
// the first matching rule. Ties favour exclusion.
func (f *Filter) Check(u models.Uri) Decision {
	// 1. Scheme not permitted.
	if f.schemes != nil && !f.schemes[u.Scheme()] {
		return Decision{Reason: "scheme not permitted: " + u.Scheme()}
	}

	// 2. exclude_path / exclude_file rules.
	if f.cfg.ExcludeFile && u.IsFile() {
		return Decision{Reason: "exclude_file"}
	}
	path := ""
	if su := u.URL(); su != nil {
		path = su.Path
	}
	for _, re := range f.excludePath {
		if re.MatchString(path) {
			return Decision{Reason: "matches exclude_path: " + re.String()}
		}
	}

	// 3. Private/loopback/link-local/mail host policy.
	if f.cfg.ExcludePrivate && u.IsPrivate() {
		return Decision{Reason: "private address"}
	}
	if f.cfg.ExcludeLoopback && u.IsLoopback() {
		return Decision{Reason: "loopback address"}
	}
	if f.cfg.ExcludeLinkLocal && u.IsLinkLocal() {
		return Decision{Reason: "link-local address"}
	}
	if f.cfg.ExcludeMail && u.IsMail() {
		return Decision{Reason: "mailto excluded"}
	}

	s := u.String()

	// 4. Include set, if non-empty, must have a match.
	if len(f.include) > 0 {
		matched := false
		for _, re := range f.include {
			if re.MatchString(s) {
				matched = true
				break
			}
		}
		if !matched {
			return Decision{Reason: "no include pattern matched"}
		}
	}

	// 5. Any exclude match rejects.
	for _, re := range f.exclude {
		if re.MatchString(s) {
			return Decision{Reason: "matches exclude pattern: " + re.String()}
		}
	}

	// 6. Otherwise accept.
	return Decision{Accepted: true}
}
