// Package httpclient builds the *http.Client shared by the collector and
// checking engine. Grounded on internal/httpclient/client.go's cookie-jar
// construction, generalized from Atlassian-session cookie seeding to a
// plain per-run cookie jar that accumulates whatever Set-Cookie headers a
// checked site sends back.
package httpclient

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"
)

// Options configures the shared client.
type Options struct {
	Timeout time.Duration
}

// New builds an *http.Client with a cookie jar so that a redirect chain or
// a later request to the same host carries session cookies the way a
// browser would, per spec §4.7/§9 ("Global state ... the cookie jar ... is
// explicit, owned by the engine"). Automatic redirect-following is
// disabled (grounded on TheSnook-polyester/crawler/crawler.go's
// noRedirects CheckRedirect) so that Fetch can walk the chain itself and
// observe its length and final URL.
func New(opts Options) (*http.Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &http.Client{
		Jar:     jar,
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}, nil
}
