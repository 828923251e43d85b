package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/url"
)

// ErrTooManyRedirects is returned by Fetch when a chain exceeds maxRedirects
// or cycles back to an already-visited URL.
var ErrTooManyRedirects = errors.New("too many redirects")

// Result is the outcome of following a (possibly empty) redirect chain.
type Result struct {
	Response     *http.Response // caller must close Body
	FinalURL     *url.URL
	RedirectHops int
}

// Fetch issues method against rawURL on client and manually follows any
// 3xx response up to maxRedirects hops, the way
// TheSnook-polyester/crawler/crawler.go's followRedirects does — the
// client itself must have redirect-following disabled (see New) so this
// loop observes every hop instead of http.Client silently collapsing the
// chain.
func Fetch(ctx context.Context, client *http.Client, method, rawURL string, headers map[string]string, maxRedirects int, rewrite func(*http.Request)) (Result, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Result{}, err
	}

	visited := map[string]bool{}
	hops := 0

	for {
		if visited[u.String()] {
			return Result{RedirectHops: hops}, ErrTooManyRedirects
		}
		visited[u.String()] = true

		req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
		if err != nil {
			return Result{RedirectHops: hops}, err
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		if rewrite != nil {
			rewrite(req)
		}

		resp, err := client.Do(req)
		if err != nil {
			return Result{RedirectHops: hops}, err
		}

		if !isRedirect(resp.StatusCode) {
			return Result{Response: resp, FinalURL: u, RedirectHops: hops}, nil
		}

		loc := resp.Header.Get("Location")
		resp.Body.Close()
		if loc == "" {
			return Result{RedirectHops: hops}, errors.New("redirect response missing Location header")
		}
		if hops >= maxRedirects {
			return Result{RedirectHops: hops}, ErrTooManyRedirects
		}

		next, err := u.Parse(loc)
		if err != nil {
			return Result{RedirectHops: hops}, err
		}

		hops++
		u = next
	}
}

func isRedirect(code int) bool {
	switch code {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	default:
		return false
	}
}
