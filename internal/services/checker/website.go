package checker

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ternarybob/linkcheck/internal/httpclient"
	"github.com/ternarybob/linkcheck/internal/models"
	"github.com/ternarybob/linkcheck/internal/services/fragment"
)

// checkWebsite implements spec §4.7 step 4: acquire a governor permit,
// issue the configured method (with HEAD->GET upgrade), follow redirects
// up to max_redirects, map the final status, retry transient failures, and
// optionally verify the URI's fragment against the fetched body.
func (c *Client) checkWebsite(ctx context.Context, req models.Request) models.Status {
	host := req.Uri.Host()

	release, err := c.governor.Acquire(ctx, host)
	if err != nil {
		return models.ErrorStatus(models.Cancelled())
	}
	defer release()

	var body []byte
	var contentType string

	onWait := func(wait time.Duration) {
		if c.stats != nil {
			c.stats.RecordRetry(int64(wait))
		}
	}

	result := c.retry.executeWithRetry(ctx, c.logger, onWait, func() attemptResult {
		code, b, ct, header, hops, attemptErr := c.attempt(ctx, req)
		body, contentType = b, ct
		return attemptResult{statusCode: code, header: header, err: attemptErr, redirected: hops > 0}
	})

	status := c.statusFromAttempt(result)
	if !status.IsSuccess() || !c.cfg.IncludeFragments {
		return status
	}

	if anchor, ok := req.Uri.Fragment(); ok && anchor != "" {
		if downgraded, ok := c.checkFragment(anchor, contentType, body); ok {
			return downgraded
		}
	}

	return status
}

// attempt issues a single HTTP request (HEAD-then-GET upgrade applied) and
// returns the resulting status code, body, content type, response headers
// (for Retry-After), and any transport-level error.
func (c *Client) attempt(ctx context.Context, req models.Request) (code int, body []byte, contentType string, header http.Header, hops int, err error) {
	method := http.MethodGet
	if c.cfg.Method == models.MethodHead || c.cfg.Method == models.MethodHeadThenGet {
		method = http.MethodHead
	}

	headers := c.buildHeaders(req)
	rewrite := c.quirkRewrite(req)

	result, err := httpclient.Fetch(ctx, c.http, method, req.Uri.String(), headers, c.maxRedirects(), rewrite)
	if err != nil {
		return 0, nil, "", nil, 0, err
	}
	defer result.Response.Body.Close()

	if method == http.MethodHead && c.cfg.Method == models.MethodHeadThenGet && shouldUpgradeToGet(result.Response.StatusCode) {
		getResult, err := httpclient.Fetch(ctx, c.http, http.MethodGet, req.Uri.String(), headers, c.maxRedirects(), rewrite)
		if err != nil {
			return 0, nil, "", nil, 0, err
		}
		defer getResult.Response.Body.Close()
		b, _ := io.ReadAll(getResult.Response.Body)
		return getResult.Response.StatusCode, b, getResult.Response.Header.Get("Content-Type"), getResult.Response.Header, getResult.RedirectHops, nil
	}

	b, _ := io.ReadAll(result.Response.Body)
	return result.Response.StatusCode, b, result.Response.Header.Get("Content-Type"), result.Response.Header, result.RedirectHops, nil
}

func shouldUpgradeToGet(code int) bool {
	switch code {
	case http.StatusMethodNotAllowed, http.StatusForbidden, http.StatusNotFound:
		return true
	default:
		return false
	}
}

func (c *Client) buildHeaders(req models.Request) map[string]string {
	headers := map[string]string{}
	for k, v := range c.cfg.Headers {
		headers[k] = v
	}
	if c.cfg.UserAgent != "" {
		headers["User-Agent"] = c.cfg.UserAgent
	}
	if c.cfg.GithubToken.IsSet() && req.Uri.Host() == "api.github.com" {
		headers["Authorization"] = "token " + c.cfg.GithubToken.Value()
	}
	if req.Credentials != nil && req.Credentials.BasicAuthUser != "" {
		headers["Authorization"] = basicAuthHeader(req.Credentials.BasicAuthUser, req.Credentials.BasicAuthSecret.Value())
	} else if c.cfg.BasicAuth != nil {
		headers["Authorization"] = basicAuthHeader(c.cfg.BasicAuth.BasicAuthUser, c.cfg.BasicAuth.BasicAuthSecret.Value())
	}
	return headers
}

// quirkRewrite returns the per-host rewrite rule from the quirks registry
// bound to req's uri, applied immediately before dispatch per spec §4.6;
// nil if no quirks registry is configured.
func (c *Client) quirkRewrite(req models.Request) func(r *http.Request) {
	if c.quirks == nil {
		return nil
	}
	return func(r *http.Request) {
		c.quirks.Apply(req.Uri, r)
	}
}

func basicAuthHeader(user, secret string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+secret))
}

func (c *Client) maxRedirects() int {
	if c.cfg.MaxRedirects <= 0 {
		return 10
	}
	return c.cfg.MaxRedirects
}

func (c *Client) statusFromAttempt(r attemptResult) models.Status {
	if r.err != nil {
		if errors.Is(r.err, context.DeadlineExceeded) {
			return models.TimeoutStatus()
		}
		if errors.Is(r.err, context.Canceled) {
			return models.ErrorStatus(models.Cancelled())
		}
		if errors.Is(r.err, httpclient.ErrTooManyRedirects) {
			return models.ErrorStatus(models.TooManyRedirects())
		}
		return models.ErrorStatus(models.Network(r.err))
	}
	if r.statusCode == 0 {
		return models.ErrorStatus(models.Network(errors.New("no response")))
	}

	if c.isAccepted(r.statusCode) {
		if r.redirected {
			return models.Redirected(r.statusCode)
		}
		return models.Ok(r.statusCode)
	}
	if r.statusCode >= 400 && r.statusCode < 600 {
		return models.ErrorStatus(models.HttpStatus(r.statusCode))
	}
	return models.UnknownStatusCode(r.statusCode)
}

func (c *Client) checkFragment(anchor, contentType string, body []byte) (models.Status, bool) {
	var idx fragment.Index
	var err error

	switch {
	case strings.Contains(strings.ToLower(contentType), "html"):
		idx, err = fragment.FromHTML(body)
	case strings.Contains(strings.ToLower(contentType), "markdown"):
		idx, err = fragment.FromMarkdown(body)
	case looksLikeHTML(body):
		idx, err = fragment.FromHTML(body)
	default:
		return models.Status{}, false
	}
	if err != nil {
		return models.Status{}, false
	}

	if idx.Has(anchor) {
		return models.Status{}, false
	}
	return models.ErrorStatus(models.FragmentMissing(anchor)), true
}

func looksLikeHTML(body []byte) bool {
	n := len(body)
	if n > 512 {
		n = 512
	}
	return strings.Contains(strings.ToLower(string(body[:n])), "<html")
}
