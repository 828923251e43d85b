// Package checker implements C7, the central checking engine: a
// capability-dispatching client over {website, file, mail} that owns
// retry, redirect, status-policy, cookie-jar, fragment-checking and
// rate-limit plumbing, per spec §4.7.
package checker

import (
	"context"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/linkcheck/internal/models"
	"github.com/ternarybob/linkcheck/internal/services/cache"
	"github.com/ternarybob/linkcheck/internal/services/filter"
	"github.com/ternarybob/linkcheck/internal/services/fragment"
	"github.com/ternarybob/linkcheck/internal/services/governor"
	"github.com/ternarybob/linkcheck/internal/services/mail"
	"github.com/ternarybob/linkcheck/internal/services/quirks"
)

// Config holds the per-request policy knobs from spec §6.
type Config struct {
	Method              models.Method
	AcceptedStatusCodes map[int]bool // nil/empty means "2xx"
	MaxRedirects        int
	RequestTimeout      time.Duration
	IncludeFragments    bool
	IncludeMail         bool
	UserAgent           string
	Headers             map[string]string
	BasicAuth           *models.Credentials
	GithubToken         models.Secret

	// MaxRetries is the maximum number of retries after the first attempt;
	// nil means "use DefaultRetryPolicy's attempt count" (unset), while a
	// pointer to 0 means retries were explicitly disabled — the zero value
	// of int can't carry that distinction on its own.
	MaxRetries           *int
	RetryWaitTime        time.Duration
	RetryWaitTimeMax     time.Duration
	RetryableStatusCodes []int
}

func (cfg Config) retryPolicy() *RetryPolicy {
	p := DefaultRetryPolicy()
	if cfg.MaxRetries != nil {
		p.MaxAttempts = *cfg.MaxRetries + 1
	}
	if cfg.RetryWaitTime > 0 {
		p.InitialBackoff = cfg.RetryWaitTime
	}
	if cfg.RetryWaitTimeMax > 0 {
		p.MaxBackoff = cfg.RetryWaitTimeMax
	}
	if len(cfg.RetryableStatusCodes) > 0 {
		p.RetryableStatusCodes = cfg.RetryableStatusCodes
	}
	return p
}

// Client is the checking engine. It owns the shared *http.Client (and
// therefore the cookie jar), the filter, cache, governor, quirks registry
// and retry policy — the explicit "global state, owned by the engine"
// objects called out in spec §9.
type Client struct {
	http      *http.Client
	filter    *filter.Filter
	cache     *cache.Cache
	governor  *governor.Governor
	quirks    *quirks.Registry
	mail      *mail.Checker
	retry     *RetryPolicy
	cfg       Config
	logger    arbor.ILogger

	stats *models.Stats
}

// New builds a Client. Any of filter/cache/gov/quirksReg/mailChecker may be
// nil; nil components reduce to "no policy applied" (every request
// matches the filter's default-accept behaviour, caching is skipped, etc.)
// except governor, which always falls back to an unbounded default so the
// engine never deadlocks on a nil dependency.
func New(httpClient *http.Client, f *filter.Filter, c *cache.Cache, gov *governor.Governor, quirksReg *quirks.Registry, mailChecker *mail.Checker, cfg Config, logger arbor.ILogger) *Client {
	if gov == nil {
		gov = governor.New(1<<20, 1<<20)
	}
	return &Client{
		http:     httpClient,
		filter:   f,
		cache:    c,
		governor: gov,
		quirks:   quirksReg,
		mail:     mailChecker,
		retry:    cfg.retryPolicy(),
		cfg:      cfg,
		logger:   logger,
		stats:    models.NewStats(),
	}
}

// Stats returns the Stats value this Client has been recording into.
func (c *Client) Stats() *models.Stats { return c.stats }

// Check implements the state machine of spec §4.7: filter, cache lookup,
// scheme dispatch, record. The returned Response is always terminal.
func (c *Client) Check(ctx context.Context, req models.Request) models.Response {
	method := c.cfg.Method
	if method == "" {
		method = models.MethodGet
	}

	if c.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.RequestTimeout)
		defer cancel()
	}

	status := c.checkOne(ctx, req)

	resp := models.Response{RequestSource: req.Source, Uri: req.Uri, Status: status, Method: method}
	c.stats.Record(resp)
	return resp
}

func (c *Client) checkOne(ctx context.Context, req models.Request) models.Status {
	if c.filter != nil {
		if d := c.filter.Check(req.Uri); !d.Accepted {
			if c.logger != nil {
				c.logger.Debug().Str("uri", req.Uri.String()).Str("reason", d.Reason).Msg("Excluded by filter")
			}
			return models.Excluded()
		}
	}

	fingerprint := req.Fingerprint()
	if c.cache != nil {
		if hit, ok := c.cache.Lookup(fingerprint); ok {
			return models.Cached(hit)
		}
	}

	status := c.dispatch(ctx, req)

	if c.cache != nil {
		c.cache.Record(fingerprint, toCacheStatus(status))
	}
	return status
}

func (c *Client) dispatch(ctx context.Context, req models.Request) models.Status {
	switch {
	case req.Uri.Scheme() == "http" || req.Uri.Scheme() == "https":
		return c.checkWebsite(ctx, req)
	case req.Uri.IsFile():
		return c.checkFile(ctx, req)
	case req.Uri.IsMail():
		return c.checkMail(ctx, req)
	default:
		return models.Unsupported()
	}
}

func (c *Client) checkMail(ctx context.Context, req models.Request) models.Status {
	if c.mail == nil {
		return models.Unsupported()
	}
	return c.mail.Check(ctx, req.Uri)
}

// toCacheStatus projects a terminal Status onto the coarser CacheStatus
// shape the cache stores, per spec §3 ("CacheStatus ∈ {Ok(code), Error(code?)}").
func toCacheStatus(s models.Status) models.CacheStatus {
	switch s.Kind {
	case models.StatusOk, models.StatusRedirected:
		return models.CacheStatus{Ok: true, Code: s.Code}
	case models.StatusUnknownStatusCode:
		return models.CacheStatus{Ok: false, Code: s.Code, Error: models.HttpStatus(s.Code)}
	case models.StatusError:
		return models.CacheStatus{Ok: false, Error: s.Err}
	default:
		return models.CacheStatus{Ok: false}
	}
}

func (c *Client) isAccepted(code int) bool {
	if len(c.cfg.AcceptedStatusCodes) == 0 {
		return code >= 200 && code < 300
	}
	return c.cfg.AcceptedStatusCodes[code]
}
