package checker

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/ternarybob/arbor"
)

// RetryPolicy implements the retry/backoff rules of spec §4.7e: exponential
// backoff with jitter, a fixed retryable-status-code table, and honouring a
// Retry-After response header when present. Ported nearly verbatim from
// internal/services/crawler/retry.go, generalized to read Retry-After and
// to work over checkFn attempts instead of a bare (status, error) pair.
type RetryPolicy struct {
	MaxAttempts          int
	InitialBackoff       time.Duration
	MaxBackoff           time.Duration
	BackoffMultiplier    float64
	RetryableStatusCodes []int
}

// DefaultRetryPolicy matches spec §4.7e's defaults: retry 429/502/503/504.
func DefaultRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxAttempts:          3,
		InitialBackoff:       time.Second,
		MaxBackoff:           30 * time.Second,
		BackoffMultiplier:    2.0,
		RetryableStatusCodes: []int{429, 502, 503, 504},
	}
}

// attempt is one execution of the wrapped check: the resulting status code
// (0 if the attempt errored before getting a response), the response
// headers (for Retry-After), and the error.
type attemptResult struct {
	statusCode   int
	header       http.Header
	err          error
	redirected   bool
}

func (p *RetryPolicy) isRetryableStatusCode(code int) bool {
	for _, c := range p.RetryableStatusCodes {
		if code == c {
			return true
		}
	}
	return false
}

func (p *RetryPolicy) shouldRetry(attempt int, r attemptResult) bool {
	if attempt >= p.MaxAttempts-1 {
		return false
	}
	if r.statusCode > 0 {
		if p.isRetryableStatusCode(r.statusCode) {
			return true
		}
		if r.statusCode >= 400 && r.statusCode < 500 {
			return false
		}
	}
	if r.err != nil {
		return isRetryableError(r.err)
	}
	return false
}

// backoff computes the exponential-with-jitter wait for attempt, capped at
// MaxBackoff, honouring a Retry-After header when the server sent one.
func (p *RetryPolicy) backoff(attempt int, header http.Header) time.Duration {
	if header != nil {
		if d, ok := retryAfter(header); ok {
			return d
		}
	}

	wait := float64(p.InitialBackoff) * math.Pow(p.BackoffMultiplier, float64(attempt))
	if wait > float64(p.MaxBackoff) {
		wait = float64(p.MaxBackoff)
	}

	jitter := wait * 0.25 * (rand.Float64()*2 - 1)
	wait += jitter
	if wait < 0 {
		wait = float64(p.InitialBackoff)
	}
	return time.Duration(wait)
}

func retryAfter(header http.Header) (time.Duration, bool) {
	v := header.Get("Retry-After")
	if v == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, true
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d, true
		}
	}
	return 0, false
}

// executeWithRetry runs fn up to MaxAttempts times, sleeping between
// attempts per backoff/Retry-After, and reports how many retries were
// performed (for Stats.RecordRetry) via onWait.
func (p *RetryPolicy) executeWithRetry(ctx context.Context, logger arbor.ILogger, onWait func(time.Duration), fn func() attemptResult) attemptResult {
	var last attemptResult

	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		last = fn()

		if last.err == nil && !p.isRetryableStatusCode(last.statusCode) {
			return last
		}
		if !p.shouldRetry(attempt, last) {
			return last
		}

		wait := p.backoff(attempt, last.header)
		if logger != nil {
			logger.Debug().
				Int("attempt", attempt+1).
				Int("status_code", last.statusCode).
				Dur("wait", wait).
				Msg("Retrying after backoff")
		}
		if onWait != nil {
			onWait(wait)
		}

		select {
		case <-ctx.Done():
			last.err = ctx.Err()
			return last
		case <-time.After(wait):
		}
	}

	return last
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	return false
}
