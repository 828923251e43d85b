// Package governor implements C8: a per-host plus global concurrency
// limiter, plus an optional per-host request-rate pace. Generalized from
// internal/services/crawler/rate_limiter.go's per-domain map+mutex shape
// — where that limiter held a last-request timestamp and delay per
// domain, this one holds a buffered channel semaphore per host plus one
// global semaphore, acquired global-then-host and released in reverse
// order per spec §4.8. The pacing half is grounded on
// internal/services/navexa/client.go's golang.org/x/time/rate.Limiter
// ("c.limiter.Wait(ctx)" before every outbound call), applied per host
// instead of per API client.
package governor

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// Governor bounds in-flight requests globally and per host, and — when
// requestsPerSecond is positive — paces requests to each host.
type Governor struct {
	global chan struct{}

	mu         sync.Mutex
	perHost    map[string]chan struct{}
	maxPerHost int

	rps      rate.Limit
	limiters map[string]*rate.Limiter
}

// New builds a Governor with a global concurrency cap and a default
// per-host cap applied to every host seen for the first time.
// requestsPerSecond <= 0 disables pacing entirely (concurrency caps only).
func New(maxGlobal, maxPerHost int, requestsPerSecond ...float64) *Governor {
	if maxGlobal <= 0 {
		maxGlobal = 1
	}
	if maxPerHost <= 0 {
		maxPerHost = 1
	}
	var rps float64
	if len(requestsPerSecond) > 0 {
		rps = requestsPerSecond[0]
	}
	return &Governor{
		global:     make(chan struct{}, maxGlobal),
		perHost:    make(map[string]chan struct{}),
		maxPerHost: maxPerHost,
		rps:        rate.Limit(rps),
		limiters:   make(map[string]*rate.Limiter),
	}
}

// Release is returned by Acquire; calling it frees both permits, host
// first then global — the reverse of acquisition order.
type Release func()

// Acquire blocks until both a global permit and a permit for host are
// available, or ctx is done. An empty host shares the governor's default
// lane with every other unknown host, per spec §4.8. If the governor was
// built with a positive request rate, Acquire additionally waits for that
// host's rate.Limiter to admit one token before returning.
func (g *Governor) Acquire(ctx context.Context, host string) (Release, error) {
	select {
	case g.global <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	lane := g.laneFor(host)
	select {
	case lane <- struct{}{}:
	case <-ctx.Done():
		<-g.global
		return nil, ctx.Err()
	}

	if g.rps > 0 {
		if err := g.limiterFor(host).Wait(ctx); err != nil {
			<-lane
			<-g.global
			return nil, err
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-lane
			<-g.global
		})
	}, nil
}

func (g *Governor) laneFor(host string) chan struct{} {
	if host == "" {
		host = defaultLane
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	lane, ok := g.perHost[host]
	if !ok {
		lane = make(chan struct{}, g.maxPerHost)
		g.perHost[host] = lane
	}
	return lane
}

func (g *Governor) limiterFor(host string) *rate.Limiter {
	if host == "" {
		host = defaultLane
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	l, ok := g.limiters[host]
	if !ok {
		l = rate.NewLimiter(g.rps, 1)
		g.limiters[host] = l
	}
	return l
}

const defaultLane = "\x00default"

// HostOf extracts the bare host (no port) a Governor lane should key on
// from a raw URL string, mirroring
// internal/services/crawler/rate_limiter.go's extractDomain helper.
func HostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
