package models

import "sync"

// Stats is the aggregator's (C10) output: monotonic counters over Status
// variants, plus per-input buckets and a failures list. It is constructed
// empty and mutated only by the aggregator; callers read it after the
// response stream is exhausted.
type Stats struct {
	mu sync.Mutex

	Total       int
	Successful  int
	Redirected  int
	Excluded    int
	Unsupported int
	Cached      int
	Failed      int
	Timeouts    int

	ByInput  map[string][]Response
	Failures []Response

	Retries     int
	TotalWait   int64 // nanoseconds spent in retry backoff, for reporting
}

// NewStats returns an empty Stats ready for Record calls.
func NewStats() *Stats {
	return &Stats{ByInput: make(map[string][]Response)}
}

// Record folds one Response into the running totals. Safe for concurrent
// use — it is the only mutation point the aggregator exposes.
func (s *Stats) Record(resp Response) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Total++
	s.ByInput[resp.RequestSource] = append(s.ByInput[resp.RequestSource], resp)

	switch resp.Status.Kind {
	case StatusOk, StatusRedirected:
		s.Successful++
		if resp.Status.Kind == StatusRedirected {
			s.Redirected++
		}
	case StatusExcluded:
		s.Excluded++
	case StatusUnsupported:
		s.Unsupported++
	case StatusCached:
		s.Cached++
		if resp.Status.Cache.Ok {
			s.Successful++
		} else {
			s.Failed++
			s.Failures = append(s.Failures, resp)
		}
	case StatusTimeout:
		s.Timeouts++
		s.Failed++
		s.Failures = append(s.Failures, resp)
	case StatusError, StatusUnknownStatusCode:
		s.Failed++
		s.Failures = append(s.Failures, resp)
	}
}

// RecordRetry tracks one retry attempt and the wait spent before it, for
// reporting purposes only — it does not affect pass/fail counts.
func (s *Stats) RecordRetry(waitNanos int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Retries++
	s.TotalWait += waitNanos
}

// Snapshot returns a shallow copy of the counters safe to read without
// holding the lock further (slices are shared but Stats is never mutated
// again once the response stream is exhausted).
func (s *Stats) Snapshot() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *s
	cp.mu = sync.Mutex{}
	return cp
}
