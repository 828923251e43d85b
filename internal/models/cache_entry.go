package models

import "time"

// CacheEntry is one row of the ResponseCache (C9): the terminal verdict
// observed for a request fingerprint, and when it was observed. At most
// one entry exists per fingerprint; "first terminal verdict wins within a
// run" per spec §5.
type CacheEntry struct {
	Fingerprint string
	Status      CacheStatus
	ObservedAt  time.Time
}

// IsExpired reports whether the entry is older than maxAge for a success
// entry, or maxAgeError for an error entry (spec §4.9).
func (e CacheEntry) IsExpired(now time.Time, maxAge, maxAgeError time.Duration) bool {
	age := now.Sub(e.ObservedAt)
	if e.Status.Ok {
		return age > maxAge
	}
	return age > maxAgeError
}
