// Package aggregator implements C10: folding a stream of Response values
// into a terminal Stats value. No new third-party dependency is needed
// here — Stats itself (internal/models/stats.go) already holds the
// counters and bucketed slices in the same shape the teacher's own
// Stats-like structs use elsewhere, so this package is a thin pass-through
// rather than a place that benefits from a library.
package aggregator

import "github.com/ternarybob/linkcheck/internal/models"

// Aggregator folds Response values into a Stats value as they arrive.
type Aggregator struct {
	stats *models.Stats
}

// New builds an Aggregator over a fresh Stats value.
func New() *Aggregator {
	return &Aggregator{stats: models.NewStats()}
}

// Record folds one Response into the running Stats.
func (a *Aggregator) Record(resp models.Response) {
	a.stats.Record(resp)
}

// Stats returns a point-in-time copy of the aggregated counters, safe to
// read while Record is still being called concurrently.
func (a *Aggregator) Stats() models.Stats {
	return a.stats.Snapshot()
}
