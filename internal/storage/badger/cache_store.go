package badger

import (
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/linkcheck/internal/models"
)

// cacheRecord is the badgerhold-persisted shape of a models.CacheEntry.
// ErrorKind's fields are private, so a failure entry is flattened to its
// kind/code/reason and reconstructed via models.RestoreErrorKind.
type cacheRecord struct {
	Fingerprint string `boltholdKey:"Fingerprint"`
	Ok          bool
	Code        int
	ErrKind     string
	ErrReason   string
	ErrCode     int
	ObservedAt  time.Time
}

// CacheStore adapts a DB into the cache.Store interface the in-memory
// Cache uses for durable backing.
type CacheStore struct {
	db *DB
}

// NewCacheStore wraps db for use as the response cache's persistent store.
func NewCacheStore(db *DB) *CacheStore {
	return &CacheStore{db: db}
}

func (s *CacheStore) Get(fingerprint string) (models.CacheEntry, bool, error) {
	var rec cacheRecord
	err := s.db.Store().Get(fingerprint, &rec)
	if err == badgerhold.ErrNotFound {
		return models.CacheEntry{}, false, nil
	}
	if err != nil {
		return models.CacheEntry{}, false, err
	}
	return recordToEntry(rec), true, nil
}

func (s *CacheStore) Put(entry models.CacheEntry) error {
	return s.db.Store().Upsert(entry.Fingerprint, entryToRecord(entry))
}

func (s *CacheStore) All() ([]models.CacheEntry, error) {
	var recs []cacheRecord
	if err := s.db.Store().Find(&recs, nil); err != nil {
		return nil, err
	}
	out := make([]models.CacheEntry, 0, len(recs))
	for _, r := range recs {
		out = append(out, recordToEntry(r))
	}
	return out, nil
}

func entryToRecord(e models.CacheEntry) cacheRecord {
	rec := cacheRecord{
		Fingerprint: e.Fingerprint,
		Ok:          e.Status.Ok,
		Code:        e.Status.Code,
		ObservedAt:  e.ObservedAt,
	}
	if e.Status.Error != nil {
		rec.ErrKind = e.Status.Error.Kind()
		rec.ErrCode = e.Status.Error.Code()
		rec.ErrReason = e.Status.Error.Error()
	}
	return rec
}

func recordToEntry(rec cacheRecord) models.CacheEntry {
	status := models.CacheStatus{Ok: rec.Ok, Code: rec.Code}
	if rec.ErrKind != "" {
		status.Error = models.RestoreErrorKind(rec.ErrKind, rec.ErrCode, rec.ErrReason)
	}
	return models.CacheEntry{
		Fingerprint: rec.Fingerprint,
		Status:      status,
		ObservedAt:  rec.ObservedAt,
	}
}
