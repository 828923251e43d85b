package cache

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/ternarybob/linkcheck/internal/models"
)

// LoadCSV seeds the cache from the cache-file format of spec §6:
// "url,status_code,last_checked_epoch", one entry per line. Malformed
// lines are skipped; a status_code of 0 is treated as an error entry with
// no recorded HTTP code. No ecosystem CSV library appears anywhere in the
// pack, so this uses stdlib encoding/csv (justified in DESIGN.md).
func (c *Cache) LoadCSV(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return models.Io(err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate short/long lines; unknown fields ignored

	var entries []models.CacheEntry
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // malformed line: skip
		}
		entry, ok := parseCacheRecord(record)
		if !ok {
			continue
		}
		entries = append(entries, entry)
	}

	c.Seed(entries)
	return nil
}

func parseCacheRecord(record []string) (models.CacheEntry, bool) {
	if len(record) < 3 {
		return models.CacheEntry{}, false
	}

	url := record[0]
	code, err := strconv.Atoi(record[1])
	if err != nil {
		return models.CacheEntry{}, false
	}
	epoch, err := strconv.ParseInt(record[2], 10, 64)
	if err != nil {
		return models.CacheEntry{}, false
	}

	status := models.CacheStatus{Ok: code >= 200 && code < 300, Code: code}
	if !status.Ok {
		status.Error = models.HttpStatus(code)
	}

	return models.CacheEntry{
		Fingerprint: url,
		Status:      status,
		ObservedAt:  time.Unix(epoch, 0),
	}, true
}

// SaveCSV writes every in-memory entry to path in the spec §6 cache-file
// format.
func (c *Cache) SaveCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return models.Io(err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	for _, entry := range c.Snapshot() {
		code := entry.Status.Code
		if err := w.Write([]string{
			entry.Fingerprint,
			strconv.Itoa(code),
			strconv.FormatInt(entry.ObservedAt.Unix(), 10),
		}); err != nil {
			return models.Io(err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return models.Io(err)
	}
	return nil
}
