// Package badger provides the optional durable backing for the response
// cache (C9): a thin badgerhold wrapper adapted from
// internal/storage/badger/connection.go, generalized from a general
// document KV store to a single cache-entry bucket.
package badger

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"
)

// Config controls where and how the persistent cache database is opened.
type Config struct {
	Path            string
	ResetOnStartup  bool
}

// DB manages the Badger database connection used by the cache store.
type DB struct {
	store  *badgerhold.Store
	logger arbor.ILogger
	config Config
}

// Open opens (creating if necessary) the Badger database at config.Path.
func Open(logger arbor.ILogger, config Config) (*DB, error) {
	if config.ResetOnStartup {
		if _, err := os.Stat(config.Path); err == nil {
			if logger != nil {
				logger.Debug().Str("path", config.Path).Msg("Deleting existing cache database (reset_on_startup=true)")
			}
			if err := os.RemoveAll(config.Path); err != nil && logger != nil {
				logger.Warn().Err(err).Str("path", config.Path).Msg("Failed to delete cache database directory")
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(config.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache database directory: %w", err)
	}

	if logger != nil {
		logger.Debug().Str("path", config.Path).Msg("Opening Badger cache database")
	}

	options := badgerhold.DefaultOptions
	options.Dir = config.Path
	options.ValueDir = config.Path
	options.Logger = nil // arbor handles logging instead

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	return &DB{store: store, logger: logger, config: config}, nil
}

// Store returns the underlying badgerhold store.
func (d *DB) Store() *badgerhold.Store { return d.store }

// Close closes the database connection.
func (d *DB) Close() error {
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}
