// Package cache provides a small TTL key/value cache backed by BadgerDB,
// used to memoize embedding vectors across runs.
package cache

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// ErrKeyNotFound is returned when a key is not present in the cache.
var ErrKeyNotFound = errors.New("key not found in cache")

// Cache defines the standard caching operations.
type Cache interface {
	// Set stores a value with a TTL. A zero TTL stores without expiry.
	Set(key string, value []byte, ttl time.Duration) error
	// Get retrieves a value, or ErrKeyNotFound.
	Get(key string) ([]byte, error)
	// Delete removes a value.
	Delete(key string) error
	// Close closes the cache.
	Close() error
}

// BadgerCache implements Cache on a BadgerDB directory.
type BadgerCache struct {
	db *badger.DB
}

// NewBadgerCache opens (or creates) a BadgerDB-backed cache at path.
func NewBadgerCache(path string) (*BadgerCache, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // badger's own logging is noisy at default levels

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}
	return &BadgerCache{db: db}, nil
}

// Set stores a value, expiring after ttl when ttl > 0.
func (c *BadgerCache) Set(key string, value []byte, ttl time.Duration) error {
	return c.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), value)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
}

// Get retrieves a value.
func (c *BadgerCache) Get(key string) ([]byte, error) {
	var val []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	return val, nil
}

// Delete removes a value.
func (c *BadgerCache) Delete(key string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Close closes the underlying database.
func (c *BadgerCache) Close() error {
	return c.db.Close()
}
