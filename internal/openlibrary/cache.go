package openlibrary

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const (
	cacheKeyPrefix = "search:"
	positiveTTL    = 90 * 24 * time.Hour
	negativeTTL    = 14 * 24 * time.Hour
)

// cacheEntry records one lookup. Found=false marks a negative result so
// books Open Library does not know are not queried on every run.
type cacheEntry struct {
	Found    bool      `json:"found"`
	Title    string    `json:"title,omitempty"`
	Author   string    `json:"author,omitempty"`
	Subjects []string  `json:"subjects,omitempty"`
	StoredAt time.Time `json:"stored_at"`
}

// Cache persists lookup results in badger. An empty directory keeps the
// cache in memory for the life of the process.
type Cache struct {
	db *badger.DB
}

// OpenCache opens (or creates) the cache at dir.
func OpenCache(dir string) (*Cache, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil // Disable Badger's internal logging
	opts.CompactL0OnClose = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open lookup cache: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying database.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

func (c *Cache) get(key string) (cacheEntry, bool, error) {
	var entry cacheEntry
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(cacheKeyPrefix + key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return cacheEntry{}, false, nil
	}
	if err != nil {
		return cacheEntry{}, false, err
	}
	return entry, true, nil
}

func (c *Cache) put(key string, entry cacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}
	ttl := positiveTTL
	if !entry.Found {
		ttl = negativeTTL
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry([]byte(cacheKeyPrefix+key), data).WithTTL(ttl))
	})
}

// Len counts cached lookups.
func (c *Cache) Len() (int, error) {
	count := 0
	err := c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(cacheKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// Clear drops every cached lookup.
func (c *Cache) Clear() error {
	return c.db.DropPrefix([]byte(cacheKeyPrefix))
}
