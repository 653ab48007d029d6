// Package cache implements the staleness-aware offline cache consulted
// for prices and set metadata.
//
// Entries are never trusted over the network: callers attempt the
// remote source first, overwrite the cache on success, and only fall
// back to a cached value (fresh or stale) when the remote call fails.
// A stale entry is therefore a feature, not an error.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Freshness classifies a cache read.
type Freshness int

const (
	// Miss means the key has never been stored.
	Miss Freshness = iota
	// Fresh means the entry is younger than the TTL.
	Fresh
	// Stale means the entry is past the TTL but still usable when the
	// remote source is unreachable.
	Stale
)

func (f Freshness) String() string {
	switch f {
	case Miss:
		return "miss"
	case Fresh:
		return "fresh"
	case Stale:
		return "stale"
	}
	return "unknown"
}

var bucketEntries = []byte("entries")

type entry struct {
	Value    json.RawMessage `json:"value"`
	CachedAt time.Time       `json:"cached_at"`
}

// Cache is a key/value cache with a freshness horizon. It keeps a hot
// in-memory copy of every entry and optionally persists to a bbolt file
// so cached prices and set metadata survive restarts.
type Cache struct {
	ttl time.Duration
	db  *bolt.DB

	mu  sync.RWMutex
	mem map[string]entry

	now func() time.Time
}

// New opens a cache at path with the given freshness TTL. An empty path
// yields a memory-only cache (no persistence). Persisted entries are
// loaded eagerly so reads never touch disk.
func New(path string, ttl time.Duration) (*Cache, error) {
	c := &Cache{
		ttl: ttl,
		mem: make(map[string]entry),
		now: time.Now,
	}
	if path == "" {
		return c, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketEntries)
		if err != nil {
			return err
		}
		return b.ForEach(func(k, v []byte) error {
			var e entry
			if err := json.Unmarshal(v, &e); err != nil {
				// Skip undecodable leftovers from older versions.
				return nil
			}
			c.mem[string(k)] = e
			return nil
		})
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("load cache entries: %w", err)
	}

	c.db = db
	return c, nil
}

// Put stores value under key, stamping it with the current time. Any
// previous entry is overwritten regardless of age.
func (c *Cache) Put(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache value: %w", err)
	}
	e := entry{Value: raw, CachedAt: c.now()}

	c.mu.Lock()
	c.mem[key] = e
	c.mu.Unlock()

	if c.db == nil {
		return nil
	}

	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	err = c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketEntries).Put([]byte(key), payload)
	})
	if err != nil {
		return fmt.Errorf("persist cache entry: %w", err)
	}
	return nil
}

// Get decodes the entry stored under key into out and reports its
// freshness. On Miss, out is untouched and the error is nil: a miss is
// a valid state, not a failure.
func (c *Cache) Get(key string, out any) (Freshness, error) {
	c.mu.RLock()
	e, ok := c.mem[key]
	c.mu.RUnlock()

	if !ok {
		return Miss, nil
	}

	if err := json.Unmarshal(e.Value, out); err != nil {
		return Miss, fmt.Errorf("decode cache value: %w", err)
	}

	if c.now().Sub(e.CachedAt) < c.ttl {
		return Fresh, nil
	}
	return Stale, nil
}

// Close releases the underlying database, if any.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}
