// Package store provides a SQLite-backed cache for simulation service responses.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register sqlite driver
)

const (
	// DefaultTTL is how long a cached response stays usable.
	DefaultTTL = 6 * time.Hour
	// DefaultMaxEntries bounds the number of cached responses.
	DefaultMaxEntries = 256
)

// Cache stores opaque response payloads with an explicit TTL and size bound.
type Cache struct {
	db         *sql.DB
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// Options configures a cache. Zero values fall back to the defaults.
type Options struct {
	TTL        time.Duration
	MaxEntries int
	Now        func() time.Time
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string, opts Options) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(2000)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	c := &Cache{db: db, ttl: opts.TTL, maxEntries: opts.MaxEntries, now: opts.Now}
	if c.ttl <= 0 {
		c.ttl = DefaultTTL
	}
	if c.maxEntries <= 0 {
		c.maxEntries = DefaultMaxEntries
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the payload for key if present and not expired. Expired rows are removed.
func (c *Cache) Get(key string) ([]byte, bool, error) {
	var (
		payload  []byte
		storedAt int64
	)
	err := c.db.QueryRow("SELECT payload, stored_at FROM simulation_cache WHERE cache_key = ?", key).Scan(&payload, &storedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache entry: %w", err)
	}

	if c.now().Sub(time.Unix(0, storedAt)) > c.ttl {
		if _, err := c.db.Exec("DELETE FROM simulation_cache WHERE cache_key = ?", key); err != nil {
			return nil, false, fmt.Errorf("evicting expired entry: %w", err)
		}
		return nil, false, nil
	}
	return payload, true, nil
}

// Put stores payload under key, then trims the table to the newest MaxEntries rows.
func (c *Cache) Put(key string, payload []byte) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`INSERT OR REPLACE INTO simulation_cache (cache_key, payload, stored_at) VALUES (?, ?, ?)`,
		key, payload, c.now().UnixNano()); err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM simulation_cache WHERE cache_key NOT IN (
		SELECT cache_key FROM simulation_cache ORDER BY stored_at DESC, cache_key LIMIT ?)`, c.maxEntries); err != nil {
		return fmt.Errorf("trimming cache: %w", err)
	}

	return tx.Commit()
}

// Purge removes every expired entry and returns how many were deleted.
func (c *Cache) Purge() (int64, error) {
	cutoff := c.now().Add(-c.ttl).UnixNano()
	res, err := c.db.Exec("DELETE FROM simulation_cache WHERE stored_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("purging cache: %w", err)
	}
	return res.RowsAffected()
}

// Len returns the number of stored entries, expired or not.
func (c *Cache) Len() (int, error) {
	var n int
	if err := c.db.QueryRow("SELECT COUNT(*) FROM simulation_cache").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
