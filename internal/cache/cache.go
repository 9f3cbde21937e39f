// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache stores normalized aggregation results in a local SQLite
// database for a bounded time-to-live, so repeated searches with identical
// parameters within the interval skip the provider round trips.
package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/trend-report/internal/aggregate"
	"github.com/pdiddy/trend-report/pkg/types"
)

const (
	dbFile     = "trend-report.db"
	defaultTTL = time.Hour
)

// Cache manages the result cache SQLite database. Each entry is keyed by
// the keyword set and window that produced it and expires after the TTL.
type Cache struct {
	db  *sql.DB
	ttl time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex // per-key single-writer locks
}

// New opens or creates the cache database at cfg.Dir/trend-report.db,
// creating the schema if needed.
func New(cfg types.CacheConfig) (*Cache, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "cache"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}

	c := &Cache{
		db:    db,
		ttl:   ttl,
		locks: make(map[string]*sync.Mutex),
	}

	if err := c.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return c, nil
}

// Close releases the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) createSchema() error {
	_, err := c.db.Exec(`CREATE TABLE IF NOT EXISTS results (
		key TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		payload TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Key derives the cache key for a keyword set and window. Keywords are
// sorted and lowercased first so logically identical searches share an
// entry regardless of input order.
func Key(keywords []string, windowDays int) string {
	normalized := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		normalized = append(normalized, strings.ToLower(strings.TrimSpace(kw)))
	}
	sort.Strings(normalized)

	h := sha256.New()
	fmt.Fprintf(h, "%d\n", windowDays)
	for _, kw := range normalized {
		fmt.Fprintln(h, kw)
	}
	return fmt.Sprintf("%x", h.Sum(nil))[:16]
}

// Get returns the cached output for key if a fresh entry exists.
func (c *Cache) Get(key string, now time.Time) (aggregate.Output, bool, error) {
	var createdAt, payload string
	err := c.db.QueryRow(`SELECT created_at, payload FROM results WHERE key = ?`, key).
		Scan(&createdAt, &payload)
	if err == sql.ErrNoRows {
		return aggregate.Output{}, false, nil
	}
	if err != nil {
		return aggregate.Output{}, false, fmt.Errorf("querying cache: %w", err)
	}

	created, err := time.Parse(time.RFC3339, createdAt)
	if err != nil || now.Sub(created) > c.ttl {
		return aggregate.Output{}, false, nil
	}

	var out aggregate.Output
	if err := json.Unmarshal([]byte(payload), &out); err != nil {
		return aggregate.Output{}, false, fmt.Errorf("decoding cached payload: %w", err)
	}
	return out, true, nil
}

// Put stores the output under key, replacing any previous entry.
func (c *Cache) Put(key string, out aggregate.Output, now time.Time) error {
	payload, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	_, err = c.db.Exec(
		`INSERT OR REPLACE INTO results (key, created_at, payload) VALUES (?, ?, ?)`,
		key, now.UTC().Format(time.RFC3339), string(payload))
	if err != nil {
		return fmt.Errorf("storing cache entry: %w", err)
	}
	return nil
}

// GetOrFill returns the cached output for key, or runs fill exactly once to
// produce and store it. Concurrent callers with the same key serialize on a
// per-key lock, so a miss triggers a single fetch-and-store cycle and the
// rest read the stored entry. The bool result reports a cache hit.
func (c *Cache) GetOrFill(ctx context.Context, key string, now time.Time, fill func(context.Context) (aggregate.Output, error)) (aggregate.Output, bool, error) {
	lock := c.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	out, ok, err := c.Get(key, now)
	if err != nil {
		return aggregate.Output{}, false, err
	}
	if ok {
		return out, true, nil
	}

	out, err = fill(ctx)
	if err != nil {
		return aggregate.Output{}, false, err
	}
	if err := c.Put(key, out, now); err != nil {
		return aggregate.Output{}, false, err
	}
	return out, false, nil
}

func (c *Cache) keyLock(key string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	lock, ok := c.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[key] = lock
	}
	return lock
}

// Purge deletes expired entries and returns how many were removed.
func (c *Cache) Purge(now time.Time) (int, error) {
	cutoff := now.Add(-c.ttl).UTC().Format(time.RFC3339)
	res, err := c.db.Exec(`DELETE FROM results WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purging cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
