// Package session holds state scoped to a single analysis run.
package session

import "github.com/wonny/marcus/internal/contracts"

// entry remembers both hits and misses
type entry struct {
	quote contracts.Quote
	ok    bool
}

// Cache is the per-run fetch cache keyed by ticker.
// Create one per run and drop it afterwards. Runs are sequential, so no locking.
type Cache struct {
	entries map[string]entry
}

// NewCache creates an empty cache
func NewCache() *Cache {
	return &Cache{entries: make(map[string]entry)}
}

// Get returns the cached outcome. found reports whether the ticker was seen
// this session; ok is the recorded fetch outcome.
func (c *Cache) Get(ticker string) (q contracts.Quote, ok bool, found bool) {
	e, found := c.entries[ticker]
	if !found {
		return contracts.Quote{}, false, false
	}
	return e.quote, e.ok, true
}

// Put records a successful fetch
func (c *Cache) Put(ticker string, q contracts.Quote) {
	c.entries[ticker] = entry{quote: q, ok: true}
}

// PutMiss records a failed fetch so the ticker is not retried this session
func (c *Cache) PutMiss(ticker string) {
	c.entries[ticker] = entry{}
}

// Len returns the number of tickers seen
func (c *Cache) Len() int {
	return len(c.entries)
}
