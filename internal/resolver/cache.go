package resolver

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/nulln0ne/casper-swap-estimator/pkg/keycodec"
)

// Cache remembers where each pair was last found and its last reserves.
// It is safe for concurrent use and last-write-wins. Nothing depends on it
// for correctness: entries only save probes and back the stale fallback.
type Cache struct {
	lru *expirable.LRU[keycodec.PairKey, PairLocation]
}

// NewCache returns a cache holding up to size pairs (0 for unbounded).
// A ttl of 0 keeps entries until evicted or invalidated.
func NewCache(size int, ttl time.Duration) *Cache {
	return &Cache{lru: expirable.NewLRU[keycodec.PairKey, PairLocation](size, nil, ttl)}
}

func (c *Cache) Get(pk keycodec.PairKey) (PairLocation, bool) {
	loc, ok := c.lru.Get(pk)
	if !ok {
		return PairLocation{}, false
	}
	return loc.clone(), true
}

func (c *Cache) Put(pk keycodec.PairKey, loc PairLocation) {
	c.lru.Add(pk, loc.clone())
}

func (c *Cache) Remove(pk keycodec.PairKey) {
	c.lru.Remove(pk)
}

// Purge drops every entry.
func (c *Cache) Purge() {
	c.lru.Purge()
}

func (c *Cache) Len() int {
	return c.lru.Len()
}
